package census

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ArrowTable is the struct-of-arrays shape: the data is held physically
// columnar in an Apache Arrow record with one utf8 column per field.
//
// The record is allocated from the Go allocator, so calling Release is
// optional; it frees the buffers early for large extents.
type ArrowTable struct {
	rec arrow.Record
}

func (t *ArrowTable) Shape() Shape { return ShapeArrow }

func (t *ArrowTable) Names() []string {
	fields := t.rec.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func (t *ArrowTable) Len() int { return int(t.rec.NumRows()) }

// Record returns the underlying Arrow record. Callers that keep it beyond
// the lifetime of t must Retain it.
func (t *ArrowTable) Record() arrow.Record { return t.rec }

// Release drops the table's reference to the record buffers.
func (t *ArrowTable) Release() { t.rec.Release() }

func (t *ArrowTable) ColumnMajor() *Columns {
	names := t.Names()
	n := t.Len()
	cols := make([][]string, len(names))
	for j := range names {
		arr := t.rec.Column(j).(*array.String)
		col := make([]string, n)
		for i := range col {
			col[i] = arr.Value(i)
		}
		cols[j] = col
	}
	return newColumns(&frame{names: names, cols: cols, n: n})
}

// MarshalJSON encodes the table the same way as [Columns].
func (t *ArrowTable) MarshalJSON() ([]byte, error) {
	return t.ColumnMajor().MarshalJSON()
}

// arrowSchema returns a schema with one non-nullable string field per name.
func arrowSchema(names []string) *arrow.Schema {
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String}
	}
	return arrow.NewSchema(fields, nil)
}

func newArrowTable(f *frame) *ArrowTable {
	b := array.NewRecordBuilder(memory.NewGoAllocator(), arrowSchema(f.names))
	defer b.Release()
	for j, col := range f.cols {
		b.Field(j).(*array.StringBuilder).AppendValues(col, nil)
	}
	return &ArrowTable{rec: b.NewRecord()}
}

// ToArrow returns r as an [ArrowTable], converting through the columnar
// form when r has another shape.
func ToArrow(r Result) *ArrowTable {
	if t, ok := r.(*ArrowTable); ok {
		return t
	}
	c := r.ColumnMajor()
	return newArrowTable(c.frame())
}
