package census

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"

	errs "github.com/matzehuels/censusacs/pkg/errors"
)

// Shape selects the in-memory representation returned by [Reshape].
type Shape string

// Supported output shapes. All four are views over the same data.
const (
	// ShapeTable is a row table: ordered rows sharing one column schema.
	ShapeTable Shape = "table"
	// ShapeArrow is struct-of-arrays: an Apache Arrow record with one string column per field.
	ShapeArrow Shape = "arrow"
	// ShapeRecords is a sequence of immutable keyed records, one per row.
	ShapeRecords Shape = "records"
	// ShapeColumns is a single mapping from column name to its full column.
	ShapeColumns Shape = "columns"
)

var shapeAliases = map[string]Shape{
	"":          ShapeTable,
	"table":     ShapeTable,
	"dataframe": ShapeTable,
	"arrow":     ShapeArrow,
	"struct":    ShapeArrow,
	"records":   ShapeRecords,
	"dicts":     ShapeRecords,
	"columns":   ShapeColumns,
	"dict":      ShapeColumns,
}

// ParseShape parses a shape tag. The empty string selects [ShapeTable].
func ParseShape(s string) (Shape, error) {
	if sh, ok := shapeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return sh, nil
	}
	return "", errs.New(errs.ErrCodeInvalidArgument, "unknown output shape %q (want table, arrow, records or columns)", s)
}

// Result is a reshaped ACS response. Cells are the API's strings, never
// coerced: FIPS components keep their leading zeros and numeric parsing is
// left to the caller. Results are immutable and owned by the caller.
type Result interface {
	// Shape reports which representation this is.
	Shape() Shape
	// Names returns the column names, GEOID last.
	Names() []string
	// Len returns the number of data rows.
	Len() int
	// ColumnMajor normalizes the result to the columnar mapping.
	ColumnMajor() *Columns
}

// =============================================================================
// Table
// =============================================================================

// Table is the row-table shape.
type Table struct {
	names []string
	rows  [][]string
}

func (t *Table) Shape() Shape      { return ShapeTable }
func (t *Table) Names() []string   { return slices.Clone(t.names) }
func (t *Table) Len() int          { return len(t.rows) }
func (t *Table) Row(i int) []string { return slices.Clone(t.rows[i]) }

// Value returns the cell at row i in the named column.
func (t *Table) Value(i int, col string) (string, bool) {
	j := slices.Index(t.names, col)
	if j < 0 || i < 0 || i >= len(t.rows) {
		return "", false
	}
	return t.rows[i][j], true
}

func (t *Table) ColumnMajor() *Columns {
	cols := make([][]string, len(t.names))
	for j := range t.names {
		col := make([]string, len(t.rows))
		for i, row := range t.rows {
			col[i] = row[j]
		}
		cols[j] = col
	}
	return newColumns(&frame{names: t.names, cols: cols, n: len(t.rows)})
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...], ...]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.rows
	if rows == nil {
		rows = [][]string{}
	}
	return json.Marshal(struct {
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}{nonNil(t.names), rows})
}

func newTable(f *frame) *Table {
	rows := make([][]string, f.n)
	for i := range rows {
		row := make([]string, len(f.names))
		for j, col := range f.cols {
			row[j] = col[i]
		}
		rows[i] = row
	}
	return &Table{names: slices.Clone(f.names), rows: rows}
}

// =============================================================================
// Records
// =============================================================================

// Record is one data row keyed by column name.
type Record struct {
	names  []string
	values []string
}

// Get returns the value of the named column.
func (r Record) Get(col string) (string, bool) {
	if j := slices.Index(r.names, col); j >= 0 {
		return r.values[j], true
	}
	return "", false
}

// Map returns a copy of the record as a map.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.names))
	for j, name := range r.names {
		m[name] = r.values[j]
	}
	return m
}

// MarshalJSON encodes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	return marshalObject(r.names, func(j int) any { return r.values[j] })
}

// Records is the sequence-of-records shape.
type Records struct {
	names []string
	items []Record
}

func (r *Records) Shape() Shape    { return ShapeRecords }
func (r *Records) Names() []string { return slices.Clone(r.names) }
func (r *Records) Len() int        { return len(r.items) }

// At returns the i-th record.
func (r *Records) At(i int) Record { return r.items[i] }

// All iterates over the records in GEOID order.
func (r *Records) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, rec := range r.items {
			if !yield(i, rec) {
				return
			}
		}
	}
}

func (r *Records) ColumnMajor() *Columns {
	cols := make([][]string, len(r.names))
	for j := range r.names {
		col := make([]string, len(r.items))
		for i, rec := range r.items {
			col[i] = rec.values[j]
		}
		cols[j] = col
	}
	return newColumns(&frame{names: r.names, cols: cols, n: len(r.items)})
}

// Decode copies the records into out, which must be a pointer to a slice of
// structs or maps. Struct fields are matched by their `census` tag (or
// name, case-insensitively) and numeric fields are parsed from the strings:
//
//	type County struct {
//	    Name       string `census:"NAME"`
//	    Population int    `census:"B01003_001E"`
//	    GEOID      string `census:"GEOID"`
//	}
//	var counties []County
//	err := records.Decode(&counties)
func (r *Records) Decode(out any) error {
	maps := make([]map[string]string, len(r.items))
	for i, rec := range r.items {
		maps[i] = rec.Map()
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "census",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidArgument, err, "decode target")
	}
	if err := dec.Decode(maps); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidArgument, err, "decode records")
	}
	return nil
}

// MarshalJSON encodes the records as an array of objects.
func (r *Records) MarshalJSON() ([]byte, error) {
	items := r.items
	if items == nil {
		items = []Record{}
	}
	return json.Marshal(items)
}

func newRecords(f *frame) *Records {
	names := slices.Clone(f.names)
	items := make([]Record, f.n)
	for i := range items {
		values := make([]string, len(names))
		for j, col := range f.cols {
			values[j] = col[i]
		}
		items[i] = Record{names: names, values: values}
	}
	return &Records{names: names, items: items}
}

// =============================================================================
// Columns
// =============================================================================

// Columns is the columnar-mapping shape and the normal form all results
// convert to with ColumnMajor.
type Columns struct {
	names []string
	data  map[string][]string
	n     int
}

func (c *Columns) Shape() Shape          { return ShapeColumns }
func (c *Columns) Names() []string       { return slices.Clone(c.names) }
func (c *Columns) Len() int              { return c.n }
func (c *Columns) ColumnMajor() *Columns { return c }

// Column returns a copy of the named column.
func (c *Columns) Column(name string) ([]string, bool) {
	col, ok := c.data[name]
	return slices.Clone(col), ok
}

// Equal reports whether c and o hold the same columns, in the same order,
// with the same values.
func (c *Columns) Equal(o *Columns) bool {
	if c.n != o.n || !slices.Equal(c.names, o.names) {
		return false
	}
	for _, name := range c.names {
		if !slices.Equal(c.data[name], o.data[name]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the mapping as an object with keys in column order.
func (c *Columns) MarshalJSON() ([]byte, error) {
	return marshalObject(c.names, func(j int) any { return nonNil(c.data[c.names[j]]) })
}

func newColumns(f *frame) *Columns {
	data := make(map[string][]string, len(f.names))
	for j, name := range f.names {
		data[name] = slices.Clone(f.cols[j])
	}
	return &Columns{names: slices.Clone(f.names), data: data, n: f.n}
}

// NewColumns builds a columnar result from parallel names and columns, for
// data that did not come from [Reshape] (a previously exported file, say).
// Every column must have the same length and names must be unique.
func NewColumns(names []string, cols [][]string) (*Columns, error) {
	if len(names) != len(cols) {
		return nil, errs.New(errs.ErrCodeInvalidArgument, "%d names for %d columns", len(names), len(cols))
	}
	n := 0
	if len(cols) > 0 {
		n = len(cols[0])
	}
	seen := make(map[string]bool, len(names))
	for j, name := range names {
		if name == "" || seen[name] {
			return nil, errs.New(errs.ErrCodeInvalidArgument, "empty or duplicate column name %q", name)
		}
		seen[name] = true
		if len(cols[j]) != n {
			return nil, errs.New(errs.ErrCodeInvalidArgument, "column %q has %d values, want %d", name, len(cols[j]), n)
		}
	}
	return newColumns(&frame{names: names, cols: cols, n: n}), nil
}

// Convert returns r in the requested shape. r itself is returned when it
// already has that shape.
func Convert(r Result, shape Shape) (Result, error) {
	shape, err := ParseShape(string(shape))
	if err != nil {
		return nil, err
	}
	if r.Shape() == shape {
		return r, nil
	}
	return r.ColumnMajor().frame().build(shape), nil
}

// frame exposes the columns as a frame sharing c's backing slices.
// Callers only read it.
func (c *Columns) frame() *frame {
	cols := make([][]string, len(c.names))
	for j, name := range c.names {
		cols[j] = c.data[name]
	}
	return &frame{names: c.names, cols: cols, n: c.n}
}

// =============================================================================
// Helpers
// =============================================================================

// marshalObject writes a JSON object whose keys keep the given order.
func marshalObject(keys []string, value func(j int) any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for j, k := range keys {
		if j > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(value(j))
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
