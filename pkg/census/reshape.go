package census

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/censusacs/pkg/errors"
)

// Payload is the raw API response: row 0 holds the column names and rows
// 1..N hold data. A payload with fewer than two rows carries no data.
type Payload [][]string

// Empty reports whether p has no data rows.
func (p Payload) Empty() bool { return len(p) < 2 }

// Reshape converts p into the requested shape.
//
// Header cells become column names verbatim (surrounding whitespace
// trimmed). A GEOID column derived for geo is appended (replacing any
// GEOID column already present) and rows are sorted ascending by GEOID in
// byte order. A payload without data rows yields an empty result, not an
// error.
//
// Returns an INVALID_ARGUMENT error for an unknown shape or geography, an
// empty or duplicate column name, or a row whose width differs from the
// header.
func Reshape(p Payload, geo Geography, shape Shape) (Result, error) {
	shape, err := ParseShape(string(shape))
	if err != nil {
		return nil, err
	}
	build, err := geoidBuilder(geo)
	if err != nil {
		return nil, err
	}

	f, err := frameFromPayload(p)
	if err != nil {
		return nil, err
	}
	if len(f.names) > 0 {
		if err := f.appendGEOID(build); err != nil {
			return nil, err
		}
		f.sortBy(GEOIDColumn)
	}
	return f.build(shape), nil
}

// frame is the column-major intermediate every shape is built from.
type frame struct {
	names []string
	cols  [][]string
	n     int
}

func frameFromPayload(p Payload) (*frame, error) {
	if len(p) == 0 {
		return &frame{}, nil
	}

	names := make([]string, len(p[0]))
	for j, h := range p[0] {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, errs.New(errs.ErrCodeInvalidArgument, "column %d has an empty name", j)
		}
		if slices.Contains(names[:j], name) {
			return nil, errs.New(errs.ErrCodeInvalidArgument, "duplicate column %q", name)
		}
		names[j] = name
	}

	rows := p[1:]
	cols := make([][]string, len(names))
	for j := range cols {
		cols[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, errs.New(errs.ErrCodeInvalidArgument, "row %d has %d cells, header has %d", i+1, len(row), len(names))
		}
		for j, cell := range row {
			cols[j][i] = cell
		}
	}
	return &frame{names: names, cols: cols, n: len(rows)}, nil
}

func (f *frame) index(name string) int { return slices.Index(f.names, name) }

// appendGEOID derives the GEOID of every row and stores it as the last column.
func (f *frame) appendGEOID(build func(lookupFunc) (string, error)) error {
	ids := make([]string, f.n)
	for i := range ids {
		id, err := build(func(col string) (string, bool) {
			if j := f.index(col); j >= 0 {
				return f.cols[j][i], true
			}
			return "", false
		})
		if err != nil {
			return err
		}
		ids[i] = id
	}

	if j := f.index(GEOIDColumn); j >= 0 {
		f.names = slices.Delete(f.names, j, j+1)
		f.cols = slices.Delete(f.cols, j, j+1)
	}
	f.names = append(f.names, GEOIDColumn)
	f.cols = append(f.cols, ids)
	return nil
}

// sortBy reorders all columns so that the named column ascends. Ties keep
// their API order.
func (f *frame) sortBy(name string) {
	key := f.cols[f.index(name)]
	perm := make([]int, f.n)
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		return strings.Compare(key[a], key[b])
	})
	for j, col := range f.cols {
		sorted := make([]string, f.n)
		for i, src := range perm {
			sorted[i] = col[src]
		}
		f.cols[j] = sorted
	}
}

// build renders f in the given (already validated) shape.
func (f *frame) build(shape Shape) Result {
	switch shape {
	case ShapeArrow:
		return newArrowTable(f)
	case ShapeRecords:
		return newRecords(f)
	case ShapeColumns:
		return newColumns(f)
	default:
		return newTable(f)
	}
}
