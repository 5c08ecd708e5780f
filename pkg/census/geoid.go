package census

import (
	"strings"

	errs "github.com/matzehuels/censusacs/pkg/errors"
)

// Geography is the summary level requested with the for= clause.
type Geography string

// Supported geography levels. The values are the names the Census API uses
// both in the for= clause and as response column headers.
const (
	GeoState      Geography = "state"
	GeoCounty     Geography = "county"
	GeoTract      Geography = "tract"
	GeoBlockGroup Geography = "block group"
)

// GEOIDColumn is the name of the derived identifier column appended to every result.
const GEOIDColumn = "GEOID"

// Component column names and their FIPS widths.
const (
	colState      = "state"
	colCounty     = "county"
	colTract      = "tract"
	colBlockGroup = "block group"

	widthState  = 2
	widthCounty = 3
	widthTract  = 6
)

// ParseGeography parses a geography name. Matching is case-insensitive and
// accepts "block_group" and "block-group" as spellings of [GeoBlockGroup].
func ParseGeography(s string) (Geography, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	g := Geography(norm)
	if !g.Valid() {
		return "", errs.New(errs.ErrCodeInvalidArgument, "unknown geography %q (want state, county, tract or block group)", s)
	}
	return g, nil
}

// Valid reports whether g is one of the four supported levels.
func (g Geography) Valid() bool {
	switch g {
	case GeoState, GeoCounty, GeoTract, GeoBlockGroup:
		return true
	}
	return false
}

func (g Geography) String() string { return string(g) }

// CreateGEOID derives the GEOID of every row for the given geography.
//
// Each row maps response column names to cell values. Components are left
// zero-padded to their FIPS width (state 2, county 3, tract 6) and
// concatenated; the block group digit is appended unpadded. For the state
// level the state code is used as-is. A block group column may be named
// either "block group" (as the API returns it) or "block_group".
//
// Returns an INVALID_ARGUMENT error for an unknown geography or a row that
// lacks a required component.
func CreateGEOID(rows []map[string]string, geo Geography) ([]string, error) {
	build, err := geoidBuilder(geo)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		id, err := build(func(col string) (string, bool) {
			v, ok := row[col]
			if !ok && col == colBlockGroup {
				v, ok = row["block_group"]
			}
			return v, ok
		})
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// lookupFunc returns the value of a named column for one row.
type lookupFunc func(col string) (string, bool)

// geoidBuilder returns the GEOID derivation for geo. Rows are accessed
// through a lookupFunc so the same logic serves maps and column-major frames.
func geoidBuilder(geo Geography) (func(lookupFunc) (string, error), error) {
	type part struct {
		col   string
		width int // 0 = unpadded
	}
	var parts []part
	switch geo {
	case GeoState:
		parts = []part{{colState, 0}}
	case GeoCounty:
		parts = []part{{colState, widthState}, {colCounty, widthCounty}}
	case GeoTract:
		parts = []part{{colState, widthState}, {colCounty, widthCounty}, {colTract, widthTract}}
	case GeoBlockGroup:
		parts = []part{{colState, widthState}, {colCounty, widthCounty}, {colTract, widthTract}, {colBlockGroup, 0}}
	default:
		return nil, errs.New(errs.ErrCodeInvalidArgument, "unknown geography %q", geo)
	}

	return func(get lookupFunc) (string, error) {
		var b strings.Builder
		for _, p := range parts {
			v, ok := get(p.col)
			if !ok {
				return "", errs.New(errs.ErrCodeInvalidArgument, "missing %q column for %s GEOID", p.col, geo)
			}
			b.WriteString(padLeft(v, p.width))
		}
		return b.String(), nil
	}, nil
}

// padLeft left-pads s with zeros to width. Values already at or beyond the
// width are returned unchanged.
func padLeft(s string, width int) string {
	if n := width - len(s); n > 0 {
		return strings.Repeat("0", n) + s
	}
	return s
}
