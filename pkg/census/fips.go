package census

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/censusacs/pkg/errors"
)

// stateFIPS maps USPS postal abbreviations to two digit state FIPS codes for
// the 50 states, the District of Columbia and the five inhabited territories.
var stateFIPS = map[string]string{
	"AL": "01", "AK": "02", "AZ": "04", "AR": "05", "CA": "06",
	"CO": "08", "CT": "09", "DE": "10", "DC": "11", "FL": "12",
	"GA": "13", "HI": "15", "ID": "16", "IL": "17", "IN": "18",
	"IA": "19", "KS": "20", "KY": "21", "LA": "22", "ME": "23",
	"MD": "24", "MA": "25", "MI": "26", "MN": "27", "MS": "28",
	"MO": "29", "MT": "30", "NE": "31", "NV": "32", "NH": "33",
	"NJ": "34", "NM": "35", "NY": "36", "NC": "37", "ND": "38",
	"OH": "39", "OK": "40", "OR": "41", "PA": "42", "RI": "44",
	"SC": "45", "SD": "46", "TN": "47", "TX": "48", "UT": "49",
	"VT": "50", "VA": "51", "WA": "53", "WV": "54", "WI": "55",
	"WY": "56",
	"AS": "60", "GU": "66", "MP": "69", "PR": "72", "VI": "78",
}

// StatePostalToFIPS converts a state postal abbreviation (e.g. "CA") to its
// two digit FIPS code (e.g. "06"). The lookup is case-insensitive and ignores
// surrounding whitespace.
//
// Returns an INVALID_ARGUMENT error if code is not a state, DC, or one of
// AS, GU, MP, PR, VI.
func StatePostalToFIPS(code string) (string, error) {
	norm := strings.ToUpper(strings.TrimSpace(code))
	if fips, ok := stateFIPS[norm]; ok {
		return fips, nil
	}
	return "", errs.New(errs.ErrCodeInvalidArgument, "unknown state postal code %q", code)
}

// PostalCodes returns the supported postal abbreviations ordered by FIPS code.
func PostalCodes() []string {
	codes := make([]string, 0, len(stateFIPS))
	for postal := range stateFIPS {
		codes = append(codes, postal)
	}
	slices.SortFunc(codes, func(a, b string) int {
		return strings.Compare(stateFIPS[a], stateFIPS[b])
	})
	return codes
}

// resolveState turns a state selector into a FIPS code.
//
// Two letter values are postal codes and go through [StatePostalToFIPS].
// Two digit values are already FIPS codes. Anything longer is passed through
// unchanged.
func resolveState(state string) (string, error) {
	s := strings.TrimSpace(state)
	switch {
	case s == "":
		return "", errs.New(errs.ErrCodeInvalidArgument, "state selector cannot be empty")
	case len(s) == 2 && isDigits(s):
		return s, nil
	case len(s) == 2:
		return StatePostalToFIPS(s)
	default:
		return s, nil
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

