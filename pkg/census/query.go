package census

import (
	"strings"

	errs "github.com/matzehuels/censusacs/pkg/errors"
)

// Survey identifies an ACS product tier.
type Survey string

// Supported survey tiers.
const (
	ACS1 Survey = "acs1"
	ACS3 Survey = "acs3"
	ACS5 Survey = "acs5"
)

// Default years used when a query leaves Year at zero.
const (
	DefaultYear     = 2023
	DefaultACS3Year = 2013
)

// ParseSurvey parses a survey tag such as "acs5". Matching is case-insensitive.
func ParseSurvey(s string) (Survey, error) {
	sv := Survey(strings.ToLower(strings.TrimSpace(s)))
	switch sv {
	case ACS1, ACS3, ACS5:
		return sv, nil
	}
	return "", errs.New(errs.ErrCodeInvalidArgument, "unknown survey %q (want acs1, acs3 or acs5)", s)
}

// DefaultYear returns the year used for the tier when none is given.
func (s Survey) DefaultYear() int {
	if s == ACS3 {
		return DefaultACS3Year
	}
	return DefaultYear
}

// checkYear enforces the publication range of each tier.
func (s Survey) checkYear(year int) error {
	switch s {
	case ACS5:
		if year < 2009 {
			return errs.New(errs.ErrCodeInvalidArgument, "acs5 data starts in 2009, got %d", year)
		}
	case ACS3:
		if year < 2007 || year > 2013 {
			return errs.New(errs.ErrCodeInvalidArgument, "acs3 data is available for 2007-2013, got %d", year)
		}
	case ACS1:
		if year < 2005 {
			return errs.New(errs.ErrCodeInvalidArgument, "acs1 data starts in 2005, got %d", year)
		}
		if year == 2020 {
			return errs.New(errs.ErrCodeUnsupportedYear,
				"the regular 2020 1-year ACS was not released because of pandemic data collection problems; use acs5 or the experimental 2020 estimates")
		}
	default:
		return errs.New(errs.ErrCodeInvalidArgument, "unknown survey %q (want acs1, acs3 or acs5)", s)
	}
	return nil
}

// Family selects estimate or margin-of-error variables.
type Family int

const (
	// Estimate variables end in "E".
	Estimate Family = iota
	// MarginOfError variables end in "M".
	MarginOfError
)

// Suffix returns the trailing character required of the family's variable codes.
func (f Family) Suffix() string {
	if f == MarginOfError {
		return "M"
	}
	return "E"
}

func (f Family) String() string {
	if f == MarginOfError {
		return "moe"
	}
	return "estimate"
}

// Query is a fully specified ACS request.
//
// Variables are requested in addition to NAME. State may be a postal code or
// a FIPS code; County requires State.
type Query struct {
	Variables []string
	Geography Geography
	Year      int
	Survey    Survey
	State     string
	County    string
	Shape     Shape
	Family    Family
}

// withDefaults fills in the tier default year and the table shape.
func (q Query) withDefaults() Query {
	if q.Survey == "" {
		q.Survey = ACS5
	}
	if q.Year == 0 {
		q.Year = q.Survey.DefaultYear()
	}
	if q.Shape == "" {
		q.Shape = ShapeTable
	}
	q.Variables = append([]string(nil), q.Variables...)
	return q
}

// Validate checks q without touching the network. All failures are
// INVALID_ARGUMENT except the unpublished 2020 1-year product, which is
// UNSUPPORTED_YEAR. A county without a state is rejected before anything else.
func (q Query) Validate() error {
	if q.County != "" && q.State == "" {
		return errs.New(errs.ErrCodeInvalidArgument, "county %q requires a state", q.County)
	}
	if err := q.Survey.checkYear(q.Year); err != nil {
		return err
	}
	if len(q.Variables) == 0 {
		return errs.New(errs.ErrCodeInvalidArgument, "at least one variable is required")
	}
	for _, v := range q.Variables {
		if err := errs.ValidateVariableCode(v, q.Family.Suffix()); err != nil {
			return err
		}
	}
	if !q.Geography.Valid() {
		return errs.New(errs.ErrCodeInvalidArgument, "unknown geography %q (want state, county, tract or block group)", q.Geography)
	}
	if q.County != "" {
		if err := errs.ValidateCountyFIPS(q.County); err != nil {
			return err
		}
	}
	if _, err := ParseShape(string(q.Shape)); err != nil {
		return err
	}
	return nil
}
