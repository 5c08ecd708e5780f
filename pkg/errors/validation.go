package errors

import (
	"regexp"
	"strings"
)

// ValidateVariableCode checks that an ACS variable code ends with suffix
// ("E" for estimates, "M" for margins of error). It does not know which
// tables exist for a given year; the API reports unknown codes itself.
func ValidateVariableCode(code, suffix string) error {
	if code == "" {
		return New(ErrCodeInvalidArgument, "variable code cannot be empty")
	}
	if !strings.HasSuffix(code, suffix) {
		return New(ErrCodeInvalidArgument, "variable %q must end with %q", code, suffix)
	}
	return nil
}

// countyRegex matches a three digit county FIPS code.
var countyRegex = regexp.MustCompile(`^[0-9]{3}$`)

// ValidateCountyFIPS validates a three digit county FIPS code.
func ValidateCountyFIPS(county string) error {
	if !countyRegex.MatchString(county) {
		return New(ErrCodeInvalidArgument, "county must be a 3-digit FIPS code, got %q", county)
	}
	return nil
}
