package census

import (
	"testing"

	errs "github.com/matzehuels/censusacs/pkg/errors"
)

func TestStatePostalToFIPS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AL", "01"},
		{"CA", "06"},
		{"DC", "11"},
		{"NY", "36"},
		{"TX", "48"},
		{"WY", "56"},
		{"PR", "72"},
		{"VI", "78"},
		{"ca", "06"},
		{" tx ", "48"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := StatePostalToFIPS(tt.input)
			if err != nil {
				t.Fatalf("StatePostalToFIPS(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("StatePostalToFIPS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStatePostalToFIPS_Unknown(t *testing.T) {
	for _, input := range []string{"", "XX", "06", "California", "UM"} {
		t.Run(input, func(t *testing.T) {
			_, err := StatePostalToFIPS(input)
			if !errs.Is(err, errs.ErrCodeInvalidArgument) {
				t.Errorf("StatePostalToFIPS(%q) error = %v, want INVALID_ARGUMENT", input, err)
			}
		})
	}
}

func TestStateTableIsComplete(t *testing.T) {
	if len(stateFIPS) != 56 {
		t.Errorf("table has %d entries, want 56", len(stateFIPS))
	}
	seen := make(map[string]string)
	for postal, fips := range stateFIPS {
		if len(fips) != 2 || !isDigits(fips) {
			t.Errorf("%s has malformed FIPS %q", postal, fips)
		}
		if other, dup := seen[fips]; dup {
			t.Errorf("FIPS %s assigned to both %s and %s", fips, postal, other)
		}
		seen[fips] = postal
	}
}

func TestPostalCodesOrdered(t *testing.T) {
	codes := PostalCodes()
	if len(codes) != 56 {
		t.Fatalf("PostalCodes() returned %d codes, want 56", len(codes))
	}
	if codes[0] != "AL" || codes[len(codes)-1] != "VI" {
		t.Errorf("unexpected order: first %s, last %s", codes[0], codes[len(codes)-1])
	}
}

func TestResolveState(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"CA", "06", false},
		{"ny", "36", false},
		{"06", "06", false},
		{"036", "036", false},
		{"ZZ", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := resolveState(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveState(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveState(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
