package census

import (
	"testing"

	errs "github.com/matzehuels/censusacs/pkg/errors"
)

func TestCreateGEOID(t *testing.T) {
	row := map[string]string{
		"state":       "06",
		"county":      "001",
		"tract":       "400100",
		"block_group": "1",
	}

	tests := []struct {
		geo  Geography
		want string
	}{
		{GeoState, "06"},
		{GeoCounty, "06001"},
		{GeoTract, "06001400100"},
		{GeoBlockGroup, "060014001001"},
	}

	for _, tt := range tests {
		t.Run(string(tt.geo), func(t *testing.T) {
			got, err := CreateGEOID([]map[string]string{row}, tt.geo)
			if err != nil {
				t.Fatalf("CreateGEOID error: %v", err)
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("CreateGEOID(%s) = %v, want [%s]", tt.geo, got, tt.want)
			}
		})
	}
}

func TestCreateGEOID_Padding(t *testing.T) {
	rows := []map[string]string{
		{"state": "6", "county": "1", "tract": "4001", "block group": "2"},
	}
	got, err := CreateGEOID(rows, GeoBlockGroup)
	if err != nil {
		t.Fatalf("CreateGEOID error: %v", err)
	}
	if got[0] != "060010040012" {
		t.Errorf("got %q, want %q", got[0], "060010040012")
	}

	// state level uses the value as-is
	got, _ = CreateGEOID(rows, GeoState)
	if got[0] != "6" {
		t.Errorf("state GEOID = %q, want unpadded %q", got[0], "6")
	}
}

func TestCreateGEOID_Errors(t *testing.T) {
	row := map[string]string{"state": "06"}

	if _, err := CreateGEOID([]map[string]string{row}, Geography("zip")); !errs.Is(err, errs.ErrCodeInvalidArgument) {
		t.Errorf("unknown geography: got %v, want INVALID_ARGUMENT", err)
	}
	if _, err := CreateGEOID([]map[string]string{row}, GeoCounty); !errs.Is(err, errs.ErrCodeInvalidArgument) {
		t.Errorf("missing county: got %v, want INVALID_ARGUMENT", err)
	}
}

func TestCreateGEOID_Empty(t *testing.T) {
	got, err := CreateGEOID(nil, GeoTract)
	if err != nil {
		t.Fatalf("CreateGEOID(nil) error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no GEOIDs, got %v", got)
	}
}

func TestParseGeography(t *testing.T) {
	tests := []struct {
		input   string
		want    Geography
		wantErr bool
	}{
		{"state", GeoState, false},
		{"County", GeoCounty, false},
		{"tract", GeoTract, false},
		{"block group", GeoBlockGroup, false},
		{"block_group", GeoBlockGroup, false},
		{"Block-Group", GeoBlockGroup, false},
		{"zcta", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGeography(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGeography(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGeography(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
