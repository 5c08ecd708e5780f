package io

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/censusacs/pkg/census"
)

func sampleResult(t *testing.T, shape census.Shape) census.Result {
	t.Helper()
	p := census.Payload{
		{"NAME", "B01003_001E", "state", "county"},
		{"Autauga County, Alabama", "58761", "01", "001"},
		{"Baldwin County, Alabama", "233420", "01", "003"},
	}
	res, err := census.Reshape(p, census.GeoCounty, shape)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(sampleResult(t, census.ShapeRecords), &buf); err != nil {
		t.Fatal(err)
	}

	want := `NAME,B01003_001E,state,county,GEOID
"Autauga County, Alabama",58761,01,001,01001
"Baldwin County, Alabama",233420,01,003,01003
`
	if buf.String() != want {
		t.Errorf("WriteCSV:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleResult(t, census.ShapeColumns), &buf); err != nil {
		t.Fatal(err)
	}

	var got map[string][]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if ids := got["GEOID"]; len(ids) != 2 || ids[0] != "01001" {
		t.Errorf("GEOID column = %v", ids)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("JSON output should be indented")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	res := sampleResult(t, census.ShapeTable)
	var buf bytes.Buffer
	if err := WriteCSV(res, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(res.ColumnMajor()) {
		t.Error("CSV round trip changed the data")
	}
}

func TestParquetRoundTrip(t *testing.T) {
	for _, shape := range []census.Shape{census.ShapeTable, census.ShapeArrow} {
		t.Run(string(shape), func(t *testing.T) {
			res := sampleResult(t, shape)
			var buf bytes.Buffer
			if err := WriteParquet(res, &buf); err != nil {
				t.Fatal(err)
			}
			got, err := ReadParquet(context.Background(), bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(res.ColumnMajor()) {
				t.Error("Parquet round trip changed the data")
			}
			county, _ := got.Column("county")
			if county[0] != "001" {
				t.Errorf("county = %q, leading zeros lost", county[0])
			}
		})
	}
}

// closeTracker is a buffer that records whether Close was called.
type closeTracker struct {
	bytes.Buffer
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestWriteParquetLeavesWriterOpen(t *testing.T) {
	var sink closeTracker
	if err := WriteParquet(sampleResult(t, census.ShapeTable), &sink); err != nil {
		t.Fatal(err)
	}
	if sink.closed {
		t.Error("WriteParquet closed the caller's writer")
	}
	if sink.Len() == 0 {
		t.Error("WriteParquet wrote nothing")
	}
}

func TestWriteParquetToOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acs.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(sampleResult(t, census.ShapeRecords), FormatParquet, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// The file must still be usable after the parquet footer is written.
	if _, err := f.Stat(); err != nil {
		t.Errorf("file closed by writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := Import(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if ids, _ := got.Column(census.GEOIDColumn); len(ids) != 2 || ids[1] != "01003" {
		t.Errorf("GEOID = %v", ids)
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult(t, census.ShapeTable)

	for _, name := range []string{"out.csv", "out.parquet"} {
		path := filepath.Join(dir, name)
		format, ok := FormatFromPath(path)
		if !ok {
			t.Fatalf("FormatFromPath(%q) failed", path)
		}
		if err := Export(res, format, path); err != nil {
			t.Fatalf("Export(%s): %v", name, err)
		}
		got, err := Import(context.Background(), path)
		if err != nil {
			t.Fatalf("Import(%s): %v", name, err)
		}
		if got.Len() != 2 {
			t.Errorf("Import(%s) rows = %d, want 2", name, got.Len())
		}
	}

	jsonPath := filepath.Join(dir, "out.json")
	if err := Export(res, FormatJSON, jsonPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(jsonPath); err != nil {
		t.Errorf("JSON export missing: %v", err)
	}
	if _, err := Import(context.Background(), jsonPath); err == nil {
		t.Error("Import of JSON should fail")
	}
}

func TestExportEmptyResult(t *testing.T) {
	res, err := census.Reshape(census.Payload{{"NAME", "state"}}, census.GeoState, census.ShapeTable)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(res, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "NAME,state,GEOID\n" {
		t.Errorf("WriteCSV(empty) = %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{" parquet ", FormatParquet, false},
		{"xlsx", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tt.input, got, err)
			}
		})
	}
}
