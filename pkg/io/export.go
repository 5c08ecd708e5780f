package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/matzehuels/censusacs/pkg/census"
	errs "github.com/matzehuels/censusacs/pkg/errors"
)

// Format is a file format a result can be written in.
type Format string

const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatParquet:
		return f, nil
	}
	return "", errs.New(errs.ErrCodeInvalidArgument, "unknown export format %q (want json, csv or parquet)", s)
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch {
	case strings.HasSuffix(path, ".json"):
		return FormatJSON, true
	case strings.HasSuffix(path, ".csv"):
		return FormatCSV, true
	case strings.HasSuffix(path, ".parquet"):
		return FormatParquet, true
	}
	return "", false
}

// Write encodes r in the given format to w.
func Write(r census.Result, format Format, w io.Writer) error {
	switch format {
	case FormatJSON:
		return WriteJSON(r, w)
	case FormatCSV:
		return WriteCSV(r, w)
	case FormatParquet:
		return WriteParquet(r, w)
	}
	return errs.New(errs.ErrCodeInvalidArgument, "unknown export format %q", format)
}

// WriteJSON encodes r as indented JSON using the shape's own encoding.
func WriteJSON(r census.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteCSV writes a header row of column names followed by one line per
// data row. Values are written verbatim, so FIPS codes keep their zeros.
func WriteCSV(r census.Result, w io.Writer) error {
	cw := csv.NewWriter(w)
	names := r.Names()
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cols := r.ColumnMajor()
	data := make([][]string, len(names))
	for j, name := range names {
		data[j], _ = cols.Column(name)
	}
	row := make([]string, len(names))
	for i := range r.Len() {
		for j := range data {
			row[j] = data[j][i]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParquet writes r as a Snappy-compressed Parquet file with one
// string column per field. w is left open.
func WriteParquet(r census.Result, w io.Writer) error {
	rec := census.ToArrow(r).Record()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	// The parquet writer closes any sink that has a Close method.
	sink := struct{ io.Writer }{w}
	pw, err := pqarrow.NewFileWriter(rec.Schema(), sink, props, arrowProps)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	if err := pw.Write(rec); err != nil {
		pw.Close()
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// Export writes r to a file at path.
// This is a convenience wrapper around [Write] for file-based output.
func Export(r census.Result, format Format, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(r, format, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
