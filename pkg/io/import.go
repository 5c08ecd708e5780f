package io

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/matzehuels/censusacs/pkg/census"
)

// ReadCSV decodes a file written by [WriteCSV]. The first line is the
// header; every following line must have the same number of fields.
func ReadCSV(r io.Reader) (*census.Columns, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("decode: missing header")
	}

	names := lines[0]
	cols := make([][]string, len(names))
	for j := range cols {
		cols[j] = make([]string, 0, len(lines)-1)
	}
	for _, line := range lines[1:] {
		for j, v := range line {
			cols[j] = append(cols[j], v)
		}
	}
	return census.NewColumns(names, cols)
}

// ReadParquet decodes a file written by [WriteParquet]. Only string
// columns are supported.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (*census.Columns, error) {
	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(ctx, r, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	defer tbl.Release()

	schema := tbl.Schema()
	names := make([]string, schema.NumFields())
	cols := make([][]string, schema.NumFields())
	for j, field := range schema.Fields() {
		names[j] = field.Name
		col := make([]string, 0, tbl.NumRows())
		for _, chunk := range tbl.Column(j).Data().Chunks() {
			arr, ok := chunk.(*array.String)
			if !ok {
				return nil, fmt.Errorf("column %s: unsupported type %s", field.Name, chunk.DataType())
			}
			for i := range arr.Len() {
				col = append(col, arr.Value(i))
			}
		}
		cols[j] = col
	}
	return census.NewColumns(names, cols)
}

// Import reads a CSV or Parquet file at path.
func Import(ctx context.Context, path string) (*census.Columns, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	format, _ := FormatFromPath(path)
	switch format {
	case FormatCSV:
		return ReadCSV(f)
	case FormatParquet:
		return ReadParquet(ctx, f)
	}
	return nil, fmt.Errorf("import %s: unsupported file type", path)
}
