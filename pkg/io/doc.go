// Package io writes ACS results to files and reads them back.
//
// # Formats
//
// Three formats are supported for every result shape:
//
//   - json: the shape's own JSON encoding, indented. A table becomes
//     {"columns": [...], "rows": [[...]]}, records become an array of
//     objects and columns/arrow become an object of arrays.
//   - csv: a header line of column names, then one line per row.
//   - parquet: one Snappy-compressed string column per field, written
//     through Apache Arrow.
//
// All values are strings. Nothing is coerced on the way out, so state and
// county codes keep their leading zeros:
//
//	res, _ := client.GetACS5(ctx, []string{"B01003_001E"}, census.GeoCounty, census.Options{State: "CA"})
//	_ = io.Export(res, io.FormatParquet, "ca_counties.parquet")
//
// CSV and Parquet files can be loaded again with [Import], which returns
// the columnar shape.
package io
