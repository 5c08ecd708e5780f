// Package census is a client for the American Community Survey (ACS)
// endpoints of the U.S. Census Bureau Data API.
//
// # Overview
//
// A query flows through four steps:
//
//  1. Validation: survey tier, year range, variable family, geography and
//     state/county selectors are checked locally ([Query.Validate]).
//  2. URL building: [BuildURL] assembles the endpoint, resolving postal
//     codes with [StatePostalToFIPS] and injecting the API key.
//  3. Fetching: [Client.Fetch] issues the GET with exponential backoff and
//     jitter on transient failures.
//  4. Reshaping: [Reshape] turns the JSON array-of-arrays into one of four
//     shapes, appends a GEOID column ([CreateGEOID]) and sorts by it.
//
// # Usage
//
//	client := census.NewClient(census.ClientConfig{
//	    Key: census.StaticKey(os.Getenv("CENSUS_API_KEY")),
//	})
//	res, err := client.GetACS5(ctx, []string{"B01003_001E"}, census.GeoCounty,
//	    census.Options{State: "CA", Shape: census.ShapeRecords})
//
// # Shapes
//
//   - [ShapeTable]: [*Table], ordered rows sharing one schema (default)
//   - [ShapeArrow]: [*ArrowTable], an Apache Arrow record (struct-of-arrays)
//   - [ShapeRecords]: [*Records], one immutable keyed record per row
//   - [ShapeColumns]: [*Columns], column name to full column
//
// Every cell is the string the API returned. Nothing is coerced, so FIPS
// components keep their leading zeros; [Records.Decode] offers opt-in
// conversion into typed structs.
//
// # Errors
//
// Errors are [errors.Error] values from this module's errors package:
// INVALID_ARGUMENT and UNSUPPORTED_YEAR for bad parameters,
// CONFIGURATION_ERROR for a missing key, FETCH_ERROR once retries are
// exhausted. An empty response is not an error.
//
// [errors.Error]: github.com/matzehuels/censusacs/pkg/errors.Error
package census
