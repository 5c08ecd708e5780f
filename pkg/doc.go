// Package pkg provides the libraries behind censusacs, a client for the
// U.S. Census Bureau's American Community Survey API.
//
// # Overview
//
// A query names a survey tier (acs1, acs3 or acs5), a year, a geography
// level and a list of variable codes. The client turns it into one GET
// against api.census.gov, retries transient failures, and reshapes the
// JSON array-of-arrays response into a table keyed by GEOID.
//
// # Architecture
//
// The data flow of a single query:
//
//	Query (variables, geography, year, survey, state, county)
//	         ↓
//	    validation + FIPS lookup        [census]
//	         ↓
//	    URL builder                     [census]
//	         ↓
//	    fetch with retry                [census] + [httputil]
//	         ↓
//	    reshape + GEOID + sort          [census]
//	         ↓
//	    table / arrow / records / columns → [io] JSON, CSV, Parquet
//
// # Quick Start
//
//	client := census.NewClient(census.ClientConfig{})
//	res, err := client.GetACS5(ctx, []string{"B01003_001E"}, census.GeoCounty,
//	    census.Options{State: "CA", Shape: census.ShapeRecords})
//	if err != nil {
//	    return err
//	}
//	for _, rec := range res.(*census.Records).All() {
//	    id, _ := rec.Get(census.GEOIDColumn)
//	    pop, _ := rec.Get("B01003_001E")
//	    fmt.Println(id, pop)
//	}
//
// The API key is read from CENSUS_API_KEY each time a query runs.
//
// # Main Packages
//
// [census] - FIPS lookup, GEOID construction, URL building, the retrying
// fetcher, the response reshaper and the survey-tier dispatcher.
//
// [httputil] - Retry engine with exponential backoff, jitter and an
// injectable clock.
//
// [errors] - Coded errors: INVALID_ARGUMENT, UNSUPPORTED_YEAR,
// CONFIGURATION_ERROR and FETCH_ERROR.
//
// [config] - TOML config file and API key resolution.
//
// [io] - JSON, CSV and Parquet export.
//
// [observability] - Query and HTTP hooks, with a Prometheus implementation
// in observability/prom.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...
//
// No test talks to the real API; fake servers come from net/http/httptest.
//
// [census]: https://pkg.go.dev/github.com/matzehuels/censusacs/pkg/census
// [httputil]: https://pkg.go.dev/github.com/matzehuels/censusacs/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/censusacs/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/censusacs/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/censusacs/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/censusacs/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/censusacs/pkg/buildinfo
package pkg
