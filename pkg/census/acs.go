package census

import (
	"context"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/censusacs/pkg/errors"
	"github.com/matzehuels/censusacs/pkg/observability"
)

// Options are the optional parameters of the Get methods.
type Options struct {
	// Survey selects the tier for [Client.GetACS] and [Client.GetACSMOE]
	// (default acs5). The tier-specific methods ignore it.
	Survey Survey

	// Year defaults to the tier default: 2023 for acs1 and acs5, 2013 for acs3.
	Year int

	// State is a postal code ("CA") or FIPS code ("06").
	State string

	// County is a 3-digit county FIPS code and requires State.
	County string

	// Shape selects the result representation (default [ShapeTable]).
	Shape Shape
}

// GetACS fetches estimate variables (codes ending in "E") from the tier
// named by opts.Survey.
func (c *Client) GetACS(ctx context.Context, variables []string, geo Geography, opts Options) (Result, error) {
	return c.get(ctx, Estimate, opts.Survey, variables, geo, opts)
}

// GetACS1 fetches 1-year estimates. Years before 2005 are rejected and 2020
// fails with UNSUPPORTED_YEAR.
func (c *Client) GetACS1(ctx context.Context, variables []string, geo Geography, opts Options) (Result, error) {
	return c.get(ctx, Estimate, ACS1, variables, geo, opts)
}

// GetACS3 fetches 3-year estimates, published for 2007 through 2013.
func (c *Client) GetACS3(ctx context.Context, variables []string, geo Geography, opts Options) (Result, error) {
	return c.get(ctx, Estimate, ACS3, variables, geo, opts)
}

// GetACS5 fetches 5-year estimates, published from 2009.
func (c *Client) GetACS5(ctx context.Context, variables []string, geo Geography, opts Options) (Result, error) {
	return c.get(ctx, Estimate, ACS5, variables, geo, opts)
}

// GetACSMOE fetches margin-of-error variables (codes ending in "M") from
// the tier named by opts.Survey. It accepts the same output shapes as the
// estimate methods.
func (c *Client) GetACSMOE(ctx context.Context, variables []string, geo Geography, opts Options) (Result, error) {
	return c.get(ctx, MarginOfError, opts.Survey, variables, geo, opts)
}

// GetACSMOE1 fetches 1-year margins of error.
func (c *Client) GetACSMOE1(ctx context.Context, variables []string, geo Geography, opts Options) (Result, error) {
	return c.get(ctx, MarginOfError, ACS1, variables, geo, opts)
}

// GetACSMOE3 fetches 3-year margins of error.
func (c *Client) GetACSMOE3(ctx context.Context, variables []string, geo Geography, opts Options) (Result, error) {
	return c.get(ctx, MarginOfError, ACS3, variables, geo, opts)
}

// GetACSMOE5 fetches 5-year margins of error.
func (c *Client) GetACSMOE5(ctx context.Context, variables []string, geo Geography, opts Options) (Result, error) {
	return c.get(ctx, MarginOfError, ACS5, variables, geo, opts)
}

func (c *Client) get(ctx context.Context, fam Family, survey Survey, variables []string, geo Geography, opts Options) (Result, error) {
	if survey == "" {
		survey = ACS5
	}
	return c.Query(ctx, Query{
		Variables: variables,
		Geography: geo,
		Year:      opts.Year,
		Survey:    survey,
		State:     opts.State,
		County:    opts.County,
		Shape:     opts.Shape,
		Family:    fam,
	})
}

// Query validates q, builds the request URL, fetches it and reshapes the
// payload. Zero Survey, Year and Shape take their defaults.
//
// Validation and credential errors are returned before any request is made.
// A response without data rows yields an empty result and a nil error.
func (c *Client) Query(ctx context.Context, q Query) (Result, error) {
	q = q.withDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key, err := c.key()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfiguration, err, "resolve API key")
	}
	rawURL, err := buildURL(c.baseURL, q, key)
	if err != nil {
		return nil, err
	}

	logger := c.logger.With("query", uuid.NewString()[:8])
	logger.Debug("querying census api",
		"survey", q.Survey,
		"year", q.Year,
		"geography", q.Geography,
		"family", q.Family,
		"variables", len(q.Variables))

	hooks := observability.Query()
	hooks.OnQueryStart(ctx, string(q.Survey), string(q.Geography))
	start := time.Now()

	res, err := c.fetchAndReshape(ctx, rawURL, q)

	rows := 0
	if res != nil {
		rows = res.Len()
	}
	hooks.OnQueryComplete(ctx, string(q.Survey), string(q.Geography), rows, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	logger.Debug("query complete", "rows", rows, "duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

func (c *Client) fetchAndReshape(ctx context.Context, rawURL string, q Query) (Result, error) {
	payload, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return Reshape(payload, q.Geography, q.Shape)
}
