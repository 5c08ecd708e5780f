package census

import (
	"net/url"
	"strconv"
	"strings"

	errs "github.com/matzehuels/censusacs/pkg/errors"
)

// DefaultBaseURL is the root of the Census Data API.
const DefaultBaseURL = "https://api.census.gov/data"

// BuildURL assembles the request URL for q against [DefaultBaseURL]:
//
//	https://api.census.gov/data/{year}/acs/{survey}?get=NAME,{vars}&for={geo}:*[&in=state:{fips}[&in=county:{county}]]&key={key}
//
// A two letter state is resolved to its FIPS code. The key is mandatory:
// an empty key yields a CONFIGURATION_ERROR, because the Bureau rejects most
// unkeyed traffic and failing locally is cheaper than a doomed request.
// Defaults (survey, year) are not applied; pass a complete query.
func BuildURL(q Query, key string) (string, error) {
	return buildURL(DefaultBaseURL, q, key)
}

func buildURL(base string, q Query, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errs.New(errs.ErrCodeConfiguration, "Census API key is not set (set %s or api_key in the config file)", KeyEnv)
	}

	vars := make([]string, 0, len(q.Variables)+1)
	vars = append(vars, "NAME")
	for _, v := range q.Variables {
		vars = append(vars, url.QueryEscape(v))
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/")
	b.WriteString(strconv.Itoa(q.Year))
	b.WriteString("/acs/")
	b.WriteString(string(q.Survey))
	b.WriteString("?get=")
	b.WriteString(strings.Join(vars, ","))
	b.WriteString("&for=")
	b.WriteString(escapeClause(string(q.Geography)))
	b.WriteString(":*")

	if q.State != "" {
		fips, err := resolveState(q.State)
		if err != nil {
			return "", err
		}
		b.WriteString("&in=state:")
		b.WriteString(url.QueryEscape(fips))
		if q.County != "" {
			b.WriteString("&in=county:")
			b.WriteString(url.QueryEscape(q.County))
		}
	}

	b.WriteString("&key=")
	b.WriteString(url.QueryEscape(key))
	return b.String(), nil
}

// escapeClause encodes a for=/in= geography name. Spaces become %20 rather
// than "+" to match the API's documented examples.
func escapeClause(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// redactURL hides the API key in a request URL for logging.
func redactURL(raw string) string {
	i := strings.Index(raw, "key=")
	if i < 0 {
		return raw
	}
	end := strings.IndexByte(raw[i:], '&')
	if end < 0 {
		return raw[:i] + "key=REDACTED"
	}
	return raw[:i] + "key=REDACTED" + raw[i+end:]
}
