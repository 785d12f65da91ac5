package fedlex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coolbeans/fedlex/pkg/citation"
)

// DefaultEndpoint is the public Fedlex SPARQL endpoint.
const DefaultEndpoint = "https://fedlex.data.admin.ch/sparqlendpoint"

// DefaultUserAgent is the default User-Agent header sent with Fedlex requests.
const DefaultUserAgent = "fedlex-citation-resolver/1.0"

// DefaultRequestInterval is the default minimum interval between requests
// to the Fedlex endpoint.
const DefaultRequestInterval = 1 * time.Second

// srWorkQuery finds the consolidation abstract classified by the taxonomy
// node whose skos:notation is the SR number, plus the German title and HTML
// manifestation URL. Casting the notation to a string is crucial: notations
// carry mixed datatypes.
const srWorkQuery = `
PREFIX jolux: <http://data.legilux.public.lu/resource/ontology/jolux#>
PREFIX skos: <http://www.w3.org/2004/02/skos/core#>
PREFIX filetype: <http://publications.europa.eu/resource/authority/file-type/>
PREFIX language: <http://publications.europa.eu/resource/authority/language/>

SELECT ?work ?title ?url
WHERE {
  ?node skos:notation ?notation .
  FILTER (str(?notation) = "%s") .
  ?work jolux:classifiedByTaxonomyEntry ?node .
  ?work a jolux:ConsolidationAbstract .
  OPTIONAL {
    ?work jolux:isRealizedBy ?expression .
    ?expression jolux:language language:DEU .
    ?expression jolux:title ?title .
  }
  OPTIONAL {
    ?work jolux:isRealizedBy ?expression .
    ?expression jolux:language language:DEU .
    ?expression jolux:isEmbodiedBy ?manifestation .
    ?manifestation jolux:format filetype:HTML .
    ?manifestation jolux:linkToContent ?url .
  }
}
LIMIT 1
`

// abbreviationsQuery lists the German short titles of all consolidation
// abstracts together with their SR numbers, the source of the abbreviation
// mapping artifact.
const abbreviationsQuery = `
PREFIX jolux: <http://data.legilux.public.lu/resource/ontology/jolux#>
PREFIX skos: <http://www.w3.org/2004/02/skos/core#>
PREFIX language: <http://publications.europa.eu/resource/authority/language/>

SELECT DISTINCT ?abbr ?sr ?work ?title
WHERE {
  ?work a jolux:ConsolidationAbstract .
  ?work jolux:classifiedByTaxonomyEntry ?node .
  ?node skos:notation ?sr .
  ?work jolux:isRealizedBy ?expr .
  ?expr jolux:language language:DEU .
  ?expr jolux:titleShort ?abbr .
  OPTIONAL { ?expr jolux:title ?title . }
}
LIMIT 2000
`

// SPARQLClientConfig holds configuration for a SPARQLClient.
type SPARQLClientConfig struct {
	// Endpoint is the SPARQL endpoint URL. Default: DefaultEndpoint.
	Endpoint string

	// RateLimit is the minimum interval between HTTP requests.
	// Default: 1 second.
	RateLimit time.Duration

	// CacheTTL is the time-to-live for cached SR resolutions.
	// Default: 1 hour.
	CacheTTL time.Duration

	// HTTPClient is the underlying HTTP client used for requests.
	// If nil, http.DefaultClient is used (wrapped with rate limiting).
	HTTPClient HTTPClient

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string
}

// DefaultConfig returns a SPARQLClientConfig with sensible defaults.
func DefaultConfig() SPARQLClientConfig {
	return SPARQLClientConfig{
		Endpoint:   DefaultEndpoint,
		RateLimit:  DefaultRequestInterval,
		CacheTTL:   DefaultCacheTTL,
		HTTPClient: nil, // Will use http.DefaultClient.
		UserAgent:  DefaultUserAgent,
	}
}

// SPARQLClient resolves SR numbers and builds abbreviation mappings against
// the Fedlex SPARQL endpoint, with rate limiting and resolution caching.
// It implements SRResolver.
type SPARQLClient struct {
	endpoint   string
	httpClient HTTPClient
	userAgent  string
	cache      *ReferenceCache
}

// NewSPARQLClient creates a SPARQLClient with the given configuration.
func NewSPARQLClient(config SPARQLClientConfig) *SPARQLClient {
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = DefaultCacheTTL
	}

	underlyingClient := config.HTTPClient
	if underlyingClient == nil {
		underlyingClient = http.DefaultClient
	}

	return &SPARQLClient{
		endpoint:   endpoint,
		httpClient: NewRateLimitedHTTPClient(underlyingClient, config.RateLimit),
		userAgent:  userAgent,
		cache:      NewReferenceCache(cacheTTL),
	}
}

// sparqlValue is one bound value in a SPARQL JSON result.
type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// sparqlResponse is the application/sparql-results+json envelope.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

// ResolveSRNumber resolves an SR number to the current consolidation.
// A nil reference with a nil error means the SR number is unknown.
// Results, including confirmed misses, are cached for the configured TTL.
func (sparqlClient *SPARQLClient) ResolveSRNumber(ctx context.Context, srNumber string) (*LawReference, error) {
	// The SR number is interpolated into the query string; reject anything
	// that is not strictly SR-number-shaped.
	if !citation.IsSRNumber(srNumber) {
		return nil, fmt.Errorf("not an SR number: %q", srNumber)
	}

	if law, found := sparqlClient.cache.Get(srNumber); found {
		return law, nil
	}

	bindings, err := sparqlClient.execute(ctx, fmt.Sprintf(srWorkQuery, srNumber))
	if err != nil {
		return nil, &LookupFailure{Operation: "SR number resolution", Err: err}
	}

	if len(bindings) == 0 {
		sparqlClient.cache.Set(srNumber, nil)
		return nil, nil
	}

	binding := bindings[0]
	law := &LawReference{
		SRNumber:     srNumber,
		CanonicalURI: binding["work"].Value,
		Title:        binding["title"].Value,
		URL:          binding["url"].Value,
		InForce:      true,
	}
	if law.URL == "" {
		// The abstract work URI redirects to the consolidated text.
		law.URL = law.CanonicalURI
	}

	sparqlClient.cache.Set(srNumber, law)
	return law, nil
}

// FetchAbbreviations queries all German short titles and returns mapping
// entries grouped by abbreviation, the input for the mapping artifact.
func (sparqlClient *SPARQLClient) FetchAbbreviations(ctx context.Context) (map[string][]MappingEntry, error) {
	bindings, err := sparqlClient.execute(ctx, abbreviationsQuery)
	if err != nil {
		return nil, &LookupFailure{Operation: "abbreviation mapping build", Err: err}
	}

	entries := make(map[string][]MappingEntry)
	for _, binding := range bindings {
		abbreviation := strings.TrimSpace(binding["abbr"].Value)
		srNumber := binding["sr"].Value
		if abbreviation == "" || srNumber == "" {
			continue
		}

		entry := MappingEntry{
			SRNumber:     srNumber,
			CanonicalURI: binding["work"].Value,
			Title:        binding["title"].Value,
			InForce:      true,
		}

		duplicate := false
		for _, existing := range entries[abbreviation] {
			if existing.SRNumber == entry.SRNumber {
				duplicate = true
				break
			}
		}
		if !duplicate {
			entries[abbreviation] = append(entries[abbreviation], entry)
		}
	}
	return entries, nil
}

// execute runs one SPARQL query and returns the result bindings.
func (sparqlClient *SPARQLClient) execute(ctx context.Context, query string) ([]map[string]sparqlValue, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, sparqlClient.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create SPARQL request: %w", err)
	}
	request.Header.Set("Accept", "application/sparql-results+json")
	request.Header.Set("User-Agent", sparqlClient.userAgent)

	response, err := sparqlClient.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("SPARQL request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return nil, fmt.Errorf("SPARQL endpoint returned HTTP %d", response.StatusCode)
	}
	if contentType := response.Header.Get("Content-Type"); !strings.Contains(strings.ToLower(contentType), "json") {
		return nil, fmt.Errorf("SPARQL endpoint returned unexpected content type %q", contentType)
	}

	var decoded sparqlResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode SPARQL response: %w", err)
	}
	return decoded.Results.Bindings, nil
}
