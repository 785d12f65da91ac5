package fedlex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zgbResultJSON = `{
  "results": {
    "bindings": [
      {
        "work": {"type": "uri", "value": "https://fedlex.data.admin.ch/eli/cc/24/233_245_233"},
        "title": {"type": "literal", "value": "Schweizerisches Zivilgesetzbuch"},
        "url": {"type": "uri", "value": "https://www.fedlex.admin.ch/eli/cc/24/233_245_233/de"}
      }
    ]
  }
}`

const emptyResultJSON = `{"results": {"bindings": []}}`

// newTestSPARQLClient points a client at a test server with rate limiting
// disabled for fast tests.
func newTestSPARQLClient(serverURL string) *SPARQLClient {
	return NewSPARQLClient(SPARQLClientConfig{
		Endpoint:  serverURL,
		RateLimit: 0,
		CacheTTL:  DefaultCacheTTL,
	})
}

func TestResolveSRNumber(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "application/sparql-results+json", r.Header.Get("Accept"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Contains(t, r.URL.Query().Get("query"), `str(?notation) = "210"`)
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, zgbResultJSON)
	}))
	defer server.Close()

	sparqlClient := newTestSPARQLClient(server.URL)
	law, err := sparqlClient.ResolveSRNumber(context.Background(), "210")
	require.NoError(t, err)
	require.NotNil(t, law)
	assert.Equal(t, "210", law.SRNumber)
	assert.Equal(t, "https://fedlex.data.admin.ch/eli/cc/24/233_245_233", law.CanonicalURI)
	assert.Equal(t, "Schweizerisches Zivilgesetzbuch", law.Title)
	assert.Equal(t, "https://www.fedlex.admin.ch/eli/cc/24/233_245_233/de", law.URL)
	assert.True(t, law.InForce)

	// Second resolution is served from the cache.
	_, err = sparqlClient.ResolveSRNumber(context.Background(), "210")
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestResolveSRNumber_FallsBackToWorkURI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, `{"results": {"bindings": [
			{"work": {"type": "uri", "value": "https://fedlex.data.admin.ch/eli/cc/1999/404"}}
		]}}`)
	}))
	defer server.Close()

	law, err := newTestSPARQLClient(server.URL).ResolveSRNumber(context.Background(), "101")
	require.NoError(t, err)
	require.NotNil(t, law)
	assert.Equal(t, "https://fedlex.data.admin.ch/eli/cc/1999/404", law.URL)
}

func TestResolveSRNumber_Unknown(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, emptyResultJSON)
	}))
	defer server.Close()

	sparqlClient := newTestSPARQLClient(server.URL)
	law, err := sparqlClient.ResolveSRNumber(context.Background(), "999.999")
	require.NoError(t, err)
	assert.Nil(t, law)

	// Confirmed misses are cached too.
	law, err = sparqlClient.ResolveSRNumber(context.Background(), "999.999")
	require.NoError(t, err)
	assert.Nil(t, law)
	assert.Equal(t, 1, requests)
}

func TestResolveSRNumber_RejectsNonSRInput(t *testing.T) {
	sparqlClient := newTestSPARQLClient("http://127.0.0.1:0")
	_, err := sparqlClient.ResolveSRNumber(context.Background(), `" . ?x ?y ?z`)
	assert.Error(t, err)
}

func TestResolveSRNumber_LookupFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "non_json_content_type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, "<html>maintenance</html>")
			},
		},
		{
			name: "malformed_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, "{truncated")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			_, err := newTestSPARQLClient(server.URL).ResolveSRNumber(context.Background(), "210")
			var lookupFailure *LookupFailure
			require.ErrorAs(t, err, &lookupFailure)
		})
	}
}

func TestFetchAbbreviations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("query"), "jolux:titleShort")
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, `{"results": {"bindings": [
			{"abbr": {"value": "OR"}, "sr": {"value": "220"}, "work": {"value": "https://fedlex.data.admin.ch/eli/cc/27/317_321_377"}},
			{"abbr": {"value": "OR"}, "sr": {"value": "220"}, "work": {"value": "https://fedlex.data.admin.ch/eli/cc/27/317_321_377"}},
			{"abbr": {"value": " ZGB "}, "sr": {"value": "210"}, "work": {"value": "https://fedlex.data.admin.ch/eli/cc/24/233_245_233"}},
			{"abbr": {"value": ""}, "sr": {"value": "999"}}
		]}}`)
	}))
	defer server.Close()

	entries, err := newTestSPARQLClient(server.URL).FetchAbbreviations(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Len(t, entries["OR"], 1, "duplicate bindings are collapsed")
	assert.Equal(t, "220", entries["OR"][0].SRNumber)

	require.Len(t, entries["ZGB"], 1, "abbreviations are trimmed")
	assert.Equal(t, "210", entries["ZGB"][0].SRNumber)
}
