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

const lawHTML = `<!DOCTYPE html>
<html>
<body>
  <main>
    <article id="art_40">
      <h6>Art. 40</h6>
      <p>Etwas anderes.</p>
    </article>
    <article id="art_41">
      <h6>Art. 41</h6>
      <p>Wer einem andern widerrechtlich   Schaden zufügt, sei es mit Absicht,
      sei es aus Fahrlässigkeit, wird ihm zum Ersatze verpflichtet.</p>
    </article>
  </main>
</body>
</html>`

func TestFetchArticleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, lawHTML)
	}))
	defer server.Close()

	articleFetcher := NewHTMLArticleFetcher(nil, "")
	law := LawReference{SRNumber: "220", URL: server.URL}

	text, err := articleFetcher.FetchArticleText(context.Background(), law, 41)
	require.NoError(t, err)
	assert.Contains(t, text, "Art. 41")
	assert.Contains(t, text, "widerrechtlich Schaden zufügt", "whitespace runs are collapsed")
	assert.NotContains(t, text, "Etwas anderes")
}

func TestFetchArticleText_AnchorNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, lawHTML)
	}))
	defer server.Close()

	articleFetcher := NewHTMLArticleFetcher(nil, "")
	_, err := articleFetcher.FetchArticleText(context.Background(), LawReference{URL: server.URL}, 999)
	assert.Error(t, err)
}

func TestFetchArticleText_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	articleFetcher := NewHTMLArticleFetcher(nil, "")
	_, err := articleFetcher.FetchArticleText(context.Background(), LawReference{URL: server.URL}, 41)
	assert.Error(t, err)
}

func TestFetchArticleText_InvalidInputs(t *testing.T) {
	articleFetcher := NewHTMLArticleFetcher(nil, "")

	_, err := articleFetcher.FetchArticleText(context.Background(), LawReference{SRNumber: "220"}, 41)
	assert.Error(t, err, "missing manifestation URL")

	_, err = articleFetcher.FetchArticleText(context.Background(), LawReference{URL: "http://example.invalid"}, 0)
	assert.Error(t, err, "article numbers start at 1")
}
