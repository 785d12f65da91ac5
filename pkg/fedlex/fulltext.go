package fedlex

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// HTMLArticleFetcher retrieves the authoritative wording of an article by
// fetching the law's HTML manifestation and extracting the element anchored
// by the article's fragment id ("art_41"). It implements ArticleFetcher.
type HTMLArticleFetcher struct {
	httpClient HTTPClient
	userAgent  string
}

// NewHTMLArticleFetcher creates a fetcher over the given HTTP client.
// A nil client falls back to http.DefaultClient.
func NewHTMLArticleFetcher(httpClient HTTPClient, userAgent string) *HTMLArticleFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTMLArticleFetcher{httpClient: httpClient, userAgent: userAgent}
}

// FetchArticleText fetches law.URL and returns the flattened text of the
// element with id "art_{articleNumber}".
func (articleFetcher *HTMLArticleFetcher) FetchArticleText(ctx context.Context, law LawReference, articleNumber int) (string, error) {
	if law.URL == "" {
		return "", fmt.Errorf("law %s has no HTML manifestation URL", law.SRNumber)
	}
	if articleNumber < 1 {
		return "", fmt.Errorf("invalid article number %d", articleNumber)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, law.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", law.URL, err)
	}
	request.Header.Set("User-Agent", articleFetcher.userAgent)

	response, err := articleFetcher.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", law.URL, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return "", fmt.Errorf("fetching %s returned HTTP %d", law.URL, response.StatusCode)
	}

	document, err := html.Parse(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML of %s: %w", law.URL, err)
	}

	anchorID := fmt.Sprintf("art_%d", articleNumber)
	articleNode := findNodeByID(document, anchorID)
	if articleNode == nil {
		return "", fmt.Errorf("article anchor %q not found in %s", anchorID, law.URL)
	}

	text := flattenText(articleNode)
	if text == "" {
		return "", fmt.Errorf("article anchor %q in %s has no text", anchorID, law.URL)
	}
	return text, nil
}

// findNodeByID walks the DOM depth-first for the element with the given id.
func findNodeByID(node *html.Node, id string) *html.Node {
	if node.Type == html.ElementNode {
		for _, attribute := range node.Attr {
			if attribute.Key == "id" && attribute.Val == id {
				return node
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findNodeByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

// flattenText collects the text content of a node, collapsing runs of
// whitespace to single spaces.
func flattenText(node *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(current *html.Node) {
		if current.Type == html.TextNode {
			builder.WriteString(current.Data)
			builder.WriteByte(' ')
		}
		for child := current.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(strings.Fields(builder.String()), " ")
}
