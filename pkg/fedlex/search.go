package fedlex

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coolbeans/fedlex/pkg/citation"
)

// Searcher composes the citation parser, the designator resolver and the
// fragment encoder into the end-to-end search operation. All entities it
// produces are request-scoped values; the only shared state is the
// read-only abbreviation table behind the resolver.
type Searcher struct {
	resolver *Resolver
	fetcher  ArticleFetcher
	logger   *zap.Logger
}

// NewSearcher creates a searcher. The fetcher is optional: with a nil
// fetcher results carry no full text. A nil logger disables logging.
func NewSearcher(resolver *Resolver, fetcher ArticleFetcher, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{resolver: resolver, fetcher: fetcher, logger: logger}
}

// SearchLaw resolves one free-form citation string: parse, resolve the
// designator, encode the subdivision fragment, then optionally enrich the
// result with the authoritative article text.
//
// Component errors propagate as their most specific kind (*citation.ParseError,
// *citation.GrammarError, *NotFoundError, *AmbiguousError, *LookupFailure).
// A failed full-text enrichment is never fatal: the result is returned with
// an empty FullText and the failure recorded in Note.
func (searcher *Searcher) SearchLaw(ctx context.Context, query string) (*ResolutionResult, error) {
	parsed, err := citation.Parse(query)
	if err != nil {
		return nil, err
	}

	law, err := searcher.resolver.Resolve(ctx, parsed.Designator)
	if err != nil {
		return nil, err
	}

	result := &ResolutionResult{
		Law:      *law,
		Fragment: citation.EncodeFragment(parsed.Selectors),
	}
	if law.URL != "" {
		result.DeepLink = law.URL + result.Fragment
	}

	articleNumber := parsed.ArticleNumber()
	if searcher.fetcher != nil && articleNumber > 0 {
		fullText, fetchErr := searcher.fetcher.FetchArticleText(ctx, *law, articleNumber)
		if fetchErr != nil {
			result.Note = fmt.Sprintf("full text unavailable: %v", fetchErr)
			searcher.logger.Warn("full-text enrichment failed",
				zap.String("query", query),
				zap.String("sr_number", law.SRNumber),
				zap.Int("article", articleNumber),
				zap.Error(fetchErr),
			)
		} else {
			result.FullText = fullText
		}
	}

	return result, nil
}
