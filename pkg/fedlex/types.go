// Package fedlex resolves parsed Swiss legislation citations against the
// Fedlex publication platform: it maps a law designator (abbreviation or SR
// number) to a canonical consolidated law, encodes subdivision chains as
// deep-link fragments, and optionally enriches a resolution with the
// authoritative article text.
//
// External lookups go through narrow collaborator interfaces so the
// resolution logic is testable with mock tables and resolvers. The shipped
// implementations are a SPARQL client against the Fedlex endpoint and an
// HTML article-text fetcher.
package fedlex

import (
	"context"
)

// LawReference identifies one consolidated federal law.
type LawReference struct {
	// SRNumber is the Systematic Law number, e.g. "220" or "0.312.11".
	SRNumber string `json:"sr_number"`

	// CanonicalURI is the Fedlex work URI of the current consolidation.
	CanonicalURI string `json:"canonical_uri"`

	// Title is the German title of the consolidated expression, when known.
	Title string `json:"title,omitempty"`

	// URL is the HTML manifestation of the text, the base for deep links.
	URL string `json:"url,omitempty"`

	// Abbreviation is the abbreviation the caller used, when the reference
	// was resolved through the abbreviation table.
	Abbreviation string `json:"abbreviation,omitempty"`

	// InForce reports whether the consolidation is currently in force.
	InForce bool `json:"in_force"`
}

// ResolutionResult is the outcome of one successful SearchLaw call.
type ResolutionResult struct {
	Law      LawReference `json:"law"`
	Fragment string       `json:"fragment"`

	// DeepLink is Law.URL with the fragment appended, when a URL is known.
	DeepLink string `json:"deep_link,omitempty"`

	// FullText is the authoritative article wording, when enrichment
	// succeeded. Enrichment failures are never fatal; Note records them.
	FullText string `json:"full_text,omitempty"`
	Note     string `json:"note,omitempty"`
}

// AbbreviationTable is a read-only lookup from law abbreviations to
// references. Implementations must be safe for concurrent reads.
type AbbreviationTable interface {
	// Lookup returns the references registered for token, exact match only.
	Lookup(token string) []LawReference

	// LookupFold returns the references registered for token matched
	// case-insensitively.
	LookupFold(token string) []LawReference
}

// SRResolver resolves a validated SR number to the current consolidation.
// A nil reference with a nil error means no such law exists.
type SRResolver interface {
	ResolveSRNumber(ctx context.Context, srNumber string) (*LawReference, error)
}

// ArticleFetcher retrieves the authoritative text of one article.
type ArticleFetcher interface {
	FetchArticleText(ctx context.Context, law LawReference, articleNumber int) (string, error)
}
