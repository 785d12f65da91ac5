// Package citation parses free-form, human-written citations to Swiss
// federal legislation (e.g. "OR 41, Abs. 2", "ZGB 1", "210 Art. 7") into a
// structured reference: a law designator plus an ordered chain of
// subdivision selectors, and encodes selector chains as ELI-style URL
// fragments for deep links into the consolidated text.
//
// The package is purely syntactic: it never looks a designator up. Mapping a
// designator to a statute is the job of pkg/fedlex.
package citation

import (
	"strings"
)

// ParsedCitation is the structured form of one citation string.
// Selectors is empty (the citation addresses the document root) or a
// strictly deepening chain: at most one Article, at most one Paragraph and
// at most one Letter-or-Number, in that order.
type ParsedCitation struct {
	// Designator is the law token as written: an abbreviation ("OR",
	// "SchKG") or a Systematic Law number ("210", "0.312.11").
	Designator string `json:"designator"`

	// Selectors is the ordered subdivision chain.
	Selectors []Selector `json:"selectors,omitempty"`
}

// Canonical renders the citation in canonical label form, e.g.
// "OR Art. 41 Abs. 2 lit. c". Parsing the canonical form yields an equal
// ParsedCitation.
func (parsedCitation *ParsedCitation) Canonical() string {
	parts := make([]string, 0, 1+2*len(parsedCitation.Selectors))
	parts = append(parts, parsedCitation.Designator)
	for _, selector := range parsedCitation.Selectors {
		parts = append(parts, selector.Label(), selector.Value())
	}
	return strings.Join(parts, " ")
}

// Equal reports whether two parsed citations are identical.
func (parsedCitation *ParsedCitation) Equal(other *ParsedCitation) bool {
	if parsedCitation == nil || other == nil {
		return parsedCitation == other
	}
	if parsedCitation.Designator != other.Designator {
		return false
	}
	if len(parsedCitation.Selectors) != len(other.Selectors) {
		return false
	}
	for i, selector := range parsedCitation.Selectors {
		if selector != other.Selectors[i] {
			return false
		}
	}
	return true
}

// ArticleNumber returns the article number of the chain, or 0 if the chain
// has no article selector.
func (parsedCitation *ParsedCitation) ArticleNumber() int {
	for _, selector := range parsedCitation.Selectors {
		if selector.Kind == KindArticle {
			return selector.Number
		}
	}
	return 0
}
