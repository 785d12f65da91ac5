package citation

import (
	"fmt"
	"strconv"
)

// SelectorKind classifies a subdivision selector.
type SelectorKind string

const (
	// KindArticle selects an article ("Art. 41").
	KindArticle SelectorKind = "article"
	// KindParagraph selects a paragraph within an article ("Abs. 2").
	KindParagraph SelectorKind = "paragraph"
	// KindLetter selects a lettered item within a paragraph or article ("lit. c").
	KindLetter SelectorKind = "letter"
	// KindNumber selects a numbered item within a paragraph or article ("Ziff. 1").
	KindNumber SelectorKind = "number"
)

// chainDepth orders selector kinds from outermost to innermost. Letter and
// Number share the innermost depth: they are two enumeration schemes for the
// same level and are mutually exclusive within one chain.
func (selectorKind SelectorKind) chainDepth() int {
	switch selectorKind {
	case KindArticle:
		return 1
	case KindParagraph:
		return 2
	case KindLetter, KindNumber:
		return 3
	default:
		return 0
	}
}

// Selector is one step of a subdivision chain. Number carries the value for
// article, paragraph and number selectors; Letter carries the value for
// letter selectors (a lowercase letter, optionally with a "bis"/"ter"/
// "quater" sub-index, e.g. "abis").
type Selector struct {
	Kind   SelectorKind `json:"kind"`
	Number int          `json:"number,omitempty"`
	Letter string       `json:"letter,omitempty"`
}

// Article returns an article selector for the given number.
func Article(number int) Selector {
	return Selector{Kind: KindArticle, Number: number}
}

// Paragraph returns a paragraph selector for the given number.
func Paragraph(number int) Selector {
	return Selector{Kind: KindParagraph, Number: number}
}

// Letter returns a letter selector for the given letter token.
func Letter(letter string) Selector {
	return Selector{Kind: KindLetter, Letter: letter}
}

// Number returns a number (Ziffer) selector for the given number.
func Number(number int) Selector {
	return Selector{Kind: KindNumber, Number: number}
}

// Value returns the selector's value as it appears in canonical and fragment
// form: digits for article/paragraph/number, the letter token for letters.
func (selector Selector) Value() string {
	if selector.Kind == KindLetter {
		return selector.Letter
	}
	return strconv.Itoa(selector.Number)
}

// Label returns the canonical German label for the selector kind.
func (selector Selector) Label() string {
	switch selector.Kind {
	case KindArticle:
		return "Art."
	case KindParagraph:
		return "Abs."
	case KindLetter:
		return "lit."
	case KindNumber:
		return "Ziff."
	default:
		return ""
	}
}

// String renders the selector in canonical label form, e.g. "Abs. 2".
func (selector Selector) String() string {
	return fmt.Sprintf("%s %s", selector.Label(), selector.Value())
}

// validateChain enforces the chain invariant: strictly deepening, anchored
// by an article, with at most one selector per depth.
func validateChain(selectors []Selector) error {
	if len(selectors) == 0 {
		return nil
	}
	if selectors[0].Kind != KindArticle {
		return fmt.Errorf("subdivision chain must start with an article, got %s", selectors[0].Kind)
	}
	previousDepth := 0
	for _, selector := range selectors {
		depth := selector.Kind.chainDepth()
		if depth <= previousDepth {
			return fmt.Errorf("selector %s does not deepen the chain", selector)
		}
		previousDepth = depth
	}
	return nil
}
