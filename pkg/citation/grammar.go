package citation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Subdivision label synonyms, matched case-insensitively with an optional
// trailing period. A bare leading integer is an unlabeled article; a bare
// lowercase letter after an article or paragraph is an unlabeled letter.
var labelKinds = map[string]SelectorKind{
	"art":       KindArticle,
	"artikel":   KindArticle,
	"article":   KindArticle,
	"abs":       KindParagraph,
	"absatz":    KindParagraph,
	"lit":       KindLetter,
	"buchstabe": KindLetter,
	"ziff":      KindNumber,
	"ziffer":    KindNumber,
}

var (
	// ordinalRe matches a numeric selector value. A trailing letter
	// sub-index ("712a") is tolerated and ignored; the digits address the
	// selector.
	ordinalRe = regexp.MustCompile(`^(\d+)([a-z]+)?$`)

	// letterValueRe matches a letter selector value: one lowercase letter,
	// optionally with a "bis"-style sub-index ("abis").
	letterValueRe = regexp.MustCompile(`^[a-z](?:bis|ter|quater|quinquies)?$`)
)

// normalizeToken lowercases a token and strips surrounding punctuation so
// that "Abs.", "abs" and "Abs.," all read as "abs".
func normalizeToken(token string) string {
	return strings.ToLower(strings.Trim(token, ".,;:()"))
}

// isLabelToken reports whether token is a subdivision label.
func isLabelToken(token string) bool {
	_, ok := labelKinds[normalizeToken(token)]
	return ok
}

// parseOrdinal parses a numeric selector value. Values below 1 are invalid.
func parseOrdinal(value string) (int, bool) {
	match := ordinalRe.FindStringSubmatch(value)
	if match == nil {
		return 0, false
	}
	number, err := strconv.Atoi(match[1])
	if err != nil || number < 1 {
		return 0, false
	}
	return number, true
}

// scanSelectors runs the subdivision grammar over the tokens that follow
// the designator: a left-to-right greedy scan over an ordered set of
// matcher rules. Recognized labels consume the label token and the
// following value token. Selectors with invalid values are dropped;
// unrecognized tokens are ignored rather than rejected.
//
// A non-empty reason is returned when the recognized chain is internally
// inconsistent: a selector without an article anchor, a selector that does
// not deepen the chain, or a sole bare article number below 1. The
// selectors recognized before the failure accompany the reason.
func scanSelectors(tokens []string) ([]Selector, string) {
	var selectors []Selector
	depth := 0
	invalidBareArticle := false

	appendSelector := func(selector Selector) string {
		if depth == 0 && selector.Kind != KindArticle {
			return fmt.Sprintf("%s has no article to anchor to", selector)
		}
		if selector.Kind.chainDepth() <= depth {
			return fmt.Sprintf("%s does not deepen the chain", selector)
		}
		selectors = append(selectors, selector)
		depth = selector.Kind.chainDepth()
		return ""
	}

	for i := 0; i < len(tokens); i++ {
		token := normalizeToken(tokens[i])
		if token == "" {
			continue
		}

		if kind, ok := labelKinds[token]; ok {
			if i+1 >= len(tokens) {
				continue // dangling label, tolerated
			}
			value := normalizeToken(tokens[i+1])
			i++

			var selector Selector
			if kind == KindLetter {
				if !letterValueRe.MatchString(value) {
					continue // dropped
				}
				selector = Letter(value)
			} else {
				number, valid := parseOrdinal(value)
				if !valid {
					continue // dropped
				}
				switch kind {
				case KindArticle:
					selector = Article(number)
				case KindParagraph:
					selector = Paragraph(number)
				default:
					selector = Number(number)
				}
			}
			if reason := appendSelector(selector); reason != "" {
				return selectors, reason
			}
			continue
		}

		// Bare leading integer: an article cited without its label ("ZGB 1").
		if depth == 0 && ordinalRe.MatchString(token) {
			number, valid := parseOrdinal(token)
			if !valid {
				invalidBareArticle = true
				continue
			}
			if reason := appendSelector(Article(number)); reason != "" {
				return selectors, reason
			}
			continue
		}

		// Bare lowercase letter after an article or paragraph ("OR 41 2 c").
		if depth >= 1 && depth < 3 && letterValueRe.MatchString(token) {
			if reason := appendSelector(Letter(token)); reason != "" {
				return selectors, reason
			}
			continue
		}

		// Unrecognized tail token, ignored.
	}

	if len(selectors) == 0 && invalidBareArticle {
		return nil, "bare article number must be 1 or greater"
	}
	return selectors, ""
}
