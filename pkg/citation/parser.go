package citation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// srNumberRe matches Systematic Law (SR) numbers: dot-separated digit
// groups, e.g. "210", "172.021". International instruments carry a leading
// "0." group ("0.312.11").
var srNumberRe = regexp.MustCompile(`^\d+(\.\d+)*$`)

// IsSRNumber reports whether token is shaped like an SR number.
func IsSRNumber(token string) bool {
	return srNumberRe.MatchString(token)
}

// isAbbreviationToken reports whether token is shaped like a law
// abbreviation: letters with optional embedded dots or hyphens ("OR",
// "SchKG", "E-MRK").
func isAbbreviationToken(token string) bool {
	hasLetter := false
	for _, r := range token {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == '.' || r == '-':
		default:
			return false
		}
	}
	return hasLetter
}

// splitAtDigit splits token at its first digit. Either part may be empty.
func splitAtDigit(token string) (string, string) {
	for i, r := range token {
		if unicode.IsDigit(r) {
			return token[:i], token[i:]
		}
	}
	return token, ""
}

// Parse turns a raw citation string into a ParsedCitation. The leading
// token is classified as the law designator — an SR number takes precedence
// over an abbreviation — and the remainder is handed to the subdivision
// grammar. A citation written without a space between law and article
// ("OR41") splits at the first letter-to-digit boundary, the numeric tail
// joining the subdivision tokens. Parse never performs lookups.
//
// It fails with *ParseError when no designator can be extracted and with
// *GrammarError when the subdivision chain is internally inconsistent.
// There is no default law context: a query that opens with a subdivision
// label ("Art. 52 Abs. 1 lit. c") is a *ParseError, not a guess.
func Parse(query string) (*ParsedCitation, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, &ParseError{Query: query, Reason: "empty query"}
	}

	tokens := strings.Fields(trimmed)
	head := strings.Trim(tokens[0], ",;:")
	rest := tokens[1:]

	if !IsSRNumber(head) {
		if prefix, tail := splitAtDigit(head); prefix != "" && tail != "" {
			head = prefix
			rest = append([]string{tail}, rest...)
		}
	}

	var designator string
	switch {
	case IsSRNumber(head):
		designator = head
	case isLabelToken(head):
		return nil, &ParseError{
			Query:  query,
			Reason: fmt.Sprintf("%q is a subdivision label, not a law designator, and no default law context exists", head),
		}
	case isAbbreviationToken(head):
		designator = strings.Trim(head, ".")
	default:
		return nil, &ParseError{Query: query, Reason: "no recognizable law designator"}
	}
	if designator == "" {
		return nil, &ParseError{Query: query, Reason: "no recognizable law designator"}
	}

	selectors, reason := scanSelectors(rest)
	if reason != "" {
		return nil, &GrammarError{
			Query:      query,
			Designator: designator,
			Selectors:  selectors,
			Reason:     reason,
		}
	}

	parsed := &ParsedCitation{Designator: designator, Selectors: selectors}
	if err := validateChain(parsed.Selectors); err != nil {
		return nil, &GrammarError{
			Query:      query,
			Designator: designator,
			Selectors:  selectors,
			Reason:     err.Error(),
		}
	}
	return parsed, nil
}
