package citation

import (
	"fmt"
)

// ParseError reports a query from which no law designator could be
// extracted: the query is empty, starts with a subdivision label, or its
// leading token is neither SR-number-shaped nor abbreviation-shaped.
type ParseError struct {
	Query  string
	Reason string
}

func (parseError *ParseError) Error() string {
	return fmt.Sprintf("cannot parse citation %q: %s", parseError.Query, parseError.Reason)
}

// GrammarError reports a subdivision chain that is internally inconsistent:
// a selector precedes its anchor (e.g. a letter before any article), repeats
// a level, or the sole bare article number is invalid. The designator and
// any selectors recognized before the failure are preserved as diagnostic
// context.
type GrammarError struct {
	Query      string
	Designator string
	Selectors  []Selector
	Reason     string
}

func (grammarError *GrammarError) Error() string {
	return fmt.Sprintf("invalid subdivision chain in %q: %s", grammarError.Query, grammarError.Reason)
}
