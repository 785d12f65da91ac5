package fedlex

import (
	"fmt"
	"strings"
)

// NotFoundError reports a designator that resolves to no known law: the
// token is neither a known abbreviation nor an SR number with a current
// consolidation.
type NotFoundError struct {
	Designator string
}

func (notFoundError *NotFoundError) Error() string {
	return fmt.Sprintf("no law found for designator %q", notFoundError.Designator)
}

// AmbiguousError reports an abbreviation that maps to more than one active
// consolidation after the in-force preference was applied. All candidates
// are surfaced so the caller can disambiguate instead of the resolver
// guessing.
type AmbiguousError struct {
	Designator string
	Candidates []LawReference
}

func (ambiguousError *AmbiguousError) Error() string {
	srNumbers := make([]string, len(ambiguousError.Candidates))
	for i, candidate := range ambiguousError.Candidates {
		srNumbers[i] = candidate.SRNumber
	}
	return fmt.Sprintf("designator %q is ambiguous between SR %s",
		ambiguousError.Designator, strings.Join(srNumbers, ", "))
}

// LookupFailure reports a failed or timed-out call to an external
// collaborator. The underlying transport error is wrapped, never surfaced
// raw to callers.
type LookupFailure struct {
	Operation string
	Err       error
}

func (lookupFailure *LookupFailure) Error() string {
	return fmt.Sprintf("lookup failed during %s: %v", lookupFailure.Operation, lookupFailure.Err)
}

func (lookupFailure *LookupFailure) Unwrap() error {
	return lookupFailure.Err
}
