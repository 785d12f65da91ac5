package fedlex

import (
	"context"
	"errors"

	"github.com/coolbeans/fedlex/pkg/citation"
)

// Resolver maps a law designator to a canonical LawReference. SR-number
// designators go to the SR resolver; everything else is looked up in the
// abbreviation table, exact match first, then case-insensitively. Lookups
// are exact only — there is no fuzzy or typo correction, so a citation never
// silently resolves to the wrong statute.
type Resolver struct {
	table AbbreviationTable
	sr    SRResolver
}

// NewResolver creates a resolver over the given collaborators.
func NewResolver(table AbbreviationTable, sr SRResolver) *Resolver {
	return &Resolver{table: table, sr: sr}
}

// Resolve classifies and resolves one designator.
//
// It fails with *NotFoundError when the designator matches nothing, with
// *AmbiguousError when an abbreviation still maps to several candidates
// after preferring in-force consolidations, and with *LookupFailure when an
// external call fails.
func (resolver *Resolver) Resolve(ctx context.Context, designator string) (*LawReference, error) {
	if citation.IsSRNumber(designator) {
		return resolver.resolveSRNumber(ctx, designator)
	}
	return resolver.resolveAbbreviation(designator)
}

func (resolver *Resolver) resolveSRNumber(ctx context.Context, srNumber string) (*LawReference, error) {
	law, err := resolver.sr.ResolveSRNumber(ctx, srNumber)
	if err != nil {
		var lookupFailure *LookupFailure
		if errors.As(err, &lookupFailure) {
			return nil, err
		}
		return nil, &LookupFailure{Operation: "SR number resolution", Err: err}
	}
	if law == nil {
		return nil, &NotFoundError{Designator: srNumber}
	}
	return law, nil
}

func (resolver *Resolver) resolveAbbreviation(abbreviation string) (*LawReference, error) {
	candidates := resolver.table.Lookup(abbreviation)
	if len(candidates) == 0 {
		candidates = resolver.table.LookupFold(abbreviation)
	}
	if len(candidates) == 0 {
		return nil, &NotFoundError{Designator: abbreviation}
	}

	if len(candidates) > 1 {
		inForce := make([]LawReference, 0, len(candidates))
		for _, candidate := range candidates {
			if candidate.InForce {
				inForce = append(inForce, candidate)
			}
		}
		if len(inForce) > 0 {
			candidates = inForce
		}
	}
	if len(candidates) > 1 {
		return nil, &AmbiguousError{Designator: abbreviation, Candidates: candidates}
	}

	law := candidates[0]
	law.Abbreviation = abbreviation
	return &law, nil
}
