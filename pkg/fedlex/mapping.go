package fedlex

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// MappingEntry is one abbreviation-table row in the mapping artifact.
type MappingEntry struct {
	SRNumber     string `json:"sr_number"`
	CanonicalURI string `json:"canonical_uri"`
	Title        string `json:"title,omitempty"`
	URL          string `json:"url,omitempty"`
	InForce      bool   `json:"in_force"`
}

// Mapping is a frozen abbreviation table built once from an externally
// refreshed JSON artifact (see the `mapping build` command). It is never
// mutated after construction and is safe for concurrent reads.
type Mapping struct {
	entries map[string][]LawReference
	folded  map[string][]LawReference
}

// NewMapping builds a frozen table from mapping entries keyed by
// abbreviation.
func NewMapping(entries map[string][]MappingEntry) *Mapping {
	mapping := &Mapping{
		entries: make(map[string][]LawReference, len(entries)),
		folded:  make(map[string][]LawReference),
	}
	for abbreviation, rows := range entries {
		references := make([]LawReference, 0, len(rows))
		for _, row := range rows {
			references = append(references, LawReference{
				SRNumber:     row.SRNumber,
				CanonicalURI: row.CanonicalURI,
				Title:        row.Title,
				URL:          row.URL,
				InForce:      row.InForce,
			})
		}
		// Deterministic candidate order regardless of artifact order.
		sort.Slice(references, func(i, j int) bool {
			return references[i].SRNumber < references[j].SRNumber
		})
		mapping.entries[abbreviation] = references

		foldedKey := strings.ToUpper(abbreviation)
		mapping.folded[foldedKey] = append(mapping.folded[foldedKey], references...)
	}
	return mapping
}

// LoadMapping reads a mapping artifact from disk. The artifact is a JSON
// object keyed by abbreviation, each value a list of mapping entries.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	var entries map[string][]MappingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}

	return NewMapping(entries), nil
}

// Lookup returns the references registered for token, exact match only.
func (mapping *Mapping) Lookup(token string) []LawReference {
	return mapping.entries[token]
}

// LookupFold returns the references registered for token matched
// case-insensitively.
func (mapping *Mapping) LookupFold(token string) []LawReference {
	return mapping.folded[strings.ToUpper(token)]
}

// Len returns the number of distinct abbreviations in the table.
func (mapping *Mapping) Len() int {
	return len(mapping.entries)
}
