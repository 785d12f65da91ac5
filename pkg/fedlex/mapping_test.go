package fedlex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMapping(t *testing.T) {
	mapping := NewMapping(map[string][]MappingEntry{
		"OR": {{
			SRNumber:     "220",
			CanonicalURI: "https://fedlex.data.admin.ch/eli/cc/27/317_321_377",
			Title:        "Obligationenrecht",
			InForce:      true,
		}},
		"ZGB": {{
			SRNumber: "210",
			InForce:  true,
		}},
	})

	require.Equal(t, 2, mapping.Len())

	references := mapping.Lookup("OR")
	require.Len(t, references, 1)
	assert.Equal(t, "220", references[0].SRNumber)
	assert.Equal(t, "Obligationenrecht", references[0].Title)
	assert.True(t, references[0].InForce)

	assert.Empty(t, mapping.Lookup("or"), "exact lookup is case-sensitive")
	folded := mapping.LookupFold("or")
	require.Len(t, folded, 1)
	assert.Equal(t, "220", folded[0].SRNumber)

	assert.Empty(t, mapping.Lookup("BV"))
}

func TestNewMapping_SortsCandidates(t *testing.T) {
	mapping := NewMapping(map[string][]MappingEntry{
		"DSG": {
			{SRNumber: "235.2", InForce: true},
			{SRNumber: "235.1", InForce: false},
		},
	})

	references := mapping.Lookup("DSG")
	require.Len(t, references, 2)
	assert.Equal(t, "235.1", references[0].SRNumber)
	assert.Equal(t, "235.2", references[1].SRNumber)
}

func TestLoadMapping(t *testing.T) {
	artifact := `{
  "OR": [{"sr_number": "220", "canonical_uri": "https://fedlex.data.admin.ch/eli/cc/27/317_321_377", "in_force": true}],
  "ZGB": [{"sr_number": "210", "canonical_uri": "https://fedlex.data.admin.ch/eli/cc/24/233_245_233", "in_force": true}]
}`
	path := filepath.Join(t.TempDir(), "abbreviation_mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

	mapping, err := LoadMapping(path)
	require.NoError(t, err)
	assert.Equal(t, 2, mapping.Len())

	references := mapping.Lookup("ZGB")
	require.Len(t, references, 1)
	assert.Equal(t, "210", references[0].SRNumber)
}

func TestLoadMapping_Errors(t *testing.T) {
	_, err := LoadMapping(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = LoadMapping(path)
	assert.Error(t, err)
}
