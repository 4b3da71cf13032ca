package jsonsubsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUniverseCollectsPropertyNames(t *testing.T) {
	p := &Schema{Type: []string{"object"}, Properties: map[string]*Schema{"a": {}, "b": {}}}
	c := &Schema{Type: []string{"object"}, Required: []string{"c"}}
	u, err := ExtractUniverse(p, c, 8)
	require.NoError(t, err)
	assert.Contains(t, u.Keys, "a")
	assert.Contains(t, u.Keys, "b")
	assert.Contains(t, u.Keys, "c")
}

func TestExtractUniverseAddsFreshKeys(t *testing.T) {
	p := &Schema{Type: []string{"object"}, Properties: map[string]*Schema{"a": {}}}
	u, err := ExtractUniverse(p, &Schema{}, 8)
	require.NoError(t, err)
	found := false
	for _, k := range u.Keys {
		if k != "a" {
			found = true
		}
	}
	assert.True(t, found, "expected at least one fresh key beyond the enumerated properties")
}

func TestExtractUniverseBoundsLMax(t *testing.T) {
	n := 20
	p := &Schema{Type: []string{"array"}, MaxItems: &n}
	u, err := ExtractUniverse(p, &Schema{}, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, u.LMax)
}

func TestExtractUniverseRejectsNonPositiveBound(t *testing.T) {
	_, err := ExtractUniverse(&Schema{}, &Schema{}, 0)
	require.Error(t, err)
}
