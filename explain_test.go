package jsonsubsume

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainCollectsNestedPropertyFailure(t *testing.T) {
	c := &Schema{
		Type: []string{"object"},
		Properties: map[string]*Schema{
			"age": {Type: []string{"integer"}, Minimum: &Rat{big.NewRat(18, 1)}},
		},
	}
	v := Obj(map[string]Value{"age": Int(5)})
	exp := Explain(c, v, NewPatternSet(), nil, nil)
	require.NotEmpty(t, exp.FailedConstraints)
	found := false
	for _, f := range exp.FailedConstraints {
		if f.Path == "/age" && f.Reason == ReasonNumericBound {
			found = true
		}
	}
	assert.True(t, found)
	assert.NotEmpty(t, exp.Recommendations)
}

func TestExplainWithoutCatalogUsesFallbackText(t *testing.T) {
	exp := Explain(&Schema{Type: []string{"integer"}}, Str("x"), NewPatternSet(), nil, nil)
	assert.Equal(t, "producer schema is not subsumed by consumer schema", exp.Text)
}

func TestExplainDeduplicatesRecommendationsByReason(t *testing.T) {
	c := &Schema{
		Type: []string{"array"},
		Items: &Schema{Type: []string{"integer"}},
	}
	v := Arr([]Value{Str("a"), Str("b")})
	exp := Explain(c, v, NewPatternSet(), nil, nil)
	count := 0
	for _, r := range exp.Recommendations {
		if r == "align the producer's item schema with the consumer's" {
			count++
		}
	}
	assert.LessOrEqual(t, count, 1)
}

func TestExplainAllOfBranchesAreWalked(t *testing.T) {
	c := &Schema{
		AllOf: []*Schema{
			{Type: []string{"integer"}},
		},
	}
	exp := Explain(c, Str("x"), NewPatternSet(), nil, nil)
	found := false
	for _, f := range exp.FailedConstraints {
		if f.Reason == ReasonTypeMismatch {
			found = true
		}
	}
	assert.True(t, found)
}
