package jsonsubsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternSetInternReusesIdenticalSource(t *testing.T) {
	p := NewPatternSet()
	id1, err := p.Intern("^a+$")
	require.NoError(t, err)
	id2, err := p.Intern("^a+$")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestPatternSetMatchString(t *testing.T) {
	p := NewPatternSet()
	id, err := p.Intern("^a+$")
	require.NoError(t, err)
	assert.True(t, p.MatchString(id, "aaa"))
	assert.False(t, p.MatchString(id, "aab"))
}

func TestTranslatePatternRejectsBackreferences(t *testing.T) {
	_, err := TranslatePattern(`(a)\1`)
	require.Error(t, err)
}

func TestTranslatePatternRejectsLookahead(t *testing.T) {
	_, err := TranslatePattern(`a(?=b)`)
	require.Error(t, err)
}

func TestTranslatePatternRejectsLookbehind(t *testing.T) {
	_, err := TranslatePattern(`(?<=a)b`)
	require.Error(t, err)
}

func TestTranslatePatternPassesThroughPlainRegex(t *testing.T) {
	out, err := TranslatePattern(`^[a-z]+$`)
	require.NoError(t, err)
	assert.Equal(t, `^[a-z]+$`, out)
}
