package jsonsubsume

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumberLiteralDisambiguatesIntVsReal(t *testing.T) {
	_, isInt, err := ParseNumberLiteral("42")
	require.NoError(t, err)
	assert.True(t, isInt)

	_, isInt, err = ParseNumberLiteral("42.0")
	require.NoError(t, err)
	assert.False(t, isInt)

	_, isInt, err = ParseNumberLiteral("4.2e1")
	require.NoError(t, err)
	assert.False(t, isInt)
}

func TestParseNumberLiteralRejectsGarbage(t *testing.T) {
	_, _, err := ParseNumberLiteral("not-a-number")
	require.Error(t, err)
}

func TestRatBetweenIsStrictlyInRange(t *testing.T) {
	lo := big.NewRat(0, 1)
	hi := big.NewRat(1, 1)
	mid := RatBetween(lo, hi)
	assert.True(t, mid.Cmp(lo) > 0)
	assert.True(t, mid.Cmp(hi) < 0)
}

func TestFormatRatTrimsTrailingZeros(t *testing.T) {
	r := NewRat("2.5000000000")
	assert.Equal(t, "2.5", FormatRat(r))
}

func TestFormatRatIntegerHasNoDecimalPoint(t *testing.T) {
	r := NewRat(3)
	assert.Equal(t, "3", FormatRat(r))
}

func TestNewRatRejectsUnsupportedType(t *testing.T) {
	r := NewRat([]int{1, 2})
	assert.Nil(t, r)
}
