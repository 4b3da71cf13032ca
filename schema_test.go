package jsonsubsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchemaBooleanLeaves(t *testing.T) {
	s, err := ParseSchema([]byte(`true`))
	require.NoError(t, err)
	assert.True(t, s.IsBooleanLeaf())
	assert.True(t, *s.Boolean)

	s, err = ParseSchema([]byte(`false`))
	require.NoError(t, err)
	assert.True(t, s.IsBooleanLeaf())
	assert.False(t, *s.Boolean)
}

func TestParseSchemaBasicKeywords(t *testing.T) {
	s, err := ParseSchema([]byte(`{"type":"string","minLength":2,"maxLength":5,"pattern":"^a"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"string"}, s.Type)
	require.NotNil(t, s.MinLength)
	assert.Equal(t, 2, *s.MinLength)
	require.NotNil(t, s.MaxLength)
	assert.Equal(t, 5, *s.MaxLength)
	require.NotNil(t, s.Pattern)
	assert.Equal(t, "^a", *s.Pattern)
}

func TestParseSchemaRejectsUnsupportedKeyword(t *testing.T) {
	_, err := ParseSchema([]byte(`{"type":"string","unevaluatedProperties":false}`))
	require.Error(t, err)
	var unsupported *UnsupportedFeatureError
	assert.ErrorAs(t, err, &unsupported)
}

func TestParseSchemaIgnoresAnnotationOnlyKeywords(t *testing.T) {
	s, err := ParseSchema([]byte(`{"type":"string","title":"t","description":"d","$comment":"c"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"string"}, s.Type)
}

func TestParseSchemaDisambiguatesIntVsRealConst(t *testing.T) {
	s, err := ParseSchema([]byte(`{"const":1}`))
	require.NoError(t, err)
	assert.True(t, s.Const.IsInt())

	s, err = ParseSchema([]byte(`{"const":1.0}`))
	require.NoError(t, err)
	assert.True(t, s.Const.IsReal())
}

func TestParseSchemaExclusiveMinimumBooleanVsNumeric(t *testing.T) {
	s, err := ParseSchema([]byte(`{"minimum":1,"exclusiveMinimum":true}`))
	require.NoError(t, err)
	require.NotNil(t, s.ExclusiveMinimumBool)
	assert.True(t, *s.ExclusiveMinimumBool)
	assert.Nil(t, s.ExclusiveMinimumNum)

	s, err = ParseSchema([]byte(`{"exclusiveMinimum":3}`))
	require.NoError(t, err)
	assert.Nil(t, s.ExclusiveMinimumBool)
	require.NotNil(t, s.ExclusiveMinimumNum)
}

func TestParseSchemaLegacyDependenciesSplitsIntoRequiredAndSchemas(t *testing.T) {
	s, err := ParseSchema([]byte(`{"dependencies":{"a":["b","c"],"d":{"type":"string"}}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, s.DependentRequired["a"])
	require.NotNil(t, s.DependentSchemas["d"])
	assert.Equal(t, []string{"string"}, s.DependentSchemas["d"].Type)
}

func TestParseSchemaRejectsNonObjectNonBoolRoot(t *testing.T) {
	_, err := ParseSchema([]byte(`"nope"`))
	require.Error(t, err)
}

func TestParseSchemaRejectsUnknownTypeName(t *testing.T) {
	_, err := ParseSchema([]byte(`{"type":"weird"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestParseSchemaRequiredMustBeStringArray(t *testing.T) {
	_, err := ParseSchema([]byte(`{"required":"a"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequiredNotStringArray)
}
