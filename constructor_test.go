package jsonsubsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorObjectWithPropertiesAndRequired(t *testing.T) {
	s := Object(
		Prop("name", String(WithMinLength(1))),
		Prop("age", Integer(WithMinimum(0))),
		WithRequired("name"),
	)
	assert.Equal(t, []string{"object"}, s.Type)
	require.Contains(t, s.Properties, "name")
	require.Contains(t, s.Properties, "age")
	assert.Equal(t, []string{"string"}, s.Properties["name"].Type)
	assert.Equal(t, []string{"name"}, s.Required)
}

func TestConstructorOneOfAnyOfAllOf(t *testing.T) {
	s := OneOf(String(), Integer())
	assert.Len(t, s.OneOf, 2)

	s = AnyOf(String(), Integer())
	assert.Len(t, s.AnyOf, 2)

	s = AllOf(String(), String(WithMinLength(2)))
	assert.Len(t, s.AllOf, 2)
}

func TestConstructorConditional(t *testing.T) {
	s := If(Object(Prop("a", String()))).Then(Object(WithRequired("b"))).Else(Object(WithRequired("c")))
	require.NotNil(t, s.If)
	require.NotNil(t, s.Then)
	require.NotNil(t, s.Else)
}

func TestConstructorArrayKeywords(t *testing.T) {
	s := Array(WithItems(String()), WithMinItems(1), WithMaxItems(3), WithUniqueItems())
	require.NotNil(t, s.Items)
	assert.Equal(t, []string{"string"}, s.Items.Type)
	assert.Equal(t, 1, *s.MinItems)
	assert.Equal(t, 3, *s.MaxItems)
	assert.True(t, s.UniqueItems)
}

func TestConstructorBoolLeafAndNot(t *testing.T) {
	s := BoolLeaf(false)
	assert.True(t, s.IsBooleanLeaf())
	assert.False(t, *s.Boolean)

	not := SchemaNot(String())
	require.NotNil(t, not.Not)
	assert.Equal(t, []string{"string"}, not.Not.Type)
}

func TestConstructorConstAndEnum(t *testing.T) {
	s := Const(Str("x"))
	assert.True(t, s.HasConst)
	assert.Equal(t, Str("x"), s.Const)

	e := Enum(Int(1), Int(2))
	assert.Len(t, e.Enum, 2)
}
