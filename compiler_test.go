package jsonsubsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, s *Schema) Formula {
	t.Helper()
	u := &Universe{Keys: []string{"a", "b", "__witness_keya"}, LMax: 4}
	f, err := NewCompiler(u).Compile(s)
	require.NoError(t, err)
	return f
}

func TestCompileTypeNumberCoversIntAndReal(t *testing.T) {
	f := mustCompile(t, &Schema{Type: []string{"number"}})
	or, ok := f.(Or)
	require.True(t, ok)
	assert.Len(t, or.Args, 2)
}

func TestCompileStringGuardedByType(t *testing.T) {
	n := 3
	f := mustCompile(t, &Schema{Type: []string{"string"}, MinLength: &n})
	and, ok := f.(And)
	require.True(t, ok)
	require.Len(t, and.Args, 2)
	_, isOr := and.Args[1].(Or) // Implies desugars to Or
	assert.True(t, isOr)
}

func TestCompileOneOfDesugarsExactlyOne(t *testing.T) {
	f := mustCompile(t, &Schema{OneOf: []*Schema{
		{Type: []string{"string"}},
		{Type: []string{"integer"}},
	}})
	or, ok := f.(Or)
	require.True(t, ok)
	assert.Len(t, or.Args, 2)
}

func TestCompileRequiredProducesObjHas(t *testing.T) {
	f := mustCompile(t, &Schema{Type: []string{"object"}, Required: []string{"a"}})
	and, ok := f.(And)
	require.True(t, ok)
	found := false
	for _, p := range and.Args {
		if or, ok := p.(Or); ok {
			for _, inner := range or.Args {
				if has, ok := inner.(ObjHas); ok && has.Key == "a" {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "expected a required-property ObjHas atom under the object type guard")
}

func TestCompileClosedObjectProducesAdditionalGuard(t *testing.T) {
	closedFalse := false
	f := mustCompile(t, &Schema{
		Type:                 []string{"object"},
		Properties:           map[string]*Schema{"a": {}},
		AdditionalProperties: &Schema{Boolean: &closedFalse},
	})
	assert.NotNil(t, f)
	and, ok := f.(And)
	require.True(t, ok)
	found := false
	for _, p := range and.Args {
		if or, ok := p.(Or); ok {
			for _, inner := range or.Args {
				if objF, ok := inner.(And); ok {
					for _, atom := range objF.Args {
						if g, ok := atom.(ObjAdditionalGuard); ok && g.Closed {
							found = true
						}
					}
				}
			}
		}
	}
	assert.True(t, found, "expected a closed ObjAdditionalGuard under the object type guard")
}

func TestCompileUnknownTypeIsUnsupported(t *testing.T) {
	u := &Universe{Keys: nil, LMax: 1}
	_, err := NewCompiler(u).Compile(&Schema{Type: []string{"nope"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestCompileResidualRefIsInternalError(t *testing.T) {
	u := &Universe{Keys: nil, LMax: 1}
	_, err := NewCompiler(u).Compile(&Schema{Ref: "#/$defs/x"})
	require.ErrorIs(t, err, ErrResidualReference)
}
