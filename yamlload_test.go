package jsonsubsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchemaDocumentParsesJSON(t *testing.T) {
	s, err := LoadSchemaDocument([]byte(`{"type":"string"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"string"}, s.Type)
}

func TestLoadSchemaDocumentParsesBooleanLeaf(t *testing.T) {
	s, err := LoadSchemaDocument([]byte(`true`))
	require.NoError(t, err)
	assert.True(t, s.IsBooleanLeaf())
}

func TestLoadSchemaDocumentParsesYAML(t *testing.T) {
	yaml := []byte("type: object\nrequired:\n  - a\nproperties:\n  a:\n    type: string\n")
	s, err := LoadSchemaDocument(yaml)
	require.NoError(t, err)
	assert.Equal(t, []string{"object"}, s.Type)
	assert.Equal(t, []string{"a"}, s.Required)
	require.Contains(t, s.Properties, "a")
	assert.Equal(t, []string{"string"}, s.Properties["a"].Type)
}

func TestToJSONBytesPassesThroughJSON(t *testing.T) {
	in := []byte(`{"type":"string"}`)
	out, err := ToJSONBytes(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestToJSONBytesConvertsYAML(t *testing.T) {
	out, err := ToJSONBytes([]byte("type: string\n"))
	require.NoError(t, err)
	s, err := ParseSchema(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"string"}, s.Type)
}

func TestLooksLikeJSONSniffsLeadingByte(t *testing.T) {
	assert.True(t, looksLikeJSON([]byte(`  {"type":"string"}`)))
	assert.True(t, looksLikeJSON([]byte("true")))
	assert.False(t, looksLikeJSON([]byte("type: string")))
}
