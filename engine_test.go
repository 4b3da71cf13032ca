package jsonsubsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReflexivity(t *testing.T) {
	s := []byte(`{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]}`)
	res := Check(s, s, DefaultConfig())
	assert.True(t, res.Compatible)
	assert.Empty(t, res.ErrorKind)
}

func TestCheckNarrowerProducerIsCompatible(t *testing.T) {
	p := []byte(`{"type":"integer","minimum":5,"maximum":10}`)
	c := []byte(`{"type":"integer","minimum":0,"maximum":100}`)
	res := Check(p, c, DefaultConfig())
	assert.True(t, res.Compatible)
}

func TestCheckWiderProducerIsIncompatibleWithWitness(t *testing.T) {
	p := []byte(`{"type":"integer","minimum":0,"maximum":100}`)
	c := []byte(`{"type":"integer","minimum":5,"maximum":10}`)
	res := Check(p, c, DefaultConfig())
	require.False(t, res.Compatible)
	require.NotNil(t, res.Counterexample)
	assert.Empty(t, res.ErrorKind)
}

func TestCheckTypeMismatchProducesStringWitness(t *testing.T) {
	p := []byte(`{"type":"string"}`)
	c := []byte(`{"type":"integer"}`)
	res := Check(p, c, DefaultConfig())
	require.False(t, res.Compatible)
	_, isStr := res.Counterexample.(string)
	assert.True(t, isStr)
}

func TestCheckMissingRequiredPropertyIsIncompatible(t *testing.T) {
	p := []byte(`{"type":"object"}`)
	c := []byte(`{"type":"object","required":["a"]}`)
	res := Check(p, c, DefaultConfig())
	assert.False(t, res.Compatible)
	assert.Equal(t, ReasonMissingRequired, res.ReasonCode)
}

func TestCheckInvalidJSONIsUnsupportedFeatureError(t *testing.T) {
	// Malformed JSON fails decodeAny, which ParseSchema wraps in an
	// UnsupportedFeatureError{Feature: "schema"} rather than a bare parse
	// error, so classify routes it to ErrorKindUnsupportedFeature.
	res := Check([]byte(`{not json`), []byte(`{}`), DefaultConfig())
	assert.False(t, res.Compatible)
	assert.Equal(t, ErrorKindUnsupportedFeature, res.ErrorKind)
}

func TestCheckStructurallyInvalidSchemaIsValidationError(t *testing.T) {
	res := Check([]byte(`{"required":"a"}`), []byte(`{}`), DefaultConfig())
	assert.False(t, res.Compatible)
	assert.Equal(t, ErrorKindSchemaValidation, res.ErrorKind)
}

func TestCheckCyclicSchemaIsCyclicError(t *testing.T) {
	p := []byte(`{"$defs":{"a":{"allOf":[{"$ref":"#/$defs/a"}]}},"$ref":"#/$defs/a"}`)
	res := Check(p, []byte(`{}`), DefaultConfig())
	assert.False(t, res.Compatible)
	assert.Equal(t, ErrorKindCyclicSchema, res.ErrorKind)
}

func TestCheckUnsupportedRefStrategyIsUnsupportedFeature(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RefResolutionStrategy = "simulation"
	res := Check([]byte(`{}`), []byte(`{}`), cfg)
	assert.False(t, res.Compatible)
	assert.Equal(t, ErrorKindUnsupportedFeature, res.ErrorKind)
}

func TestCheckMonotonicInConsumer(t *testing.T) {
	p := []byte(`{"type":"integer","minimum":5,"maximum":10}`)
	narrowC := []byte(`{"type":"integer","minimum":5,"maximum":10}`)
	widerC := []byte(`{"type":"integer","minimum":0,"maximum":100}`)
	resNarrow := Check(p, narrowC, DefaultConfig())
	resWider := Check(p, widerC, DefaultConfig())
	assert.True(t, resNarrow.Compatible)
	assert.True(t, resWider.Compatible)
}
