package jsonsubsume

import "testing"

import "github.com/stretchr/testify/assert"

func TestMatchesFormatBuiltins(t *testing.T) {
	assert.True(t, MatchesFormat(nil, "email", "a@example.com"))
	assert.False(t, MatchesFormat(nil, "email", "not-an-email"))
	assert.True(t, MatchesFormat(nil, "ipv4", "127.0.0.1"))
	assert.False(t, MatchesFormat(nil, "ipv4", "::1"))
	assert.True(t, MatchesFormat(nil, "uuid", "00000000-0000-0000-0000-000000000000"))
}

func TestMatchesFormatUnknownNameFails(t *testing.T) {
	assert.False(t, MatchesFormat(nil, "nope", "anything"))
}

func TestMatchesFormatCustomOverridesBuiltin(t *testing.T) {
	custom := CustomFormats{"email": func(s string) bool { return s == "special" }}
	assert.True(t, MatchesFormat(custom, "email", "special"))
	assert.False(t, MatchesFormat(custom, "email", "a@example.com"))
}

func TestSampleForFormatCoversBuiltins(t *testing.T) {
	s, ok := sampleForFormat("date-time")
	assert.True(t, ok)
	assert.True(t, MatchesFormat(nil, "date-time", s))

	_, ok = sampleForFormat("nope")
	assert.False(t, ok)
}
