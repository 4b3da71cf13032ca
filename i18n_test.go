package jsonsubsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageCatalogDefaultsToEnglish(t *testing.T) {
	cat, err := NewMessageCatalog("")
	require.NoError(t, err)
	assert.Contains(t, cat.T("result.not_subsumes"), "not subsumed")
}

func TestMessageCatalogSupportsZhHans(t *testing.T) {
	cat, err := NewMessageCatalog("zh-Hans")
	require.NoError(t, err)
	assert.NotEmpty(t, cat.T("result.subsumes"))
}

func TestMessageCatalogInterpolatesParams(t *testing.T) {
	cat, err := NewMessageCatalog("en")
	require.NoError(t, err)
	msg := cat.T("reason.missing_required", map[string]interface{}{"key": "age"})
	assert.Contains(t, msg, "age")
}
