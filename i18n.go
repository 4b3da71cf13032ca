package jsonsubsume

import (
	"embed"

	"github.com/kaptinlin/go-i18n"
)

//go:embed locales/*.json
var localesFS embed.FS

// GetI18n returns an initialized internationalization bundle with embedded
// locales, used to localize explain() messages (explain.go); the CLI's
// human-readable report (cmd/jsonsubsume) does not use it. Adapted verbatim from the
// teacher's i18n.go — the embed/bundle pattern is unchanged, only the
// message catalog (locales/*.json) is new content for this domain.
func GetI18n() (*i18n.I18n, error) {
	bundle := i18n.NewBundle(
		i18n.WithDefaultLocale("en"),
		i18n.WithLocales("en", "zh-Hans"),
	)

	err := bundle.LoadFS(localesFS, "locales/*.json")

	return bundle, err
}

// MessageCatalog wraps a Localizer with the fixed key set explain.go
// uses, so callers don't scatter raw string keys through the code.
type MessageCatalog struct {
	localizer *i18n.Localizer
}

func NewMessageCatalog(locale string) (*MessageCatalog, error) {
	bundle, err := GetI18n()
	if err != nil {
		return nil, err
	}
	if locale == "" {
		locale = "en"
	}
	return &MessageCatalog{localizer: bundle.NewLocalizer(locale)}, nil
}

func (m *MessageCatalog) T(key string, params ...map[string]interface{}) string {
	var vars i18n.Vars
	if len(params) > 0 {
		vars = i18n.Vars(params[0])
	}
	return m.localizer.Get(key, vars)
}
