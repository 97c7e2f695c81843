package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/gotrs-console/internal/config"
	"github.com/gotrs-io/gotrs-console/internal/i18n"
)

func TestReloadDefaultLanguage(t *testing.T) {
	tr, err := i18n.New(i18n.Config{DefaultLanguage: "zh"})
	require.NoError(t, err)
	hook := reloadDefaultLanguage(tr, slog.New(slog.NewTextHandler(io.Discard, nil)))

	withLang := func(lang string) *config.Config {
		cfg := &config.Config{}
		cfg.I18n.DefaultLanguage = lang
		return cfg
	}

	hook(withLang("zh"), withLang("en"))
	assert.Equal(t, "en", tr.GetDefaultLanguage())

	hook(withLang("en"), withLang("fr"))
	assert.Equal(t, "en", tr.GetDefaultLanguage(), "unsupported language is ignored")

	hook(withLang("en"), withLang("en"))
	assert.Equal(t, "en", tr.GetDefaultLanguage())
}
