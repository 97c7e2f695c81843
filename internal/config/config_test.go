package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	loader, err := Load("")
	require.NoError(t, err)

	cfg := loader.Get()
	assert.Equal(t, "http://localhost:4000/api", cfg.API.URL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "zh", cfg.I18n.DefaultLanguage)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "console_session", cfg.Session.CookieName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetServerAddr())
	assert.Equal(t, time.Second, cfg.Chat.MinDelay)
	assert.Equal(t, 2*time.Second, cfg.Chat.MaxDelay)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
api:
  url: http://api.internal:9000/api
i18n:
  default_language: en
logging:
  level: debug
  format: json
`)
	t.Setenv("CONSOLE_API_URL", "https://support.example.com/api")
	t.Setenv("CONSOLE_SERVER_PORT", "9090")

	loader, err := Load(path)
	require.NoError(t, err)

	cfg := loader.Get()
	assert.Equal(t, "https://support.example.com/api", cfg.API.URL, "environment wins over the file")
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "en", cfg.I18n.DefaultLanguage)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	loader, err := Load("")
	require.NoError(t, err)
	base := *loader.Get()
	valid := func() *Config {
		cfg := base
		return &cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative api url", func(c *Config) { c.API.URL = "/api" }},
		{"ftp api url", func(c *Config) { c.API.URL = "ftp://host/api" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"unsupported language", func(c *Config) { c.I18n.DefaultLanguage = "fr" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad sweep schedule", func(c *Config) { c.Session.SweepSchedule = "every now and then" }},
		{"inverted chat delay", func(c *Config) { c.Chat.MinDelay = 3 * time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}

	t.Run("production warnings", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.API.URL = "http://api.example.com"
		v := NewValidator(cfg)
		require.NoError(t, v.Validate())
		assert.Len(t, v.Warnings(), 2)
	})
}

func TestRefreshRunsHooks(t *testing.T) {
	path := writeConfig(t, "i18n:\n  default_language: zh\n")
	loader, err := Load(path)
	require.NoError(t, err)

	var gotOld, gotNew string
	loader.OnChange(func(old, new *Config) {
		gotOld, gotNew = old.I18n.DefaultLanguage, new.I18n.DefaultLanguage
	})

	loader.Viper().Set("i18n.default_language", "en")
	require.NoError(t, loader.Refresh())
	assert.Equal(t, "zh", gotOld)
	assert.Equal(t, "en", gotNew)
	assert.Equal(t, "en", loader.Get().I18n.DefaultLanguage)

	loader.Viper().Set("i18n.default_language", "fr")
	assert.Error(t, loader.Refresh())
	assert.Equal(t, "en", loader.Get().I18n.DefaultLanguage, "invalid reload keeps the snapshot")
}
