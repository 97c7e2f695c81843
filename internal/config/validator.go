package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

var (
	supportedLanguages = []string{"zh", "en"}
	logLevels          = []string{"debug", "info", "warn", "error"}
	logFormats         = []string{"text", "json"}
	cacheBackends      = []string{"memory", "redis"}
)

// Validator accumulates problems in a configuration snapshot. Errors abort
// loading; warnings are reported but tolerated.
type Validator struct {
	config   *Config
	errors   []string
	warnings []string
}

func NewValidator(cfg *Config) *Validator {
	return &Validator{
		config:   cfg,
		errors:   []string{},
		warnings: []string{},
	}
}

// Validate checks cfg and returns every error found at once.
func Validate(cfg *Config) error {
	return NewValidator(cfg).Validate()
}

func (v *Validator) Validate() error {
	v.validateAPI()
	v.validateServer()
	v.validateSession()
	v.validateCache()
	v.validateI18n()
	v.validateLogging()
	v.validateChat()

	if len(v.errors) > 0 {
		return fmt.Errorf("config validation failed:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

// Warnings returns the non-fatal findings of the last Validate call.
func (v *Validator) Warnings() []string {
	return v.warnings
}

func (v *Validator) validateAPI() {
	u, err := url.Parse(v.config.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		v.addError("api.url must be an absolute URL, got %q", v.config.API.URL)
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		v.addError("api.url scheme must be http or https, got %q", u.Scheme)
	}
	if v.config.API.Timeout <= 0 {
		v.addError("api.timeout must be positive")
	}
	if v.config.App.IsProduction() && u.Scheme == "http" && u.Hostname() != "localhost" {
		v.addWarning("api.url uses plain http in production")
	}
}

func (v *Validator) validateServer() {
	if v.config.Server.Port <= 0 || v.config.Server.Port > 65535 {
		v.addError("server.port %d is out of range", v.config.Server.Port)
	}
}

func (v *Validator) validateSession() {
	s := v.config.Session
	if s.CookieName == "" {
		v.addError("session.cookie_name is required")
	}
	if s.IdleTTL <= 0 {
		v.addError("session.idle_ttl must be positive")
	}
	if _, err := cron.ParseStandard(s.SweepSchedule); err != nil {
		v.addError("session.sweep_schedule %q: %v", s.SweepSchedule, err)
	}
	if v.config.App.IsProduction() && !s.Secure {
		v.addWarning("session.secure is off in production")
	}
}

func (v *Validator) validateCache() {
	if !contains(cacheBackends, v.config.Cache.Backend) {
		v.addError("cache.backend must be one of %v, got %q", cacheBackends, v.config.Cache.Backend)
	}
	if v.config.Cache.Backend == "redis" && v.config.Cache.Redis.Host == "" {
		v.addError("cache.redis.host is required for the redis backend")
	}
}

func (v *Validator) validateI18n() {
	if !contains(supportedLanguages, v.config.I18n.DefaultLanguage) {
		v.addError("i18n.default_language must be one of %v, got %q", supportedLanguages, v.config.I18n.DefaultLanguage)
	}
}

func (v *Validator) validateLogging() {
	if !contains(logLevels, strings.ToLower(v.config.Logging.Level)) {
		v.addError("logging.level must be one of %v, got %q", logLevels, v.config.Logging.Level)
	}
	if !contains(logFormats, strings.ToLower(v.config.Logging.Format)) {
		v.addError("logging.format must be one of %v, got %q", logFormats, v.config.Logging.Format)
	}
}

func (v *Validator) validateChat() {
	c := v.config.Chat
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		v.addError("chat delays must satisfy 0 <= min_delay <= max_delay")
	}
}

func (v *Validator) addError(format string, args ...interface{}) {
	v.errors = append(v.errors, "  - "+fmt.Sprintf(format, args...))
}

func (v *Validator) addWarning(format string, args ...interface{}) {
	v.warnings = append(v.warnings, "  - "+fmt.Sprintf(format, args...))
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
