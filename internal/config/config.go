package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: api.url is CONSOLE_API_URL.
const EnvPrefix = "CONSOLE"

// Config represents the application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Cache   CacheConfig   `mapstructure:"cache"`
	I18n    I18nConfig    `mapstructure:"i18n"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Chat    ChatConfig    `mapstructure:"chat"`
}

type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// APIConfig points the console at the upstream support API.
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Debug   bool          `mapstructure:"debug"`
}

type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
	MaxAge     int           `mapstructure:"max_age"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	IdleTTL    time.Duration `mapstructure:"idle_ttl"`
	// SweepSchedule is a cron spec for evicting idle sessions.
	SweepSchedule string `mapstructure:"sweep_schedule"`
}

// CacheConfig selects the token store backend.
type CacheConfig struct {
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Redis           struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		Prefix   string `mapstructure:"prefix"`
	} `mapstructure:"redis"`
}

type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ChatConfig bounds the simulated agent reply delay.
type ChatConfig struct {
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gotrs-console")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("api.url", "http://localhost:4000/api")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.debug", false)

	v.SetDefault("session.cookie_name", "console_session")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.max_age", 7*24*3600)
	v.SetDefault("session.token_ttl", 7*24*time.Hour)
	v.SetDefault("session.idle_ttl", 2*time.Hour)
	v.SetDefault("session.sweep_schedule", "@every 5m")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 10000)
	v.SetDefault("cache.cleanup_interval", time.Minute)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", "console:")

	v.SetDefault("i18n.default_language", "zh")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("chat.min_delay", time.Second)
	v.SetDefault("chat.max_delay", 2*time.Second)
}

// Loader owns the viper instance and the current configuration snapshot.
type Loader struct {
	v        *viper.Viper
	mu       sync.RWMutex
	cfg      *Config
	onChange []func(old, new *Config)
	logger   *slog.Logger
}

// Load reads defaults, then the optional config file, then CONSOLE_*
// environment overrides. An empty file path searches ./config.yaml and
// ./config/config.yaml; a missing file is not an error.
func Load(file string) (*Loader, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return &Loader{v: v, cfg: cfg, logger: slog.Default()}, nil
}

// Viper exposes the underlying instance so cobra flags can be bound.
func (l *Loader) Viper() *viper.Viper { return l.v }

// Get returns the current configuration (thread-safe)
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Refresh re-reads viper, which picks up bound flags. A config that fails
// validation leaves the current snapshot in place.
func (l *Loader) Refresh() error {
	next := &Config{}
	if err := l.v.Unmarshal(next); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(next); err != nil {
		return err
	}

	l.mu.Lock()
	old := l.cfg
	l.cfg = next
	hooks := append([]func(old, new *Config){}, l.onChange...)
	l.mu.Unlock()

	for _, hook := range hooks {
		hook(old, next)
	}
	return nil
}

// OnChange registers a hook run after every successful reload.
func (l *Loader) OnChange(hook func(old, new *Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, hook)
}

// SetLogger replaces the logger used for reload events.
func (l *Loader) SetLogger(logger *slog.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = logger
}

// Watch reloads the configuration when the config file changes. Only the
// settings that the running server reads per request (default language,
// log level) take effect without a restart.
func (l *Loader) Watch() {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.mu.RLock()
		logger := l.logger
		l.mu.RUnlock()

		logger.Info("config file changed", slog.String("file", e.Name), slog.String("op", e.Op.String()))
		if err := l.Refresh(); err != nil {
			logger.Error("failed to reload config", slog.Any("error", err))
			return
		}
		logger.Info("configuration reloaded")
	})
	l.v.WatchConfig()
}

// GetServerAddr returns the server listen address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetRedisAddr returns the Redis server address
func (c *CacheConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// IsProduction returns true if running in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
