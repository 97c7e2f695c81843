package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/cache"
	"github.com/gotrs-io/gotrs-console/internal/chat"
	"github.com/gotrs-io/gotrs-console/internal/config"
	"github.com/gotrs-io/gotrs-console/internal/i18n"
	"github.com/gotrs-io/gotrs-console/internal/logging"
	"github.com/gotrs-io/gotrs-console/internal/markdown"
	"github.com/gotrs-io/gotrs-console/internal/metrics"
	"github.com/gotrs-io/gotrs-console/internal/middleware"
	"github.com/gotrs-io/gotrs-console/internal/mocks"
	"github.com/gotrs-io/gotrs-console/internal/services"
	"github.com/gotrs-io/gotrs-console/internal/session"
	"github.com/gotrs-io/gotrs-console/internal/store"
	"github.com/gotrs-io/gotrs-console/internal/template"
	"github.com/gotrs-io/gotrs-console/internal/validation"
	"github.com/gotrs-io/gotrs-console/internal/version"
	"github.com/gotrs-io/gotrs-console/internal/web"
)

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Customer service admin console",
	Long: `Server-rendered admin console for the customer service API.

Tickets, contacts, the knowledge base, AI agents, reports and settings are
served as HTML pages. When the API cannot be reached the pages show the
bundled demo data.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the console web server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("console %s\n", version.Current("").Full())
	},
}

var (
	configFlag    string
	templatesFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ./config.yaml or ./config/config.yaml)")

	serveCmd.Flags().String("host", "", "listen host (overrides server.host)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
	serveCmd.Flags().String("api-url", "", "upstream API base URL (overrides api.url)")
	serveCmd.Flags().String("log-level", "", "log level (overrides logging.level)")
	serveCmd.Flags().StringVar(&templatesFlag, "templates", "", "load templates from this directory instead of the embedded copy")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindFlags overrides config keys with the flags the user actually set.
func bindFlags(cmd *cobra.Command, loader *config.Loader) error {
	bindings := map[string]string{
		"host":      "server.host",
		"port":      "server.port",
		"api-url":   "api.url",
		"log-level": "logging.level",
	}
	for flag, key := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := loader.Viper().BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return loader.Refresh()
}

// reloadDefaultLanguage moves the translator's default language when the
// config file changes it. Sessions created afterwards start in the new
// language; existing sessions keep their preference.
func reloadDefaultLanguage(tr *i18n.I18n, logger *slog.Logger) func(old, next *config.Config) {
	return func(old, next *config.Config) {
		if old.I18n.DefaultLanguage == next.I18n.DefaultLanguage {
			return
		}
		if err := tr.SetDefaultLanguage(next.I18n.DefaultLanguage); err != nil {
			logger.Warn("default language not changed", slog.Any("error", err))
			return
		}
		logger.Info("default language changed", slog.String("language", next.I18n.DefaultLanguage))
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	loader, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, loader); err != nil {
		return err
	}
	cfg := loader.Get()

	logger, level, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	loader.SetLogger(logger)
	loader.OnChange(func(old, next *config.Config) {
		if old.Logging.Level == next.Logging.Level {
			return
		}
		if err := logging.SetLevel(level, next.Logging.Level); err != nil {
			logger.Warn("log level not changed", slog.Any("error", err))
			return
		}
		logger.Info("log level changed", slog.String("level", next.Logging.Level))
	})
	for _, w := range config.NewValidator(cfg).Warnings() {
		logger.Warn("config warning", slog.String("warning", w))
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := cache.New(cache.Config{
		Backend:         cfg.Cache.Backend,
		DefaultTTL:      cfg.Session.TokenTTL,
		MaxSize:         cfg.Cache.MaxSize,
		CleanupInterval: cfg.Cache.CleanupInterval,
		RedisAddr:       cfg.Cache.GetRedisAddr(),
		RedisPassword:   cfg.Cache.Redis.Password,
		RedisDB:         cfg.Cache.Redis.DB,
		KeyPrefix:       cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer tokens.Close()

	sessions := session.NewManager(tokens, session.Config{
		TokenTTL: cfg.Session.TokenTTL,
		IdleTTL:  cfg.Session.IdleTTL,
		Logger:   logger,
	})
	api := apiclient.New(apiclient.Config{
		BaseURL:        cfg.API.URL,
		Timeout:        cfg.API.Timeout,
		Debug:          cfg.API.Debug,
		UserAgent:      version.UserAgent(),
		Tokens:         sessions,
		OnUnauthorized: sessions.OnUnauthorized,
		Observer:       metrics.Upstream{},
		Logger:         logger,
	})
	svc := services.New(api)
	sessions.Bind(svc.Auth)

	data, err := mocks.Load()
	if err != nil {
		return fmt.Errorf("demo data: %w", err)
	}
	tr, err := i18n.New(i18n.Config{DefaultLanguage: cfg.I18n.DefaultLanguage})
	if err != nil {
		return fmt.Errorf("translations: %w", err)
	}
	for lang, keys := range tr.MissingKeys() {
		logger.Warn("untranslated keys fall back", slog.String("language", lang), slog.Int("count", len(keys)), slog.Any("keys", keys))
	}
	loader.OnChange(reloadDefaultLanguage(tr, logger))
	loader.Watch()

	renderer, err := template.NewPongo2Renderer(tr, template.Options{
		Dir:    templatesFlag,
		Debug:  cfg.App.Debug || templatesFlag != "",
		Logger: logger,
	})
	if err != nil {
		return err
	}
	validator, err := validation.Default()
	if err != nil {
		return fmt.Errorf("form schemas: %w", err)
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	srv := web.New(web.Deps{
		Sessions:  sessions,
		Services:  svc,
		Mocks:     data,
		I18n:      tr,
		Renderer:  renderer,
		Chat:      chat.NewService(svc.AIAgents, chat.NewSimulator(data.Responses, data.FallbackResponse, cfg.Chat.MinDelay, cfg.Chat.MaxDelay), logger),
		Validator: validator,
		Markdown:  markdown.NewRenderer(),
		Logger:    logger,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
			MaxAge: cfg.Session.MaxAge,
		},
		IdleTTL:     cfg.Session.IdleTTL,
		MetricsPath: metricsPath,
		APIURL:      api.BaseURL(),
	})

	sweeper := store.NewSweeper(logger)
	if err := sweeper.Register("workspaces", cfg.Session.SweepSchedule, srv.Workspaces()); err != nil {
		return err
	}
	if err := sweeper.Register("sessions", cfg.Session.SweepSchedule, sessions.Holders()); err != nil {
		return err
	}
	sweeper.Start()

	httpServer := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("console listening",
			slog.String("addr", httpServer.Addr),
			slog.String("api", api.BaseURL()),
			slog.String("version", version.String()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	sweeper.Stop(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
