// Package web serves the console's pages. Every page is rendered on the
// server from the session's page controllers; forms post back and the
// response re-renders the page.
package web

import (
	"log/slog"
	"time"

	"github.com/gotrs-io/gotrs-console/internal/chat"
	"github.com/gotrs-io/gotrs-console/internal/i18n"
	"github.com/gotrs-io/gotrs-console/internal/markdown"
	"github.com/gotrs-io/gotrs-console/internal/metrics"
	"github.com/gotrs-io/gotrs-console/internal/middleware"
	"github.com/gotrs-io/gotrs-console/internal/mocks"
	"github.com/gotrs-io/gotrs-console/internal/pages"
	"github.com/gotrs-io/gotrs-console/internal/services"
	"github.com/gotrs-io/gotrs-console/internal/session"
	"github.com/gotrs-io/gotrs-console/internal/store"
	"github.com/gotrs-io/gotrs-console/internal/template"
	"github.com/gotrs-io/gotrs-console/internal/validation"
)

// Deps are the collaborators of the web layer.
type Deps struct {
	Sessions  *session.Manager
	Services  *services.Services
	Mocks     *mocks.Dataset
	I18n      *i18n.I18n
	Renderer  *template.Pongo2Renderer
	Chat      *chat.Service
	Validator *validation.Validator
	Markdown  *markdown.Renderer
	Logger    *slog.Logger

	Cookie middleware.CookieConfig
	// IdleTTL is how long an unused session workspace is kept.
	IdleTTL time.Duration
	// MetricsPath exposes prometheus metrics when set.
	MetricsPath string
	// APIURL is reported by /healthz.
	APIURL string
	Now    func() time.Time
}

// Workspace is the server-side state of one browser session.
type Workspace struct {
	UI    *store.UIStore
	Pages *pages.Set
	Chats *chat.Book
}

// Server owns the per-session workspaces and the route handlers.
type Server struct {
	deps       Deps
	logger     *slog.Logger
	now        func() time.Time
	workspaces *store.Registry[*Workspace]
	matcher    *middleware.LanguageMatcher
}

// New creates a server. Deps.Sessions, Services, Mocks, I18n and Renderer
// are required.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Markdown == nil {
		deps.Markdown = markdown.NewRenderer()
	}

	s := &Server{
		deps:    deps,
		logger:  deps.Logger,
		now:     deps.Now,
		matcher: middleware.NewLanguageMatcher(deps.I18n.GetSupportedLanguages()),
	}

	pageDeps := pages.Deps{
		Services: deps.Services,
		Mocks:    deps.Mocks,
		Observer: metrics.Pages{},
		Logger:   deps.Logger,
	}
	s.workspaces = store.NewRegistry(deps.IdleTTL, func(string) *Workspace {
		ui := store.New(s.defaultLanguage())
		ui.Subscribe(func(e store.Event) { metrics.UIChange(e.Field) })
		return &Workspace{
			UI:    ui,
			Pages: pages.NewSet(pageDeps, ui),
			Chats: chat.NewBook(),
		}
	})
	s.workspaces.OnSize = metrics.SetActiveSessions
	return s
}

// defaultLanguage is the language new sessions start in. It is read from
// the translator on every call so config reloads apply to new sessions.
func (s *Server) defaultLanguage() string {
	if lang := s.deps.I18n.GetDefaultLanguage(); lang != "" {
		return lang
	}
	return store.DefaultLanguage
}

// Workspaces exposes the workspace registry for sweeping.
func (s *Server) Workspaces() *store.Registry[*Workspace] { return s.workspaces }
