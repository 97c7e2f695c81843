package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/middleware"
	"github.com/gotrs-io/gotrs-console/internal/session"
)

// NavItem is one sidebar entry.
type NavItem struct {
	Key      string
	Path     string
	LabelKey string
	Icon     string
	Active   bool
}

var navigation = []NavItem{
	{Key: "dashboard", Path: "/dashboard", LabelKey: "nav.dashboard", Icon: "▦"},
	{Key: "tickets", Path: "/tickets", LabelKey: "nav.tickets", Icon: "✉"},
	{Key: "contacts", Path: "/contacts", LabelKey: "nav.contacts", Icon: "☺"},
	{Key: "ai-agent", Path: "/ai-agent", LabelKey: "nav.aiAgent", Icon: "✦"},
	{Key: "knowledge-base", Path: "/knowledge-base", LabelKey: "nav.knowledgeBase", Icon: "▤"},
	{Key: "reports", Path: "/reports", LabelKey: "nav.reports", Icon: "▥"},
	{Key: "settings", Path: "/settings", LabelKey: "nav.settings", Icon: "⚙"},
}

// navFor marks the item owning path as active.
func navFor(path string) []NavItem {
	items := make([]NavItem, len(navigation))
	copy(items, navigation)
	for i := range items {
		items[i].Active = path == items[i].Path || strings.HasPrefix(path, items[i].Path+"/")
	}
	return items
}

// Option is a select option.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

const loginTemplate = "pages/login.pongo2"

// render writes an app page. When an upstream call made while serving the
// request came back 401, the session is already cleared and the browser is
// sent to the login page instead.
func (s *Server) render(c *gin.Context, code int, name, titleKey string, data pongo2.Context) {
	if middleware.Unauthorized(c) && name != loginTemplate {
		s.toLogin(c)
		return
	}
	ws := workspaceOf(c)
	ctx := pongo2.Context{
		"Nav":              navFor(c.Request.URL.Path),
		"Path":             c.Request.URL.RequestURI(),
		"TitleKey":         titleKey,
		"SidebarCollapsed": ws.UI.SidebarCollapsed(),
	}
	if user, ok := middleware.GetCurrentUser(c); ok {
		ctx["User"] = user
	}
	s.deps.Renderer.HTML(c, code, name, s.lang(c), ctx.Update(data))
}

// toLogin redirects to the login page. Form posts use 303 so the browser
// follows with a GET.
func (s *Server) toLogin(c *gin.Context) {
	s.deps.Sessions.Logout(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}

func (s *Server) lang(c *gin.Context) string {
	return middleware.GetLanguage(c)
}

func (s *Server) t(c *gin.Context, key string, args ...interface{}) string {
	return s.deps.I18n.T(s.lang(c), key, args...)
}

func (s *Server) handleNotFound(c *gin.Context) {
	lang := workspaceOf(c).UI.Language()
	s.deps.Renderer.HTML(c, http.StatusNotFound, "error.pongo2", lang, pongo2.Context{
		"Code":    http.StatusNotFound,
		"Message": s.deps.I18n.T(lang, "errors.notFound"),
	})
}

// selectBase is the list row link prefix: the current filter query plus
// the selected parameter waiting for an id.
func selectBase(path string, filter url.Values) string {
	q := url.Values{}
	for k, v := range filter {
		if len(v) > 0 && v[0] != "" {
			q.Set(k, v[0])
		}
	}
	if len(q) == 0 {
		return path + "?selected="
	}
	return path + "?" + q.Encode() + "&selected="
}

// safeReturn keeps preference redirects on this site.
func safeReturn(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	return raw
}

// sessionID returns the browser session of the request.
func sessionID(c *gin.Context) string {
	if req := session.FromContext(c.Request.Context()); req != nil {
		return req.ID
	}
	return middleware.GetSessionID(c)
}
