package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/metrics"
	"github.com/gotrs-io/gotrs-console/internal/middleware"
	"github.com/gotrs-io/gotrs-console/internal/version"
)

const workspaceKey = "workspace"

// Router builds the gin engine with every console route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(s.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "build": version.Current(s.deps.APIURL), "sessions": s.workspaces.Len()})
	})
	if s.deps.MetricsPath != "" {
		r.GET(s.deps.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	ui := r.Group("/")
	ui.Use(middleware.Session(s.deps.Cookie))
	ui.Use(s.attachWorkspace())
	ui.Use(middleware.Language(func(c *gin.Context) string { return workspaceOf(c).UI.Language() }))

	ui.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") })
	ui.GET("/login", s.handleLoginPage)
	ui.POST("/login", s.handleLogin)
	ui.POST("/register", s.handleRegister)
	ui.POST("/logout", s.handleLogout)
	ui.POST("/preferences/language", s.handleToggleLanguage)
	ui.POST("/preferences/sidebar", s.handleToggleSidebar)

	app := ui.Group("/")
	app.Use(middleware.RequireUser(s.deps.Sessions))
	{
		app.GET("/dashboard", s.handleDashboard)

		app.GET("/tickets", s.handleTickets)
		app.POST("/tickets", s.handleCreateTicket)
		app.POST("/tickets/:id/status", s.handleTicketStatus)
		app.POST("/tickets/:id/messages", s.handleTicketReply)

		app.GET("/contacts", s.handleContacts)
		app.POST("/contacts", s.handleCreateContact)

		app.GET("/knowledge-base", s.handleKnowledgeBase)
		app.POST("/knowledge-base", s.handleCreateArticle)

		app.GET("/ai-agent", s.handleAgents)
		app.POST("/ai-agent", s.handleCreateAgent)
		app.POST("/ai-agent/:id/status", s.handleAgentStatus)
		app.POST("/ai-agent/:id/chat", s.handleAgentChat)
		app.POST("/ai-agent/:id/chat/reset", s.handleAgentChatReset)
		app.GET("/ai-agent/:id/chat/ws", s.handleAgentChatSocket)

		app.GET("/reports", s.handleReports)
		app.GET("/reports/export.xlsx", s.handleReportsExport)

		app.GET("/settings", s.handleSettings)
		app.POST("/settings/general", s.handleUpdateGeneral)
		app.POST("/settings/notifications", s.handleUpdateNotifications)
		app.POST("/settings/integrations/:service", s.handleUpdateIntegration)
		app.POST("/settings/team/invite", s.handleInviteMember)
	}

	r.NoRoute(middleware.Session(s.deps.Cookie), s.attachWorkspace(), s.handleNotFound)
	return r
}

// attachWorkspace binds the session's workspace to the request. A session
// seen for the first time starts in the browser's preferred language.
func (s *Server) attachWorkspace() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.GetSessionID(c)
		_, existed := s.workspaces.Peek(id)
		ws := s.workspaces.Get(id)
		if !existed {
			ws.UI.SetLanguage(s.matcher.Match(c.GetHeader("Accept-Language"), s.defaultLanguage()))
		}
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

func workspaceOf(c *gin.Context) *Workspace {
	return c.MustGet(workspaceKey).(*Workspace)
}
