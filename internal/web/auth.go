package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/validation"
)

func (s *Server) handleLoginPage(c *gin.Context) {
	// an already signed-in session skips the form
	if user := s.deps.Sessions.Gate(c.Request.Context()); user != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	s.renderLogin(c, http.StatusOK, c.Query("mode") == "register", formState{})
}

func (s *Server) renderLogin(c *gin.Context, code int, register bool, form formState) {
	data := form.context()
	data["Register"] = register
	s.render(c, code, loginTemplate, "auth.login", data)
}

func (s *Server) handleLogin(c *gin.Context) {
	values := postedForm(c, "email")
	req := models.LoginRequest{Email: values["email"], Password: c.PostForm("password")}

	form := s.validate(c, validation.FormLogin, req, values)
	if form.failed() {
		s.renderLogin(c, http.StatusUnprocessableEntity, false, form)
		return
	}

	user, err := s.deps.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Info("login failed", slog.String("email", req.Email), slog.String("kind", apiclient.Kind(err)))
		form.Message = s.t(c, "auth.failed", loginReason(err))
		s.renderLogin(c, http.StatusUnauthorized, false, form)
		return
	}
	s.logger.Info("user logged in", slog.String("user", user.ID))
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) handleRegister(c *gin.Context) {
	values := postedForm(c, "name", "email")
	req := models.RegisterRequest{Name: values["name"], Email: values["email"], Password: c.PostForm("password")}

	form := s.validate(c, validation.FormRegister, req, values)
	if form.failed() {
		s.renderLogin(c, http.StatusUnprocessableEntity, true, form)
		return
	}

	user, err := s.deps.Sessions.Register(c.Request.Context(), req)
	if err != nil {
		s.explain(c, validation.FormRegister, err, &form)
		s.renderLogin(c, http.StatusUnprocessableEntity, true, form)
		return
	}
	s.logger.Info("user registered", slog.String("user", user.ID))
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) handleLogout(c *gin.Context) {
	s.deps.Sessions.Logout(c.Request.Context())
	s.logger.Info("user logged out", slog.String("session", sessionID(c)))
	c.Redirect(http.StatusSeeOther, "/login")
}

// loginReason is the message shown after "Login failed:".
func loginReason(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if apiclient.IsNetwork(err) {
		return "network error"
	}
	return err.Error()
}

func (s *Server) handleToggleLanguage(c *gin.Context) {
	ws := workspaceOf(c)
	lang := ws.UI.ToggleLanguage()
	s.logger.Debug("language toggled", slog.String("language", lang))
	c.Redirect(http.StatusSeeOther, safeReturn(c.PostForm("return"), "/dashboard"))
}

func (s *Server) handleToggleSidebar(c *gin.Context) {
	workspaceOf(c).UI.ToggleSidebar()
	c.Redirect(http.StatusSeeOther, safeReturn(c.PostForm("return"), "/dashboard"))
}

// errorPage renders the standalone error template.
func (s *Server) errorPage(c *gin.Context, code int, key string) {
	s.render(c, code, "error.pongo2", "app.brand", pongo2.Context{"Code": code, "Message": s.t(c, key)})
}
