package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/session"
)

const (
	// SessionIDKey is the gin context key of the browser session id.
	SessionIDKey = "session_id"
	// UserKey is the gin context key of the authenticated user.
	UserKey = "user"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge int
}

// Session identifies the browser session by an opaque cookie, issuing a
// new id when the cookie is missing or malformed, and binds it to the
// request context for the API client's token lookup.
func Session(cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookie.Name)
		if _, perr := uuid.Parse(id); err != nil || perr != nil {
			id = uuid.New().String()
		}
		// refresh the expiry on every request
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, id, cookie.MaxAge, "/", "", cookie.Secure, true)

		c.Set(SessionIDKey, id)
		ctx := session.WithRequest(c.Request.Context(), session.NewRequest(id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetSessionID returns the id assigned by Session.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// Gate resolves the user of the session carried by ctx.
type Gate interface {
	Gate(ctx context.Context) *models.User
}

// RequireUser runs the session gate and redirects to the login page when
// the session has no user.
func RequireUser(gate Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := gate.Gate(c.Request.Context())
		if user == nil {
			if isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				return
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// Unauthorized reports whether an upstream call made while serving c was
// rejected with a 401.
func Unauthorized(c *gin.Context) bool {
	req := session.FromContext(c.Request.Context())
	return req != nil && req.Unauthorized()
}

// isAPIRequest checks if the request expects JSON rather than a page
func isAPIRequest(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
