package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps a client uuid", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("replaces junk", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "bad\nid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.NotEqual(t, "bad\nid", w.Body.String())
	})
}

func TestSession(t *testing.T) {
	router := gin.New()
	router.Use(Session(CookieConfig{Name: "sid", MaxAge: 3600}))
	router.GET("/", func(c *gin.Context) {
		req := session.FromContext(c.Request.Context())
		require.NotNil(t, req)
		assert.Equal(t, GetSessionID(c), req.ID)
		c.String(http.StatusOK, req.ID)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	first := w.Body.String()
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, first, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: first})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String(), "cookie keeps the session")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "forged"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "forged", w.Body.String())
}

type gateFunc func(ctx context.Context) *models.User

func (f gateFunc) Gate(ctx context.Context) *models.User { return f(ctx) }

func TestRequireUser(t *testing.T) {
	var user *models.User
	router := gin.New()
	router.Use(RequireUser(gateFunc(func(context.Context) *models.User { return user })))
	router.GET("/dashboard", func(c *gin.Context) {
		u, ok := GetCurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, u.Name)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	user = &models.User{ID: "1", Name: "Admin User"}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Admin User", w.Body.String())
}

func TestUnauthorized(t *testing.T) {
	router := gin.New()
	router.Use(Session(CookieConfig{Name: "sid"}))
	router.GET("/", func(c *gin.Context) {
		assert.False(t, Unauthorized(c))
		session.FromContext(c.Request.Context()).MarkUnauthorized()
		assert.True(t, Unauthorized(c))
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLanguage(t *testing.T) {
	router := gin.New()
	router.Use(Language(func(*gin.Context) string { return "en" }))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetLanguage(c)) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "en", w.Body.String())
	assert.Equal(t, "en", w.Header().Get("Content-Language"))
}

func TestLanguageMatcher(t *testing.T) {
	m := NewLanguageMatcher([]string{"zh", "en"})

	tests := []struct {
		header string
		want   string
	}{
		{"", "zh"},
		{"en-US,en;q=0.9", "en"},
		{"zh-CN,zh;q=0.9,en;q=0.8", "zh"},
		{"zh-TW", "zh"},
		{"fr-FR", "zh"},
		{"en-GB;q=0.5,zh;q=0.9", "zh"},
		{";;;", "zh"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.header, "zh"))
		})
	}
}
