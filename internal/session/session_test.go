package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/gotrs-console/internal/cache"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

type fakeAuth struct {
	meCalls int
	meUser  *models.User
	meErr   error
	login   *models.AuthResponse
	err     error
}

func (f *fakeAuth) Login(context.Context, string, string) (*models.AuthResponse, error) {
	return f.login, f.err
}

func (f *fakeAuth) Register(context.Context, models.RegisterRequest) (*models.AuthResponse, error) {
	return f.login, f.err
}

func (f *fakeAuth) Me(context.Context) (*models.User, error) {
	f.meCalls++
	return f.meUser, f.meErr
}

func newTestManager(t *testing.T, auth *fakeAuth) (*Manager, cache.Store) {
	t.Helper()
	tokens := cache.NewLocalCache(&cache.LocalCacheConfig{})
	t.Cleanup(func() { _ = tokens.Close() })
	m := NewManager(tokens, Config{TokenTTL: time.Hour, IdleTTL: time.Hour})
	m.Bind(auth)
	return m, tokens
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

var admin = models.User{ID: "1", Email: "admin@example.com", Name: "Admin User", Role: "admin"}

func TestGate(t *testing.T) {
	t.Run("no token means no user and no call", func(t *testing.T) {
		auth := &fakeAuth{meUser: &admin}
		m, _ := newTestManager(t, auth)
		ctx := WithRequest(context.Background(), NewRequest("s1"))

		assert.Nil(t, m.Gate(ctx))
		assert.Equal(t, 0, auth.meCalls)
	})

	t.Run("token populates holder once", func(t *testing.T) {
		auth := &fakeAuth{meUser: &admin}
		m, tokens := newTestManager(t, auth)
		ctx := WithRequest(context.Background(), NewRequest("s1"))
		require.NoError(t, tokens.Set(ctx, "s1:token", "opaque", 0))

		user := m.Gate(ctx)
		require.NotNil(t, user)
		assert.Equal(t, "Admin User", user.Name)
		assert.Equal(t, "Admin User", m.User(ctx).Name)

		m.Gate(ctx)
		assert.Equal(t, 1, auth.meCalls)
	})

	t.Run("failure deletes token", func(t *testing.T) {
		auth := &fakeAuth{meErr: errors.New("network down")}
		m, tokens := newTestManager(t, auth)
		ctx := WithRequest(context.Background(), NewRequest("s1"))
		require.NoError(t, tokens.Set(ctx, "s1:token", "opaque", 0))

		assert.Nil(t, m.Gate(ctx))
		assert.Empty(t, m.Token(ctx))
	})

	t.Run("expired jwt fails without network call", func(t *testing.T) {
		auth := &fakeAuth{meUser: &admin}
		m, tokens := newTestManager(t, auth)
		ctx := WithRequest(context.Background(), NewRequest("s1"))
		require.NoError(t, tokens.Set(ctx, "s1:token", signed(t, time.Now().Add(-time.Minute)), 0))

		assert.Nil(t, m.Gate(ctx))
		assert.Equal(t, 0, auth.meCalls)
		assert.Empty(t, m.Token(ctx))
	})

	t.Run("live jwt is checked upstream", func(t *testing.T) {
		auth := &fakeAuth{meUser: &admin}
		m, tokens := newTestManager(t, auth)
		ctx := WithRequest(context.Background(), NewRequest("s1"))
		require.NoError(t, tokens.Set(ctx, "s1:token", signed(t, time.Now().Add(time.Hour)), 0))

		assert.NotNil(t, m.Gate(ctx))
		assert.Equal(t, 1, auth.meCalls)
	})

	t.Run("no session in context", func(t *testing.T) {
		m, _ := newTestManager(t, &fakeAuth{})
		assert.Nil(t, m.Gate(context.Background()))
		assert.Empty(t, m.Token(context.Background()))
	})
}

func TestLoginLogout(t *testing.T) {
	auth := &fakeAuth{login: &models.AuthResponse{Token: "new-token", User: admin}}
	m, _ := newTestManager(t, auth)
	ctx := WithRequest(context.Background(), NewRequest("s1"))

	user, err := m.Login(ctx, "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, "new-token", m.Token(ctx))
	assert.Equal(t, admin, *m.User(ctx))

	other := WithRequest(context.Background(), NewRequest("s2"))
	assert.Empty(t, m.Token(other), "tokens are per session")
	assert.Nil(t, m.User(other))

	m.Logout(ctx)
	assert.Empty(t, m.Token(ctx))
	assert.Nil(t, m.User(ctx))
}

func TestLoginFailureKeepsSessionEmpty(t *testing.T) {
	auth := &fakeAuth{err: errors.New("invalid credentials")}
	m, _ := newTestManager(t, auth)
	ctx := WithRequest(context.Background(), NewRequest("s1"))

	_, err := m.Register(ctx, models.RegisterRequest{Email: "a@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	assert.Empty(t, m.Token(ctx))
	assert.Nil(t, m.User(ctx))
}

func TestRevokeAndUnauthorized(t *testing.T) {
	auth := &fakeAuth{login: &models.AuthResponse{Token: "t", User: admin}}
	m, _ := newTestManager(t, auth)
	req := NewRequest("s1")
	ctx := WithRequest(context.Background(), req)

	_, err := m.Login(ctx, "admin@example.com", "secret")
	require.NoError(t, err)

	m.Revoke(ctx)
	m.OnUnauthorized(ctx)
	assert.Empty(t, m.Token(ctx))
	assert.Nil(t, m.User(ctx))
	assert.True(t, req.Unauthorized())
}
