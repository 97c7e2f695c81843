// Package session is the single holder of the authenticated user. It owns
// the persisted bearer token of each browser session and the start-up
// "who am I" gate.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gotrs-io/gotrs-console/internal/cache"
	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/store"
)

// TokenKey is the fixed key the bearer token is persisted under.
const TokenKey = "token"

// ErrNoSession is returned when ctx carries no session request.
var ErrNoSession = errors.New("no session in context")

// Authenticator is the upstream auth surface.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, request models.RegisterRequest) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// Holder keeps the current user of one browser session.
type Holder struct {
	mu   sync.RWMutex
	user *models.User
}

// User returns a copy of the current user, or nil.
func (h *Holder) User() *models.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil
	}
	u := *h.user
	return &u
}

func (h *Holder) set(u *models.User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = u
}

// Config tunes the manager.
type Config struct {
	TokenTTL time.Duration
	IdleTTL  time.Duration
	Logger   *slog.Logger
}

// Manager maps browser sessions to holders and persisted tokens.
type Manager struct {
	tokens   cache.Store
	tokenTTL time.Duration
	holders  *store.Registry[*Holder]
	auth     Authenticator
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager creates a manager over tokens. Bind must be called before the
// gate or login run.
func NewManager(tokens cache.Store, config Config) *Manager {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Manager{
		tokens:   tokens,
		tokenTTL: config.TokenTTL,
		holders:  store.NewRegistry(config.IdleTTL, func(string) *Holder { return &Holder{} }),
		logger:   config.Logger,
		now:      time.Now,
	}
}

// Bind sets the upstream authenticator. It is separate from NewManager
// because the API client needs the manager as its token source first.
func (m *Manager) Bind(auth Authenticator) { m.auth = auth }

// Holders exposes the holder registry for sweeping.
func (m *Manager) Holders() *store.Registry[*Holder] { return m.holders }

func tokenKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", sessionID, TokenKey)
}

// Token returns the persisted token of the session in ctx. It satisfies
// apiclient.TokenSource.
func (m *Manager) Token(ctx context.Context) string {
	req := FromContext(ctx)
	if req == nil {
		return ""
	}
	token, ok, err := m.tokens.Get(ctx, tokenKey(req.ID))
	if err != nil {
		m.logger.Warn("session token lookup failed", slog.String("session", req.ID), slog.Any("error", err))
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// Revoke deletes the persisted token and forgets the user of the session in
// ctx. It satisfies apiclient.TokenSource.
func (m *Manager) Revoke(ctx context.Context) {
	req := FromContext(ctx)
	if req == nil {
		return
	}
	m.clear(ctx, req.ID)
}

// OnUnauthorized is the API client's 401 hook: it flags the request so the
// web layer redirects to the login page.
func (m *Manager) OnUnauthorized(ctx context.Context) {
	if req := FromContext(ctx); req != nil {
		req.MarkUnauthorized()
		m.logger.Info("session token rejected upstream", slog.String("session", req.ID))
	}
}

func (m *Manager) clear(ctx context.Context, sessionID string) {
	if err := m.tokens.Delete(ctx, tokenKey(sessionID)); err != nil {
		m.logger.Warn("session token delete failed", slog.String("session", sessionID), slog.Any("error", err))
	}
	if h, ok := m.holders.Peek(sessionID); ok {
		h.set(nil)
	}
}

// User returns the authenticated user of the session in ctx without any
// network call.
func (m *Manager) User(ctx context.Context) *models.User {
	req := FromContext(ctx)
	if req == nil {
		return nil
	}
	h, ok := m.holders.Peek(req.ID)
	if !ok {
		return nil
	}
	return h.User()
}

// Gate resolves the user of the session in ctx. When a token is persisted
// but no user is held yet it asks /auth/me; any failure deletes the token.
// Tokens whose JWT exp is already past fail without a network call.
func (m *Manager) Gate(ctx context.Context) *models.User {
	req := FromContext(ctx)
	if req == nil {
		return nil
	}
	h := m.holders.Get(req.ID)
	if u := h.User(); u != nil {
		return u
	}

	token := m.Token(ctx)
	if token == "" {
		return nil
	}
	if m.expired(token) {
		m.logger.Info("session token expired", slog.String("session", req.ID))
		m.clear(ctx, req.ID)
		return nil
	}
	if m.auth == nil {
		return nil
	}

	user, err := m.auth.Me(ctx)
	if err != nil {
		m.logger.Info("session gate rejected token", slog.String("session", req.ID), slog.Any("error", err))
		m.clear(ctx, req.ID)
		return nil
	}
	h.set(user)
	return h.User()
}

// expired reports whether token is a JWT whose exp lies in the past. Opaque
// tokens are left to the upstream to judge.
func (m *Manager) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.Time.After(m.now())
}

// Login authenticates upstream and persists the returned token and user.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	if m.auth == nil {
		return nil, errors.New("session manager has no authenticator")
	}
	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := m.persist(ctx, resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account upstream and persists its token and user.
func (m *Manager) Register(ctx context.Context, request models.RegisterRequest) (*models.User, error) {
	if m.auth == nil {
		return nil, errors.New("session manager has no authenticator")
	}
	resp, err := m.auth.Register(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := m.persist(ctx, resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (m *Manager) persist(ctx context.Context, resp *models.AuthResponse) error {
	req := FromContext(ctx)
	if req == nil {
		return ErrNoSession
	}
	if err := m.tokens.Set(ctx, tokenKey(req.ID), resp.Token, m.tokenTTL); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}
	user := resp.User
	m.holders.Get(req.ID).set(&user)
	return nil
}

// Logout clears the token and the user of the session in ctx.
func (m *Manager) Logout(ctx context.Context) {
	if req := FromContext(ctx); req != nil {
		m.clear(ctx, req.ID)
	}
}
