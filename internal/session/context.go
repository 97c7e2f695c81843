package session

import (
	"context"
	"sync/atomic"
)

type contextKey struct{}

// Request is the per-request view of a browser session. The API client
// marks it when the upstream answers 401 so the handler can redirect.
type Request struct {
	ID           string
	unauthorized atomic.Bool
}

// NewRequest binds a session id to one inbound request.
func NewRequest(id string) *Request {
	return &Request{ID: id}
}

// MarkUnauthorized records that the session token was rejected.
func (r *Request) MarkUnauthorized() { r.unauthorized.Store(true) }

// Unauthorized reports whether any upstream call of this request got a 401.
func (r *Request) Unauthorized() bool { return r.unauthorized.Load() }

// WithRequest returns ctx carrying r.
func WithRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext returns the session request carried by ctx, or nil.
func FromContext(ctx context.Context) *Request {
	r, _ := ctx.Value(contextKey{}).(*Request)
	return r
}
