package domain

import (
	"context"

	"github.com/google/uuid"
)

// Session is the resolved identity of a request: either Authenticated(user) or
// Unauthenticated. The zero value is Unauthenticated.
type Session struct {
	userID        uuid.UUID
	authenticated bool
}

// Authenticated returns a session for the given principal.
func Authenticated(userID uuid.UUID) Session {
	return Session{userID: userID, authenticated: true}
}

// Unauthenticated returns a session with no principal.
func Unauthenticated() Session {
	return Session{}
}

// Principal returns the signed-in user and true, or uuid.Nil and false.
func (s Session) Principal() (uuid.UUID, bool) {
	return s.userID, s.authenticated
}

// IsAuthenticated reports whether a principal is present.
func (s Session) IsAuthenticated() bool {
	return s.authenticated
}

type sessionKey struct{}

// ContextWithSession attaches s to ctx.
func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored on ctx, or Unauthenticated.
func SessionFromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(sessionKey{}).(Session); ok {
		return s
	}
	return Unauthenticated()
}

type clientIPKey struct{}

// ContextWithClientIP records the caller's address for audit entries.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromContext returns the address set by ContextWithClientIP, or "".
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
