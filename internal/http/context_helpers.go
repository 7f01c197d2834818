package httpx

import (
	"context"

	domainauth "github.com/target/appshell/internal/domain/auth"
)

// Unexported context key types avoid collisions across packages.
type (
	sessionKey       struct{}
	sessionLoadedKey struct{}
	requestIDKey     struct{}
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// markSessionLoaded records that the session loader already ran for this
// request, so an anonymous result is not looked up twice.
func markSessionLoaded(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionLoadedKey{}, true)
}

func sessionLoaded(ctx context.Context) bool {
	loaded, _ := ctx.Value(sessionLoadedKey{}).(bool)
	return loaded
}

// WithRequestID returns a child context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id set by the Logging middleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
