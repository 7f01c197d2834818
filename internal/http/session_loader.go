package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	domainauth "github.com/target/appshell/internal/domain/auth"
	"github.com/target/appshell/internal/observability/metrics"
	"github.com/target/appshell/internal/service"
)

// SessionGetter resolves a session id to the session-derived user.
type SessionGetter interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// SessionLoaderOptions configures a SessionLoader.
type SessionLoaderOptions struct {
	Auth     SessionGetter // nil disables lookups; every request is anonymous
	Boundary *ErrorBoundary
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// SessionLoader fetches the session-derived user for each request.
type SessionLoader struct {
	auth     SessionGetter
	boundary *ErrorBoundary
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewSessionLoader constructs a SessionLoader.
func NewSessionLoader(opts SessionLoaderOptions) *SessionLoader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionLoader{
		auth:     opts.Auth,
		boundary: opts.Boundary,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Load returns the session for r, or nil for an anonymous request.
// A missing cookie, an unknown id or an expired session are all anonymous;
// any other failure is returned for the error boundary to render.
func (l *SessionLoader) Load(r *http.Request) (*domainauth.Session, error) {
	if sess, ok := GetUserSessionFromContext(r.Context()); ok {
		return sess, nil
	}
	if sessionLoaded(r.Context()) || l == nil || l.auth == nil {
		return nil, nil
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		l.metrics.ObserveSessionLookup(metrics.LookupAnonymous)
		return nil, nil
	}

	sess, err := l.auth.GetSession(r.Context(), cookie.Value)
	switch {
	case err == nil && sess != nil:
		l.metrics.ObserveSessionLookup(metrics.LookupAuthenticated)
		return sess, nil
	case err == nil, service.IsAnonymous(err):
		if errors.Is(err, service.ErrSessionExpired) && err != service.ErrSessionExpired { //nolint:errorlint // joined cleanup failure
			l.logger.WarnContext(r.Context(), "expired session cleanup failed", slog.Any("error", err))
		}
		l.metrics.ObserveSessionLookup(metrics.LookupAnonymous)
		return nil, nil
	default:
		l.metrics.ObserveSessionLookup(metrics.LookupError)
		return nil, fmt.Errorf("load session: %w", err)
	}
}

// Middleware loads the session once and stores it in the request context.
// Load failures are rendered by the error boundary and stop the chain.
func (l *SessionLoader) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := l.Load(r)
			if err != nil {
				if l.boundary != nil {
					l.boundary.Render(w, r, err)
					return
				}
				l.logger.ErrorContext(r.Context(), "session lookup failed", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			ctx := markSessionLoaded(SetSessionInContext(r.Context(), sess))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
