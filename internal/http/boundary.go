package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/target/appshell/internal/http/ui/viewmodel"
	obserrors "github.com/target/appshell/internal/observability/errors"
	"github.com/target/appshell/internal/observability/metrics"
)

// Copy shown by the error boundary.
const (
	DefaultErrorMessage = "Something went wrong!"
	UnknownErrorHeading = "Unknown Error"
	UnknownErrorMessage = "Unknown error"
)

// RouteErrorData is the optional payload attached to a routed error.
type RouteErrorData struct {
	Message string `json:"message,omitempty"`
}

// RouteError is an HTTP-level error raised by routing or a route loader
// (not found, unauthorized). It renders with its own status and status text.
type RouteError struct {
	Status     int
	StatusText string
	Data       *RouteErrorData
}

// NewRouteError builds a RouteError. An empty statusText falls back to the
// standard text for status; an empty message leaves Data nil.
func NewRouteError(status int, statusText, message string) *RouteError {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	re := &RouteError{Status: status, StatusText: statusText}
	if message != "" {
		re.Data = &RouteErrorData{Message: message}
	}
	return re
}

func (e *RouteError) Error() string {
	if e.Data != nil && e.Data.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.StatusText, e.Data.Message)
	}
	return fmt.Sprintf("%d %s", e.Status, e.StatusText)
}

// ErrorKind is the boundary branch an error value falls into.
type ErrorKind int

const (
	// ErrorKindUnknown is anything without a recognizable message (a panic with a string, nil).
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindRouted is a *RouteError, possibly wrapped.
	ErrorKindRouted
	// ErrorKindGeneric is a value exposing a message: an error, a Message() method, or a map with "message".
	ErrorKindGeneric
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindRouted:
		return "routed"
	case ErrorKindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

type messager interface{ Message() string }

// AsRouteError finds a *RouteError in v, unwrapping errors.
func AsRouteError(v any) (*RouteError, bool) {
	switch t := v.(type) {
	case *RouteError:
		return t, t != nil
	case RouteError:
		return &t, true
	case error:
		var re *RouteError
		if errors.As(t, &re) && re != nil {
			return re, true
		}
	}
	return nil, false
}

// messageOf extracts the message exposed by v, if it exposes one at all.
func messageOf(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case messager:
		return t.Message(), true
	case error:
		return t.Error(), true
	case map[string]any:
		if msg, ok := t["message"].(string); ok {
			return msg, true
		}
	case map[string]string:
		if msg, ok := t["message"]; ok {
			return msg, true
		}
	}
	return "", false
}

// ClassifyError decides which boundary branch renders v.
func ClassifyError(v any) ErrorKind {
	if _, ok := AsRouteError(v); ok {
		return ErrorKindRouted
	}
	if _, ok := messageOf(v); ok {
		return ErrorKindGeneric
	}
	return ErrorKindUnknown
}

// NewErrorPage maps an error value onto the error-layout view model.
func NewErrorPage(v any) viewmodel.ErrorPage {
	if re, ok := AsRouteError(v); ok {
		status := re.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := DefaultErrorMessage
		if re.Data != nil && re.Data.Message != "" {
			msg = re.Data.Message
		}
		return viewmodel.ErrorPage{Status: status, Title: re.StatusText, Heading: re.StatusText, Message: msg}
	}

	if msg, ok := messageOf(v); ok {
		page := viewmodel.ErrorPage{
			Status:  http.StatusInternalServerError,
			Title:   msg,
			Heading: UnknownErrorHeading,
			Message: msg,
		}
		if msg == "" {
			page.Message = DefaultErrorMessage
		}
		return page
	}

	return viewmodel.ErrorPage{
		Status:  http.StatusInternalServerError,
		Title:   UnknownErrorMessage,
		Heading: UnknownErrorHeading,
		Message: UnknownErrorMessage,
	}
}

// ErrorPageRenderer renders the error-layout document.
type ErrorPageRenderer interface {
	RenderError(w http.ResponseWriter, r *http.Request, page viewmodel.ErrorPage) error
}

// ErrorBoundaryOptions configures an ErrorBoundary.
type ErrorBoundaryOptions struct {
	Renderer ErrorPageRenderer // nil renders plain text
	AppName  string
	Links    func() []viewmodel.Link
	Scripts  func() []string
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// ErrorBoundary is the last stop for anything a route returns or throws.
type ErrorBoundary struct {
	renderer ErrorPageRenderer
	appName  string
	links    func() []viewmodel.Link
	scripts  func() []string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewErrorBoundary constructs an ErrorBoundary.
func NewErrorBoundary(opts ErrorBoundaryOptions) *ErrorBoundary {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorBoundary{
		renderer: opts.Renderer,
		appName:  opts.AppName,
		links:    opts.Links,
		scripts:  opts.Scripts,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Render writes the error page for v. It never fails: when the template
// cannot be rendered it falls back to a plain-text body with the same copy.
func (b *ErrorBoundary) Render(w http.ResponseWriter, r *http.Request, v any) {
	kind := ClassifyError(v)
	page := NewErrorPage(v)
	page.AppName = b.appName
	if b.links != nil {
		page.Links = b.links()
	}
	if b.scripts != nil {
		page.Scripts = b.scripts()
	}

	b.log(r, kind, page, v)
	b.metrics.ObserveRender(outcomeFor(kind))

	if b.renderer != nil {
		if err := b.renderer.RenderError(w, r, page); err == nil {
			return
		}
	}
	writePlainError(w, page)
}

// NotFound renders the routed 404 page.
func (b *ErrorBoundary) NotFound(w http.ResponseWriter, r *http.Request) {
	b.Render(w, r, NewRouteError(http.StatusNotFound, "Not Found", ""))
}

// Middleware recovers panics from downstream handlers and renders them through the boundary.
func (b *ErrorBoundary) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint,err113 // sentinel compared by identity
					panic(rec)
				}
				b.logger.ErrorContext(r.Context(), "panic",
					slog.Any("error", rec),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method),
					slog.String("stack", string(debug.Stack())),
				)
				b.Render(w, r, rec)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func (b *ErrorBoundary) log(r *http.Request, kind ErrorKind, page viewmodel.ErrorPage, v any) {
	attrs := []any{
		slog.String("kind", kind.String()),
		slog.Int("status", page.Status),
		slog.String("path", r.URL.Path),
		slog.String("request_id", RequestIDFromContext(r.Context())),
	}
	if page.Status < http.StatusInternalServerError {
		b.logger.InfoContext(r.Context(), "route error", attrs...)
		return
	}
	attrs = append(attrs,
		slog.String("error_class", obserrors.ClassifyValue(v)),
		slog.Any("error", v),
	)
	b.logger.ErrorContext(r.Context(), "request failed", attrs...)
}

func outcomeFor(kind ErrorKind) string {
	switch kind {
	case ErrorKindRouted:
		return metrics.OutcomeRoutedError
	case ErrorKindGeneric:
		return metrics.OutcomeGenericError
	default:
		return metrics.OutcomeUnknownError
	}
}

func writePlainError(w http.ResponseWriter, page viewmodel.ErrorPage) {
	var sb strings.Builder
	sb.WriteString(page.Heading)
	sb.WriteString("\n\n")
	sb.WriteString(page.Message)
	sb.WriteString("\n\nBack to safety: /\n")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(page.Status)
	_, _ = w.Write([]byte(sb.String()))
}
