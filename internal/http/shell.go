package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/appshell/internal/domain/auth"
	"github.com/target/appshell/internal/http/ui/viewmodel"
	"github.com/target/appshell/internal/observability/metrics"
)

// Logical asset names looked up in the build manifest.
const (
	assetAppCSS = "css/app.css"
	assetAppJS  = "js/app.js"
)

// RouteLoader produces the nested route's data. It receives the session
// the shell already loaded (nil for anonymous requests).
type RouteLoader func(r *http.Request, session *domainauth.Session) (any, error)

// Route is a nested route rendered inside the layout outlet.
type Route struct {
	Page  string // CurrentPage key, see ContentTemplateFor
	Title string
	Load  RouteLoader // optional
}

// PageRenderer renders the full layout document.
type PageRenderer interface {
	RenderFull(w http.ResponseWriter, r *http.Request, data any) error
}

// ShellOptions configures a Shell.
type ShellOptions struct {
	Renderer    PageRenderer
	Loader      *SessionLoader
	Boundary    *ErrorBoundary
	Assets      *AssetResolver // optional; without it no bundle links are emitted
	AppName     string
	// AuthEnabled is set when the /auth routes are mounted.
	AuthEnabled bool
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// Shell is the root document renderer: head, navigation, outlet, scripts.
type Shell struct {
	renderer    PageRenderer
	loader      *SessionLoader
	boundary    *ErrorBoundary
	assets      *AssetResolver
	appName     string
	authEnabled bool
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewShell constructs a Shell.
func NewShell(opts ShellOptions) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	boundary := opts.Boundary
	if boundary == nil {
		boundary = NewErrorBoundary(ErrorBoundaryOptions{AppName: opts.AppName, Metrics: opts.Metrics, Logger: logger})
	}
	return &Shell{
		renderer:    opts.Renderer,
		loader:      opts.Loader,
		boundary:    boundary,
		assets:      opts.Assets,
		appName:     opts.AppName,
		authEnabled: opts.AuthEnabled,
		metrics:     opts.Metrics,
		logger:      logger,
	}
}

// Links returns the stylesheet links for the document head. The bundle is
// only linked when the manifest lists it.
func (s *Shell) Links() []viewmodel.Link { return bundleLinks(s.assets) }

func bundleLinks(assets *AssetResolver) []viewmodel.Link {
	links := make([]viewmodel.Link, 0, 1)
	if assets == nil {
		return links
	}
	assets.ReloadIfChanged()
	if href, ok := assets.Lookup(assetAppCSS); ok {
		links = append(links, viewmodel.Link{Rel: "stylesheet", Href: href})
	}
	return links
}

// Scripts returns the script sources appended to the body.
func (s *Shell) Scripts() []string { return bundleScripts(s.assets) }

func bundleScripts(assets *AssetResolver) []string {
	if assets == nil {
		return nil
	}
	if src, ok := assets.Lookup(assetAppJS); ok {
		return []string{src}
	}
	return nil
}

// Render loads the session and the route's data, then renders the layout.
// Every failure is handed to the error boundary.
func (s *Shell) Render(w http.ResponseWriter, r *http.Request, route Route) {
	session, err := s.loader.Load(r)
	if err != nil {
		s.boundary.Render(w, r, err)
		return
	}

	var data any
	if route.Load != nil {
		if data, err = route.Load(r, session); err != nil {
			s.boundary.Render(w, r, err)
			return
		}
	}

	page := &viewmodel.Page{Layout: s.buildLayout(r, route, session), Data: data}
	if s.renderer == nil {
		s.boundary.Render(w, r, NewRouteError(http.StatusServiceUnavailable, "", "Templates are not available."))
		return
	}
	if err := s.renderer.RenderFull(w, r, page); err != nil {
		s.boundary.Render(w, r, err)
		return
	}
	s.metrics.ObserveRender(metrics.OutcomeShell)
}

// Handler adapts Render to http.Handler for a fixed route.
func (s *Shell) Handler(route Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Render(w, r, route)
	})
}

func (s *Shell) buildLayout(r *http.Request, route Route, session *domainauth.Session) viewmodel.Layout {
	title := s.appName
	if route.Title != "" {
		title = route.Title + " - " + s.appName
	}
	currentPath := safeRedirectPath(r.URL.RequestURI())

	return viewmodel.Layout{
		AppName:         s.appName,
		Title:           title,
		CurrentPage:     route.Page,
		Theme:           ThemeFromRequest(r).String(),
		IsAuthenticated: session != nil,
		AuthEnabled:     s.authEnabled,
		User:            userView(session),
		Nav:             MainNavigation(route.Page, currentPath, session, s.authEnabled),
		Links:           s.Links(),
		Scripts:         s.Scripts(),
		CurrentPath:     currentPath,
		CSRFToken:       GetCSRFToken(r),
	}
}

func userView(session *domainauth.Session) *viewmodel.User {
	if session == nil {
		return nil
	}
	return &viewmodel.User{
		ID:          session.UserID,
		DisplayName: session.DisplayName(),
		Email:       session.Email,
		Role:        string(session.Role),
	}
}
