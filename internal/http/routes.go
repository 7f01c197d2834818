package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	appshell "github.com/target/appshell"
	httpassets "github.com/target/appshell/internal/http/assets"
	"github.com/target/appshell/internal/http/ui/viewmodel"
	"github.com/target/appshell/internal/observability/metrics"
	"github.com/target/appshell/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth         *service.AuthService // nil disables sign-in; every request is anonymous
	CookieDomain string
	AppName      string
	IsDev        bool

	// TemplatesDir and StaticDir are read in dev mode.
	TemplatesDir string
	StaticDir    string
	// TemplateFS and StaticFS override the embedded filesystems (tests).
	TemplateFS fs.FS
	StaticFS   fs.FS

	Metrics     *metrics.Metrics // nil disables /metrics
	MetricsPath string
	Ready       ReadinessCheck
	Logger      *slog.Logger
}

// NewRouter wires the shell, the error boundary and every route.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if services.AppName == "" {
		services.AppName = "App Shell"
	}

	templateFS, staticFS := resolveFilesystems(services, logger)
	resolver := newResolver(services, staticFS, logger)

	var renderer *TemplateRenderer
	if templateFS != nil {
		tr, err := NewTemplateRenderer(TemplateRendererConfig{
			TemplateFS:    templateFS,
			CriticalCSSFS: staticFS,
			DevMode:       services.IsDev,
			Logger:        logger,
		})
		if err != nil {
			logger.Error("failed to create template renderer; serving plain-text pages", slog.Any("error", err))
		} else {
			renderer = tr
		}
	}

	boundary := NewErrorBoundary(ErrorBoundaryOptions{
		Renderer: errorRendererOrNil(renderer),
		AppName:  services.AppName,
		Links:    func() []viewmodel.Link { return bundleLinks(resolver) },
		Scripts:  func() []string { return bundleScripts(resolver) },
		Metrics:  services.Metrics,
		Logger:   logger,
	})

	var auth SessionGetter
	if services.Auth != nil {
		auth = services.Auth
	}
	loader := NewSessionLoader(SessionLoaderOptions{
		Auth:     auth,
		Boundary: boundary,
		Metrics:  services.Metrics,
		Logger:   logger,
	})

	shell := NewShell(ShellOptions{
		Renderer:    pageRendererOrNil(renderer),
		Loader:      loader,
		Boundary:    boundary,
		Assets:      resolver,
		AppName:     services.AppName,
		AuthEnabled: services.Auth != nil,
		Metrics:     services.Metrics,
		Logger:      logger,
	})

	// Pages issue the token their nav forms echo; the form posts verify it.
	csrf := CSRFProtection(CSRFConfig{
		CookieDomain: services.CookieDomain,
		OnFailure: func(w http.ResponseWriter, r *http.Request, status int, msg string) {
			boundary.Render(w, r, NewRouteError(status, "", msg))
		},
	})

	mux := http.NewServeMux()
	page := func(route Route) http.Handler { return csrf(loader.Middleware()(shell.Handler(route))) }

	mux.Handle("GET /{$}", page(HomeRoute()))
	mux.Handle("GET /account", page(AccountRoute()))
	mux.Handle("GET /auth/signed-out", page(SignedOutRoute()))
	mux.Handle("POST /preferences/theme", csrf(&ThemeHandler{CookieDomain: services.CookieDomain, Logger: logger}))

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger}, csrf)
	}

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("GET /readyz", readyHandler(services.Ready, logger))
	if services.Metrics != nil {
		metricsPath := services.MetricsPath
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		mux.Handle("GET "+metricsPath, services.Metrics.Handler())
	}
	if staticFS != nil {
		mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	}

	mux.HandleFunc("/", boundary.NotFound)

	return boundary.Middleware()(mux)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, csrf func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.Handle("POST /auth/logout", csrf(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
}

// resolveFilesystems picks disk (dev), override (tests) or embedded (prod) sources.
func resolveFilesystems(services RouterServices, logger *slog.Logger) (fs.FS, fs.FS) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS

	if templateFS == nil {
		if services.IsDev {
			templateFS = os.DirFS(orDefault(services.TemplatesDir, TemplatePathFromRoot))
		} else if sub, err := fs.Sub(appshell.TemplateFS, "frontend/templates"); err == nil {
			templateFS = sub
		} else {
			logger.Error("failed to open embedded templates", slog.Any("error", err))
		}
	}

	if staticFS == nil {
		if services.IsDev {
			staticFS = os.DirFS(orDefault(services.StaticDir, "frontend/static"))
		} else if sub, err := fs.Sub(appshell.StaticFS, "frontend/static"); err == nil {
			staticFS = sub
		} else {
			logger.Error("failed to open embedded static assets", slog.Any("error", err))
		}
	}
	return templateFS, staticFS
}

// newResolver reads manifest.json from disk in dev mode so rebuilds are picked up.
func newResolver(services RouterServices, staticFS fs.FS, logger *slog.Logger) *AssetResolver {
	if staticFS == nil {
		return nil
	}
	var (
		resolver *AssetResolver
		err      error
	)
	if services.IsDev && services.StaticFS == nil {
		resolver, err = httpassets.NewAssetResolverFromDisk(filepath.Join(orDefault(services.StaticDir, "frontend/static"), "manifest.json"))
	} else {
		resolver, err = httpassets.NewAssetResolverFromFS(staticFS, "manifest.json")
	}
	if err != nil {
		logger.Warn("failed to load asset manifest; bundle links disabled", slog.Any("error", err))
		return nil
	}
	resolver.SetLogger(logger)
	return resolver
}

// errorRendererOrNil and pageRendererOrNil avoid storing a typed nil in an interface.
func errorRendererOrNil(tr *TemplateRenderer) ErrorPageRenderer {
	if tr == nil {
		return nil
	}
	return tr
}

func pageRendererOrNil(tr *TemplateRenderer) PageRenderer {
	if tr == nil {
		return nil
	}
	return tr
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return filepath.Clean(v)
}

//nolint:gochecknoglobals // compiled once
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches fingerprinted assets for a year and nothing else.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}
