package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/target/appshell/config"
	httpx "github.com/target/appshell/internal/http"
	"github.com/target/appshell/internal/observability/metrics"
	"github.com/target/appshell/internal/service"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config  *config.AppConfig
	Auth    *service.AuthService // nil serves every request anonymously
	Metrics *metrics.Metrics     // nil disables /metrics and request metrics
	Ready   httpx.ReadinessCheck
	Logger  *slog.Logger
}

// NewHTTPServer builds the handler chain and an unstarted server.
func NewHTTPServer(cfg HTTPServerConfig) *http.Server {
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	addr := appCfg.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           BuildHTTPHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// BuildHTTPHandler wires the router and the outer middleware.
// Order: Logging -> Compression -> Router (error boundary -> routes).
func BuildHTTPHandler(cfg HTTPServerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Auth,
		CookieDomain: appCfg.HTTP.CookieDomain,
		AppName:      appCfg.HTTP.AppName,
		IsDev:        appCfg.IsDev,
		TemplatesDir: appCfg.HTTP.TemplatesDir,
		StaticDir:    appCfg.HTTP.StaticDir,
		Metrics:      cfg.Metrics,
		MetricsPath:  appCfg.Observability.Metrics.Path,
		Ready:        cfg.Ready,
		Logger:       logger,
	})

	// Compression sits inside Logging so logged sizes and statuses match what was sent.
	h := router
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel, Logger: logger})(h)
	}
	return httpx.Logging(logger, cfg.Metrics)(h)
}
