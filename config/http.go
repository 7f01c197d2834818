package config

import "strings"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session and theme cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// AppName is shown in the document title and the navigation header.
	AppName string `env:"APP_NAME" envDefault:"App Shell"`

	// TemplatesDir and StaticDir are read from disk in dev mode.
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"frontend/templates"`
	StaticDir    string `env:"STATIC_DIR"    envDefault:"frontend/static"`

	// CompressionEnabled enables gzip compression for text-based responses.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}
	h.CookieDomain = strings.TrimSpace(h.CookieDomain)
	h.AppName = strings.TrimSpace(h.AppName)
	if h.AppName == "" {
		h.AppName = "App Shell"
	}
}
