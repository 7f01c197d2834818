package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	httpassets "github.com/target/appshell/internal/http/assets"
	assetfuncs "github.com/target/appshell/internal/http/templates/assets"
	corefuncs "github.com/target/appshell/internal/http/templates/core"
	"github.com/target/appshell/internal/http/ui/viewmodel"
)

// AssetResolver aliases the asset resolver so callers can keep importing httpx.
type AssetResolver = httpassets.AssetResolver

const fallbackCriticalCSS = ":root{--bg:#f6f7f9;--fg:#2e3138;}body{margin:0;font-family:system-ui,sans-serif}"

// TemplateRenderer renders the layout and error-layout documents.
type TemplateRenderer struct {
	t             *template.Template
	criticalCSSFS fs.FS
	criticalCSS   string
	devMode       bool
	logger        *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS    fs.FS          // Filesystem containing templates (required)
	CriticalCSSFS fs.FS          // Filesystem containing css/critical.css (optional)
	DevMode       bool           // Re-read critical CSS on every render
	Logger        *slog.Logger   // optional
}

// NewTemplateRenderer parses every template under TemplateFS once.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := &TemplateRenderer{
		criticalCSSFS: cfg.CriticalCSSFS,
		devMode:       cfg.DevMode,
		logger:        logger,
	}
	if cfg.CriticalCSSFS != nil && !cfg.DevMode {
		renderer.criticalCSS = renderer.readCriticalCSS()
	}

	var t *template.Template
	funcs := template.FuncMap{}
	for _, src := range []template.FuncMap{
		corefuncs.Funcs(corefuncs.Deps{Template: &t, ContentTemplateFor: ContentTemplateFor}),
		assetfuncs.Funcs(assetfuncs.Options{CriticalCSS: renderer.getCriticalCSS}),
	} {
		for k, v := range src {
			funcs[k] = v
		}
	}

	var err error
	t, err = template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

func (r *TemplateRenderer) readCriticalCSS() string {
	b, err := fs.ReadFile(r.criticalCSSFS, "css/critical.css")
	if err != nil {
		r.logger.Warn("failed to load critical CSS, using fallback", slog.Any("error", err))
		return fallbackCriticalCSS
	}
	return string(b)
}

func (r *TemplateRenderer) getCriticalCSS() string {
	if r.criticalCSSFS == nil {
		return ""
	}
	if r.devMode {
		return r.readCriticalCSS()
	}
	return r.criticalCSS
}

// RenderFull renders the "layout" document with status 200.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "layout", http.StatusOK, data)
}

// RenderError renders the "error-layout" document with the page's status.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, page viewmodel.ErrorPage) error {
	status := page.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return r.renderTemplate(w, "error-layout", status, page)
}

// renderTemplate buffers the whole document so a failed execution leaves w untouched.
func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, name string, status int, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
