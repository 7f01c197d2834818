package httpx

// CurrentPage constants identify the nested route rendered in the layout outlet.
const (
	PageHome      = "home"
	PageAccount   = "account"
	PageSignedOut = "signed-out"
)

// Cookie names shared by the shell, the session loader and the auth handlers.
const (
	SessionCookieName = "session_id"
	ThemeCookieName   = "theme"
)

// Template paths used for loading templates in tests and dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:      "home-content",
	PageAccount:   "account-content",
	PageSignedOut: "signed-out-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to home-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "home-content"
}
