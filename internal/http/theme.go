package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Theme is the colour scheme applied to the document body.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const themeCookieMaxAge = 365 * 24 * time.Hour

// ParseTheme maps a stored preference to a Theme. Only "dark" selects dark.
func ParseTheme(stored string) Theme {
	if stored == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) String() string { return string(t) }

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ThemeFromRequest reads the theme preference cookie; absent means light.
func ThemeFromRequest(r *http.Request) Theme {
	c, err := r.Cookie(ThemeCookieName)
	if err != nil {
		return ThemeLight
	}
	return ParseTheme(c.Value)
}

// ThemeHandler stores the theme preference.
// POST /preferences/theme with form fields theme (dark|light, empty toggles) and redirect_uri.
type ThemeHandler struct {
	CookieDomain string
	Logger       *slog.Logger
}

func (h *ThemeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return
	}

	theme := ThemeFromRequest(r).Toggle()
	if requested := strings.TrimSpace(r.PostForm.Get("theme")); requested != "" {
		theme = ParseTheme(strings.ToLower(requested))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookieName,
		Value:    theme.String(),
		Path:     "/",
		Domain:   h.CookieDomain,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(themeCookieMaxAge.Seconds()),
	})

	redirect := safeRedirectPath(r.PostForm.Get("redirect_uri"))
	if redirect == "/" {
		redirect = refererPath(r)
	}
	if h.Logger != nil {
		h.Logger.DebugContext(r.Context(), "theme preference updated", slog.String("theme", theme.String()))
	}

	if IsHTMX(r) {
		SetHXRefresh(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// refererPath returns the same-origin path of the Referer header, or "/".
func refererPath(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return "/"
	}
	return safeRedirectPath(u.RequestURI())
}
