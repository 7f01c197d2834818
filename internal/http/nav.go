package httpx

import (
	"net/url"

	domainauth "github.com/target/appshell/internal/domain/auth"
	"github.com/target/appshell/internal/http/ui/viewmodel"
)

// MainNavigation builds the header navigation for the current page.
// Guests get a sign-in link back to currentPath; signed-in users get a sign-out form.
// Without authEnabled neither entry is emitted since the auth routes are not mounted.
func MainNavigation(currentPage, currentPath string, session *domainauth.Session, authEnabled bool) []viewmodel.NavItem {
	items := []viewmodel.NavItem{
		{Label: "Home", Href: "/", Active: currentPage == PageHome},
		{Label: "Account", Href: "/account", Active: currentPage == PageAccount},
	}
	if !authEnabled {
		return items
	}

	if session == nil {
		q := url.Values{"redirect_uri": {safeRedirectPath(currentPath)}}
		return append(items, viewmodel.NavItem{Label: "Sign in", Href: "/auth/login?" + q.Encode()})
	}
	return append(items, viewmodel.NavItem{Label: "Sign out", Href: "/auth/logout", Method: "post"})
}
