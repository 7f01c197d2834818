package httpx

import (
	"net/http"

	domainauth "github.com/target/appshell/internal/domain/auth"
)

// HomeData feeds home-content.
type HomeData struct {
	Greeting string
	SignedIn bool
}

// AccountData feeds account-content.
type AccountData struct {
	Name      string
	Email     string
	Role      string
	ExpiresAt string
}

// SignedOutData feeds signed-out-content.
type SignedOutData struct {
	RedirectURI string
}

// HomeRoute greets the session user or a guest.
func HomeRoute() Route {
	return Route{
		Page:  PageHome,
		Title: "Home",
		Load: func(_ *http.Request, session *domainauth.Session) (any, error) {
			if session == nil {
				return HomeData{Greeting: "Welcome, guest"}, nil
			}
			return HomeData{Greeting: "Welcome back, " + session.DisplayName(), SignedIn: true}, nil
		},
	}
}

// AccountRoute shows the session user; anonymous requests get a routed 401.
func AccountRoute() Route {
	return Route{
		Page:  PageAccount,
		Title: "Account",
		Load: func(_ *http.Request, session *domainauth.Session) (any, error) {
			if session == nil {
				return nil, NewRouteError(http.StatusUnauthorized, "Unauthorized", "Please sign in to view your account.")
			}
			return AccountData{
				Name:      session.DisplayName(),
				Email:     session.Email,
				Role:      string(session.Role),
				ExpiresAt: session.ExpiresAt.UTC().Format("Jan 2, 2006 15:04 MST"),
			}, nil
		},
	}
}

// SignedOutRoute confirms sign-out and offers to sign in again.
func SignedOutRoute() Route {
	return Route{
		Page:  PageSignedOut,
		Title: "Signed out",
		Load: func(r *http.Request, _ *domainauth.Session) (any, error) {
			return SignedOutData{RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri"))}, nil
		},
	}
}
