package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/appshell/internal/adapters/authroles"
	domainauth "github.com/target/appshell/internal/domain/auth"
	mockauth "github.com/target/appshell/internal/mocks/auth"
	"github.com/target/appshell/internal/ports"
	"github.com/target/appshell/internal/service"
)

type authFixture struct {
	provider *mockauth.FakeAuthProvider
	store    *mockauth.MemorySessionStore
	handlers *AuthHandlers
}

func newAuthFixture(t *testing.T, seed ...domainauth.Session) *authFixture {
	t.Helper()
	provider := mockauth.NewFakeAuthProvider()
	store := mockauth.NewMemorySessionStore(seed...)
	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: store,
		Roles:    authroles.StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"},
	})
	return &authFixture{provider: provider, store: store, handlers: &AuthHandlers{Svc: svc}}
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Login(t *testing.T) {
	f := newAuthFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/account", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://fake-idp/auth", rec.Header().Get("Location"))
	require.NotNil(t, cookieNamed(rec, oauthStateCookie))
	assert.Equal(t, "state-1", cookieNamed(rec, oauthStateCookie).Value)
	assert.Equal(t, "nonce-1", cookieNamed(rec, oauthNonceCookie).Value)
	assert.Equal(t, "/account", cookieNamed(rec, postLoginCookie).Value)
	assert.True(t, cookieNamed(rec, oauthStateCookie).HttpOnly)
}

func TestAuthHandlers_LoginRejectsOpenRedirect(t *testing.T) {
	f := newAuthFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=//evil.example.com", nil))

	assert.Equal(t, "/", cookieNamed(rec, postLoginCookie).Value)
}

func callbackRequest(query string, cookies map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+query, nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	return req
}

func TestAuthHandlers_Callback(t *testing.T) {
	f := newAuthFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.Callback(rec, callbackRequest("code=abc&state=s1", map[string]string{
		oauthStateCookie: "s1",
		oauthNonceCookie: "n1",
		postLoginCookie:  "/account",
	}))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/account", rec.Header().Get("Location"))
	sessionCookie := cookieNamed(rec, SessionCookieName)
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, 1, f.store.Len())

	stored, err := f.store.Get(context.Background(), sessionCookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "fake-user-1", stored.UserID)
	assert.Equal(t, domainauth.RoleUser, stored.Role)
}

func TestAuthHandlers_CallbackValidation(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		cookies map[string]string
		errCode string
	}{
		{"missing code", "state=s1", nil, "missing_code"},
		{"missing state", "code=abc", nil, "missing_state"},
		{"state mismatch", "code=abc&state=s1", map[string]string{oauthStateCookie: "other"}, "invalid_state"},
		{"missing nonce", "code=abc&state=s1", map[string]string{oauthStateCookie: "s1"}, "missing_nonce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			rec := httptest.NewRecorder()
			f.handlers.Callback(rec, callbackRequest(tt.query, tt.cookies))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.errCode, body["error"])
			assert.Equal(t, 0, f.store.Len())
		})
	}
}

func TestAuthHandlers_CallbackExchangeFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("idp unavailable")
	}

	rec := httptest.NewRecorder()
	f.handlers.Callback(rec, callbackRequest("code=abc&state=s1", map[string]string{
		oauthStateCookie: "s1",
		oauthNonceCookie: "n1",
	}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "login_completion_failed")
	assert.Nil(t, cookieNamed(rec, SessionCookieName))
}

func TestAuthHandlers_Logout(t *testing.T) {
	sess := domainauth.Session{ID: "sid", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	f := newAuthFixture(t, sess)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(url.Values{"redirect_uri": {"/account"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sid"})
	rec := httptest.NewRecorder()
	f.handlers.Logout(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2Faccount", rec.Header().Get("Location"))
	assert.Equal(t, 0, f.store.Len())
	cleared := cookieNamed(rec, SessionCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestAuthHandlers_LogoutHTMX(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Hx-Request", "true")
	rec := httptest.NewRecorder()
	f.handlers.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2F", rec.Header().Get("Hx-Redirect"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
}

func TestAuthHandlers_Status(t *testing.T) {
	sess := domainauth.Session{ID: "sid", UserID: "u1", Email: "u1@example.com", Role: domainauth.RoleUser, ExpiresAt: time.Now().Add(time.Hour)}
	f := newAuthFixture(t, sess)

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handlers.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))
		assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	})

	t.Run("unknown session clears cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "nope"})
		rec := httptest.NewRecorder()
		f.handlers.Status(rec, req)
		assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
		require.NotNil(t, cookieNamed(rec, SessionCookieName))
	})

	t.Run("signed in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sid"})
		rec := httptest.NewRecorder()
		f.handlers.Status(rec, req)

		var body struct {
			Authenticated bool `json:"authenticated"`
			User          struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Authenticated)
		assert.Equal(t, "u1", body.User.ID)
		assert.Equal(t, "user", body.User.Role)
	})
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/":                    "/",
		"/account?tab=1":       "/account?tab=1",
		"//evil.example.com":   "/",
		"/\\evil.example.com":  "/",
		"https://evil.example": "/",
		"account":              "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), "input %q", in)
	}
}
