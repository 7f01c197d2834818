package httpx

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/appshell/internal/domain/auth"
	"github.com/target/appshell/internal/mocks"
	"github.com/target/appshell/internal/ports"
	"github.com/target/appshell/internal/service"
	"go.uber.org/mock/gomock"
)

func newLoaderWithStore(t *testing.T, store ports.SessionStore, clock clockwork.Clock) *SessionLoader {
	t.Helper()
	svc := service.NewAuthService(service.AuthServiceOptions{Sessions: store, Clock: clock})
	return NewSessionLoader(SessionLoaderOptions{
		Auth:     svc,
		Boundary: NewErrorBoundary(ErrorBoundaryOptions{}),
	})
}

func requestWithSession(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	}
	return req
}

func TestSessionLoader_NoCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl) // no calls expected

	sess, err := newLoaderWithStore(t, store, nil).Load(requestWithSession(""))
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionLoader_ReturnsSession(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	want := domainauth.Session{ID: "sid", UserID: "u1", Email: "u1@example.com", Role: domainauth.RoleUser, ExpiresAt: clock.Now().Add(time.Hour)}
	store.EXPECT().Get(gomock.Any(), "sid").Return(want, nil)

	sess, err := newLoaderWithStore(t, store, clock).Load(requestWithSession("sid"))
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, want, *sess)
}

func TestSessionLoader_AnonymousOutcomes(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		store.EXPECT().Get(gomock.Any(), "gone").Return(domainauth.Session{}, ports.ErrSessionNotFound)

		sess, err := newLoaderWithStore(t, store, clock).Load(requestWithSession("gone"))
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("expired", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		store.EXPECT().Get(gomock.Any(), "old").
			Return(domainauth.Session{ID: "old", ExpiresAt: clock.Now().Add(-time.Minute)}, nil)
		store.EXPECT().Delete(gomock.Any(), "old").Return(nil)

		sess, err := newLoaderWithStore(t, store, clock).Load(requestWithSession("old"))
		require.NoError(t, err)
		assert.Nil(t, sess)
	})
}

func TestSessionLoader_ExpiredCleanupFailureLogged(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "old").
		Return(domainauth.Session{ID: "old", ExpiresAt: clock.Now().Add(-time.Minute)}, nil)
	store.EXPECT().Delete(gomock.Any(), "old").Return(errors.New("redis read-only"))

	var logs bytes.Buffer
	loader := NewSessionLoader(SessionLoaderOptions{
		Auth:   service.NewAuthService(service.AuthServiceOptions{Sessions: store, Clock: clock}),
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})

	sess, err := loader.Load(requestWithSession("old"))
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Contains(t, logs.String(), "expired session cleanup failed")
	assert.Contains(t, logs.String(), "redis read-only")
}

func TestSessionLoader_StoreFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	boom := errors.New("dial tcp: connection refused")
	store.EXPECT().Get(gomock.Any(), "sid").Return(domainauth.Session{}, boom)

	sess, err := newLoaderWithStore(t, store, nil).Load(requestWithSession("sid"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, sess)
}

func TestSessionLoader_MiddlewareRendersStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "sid").Return(domainauth.Session{}, errors.New("redis down"))

	called := false
	h := newLoaderWithStore(t, store, nil).Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithSession("sid"))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), UnknownErrorHeading)
	assert.Contains(t, rec.Body.String(), "redis down")
}

func TestSessionLoader_MiddlewareLoadsOnce(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "sid").
		Return(domainauth.Session{ID: "sid", UserID: "u1", ExpiresAt: clock.Now().Add(time.Hour)}, nil).
		Times(1)

	loader := newLoaderWithStore(t, store, clock)
	var inner *domainauth.Session
	h := loader.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		var err error
		inner, err = loader.Load(r)
		require.NoError(t, err)
	}))

	h.ServeHTTP(httptest.NewRecorder(), requestWithSession("sid"))
	require.NotNil(t, inner)
	assert.Equal(t, "u1", inner.UserID)
}

func TestSessionLoader_AnonymousLoadedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "gone").Return(domainauth.Session{}, ports.ErrSessionNotFound).Times(1)

	loader := newLoaderWithStore(t, store, nil)
	h := loader.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		sess, err := loader.Load(r)
		assert.NoError(t, err)
		assert.Nil(t, sess)
	}))
	h.ServeHTTP(httptest.NewRecorder(), requestWithSession("gone"))
}

func TestSessionLoader_NilAuth(t *testing.T) {
	loader := NewSessionLoader(SessionLoaderOptions{})
	sess, err := loader.Load(requestWithSession("sid"))
	require.NoError(t, err)
	assert.Nil(t, sess)

	var nilLoader *SessionLoader
	sess, err = nilLoader.Load(requestWithSession("sid"))
	require.NoError(t, err)
	assert.Nil(t, sess)
}
