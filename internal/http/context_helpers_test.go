package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/appshell/internal/domain/auth"
)

func TestGetUserSessionFromContext(t *testing.T) {
	if s, ok := GetUserSessionFromContext(context.Background()); assert.False(t, ok) {
		assert.Nil(t, s)
	}

	sess := &domainauth.Session{ID: "abc", Role: domainauth.RoleUser}
	ctx := SetSessionInContext(context.Background(), sess)
	s, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, sess, s)

	assert.Equal(t, context.Background(), SetSessionInContext(context.Background(), nil))
}

func TestSessionLoadedMarker(t *testing.T) {
	ctx := context.Background()
	assert.False(t, sessionLoaded(ctx))
	assert.True(t, sessionLoaded(markSessionLoaded(ctx)))
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Equal(t, "req-1", RequestIDFromContext(WithRequestID(context.Background(), "req-1")))
}
