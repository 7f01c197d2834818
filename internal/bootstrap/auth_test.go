package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/appshell/config"
	"github.com/target/appshell/internal/service"
	"github.com/target/appshell/internal/testutil"
)

func devAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Mode:       config.AuthModeMock,
		AdminGroup: "admins",
		UserGroup:  "users",
		DevAuth: config.DevAuthConfig{
			UserID: "dev",
			Email:  "dev@example.com",
			Groups: []string{"admins"},
		},
	}
}

func TestBuildAuthServiceReturnsNilWithoutRedis(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		auth config.AuthConfig
	}{
		{
			name: "dev auth mode",
			auth: devAuthConfig(),
		},
		{
			name: "oauth mode",
			auth: config.AuthConfig{
				Mode:       config.AuthModeOAuth,
				AdminGroup: "admins",
				UserGroup:  "users",
				OAuth: config.OAuthConfig{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					DiscoveryURL: "https://issuer.example.com",
					RedirectURL:  "https://app.example.com/auth/callback",
					Scope:        "openid",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AuthConfig{
				Auth:        tt.auth,
				RedisClient: nil,
				Logger:      logger,
			}

			if svc := BuildAuthService(context.Background(), cfg); svc != nil {
				t.Fatalf("BuildAuthService() = %v, want nil", svc)
			}
		})
	}
}

func TestBuildAuthService_WithRedis(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prefix := testutil.UniqueKeyPrefix(t.Name())

	t.Run("dev mode round trip", func(t *testing.T) {
		svc := BuildAuthService(context.Background(), AuthConfig{
			Auth:          devAuthConfig(),
			RedisClient:   client,
			SessionPrefix: prefix,
			Logger:        logger,
		})
		require.NotNil(t, svc)

		begin, err := svc.BeginLogin(context.Background(), "/")
		require.NoError(t, err)
		sess, err := svc.CompleteLogin(context.Background(), service.CompleteLoginInput{
			Code:  "dev",
			State: begin.State,
			Nonce: begin.Nonce,
		})
		require.NoError(t, err)
		assert.Equal(t, "admin", string(sess.Role))

		got, err := svc.GetSession(context.Background(), sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "dev@example.com", got.Email)
		require.NoError(t, svc.Logout(context.Background(), sess.ID))
	})

	t.Run("oauth mode missing config", func(t *testing.T) {
		svc := BuildAuthService(context.Background(), AuthConfig{
			Auth:        config.AuthConfig{Mode: config.AuthModeOAuth},
			RedisClient: client,
			Logger:      logger,
		})
		assert.Nil(t, svc)
	})

	t.Run("dev mode missing identity", func(t *testing.T) {
		auth := devAuthConfig()
		auth.DevAuth.UserID = ""
		svc := BuildAuthService(context.Background(), AuthConfig{Auth: auth, RedisClient: client, Logger: logger})
		assert.Nil(t, svc)
	})
}
