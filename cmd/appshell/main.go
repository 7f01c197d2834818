package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/target/appshell/config"
	"github.com/target/appshell/internal/bootstrap"
	"github.com/target/appshell/internal/observability/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo,gocritic // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logStartupInfo(ctx, logger, &cfg)

	redisClient, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisConfig{Redis: cfg.Redis, Logger: logger})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer closeRedis(ctx, logger, redisClient)

	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		m = metrics.New(cfg.Observability.Metrics.Namespace)
	}

	server := bootstrap.NewHTTPServer(bootstrap.HTTPServerConfig{
		Config: &cfg,
		Auth: bootstrap.BuildAuthService(ctx, bootstrap.AuthConfig{
			Auth:          cfg.Auth,
			RedisClient:   redisClient,
			SessionPrefix: cfg.Redis.SessionPrefix,
			Logger:        logger,
		}),
		Metrics: m,
		Ready:   bootstrap.RedisReadiness(redisClient),
		Logger:  logger,
	})

	return bootstrap.Run(ctx, bootstrap.RunConfig{Server: server, Logger: logger})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting appshell",
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
		"auth_mode", cfg.Auth.Mode,
		"metrics_enabled", cfg.Observability.Metrics.Enabled,
	)
}

func closeRedis(ctx context.Context, logger *slog.Logger, client redis.UniversalClient) {
	if cerr := client.Close(); cerr != nil {
		logger.ErrorContext(ctx, "close redis failed", "error", cerr)
	}
}
