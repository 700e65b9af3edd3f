// Package bootstrap wires the process-wide runtime: logging level, tracing,
// database, Redis and the admin credential.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipAdmin leaves the admin credential untouched.
	SkipAdmin bool
	// Tracing installs the OpenTelemetry provider when the config enables it.
	Tracing bool
}

// Runtime holds the initialized dependencies and their teardown.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime connects to the database and Redis and provisions the admin
// credential from ADMIN_USERNAME / ADMIN_PASSWORD when both are set.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.Logger = middleware.NewLogger(cfg.Env, os.Getenv("LOG_LEVEL"))

	rt := &Runtime{shutdownTracing: func(context.Context) error { return nil }}
	if opts.Tracing {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    "inkwell-api",
			ServiceVersion: "1.0.0",
			Environment:    cfg.Env,
			Enabled:        cfg.TracingEnabled,
			Exporter:       cfg.TracingExporter,
			OTLPEndpoint:   cfg.OTLPEndpoint,
			SamplerRatio:   cfg.TracingSampleRatio,
		})
		if err != nil {
			return nil, fmt.Errorf("tracing init failed: %w", err)
		}
		rt.shutdownTracing = shutdown
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt.DB = db

	// may leave a nil client when Redis is unreachable
	cache.InitRedis(cfg.RedisURL)
	rt.Redis = cache.GetClient()

	if !opts.SkipAdmin {
		if err := EnsureAdmin(ctx, cfg, db); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

// EnsureAdmin provisions the configured admin credential. It is a no-op
// when no credential is configured.
func EnsureAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		middleware.Logger.Warn("ADMIN_USERNAME/ADMIN_PASSWORD not set; admin login disabled until provisioned")
		return nil
	}

	admins := service.NewAdminService(repository.NewAdminRepository(db), nil)
	if err := admins.EnsureCredential(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to provision admin credential: %w", err)
	}
	middleware.Logger.Info("admin credential ensured", slog.String("username", cfg.AdminUsername))
	return nil
}

// Close flushes traces. The server owns DB and Redis shutdown.
func (rt *Runtime) Close(ctx context.Context) error {
	return rt.shutdownTracing(ctx)
}
