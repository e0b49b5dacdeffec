// Package config resolves runtime configuration from the environment, with a
// secret store fallback for production deployments.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

const (
	defaultPort = "4999"

	databaseSecretName = "neon-database-connection-string"
	redisSecretName    = "upstash-redis-url"
)

// Resolver looks up a named secret. The env-backed implementation serves
// local development; SecretManager serves production.
type Resolver interface {
	Secret(ctx context.Context, name string) (string, error)
}

type Config struct {
	Port        string
	DatabaseURL string

	// RedisURL is empty when no cache is configured; the recent-duty
	// endpoint then always reads from the database.
	RedisURL string
}

// Load builds the runtime configuration. The database DSN comes from
// DATABASE_URL_DEV when set, otherwise from the resolver. The Redis URL is
// optional and never fails the load.
func Load(ctx context.Context, secrets Resolver) (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", defaultPort),
	}

	if dsn := os.Getenv("DATABASE_URL_DEV"); dsn != "" {
		slog.Info("using development database connection")
		cfg.DatabaseURL = dsn
	} else {
		slog.Info("resolving database URL from secret store", "secret", databaseSecretName)
		dsn, err := secrets.Secret(ctx, databaseSecretName)
		if err != nil {
			return nil, fmt.Errorf("resolve database secret: %w", err)
		}
		cfg.DatabaseURL = dsn
	}

	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.RedisURL = url
	} else if url, err := secrets.Secret(ctx, redisSecretName); err == nil {
		cfg.RedisURL = url
	} else {
		slog.Warn("no Redis URL configured, recent duty caching disabled")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
