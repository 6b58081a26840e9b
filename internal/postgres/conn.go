// Package postgres opens the pgxpool.Pool connections the rest of
// PostGreat analyzes through internal/pgsnapshot.
package postgres

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds PostgreSQL connection parameters. No Password field —
// passwords are read exclusively from an environment variable to prevent
// accidental secret leakage through config files or logs.
type Config struct {
	Host        string
	Port        int
	User        string
	Database    string
	SSLMode     string
	PasswordEnv string
}

// DSN returns a libpq-style connection string with the supplied password.
func (c Config) DSN(password string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, password, c.Database, c.SSLMode,
	)
}

// Password reads the PostgreSQL password from c.PasswordEnv, defaulting to
// POSTGREAT_PG_PASSWORD when unset. It never returns a hardcoded fallback.
func (c Config) Password() string {
	envVar := c.PasswordEnv
	if envVar == "" {
		envVar = "POSTGREAT_PG_PASSWORD"
	}
	return os.Getenv(envVar)
}

// Connect opens a pooled connection. The pool is sized small since
// PostGreat runs a handful of sequential catalog queries per target, not a
// sustained workload.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN(cfg.Password()))
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn for %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	poolCfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return pool, nil
}
