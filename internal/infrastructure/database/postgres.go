package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect creates a pgx connection pool for the given DSN and verifies it
// with a ping. Both postgres:// and postgresql:// schemes are accepted;
// SQLAlchemy-style driver suffixes (e.g. "+asyncpg") found in shared .env
// files are normalized away.
func Connect(ctx context.Context, dsn string, opts ...func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(normalizeDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	if cfg.MaxConns == 0 {
		cfg.MaxConns = 8
	}
	if cfg.MaxConnIdleTime == 0 {
		cfg.MaxConnIdleTime = 5 * time.Minute
	}
	if cfg.HealthCheckPeriod == 0 {
		cfg.HealthCheckPeriod = time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return pool, nil
}

// NewPoolFromEnv loads the DSN from the DB_URL environment variable.
func NewPoolFromEnv(ctx context.Context, opts ...func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	dsn := strings.TrimSpace(os.Getenv("DB_URL"))
	if dsn == "" {
		return nil, errors.New("postgres: DB_URL environment variable is not set")
	}
	return Connect(ctx, dsn, opts...)
}

// EnsureSchema creates the relay tables when they do not exist yet.
// Safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS chat`,
		`CREATE TABLE IF NOT EXISTS chat.message (
			id            text PRIMARY KEY,
			sender_id     text NOT NULL,
			recipient_id  text NOT NULL,
			body          text NOT NULL,
			created_at    timestamptz NOT NULL,
			viewed        boolean NOT NULL DEFAULT false
		)`,
		`CREATE INDEX IF NOT EXISTS message_recipient_idx ON chat.message (recipient_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS message_sender_idx ON chat.message (sender_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS chat.app_user (
			id               text PRIMARY KEY,
			username         text NOT NULL DEFAULT '',
			email            text NOT NULL DEFAULT '',
			name             text NOT NULL DEFAULT '',
			profile_picture  text,
			status           text NOT NULL DEFAULT 'offline',
			last_seen        timestamptz
		)`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}

func normalizeDSN(dsn string) string {
	s := strings.TrimSpace(dsn)
	s = strings.Replace(s, "postgresql+asyncpg://", "postgresql://", 1)
	s = strings.Replace(s, "postgres+asyncpg://", "postgres://", 1)
	return s
}
