// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema migration and health checking.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/mindsaathi/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
// Run it before the first New on a fresh database: prepared statements
// reference the tables it creates.
func Migrate(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

const moodColumns = `user_id, user_name, display_name, name, full_name, first_name, last_name, email,
	date, created_at, mood, angry, sad, happy, calm, tired`

// Record filters: $1 user ('' = all), $2 since (NULL = all), $3 limit (NULL = all).
const moodFilter = `FROM mood_records
	WHERE ($1 = '' OR user_id = $1)
	  AND ($2::timestamptz IS NULL OR COALESCE(date, created_at) >= $2)`

// registerPreparedStatements registers all statements the API and alert
// jobs use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Mood records
		"mood_user_ids": "SELECT DISTINCT user_id FROM mood_records ORDER BY user_id",
		"mood_records_asc": "SELECT " + moodColumns + " " + moodFilter +
			" ORDER BY COALESCE(date, created_at) ASC, created_at ASC, id ASC LIMIT $3",
		"mood_records_desc": "SELECT " + moodColumns + " " + moodFilter +
			" ORDER BY COALESCE(date, created_at) DESC, created_at DESC, id DESC LIMIT $3",

		// Login history
		"logins_since": "SELECT user_id, user_name, email, login_at FROM login_history WHERE login_at >= $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
