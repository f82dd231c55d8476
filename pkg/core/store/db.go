package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool    *pgxpool.Pool
	once    sync.Once
	initErr error
)

const schema = `
CREATE TABLE IF NOT EXISTS business_plans (
	user_id    TEXT PRIMARY KEY,
	state_json JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// InitDB opens the shared connection pool for dbURL and makes sure the
// plans table exists. Later calls return the first call's error.
func InitDB(ctx context.Context, dbURL string) error {
	once.Do(func() {
		if dbURL == "" {
			initErr = fmt.Errorf("database url not set")
			return
		}

		config, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			initErr = fmt.Errorf("failed to parse database config: %w", err)
			return
		}

		p, err := pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			initErr = fmt.Errorf("failed to open database pool: %w", err)
			return
		}
		if _, err := p.Exec(ctx, schema); err != nil {
			initErr = fmt.Errorf("failed to create business_plans table: %w", err)
			p.Close()
			return
		}
		pool = p
	})
	return initErr
}

// GetPool returns the shared pool, or nil when InitDB was never successful.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the shared pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
