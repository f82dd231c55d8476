// Package store persists plan snapshots per user, in Postgres when a
// database is configured and as JSON files otherwise.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"business_planner/pkg/core/planner"
)

// Store loads and saves full plan snapshots.
type Store interface {
	// Load returns nil, nil when the user has no saved plan.
	Load(ctx context.Context, userID string) (*planner.PlanState, error)
	Save(ctx context.Context, userID string, state planner.PlanState) error
}

// Open picks the Postgres store when pool is set and the file store in dir
// otherwise.
func Open(pool *pgxpool.Pool, dir string) (Store, error) {
	if pool != nil {
		fmt.Println("[STORE] Using Postgres plan store")
		return NewPGStore(pool), nil
	}
	fs, err := NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[STORE] Using file plan store at %s\n", fs.dir)
	return fs, nil
}
