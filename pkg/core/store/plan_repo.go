package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"business_planner/pkg/core/planner"
)

// PGStore keeps one JSONB snapshot per user in business_plans.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Load reads the user's snapshot and backfills missing fields from defaults.
func (s *PGStore) Load(ctx context.Context, userID string) (*planner.PlanState, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT state_json FROM business_plans WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	state, err := MergeDefaults(raw)
	if err != nil {
		return nil, fmt.Errorf("plan for %s: %w", userID, err)
	}
	return &state, nil
}

// Save upserts the user's snapshot.
func (s *PGStore) Save(ctx context.Context, userID string, state planner.PlanState) error {
	if s.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	query := `
		INSERT INTO business_plans (user_id, state_json, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET
			state_json = EXCLUDED.state_json,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, userID, data, time.Now()); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}
