package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// HeartbeatRepository appends liveness rows for external monitoring.
type HeartbeatRepository struct {
	pool *sql.DB
}

// NewHeartbeatRepository returns repository.
func NewHeartbeatRepository(pool *sql.DB) *HeartbeatRepository {
	return &HeartbeatRepository{pool: pool}
}

// Beat records one successful run for the named source.
func (r *HeartbeatRepository) Beat(ctx context.Context, source string) error {
	const query = `
		INSERT INTO heartbeat (source, created_on, created_at)
		VALUES ($1, CURRENT_DATE, CURRENT_TIME)
	`
	if _, err := r.pool.ExecContext(ctx, query, source); err != nil {
		return fmt.Errorf("repository: heartbeat %s: %w", source, err)
	}
	return nil
}
