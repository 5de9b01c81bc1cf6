package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Loader load-events advance the downstream wash stage.
const (
	superWashStage     = 3
	superWashStageDesc = "Wash"
)

// DependentsRepository applies the two downstream updates driven by each
// loader block: the super record's stage advance and the tunnel record's
// load flag. Both tables are owned by the tunnel-controller ingest.
type DependentsRepository struct {
	pool *sql.DB
}

// NewDependentsRepository returns repository.
func NewDependentsRepository(pool *sql.DB) *DependentsRepository {
	return &DependentsRepository{pool: pool}
}

// AdvanceSuper moves the matching super record to the Wash stage unless it is
// already at or beyond it. Returns how many rows changed.
func (r *DependentsRepository) AdvanceSuper(ctx context.Context, bill int64, createdOn time.Time, location, logTime string) (int64, error) {
	const query = `
		UPDATE super
		   SET status = $1,
		       prep_end = $2,
		       status_desc = $3
		 WHERE bill = $4
		   AND created_on = $5
		   AND location = $6
		   AND (status IS NULL OR status < $1)
	`
	res, err := r.pool.ExecContext(ctx, query, superWashStage, logTime, superWashStageDesc, bill, createdOn, location)
	if err != nil {
		return 0, fmt.Errorf("repository: advance super bill %d: %w", bill, err)
	}
	return res.RowsAffected()
}

// MarkTunnelLoaded sets the load flag and time on the matching tunnel record,
// unconditionally.
func (r *DependentsRepository) MarkTunnelLoaded(ctx context.Context, bill int64, createdOn time.Time, location, logTime string) (int64, error) {
	const query = `
		UPDATE tunnel
		   SET load = TRUE,
		       load_time = $1
		 WHERE bill = $2
		   AND created_on = $3
		   AND location = $4
	`
	res, err := r.pool.ExecContext(ctx, query, logTime, bill, createdOn, location)
	if err != nil {
		return 0, fmt.Errorf("repository: mark tunnel loaded bill %d: %w", bill, err)
	}
	return res.RowsAffected()
}
