package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"washpipe/internal/models"
)

// LoaderRepository persists tunnel loader load-events.
type LoaderRepository struct {
	pool *sql.DB
}

// NewLoaderRepository returns repository.
func NewLoaderRepository(pool *sql.DB) *LoaderRepository {
	return &LoaderRepository{pool: pool}
}

// Latest returns the most recently persisted record by log date then time,
// or nil when the table is empty. It seeds the tail-resume search.
func (r *LoaderRepository) Latest(ctx context.Context) (*models.LoaderRecord, error) {
	const query = `
		SELECT bill, washify_rec, log_dt, to_char(log_time, 'HH24:MI:SS')
		FROM loader_log
		ORDER BY log_dt DESC, log_time DESC
		LIMIT 1
	`
	var rec models.LoaderRecord
	err := r.pool.QueryRowContext(ctx, query).Scan(&rec.Bill, &rec.WashifyRec, &rec.LogDT, &rec.LogTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: latest loader record: %w", err)
	}
	return &rec, nil
}

// Exists reports whether a load-event with this bill is already stored.
func (r *LoaderRepository) Exists(ctx context.Context, bill int64) (bool, error) {
	const query = `SELECT 1 FROM loader_log WHERE bill = $1`
	var one int
	err := r.pool.QueryRowContext(ctx, query, bill).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("repository: loader exists bill %d: %w", bill, err)
	}
	return true, nil
}

// Insert stores one load-event.
func (r *LoaderRepository) Insert(ctx context.Context, rec models.LoaderRecord) error {
	const query = `
		INSERT INTO loader_log (bill, washify_rec, log_dt, log_time)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.ExecContext(ctx, query, rec.Bill, rec.WashifyRec, rec.LogDT, rec.LogTime); err != nil {
		return fmt.Errorf("repository: insert loader bill %d: %w", rec.Bill, err)
	}
	return nil
}
