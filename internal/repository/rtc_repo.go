package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"washpipe/internal/models"
)

// RTCRepository persists RTC wash-cycle events.
type RTCRepository struct {
	pool *sql.DB
}

// NewRTCRepository returns repository.
func NewRTCRepository(pool *sql.DB) *RTCRepository {
	return &RTCRepository{pool: pool}
}

// Exists reports whether any event with this wash id is already stored. The
// table is not unique-keyed; dedup is operational, by wash id presence.
func (r *RTCRepository) Exists(ctx context.Context, washID string) (bool, error) {
	const query = `SELECT 1 FROM rtc_log WHERE wash_id = $1 LIMIT 1`
	var one int
	err := r.pool.QueryRowContext(ctx, query, washID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("repository: rtc exists wash id %s: %w", washID, err)
	}
	return true, nil
}

// Insert stores one event.
func (r *RTCRepository) Insert(ctx context.Context, ev models.RTCEvent) error {
	const query = `
		INSERT INTO rtc_log (wash_id, washpkgnum, wash_ts, source_ip, direction, raw_xml)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.ExecContext(ctx, query, ev.WashID, ev.WashPkgNum, ev.WashTS, ev.SourceIP, ev.Direction, ev.RawXML)
	if err != nil {
		return fmt.Errorf("repository: insert rtc wash id %s: %w", ev.WashID, err)
	}
	return nil
}
