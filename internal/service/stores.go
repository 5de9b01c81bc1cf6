package service

import (
	"context"
	"time"

	"washpipe/internal/models"
)

// Storage capabilities the pipelines depend on. Implementations live in the
// repository package; tests substitute fakes.

// WashStore persists kiosk transaction rows.
type WashStore interface {
	UpsertBatch(ctx context.Context, records []models.WashRecord) (int, error)
}

// LoaderStore persists loader load-events and exposes the resume cursor.
type LoaderStore interface {
	Latest(ctx context.Context) (*models.LoaderRecord, error)
	Exists(ctx context.Context, bill int64) (bool, error)
	Insert(ctx context.Context, rec models.LoaderRecord) error
}

// DependentsStore applies the downstream super/tunnel updates for a block.
type DependentsStore interface {
	AdvanceSuper(ctx context.Context, bill int64, createdOn time.Time, location, logTime string) (int64, error)
	MarkTunnelLoaded(ctx context.Context, bill int64, createdOn time.Time, location, logTime string) (int64, error)
}

// RTCStore persists RTC events, deduplicated by wash id presence.
type RTCStore interface {
	Exists(ctx context.Context, washID string) (bool, error)
	Insert(ctx context.Context, ev models.RTCEvent) error
}

// HeartbeatStore records successful runs for liveness monitoring.
type HeartbeatStore interface {
	Beat(ctx context.Context, source string) error
}
