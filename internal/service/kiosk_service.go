package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"washpipe/internal/blob"
	"washpipe/internal/kiosk"
	"washpipe/internal/models"
	"washpipe/internal/normalize"
)

// unparsedSegment marks quarantined objects; files already under it are never
// re-quarantined.
const unparsedSegment = "unparsed/"

// KioskService runs the kiosk transaction pipeline: fetch one upload, fold it
// into sessions, upsert the resulting rows, then remove the source object.
type KioskService struct {
	blobs     blob.Store
	store     WashStore
	logger    *zap.Logger
	loc       *time.Location
	prefix    string
	fileMatch string
}

// NewKioskService builds service.
func NewKioskService(blobs blob.Store, store WashStore, loc *time.Location, prefix, fileMatch string, logger *zap.Logger) *KioskService {
	return &KioskService{
		blobs:     blobs,
		store:     store,
		logger:    logger,
		loc:       loc,
		prefix:    prefix,
		fileMatch: fileMatch,
	}
}

// RunLatest processes the newest matching upload under the kiosk prefix.
func (s *KioskService) RunLatest(ctx context.Context) error {
	ref, err := blob.LatestMatching(ctx, s.blobs, s.prefix, s.fileMatch)
	if err != nil {
		return fmt.Errorf("kiosk: list uploads: %w", err)
	}
	if ref == nil {
		s.logger.Info("no kiosk uploads pending", zap.String("prefix", s.prefix))
		return nil
	}
	return s.Run(ctx, ref.Key)
}

// Run processes one kiosk upload by key.
func (s *KioskService) Run(ctx context.Context, key string) error {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("key", key))
	logger.Info("kiosk run started")

	raw, err := s.blobs.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("kiosk: fetch %q: %w", key, err)
	}

	text := normalize.Clean(normalize.Decode(raw))
	sessions := kiosk.Fold(normalize.Lines(text))

	sourceFile := path.Base(key)
	location := kiosk.LocationFromFilename(sourceFile)
	rows := kiosk.Records(sessions, location, sourceFile, time.Now().In(s.loc))
	rows = dedupeByBill(rows)

	if len(rows) == 0 {
		logger.Warn("kiosk file yielded no rows, quarantining")
		return s.quarantine(ctx, key, logger)
	}

	written, err := s.store.UpsertBatch(ctx, rows)
	if err != nil {
		return fmt.Errorf("kiosk: upsert: %w", err)
	}
	logger.Info("kiosk rows upserted",
		zap.Int("sessions", len(sessions)),
		zap.Int("rows", len(rows)),
		zap.Int("written", written),
	)

	if err := s.blobs.Delete(ctx, key); err != nil {
		return fmt.Errorf("kiosk: delete source: %w", err)
	}
	logger.Info("kiosk run finished")
	return nil
}

func (s *KioskService) quarantine(ctx context.Context, key string, logger *zap.Logger) error {
	if strings.Contains(key, unparsedSegment) {
		logger.Info("file already quarantined, leaving in place")
		return nil
	}
	newKey := quarantineKey(key)
	if err := s.blobs.Archive(ctx, key, newKey); err != nil {
		return fmt.Errorf("kiosk: quarantine %q: %w", key, err)
	}
	logger.Info("file quarantined", zap.String("new_key", newKey))
	return nil
}

// quarantineKey rewrites a/b/file into a/b/unparsed/file.
func quarantineKey(key string) string {
	dir, base := path.Split(key)
	return dir + unparsedSegment + base
}

// dedupeByBill keeps the last row per (bill, source file) pair, preserving
// first-seen order.
func dedupeByBill(rows []models.WashRecord) []models.WashRecord {
	type rowKey struct {
		bill int64
		file string
	}
	index := make(map[rowKey]int, len(rows))
	var out []models.WashRecord
	for _, row := range rows {
		k := rowKey{bill: row.Bill, file: row.SourceFile}
		if at, ok := index[k]; ok {
			out[at] = row
			continue
		}
		index[k] = len(out)
		out = append(out, row)
	}
	return out
}
