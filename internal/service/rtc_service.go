package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"washpipe/internal/blob"
	"washpipe/internal/rtc"
)

// consecutiveExistingStop ends an RTC insert loop once this many consecutive
// events were already stored. The source file is time-ordered, so a run of
// known ids means the remainder was ingested by an earlier run.
const consecutiveExistingStop = 2

// RTCService runs the RTC pipeline: extract wash-cycle events from one
// interface log, persist the recv ones, quarantine unreadable files.
type RTCService struct {
	blobs            blob.Store
	store            RTCStore
	extractor        rtc.Extractor
	logger           *zap.Logger
	quarantinePrefix string
}

// NewRTCService builds service.
func NewRTCService(blobs blob.Store, store RTCStore, extractor rtc.Extractor, quarantinePrefix string, logger *zap.Logger) *RTCService {
	return &RTCService{
		blobs:            blobs,
		store:            store,
		extractor:        extractor,
		logger:           logger,
		quarantinePrefix: quarantinePrefix,
	}
}

// Run processes one RTC log by key.
func (s *RTCService) Run(ctx context.Context, key string) error {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("key", key))
	logger.Info("rtc run started")

	raw, err := s.blobs.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("rtc: fetch %q: %w", key, err)
	}

	events := s.extractor.Extract(raw)
	recv := rtc.RecvOnly(events)
	logger.Info("rtc events extracted", zap.Int("events", len(events)), zap.Int("recv", len(recv)))

	if len(recv) == 0 {
		return s.quarantine(ctx, key, logger)
	}

	inserted := 0
	failed := false
	consecutive := 0
	stopped := false
	for _, ev := range recv {
		exists, err := s.store.Exists(ctx, ev.WashID)
		if err != nil {
			return fmt.Errorf("rtc: existence check wash id %s: %w", ev.WashID, err)
		}
		if exists {
			consecutive++
			if consecutive >= consecutiveExistingStop {
				stopped = true
				break
			}
			continue
		}
		consecutive = 0
		if err := s.store.Insert(ctx, ev); err != nil {
			logger.Error("insert failed", zap.String("wash_id", ev.WashID), zap.Error(err))
			failed = true
			continue
		}
		inserted++
	}

	logger.Info("rtc events persisted",
		zap.Int("inserted", inserted),
		zap.Bool("early_stop", stopped),
	)

	if failed {
		logger.Warn("leaving file in place for retry")
		return nil
	}
	if inserted == 0 {
		logger.Info("nothing new persisted, leaving file in place")
		return nil
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		return fmt.Errorf("rtc: delete source: %w", err)
	}
	logger.Info("rtc run finished")
	return nil
}

func (s *RTCService) quarantine(ctx context.Context, key string, logger *zap.Logger) error {
	if strings.HasPrefix(key, s.quarantinePrefix) {
		logger.Info("file already quarantined, leaving in place")
		return nil
	}
	newKey := s.quarantinePrefix + path.Base(key)
	if err := s.blobs.Archive(ctx, key, newKey); err != nil {
		return fmt.Errorf("rtc: quarantine %q: %w", key, err)
	}
	logger.Warn("unparsable file quarantined", zap.String("new_key", newKey))
	return nil
}
