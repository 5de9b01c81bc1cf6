package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"washpipe/internal/blob"
	"washpipe/internal/loader"
	"washpipe/internal/normalize"
)

// LoaderService runs the tunnel loader pipeline: walk today's and yesterday's
// upload folders, resume each file past what is already stored, and drive the
// insert plus the two dependent updates per block.
type LoaderService struct {
	blobs     blob.Store
	store     LoaderStore
	deps      DependentsStore
	heartbeat HeartbeatStore
	logger    *zap.Logger
	loc       *time.Location

	prefix          string
	location        string
	archivePrefix   string
	heartbeatSource string

	// now is swappable for tests of the folder-date window.
	now func() time.Time
}

// NewLoaderService builds service.
func NewLoaderService(blobs blob.Store, store LoaderStore, deps DependentsStore, heartbeat HeartbeatStore,
	loc *time.Location, prefix, location, archivePrefix, heartbeatSource string, logger *zap.Logger) *LoaderService {
	return &LoaderService{
		blobs:           blobs,
		store:           store,
		deps:            deps,
		heartbeat:       heartbeat,
		logger:          logger,
		loc:             loc,
		prefix:          prefix,
		location:        location,
		archivePrefix:   archivePrefix,
		heartbeatSource: heartbeatSource,
		now:             time.Now,
	}
}

// Run walks both date folders. The yesterday folder tolerates files uploaded
// across the midnight boundary. A successful walk appends a heartbeat row.
func (s *LoaderService) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	logger.Info("loader run started")

	now := s.now().In(s.loc)
	folders := []string{
		s.prefix + now.Format("2006-01-02") + "/",
		s.prefix + now.AddDate(0, 0, -1).Format("2006-01-02") + "/",
	}

	files := 0
	for _, folder := range folders {
		refs, err := s.blobs.List(ctx, folder)
		if err != nil {
			return fmt.Errorf("loader: list %q: %w", folder, err)
		}
		for _, ref := range refs {
			if !strings.HasSuffix(strings.ToLower(ref.Key), ".txt") {
				continue
			}
			files++
			if err := s.processFile(ctx, ref.Key, logger); err != nil {
				return err
			}
		}
	}

	if err := s.heartbeat.Beat(ctx, s.heartbeatSource); err != nil {
		// Liveness only; the run's data work already succeeded.
		logger.Warn("heartbeat failed", zap.Error(err))
	}
	logger.Info("loader run finished", zap.Int("files", files))
	return nil
}

// processFile walks one file in four-line strides. Malformed blocks are
// skipped; persistence failures are isolated per unit but block the file's
// archival so a later run retries it.
func (s *LoaderService) processFile(ctx context.Context, key string, logger *zap.Logger) error {
	logger = logger.With(zap.String("key", key))

	raw, err := s.blobs.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("loader: fetch %q: %w", key, err)
	}
	lines := normalize.Lines(normalize.Clean(normalize.Decode(raw)))

	latest, err := s.store.Latest(ctx)
	if err != nil {
		return err
	}
	start := loader.ResumeIndex(lines, latest)
	if start > 0 {
		logger.Info("resuming past persisted records", zap.Int("start_line", start))
	}

	inserted := 0
	failed := false
	for i := start; i+loader.BlockStride <= len(lines); i += loader.BlockStride {
		rec, err := loader.ParseBlock(lines, i)
		if err != nil {
			logger.Warn("skipping malformed block", zap.Int("line", i), zap.Error(err))
			continue
		}

		blockLogger := logger.With(zap.Int64("bill", rec.Bill))

		exists, err := s.store.Exists(ctx, rec.Bill)
		switch {
		case err != nil:
			blockLogger.Error("existence check failed", zap.Error(err))
			failed = true
		case exists:
			blockLogger.Debug("bill already stored, skipping insert")
		default:
			if err := s.store.Insert(ctx, rec); err != nil {
				blockLogger.Error("insert failed", zap.Error(err))
				failed = true
			} else {
				inserted++
			}
		}

		// The dependent updates model a downstream stage advance: they run
		// even when the insert was skipped or failed.
		if n, err := s.deps.AdvanceSuper(ctx, rec.Bill, rec.LogDT, s.location, rec.LogTime); err != nil {
			blockLogger.Error("super update failed", zap.Error(err))
			failed = true
		} else if n > 0 {
			blockLogger.Info("super advanced to wash stage")
		}
		if n, err := s.deps.MarkTunnelLoaded(ctx, rec.Bill, rec.LogDT, s.location, rec.LogTime); err != nil {
			blockLogger.Error("tunnel update failed", zap.Error(err))
			failed = true
		} else if n > 0 {
			blockLogger.Info("tunnel marked loaded")
		}
	}

	logger.Info("file walked", zap.Int("inserted", inserted), zap.Bool("failed", failed))
	if failed {
		logger.Warn("leaving file in place for retry")
		return nil
	}
	return s.finishFile(ctx, key, logger)
}

func (s *LoaderService) finishFile(ctx context.Context, key string, logger *zap.Logger) error {
	if s.archivePrefix != "" {
		newKey := s.archivePrefix + key
		if err := s.blobs.Archive(ctx, key, newKey); err != nil {
			return fmt.Errorf("loader: archive %q: %w", key, err)
		}
		logger.Info("file archived", zap.String("new_key", newKey))
		return nil
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		return fmt.Errorf("loader: delete %q: %w", key, err)
	}
	logger.Info("file deleted")
	return nil
}
