package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"washpipe/internal/blob"
	"washpipe/internal/config"
	"washpipe/internal/db"
	httpserver "washpipe/internal/http"
	"washpipe/internal/http/handlers"
	redisclient "washpipe/internal/redis"
	"washpipe/internal/repository"
	"washpipe/internal/rtc"
	"washpipe/internal/runlock"
	"washpipe/internal/service"
)

// runLockTTL bounds how long a crashed run can hold its lease.
const runLockTTL = 15 * time.Minute

// App wires the ingestion service dependencies.
type App struct {
	server *httpserver.Server
	pool   *sql.DB
	logger *zap.Logger
}

// New constructs application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: load timezone %q: %w", cfg.Timezone, err)
	}

	blobs, err := blob.NewFS(cfg.Blob.Root)
	if err != nil {
		pool.Close()
		return nil, err
	}

	var lock *runlock.Lock
	if cfg.Redis.Addr != "" {
		client, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			pool.Close()
			return nil, err
		}
		lock = runlock.New(client, runLockTTL)
	}

	washRepo := repository.NewWashifyRepository(pool)
	loaderRepo := repository.NewLoaderRepository(pool)
	depsRepo := repository.NewDependentsRepository(pool)
	rtcRepo := repository.NewRTCRepository(pool)
	heartbeatRepo := repository.NewHeartbeatRepository(pool)

	kioskSvc := service.NewKioskService(blobs, washRepo, loc, cfg.Kiosk.Prefix, cfg.Kiosk.FileMatch, logger)
	loaderSvc := service.NewLoaderService(blobs, loaderRepo, depsRepo, heartbeatRepo,
		loc, cfg.Loader.Prefix, cfg.Loader.Location, cfg.Loader.ArchivePrefix, cfg.Loader.HeartbeatSource, logger)
	rtcSvc := service.NewRTCService(blobs, rtcRepo, rtc.Extractor{Fallback: cfg.RTC.EnableFallback},
		cfg.RTC.QuarantinePrefix, logger)

	trigger := handlers.NewTriggerHandler(handlers.Pipelines{
		KioskRun:       kioskSvc.Run,
		KioskRunLatest: kioskSvc.RunLatest,
		LoaderRun:      loaderSvc.Run,
		RTCRun:         rtcSvc.Run,
	}, lock, cfg.Trigger.Secret, logger)

	routes := httpserver.Routes{
		Trigger: trigger.ServeHTTP,
		Health:  handlers.NewHealthHandler(),
	}
	server := httpserver.NewServer(cfg.HTTPAddress(), httpserver.NewRouter(routes), logger)

	return &App{
		server: server,
		pool:   pool,
		logger: logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.pool != nil {
		if err := a.pool.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
