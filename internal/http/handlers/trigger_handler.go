package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"washpipe/internal/runlock"
)

const secretHeader = "X-Webhook-Secret"

// Pipeline selectors accepted by /trigger.
const (
	PipelineKiosk  = "kiosk"
	PipelineLoader = "loader"
	PipelineRTC    = "rtc"
)

// Pipelines groups the three runnable pipelines for the trigger surface.
type Pipelines struct {
	KioskRun       func(ctx context.Context, key string) error
	KioskRunLatest func(ctx context.Context) error
	LoaderRun      func(ctx context.Context) error
	RTCRun         func(ctx context.Context, key string) error
}

// TriggerHandler receives upload notifications and launches a pipeline run in
// the background, the same fire-and-forget contract the notifier expects.
type TriggerHandler struct {
	pipelines Pipelines
	lock      *runlock.Lock
	secret    string
	logger    *zap.Logger
}

// NewTriggerHandler builds handler.
func NewTriggerHandler(pipelines Pipelines, lock *runlock.Lock, secret string, logger *zap.Logger) *TriggerHandler {
	return &TriggerHandler{
		pipelines: pipelines,
		lock:      lock,
		secret:    secret,
		logger:    logger,
	}
}

type triggerRequest struct {
	Pipeline string `json:"pipeline"`
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	Folder   string `json:"folder"`
}

// ServeHTTP handles POST /trigger.
func (h *TriggerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get(secretHeader) != h.secret {
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Pipeline == "" {
		req.Pipeline = PipelineKiosk
	}

	run, lockName, err := h.resolve(req)
	if err != "" {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	release, acquired, lockErr := h.lock.TryAcquire(r.Context(), lockName)
	if lockErr != nil {
		h.logger.Error("run lock unavailable", zap.Error(lockErr))
		writeError(w, http.StatusInternalServerError, "lock unavailable")
		return
	}
	if !acquired {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "already running", "pipeline": req.Pipeline})
		return
	}

	go func() {
		defer release()
		// Detached from the request: the notifier only needs the launch ack.
		if err := run(context.Background()); err != nil {
			h.logger.Error("pipeline run failed",
				zap.String("pipeline", req.Pipeline),
				zap.String("key", req.Key),
				zap.Error(err),
			)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "started",
		"pipeline": req.Pipeline,
		"file":     req.Key,
	})
}

// resolve maps the request to a runnable closure and its lock name. The last
// return is an error message for the caller, empty when resolved.
func (h *TriggerHandler) resolve(req triggerRequest) (func(context.Context) error, string, string) {
	switch req.Pipeline {
	case PipelineKiosk:
		if req.Key == "" {
			return h.pipelines.KioskRunLatest, PipelineKiosk, ""
		}
		key := req.Key
		return func(ctx context.Context) error { return h.pipelines.KioskRun(ctx, key) }, PipelineKiosk, ""
	case PipelineLoader:
		return h.pipelines.LoaderRun, PipelineLoader, ""
	case PipelineRTC:
		if req.Key == "" {
			return nil, "", "missing key"
		}
		key := req.Key
		return func(ctx context.Context) error { return h.pipelines.RTCRun(ctx, key) }, PipelineRTC, ""
	default:
		return nil, "", "unknown pipeline"
	}
}
