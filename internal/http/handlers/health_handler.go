package handlers

import (
	"net/http"
	"time"
)

// NewHealthHandler returns GET /healthz handler used by the hosting
// platform's uptime checks.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
