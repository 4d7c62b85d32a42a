package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Version is set from the build; the default marks a from-source run.
var Version = "dev"

// HealthHandler answers liveness probes.
type HealthHandler struct {
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

// Check handles GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":  "ok",
		"version": Version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
