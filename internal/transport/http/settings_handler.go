package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "recruitcli/internal/errors"
	"recruitcli/internal/store"
)

// SettingsService is the slice of the settings service the handler needs.
type SettingsService interface {
	Get(ctx context.Context, key string) (string, error)
	Update(ctx context.Context, key, value string) error
}

// SettingsHandler handles the admin settings surface.
type SettingsHandler struct {
	service SettingsService
	logger  *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service SettingsService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "settings")),
	}
}

// settingResponse is the read-side payload.
type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// updateRequest is the write-side payload.
type updateRequest struct {
	Value string `json:"value"`
}

// Get handles GET /api/settings/{key}
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := h.service.Get(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		apierrors.WriteError(w, apierrors.NotFoundError("Setting"))
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to read setting",
			slog.String("key", key),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}

	render.JSON(w, r, settingResponse{Key: key, Value: value})
}

// Update handles PUT /api/settings/{key}
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req updateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.service.Update(r.Context(), key, req.Value); err != nil {
		apierrors.WriteError(w, apierrors.ErrValidation(key, err.Error()))
		return
	}

	render.JSON(w, r, map[string]bool{"success": true})
}
