// Package http contains the chi handlers for the recruitment reporting API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	apierrors "recruitcli/internal/errors"
	"recruitcli/internal/store"
	"recruitcli/pkg/contracts/domain"
)

// ReportService is the slice of the orchestration service the report
// handlers depend on.
type ReportService interface {
	GenerateReport(ctx context.Context) *domain.GenerateResult
	SendEmails(ctx context.Context) *domain.SendResult
	LatestReport(ctx context.Context) (*store.ReportEntry, error)
	RecentLogs(ctx context.Context, limit int) ([]store.LogEntry, error)
}

// ReportHandler handles report generation and dispatch requests.
type ReportHandler struct {
	service ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportService, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "report")),
	}
}

// Generate handles POST /api/reports/generate
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	result := h.service.GenerateReport(r.Context())
	if !result.Success {
		render.Status(r, http.StatusInternalServerError)
	}
	render.JSON(w, r, result)
}

// Send handles POST /api/reports/send
func (h *ReportHandler) Send(w http.ResponseWriter, r *http.Request) {
	result := h.service.SendEmails(r.Context())
	if !result.Success {
		render.Status(r, http.StatusInternalServerError)
	}
	render.JSON(w, r, result)
}

// Latest handles GET /api/reports/latest
func (h *ReportHandler) Latest(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.LatestReport(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		apierrors.WriteError(w, apierrors.ErrReportNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to read report history",
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}
	render.JSON(w, r, entry)
}

// Logs handles GET /api/logs
func (h *ReportHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			apierrors.WriteError(w, apierrors.ErrValidation("limit", "must be a positive integer"))
			return
		}
		limit = v
	}

	entries, err := h.service.RecentLogs(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to read system logs",
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}
	if entries == nil {
		entries = []store.LogEntry{}
	}
	render.JSON(w, r, entries)
}
