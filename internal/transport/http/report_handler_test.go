package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitcli/internal/store"
	"recruitcli/pkg/contracts/domain"
)

type fakeReportService struct {
	generate  *domain.GenerateResult
	send      *domain.SendResult
	latest    *store.ReportEntry
	latestErr error
	logs      []store.LogEntry
	logsErr   error
	gotLimit  int
}

func (f *fakeReportService) GenerateReport(ctx context.Context) *domain.GenerateResult {
	return f.generate
}

func (f *fakeReportService) SendEmails(ctx context.Context) *domain.SendResult {
	return f.send
}

func (f *fakeReportService) LatestReport(ctx context.Context) (*store.ReportEntry, error) {
	return f.latest, f.latestErr
}

func (f *fakeReportService) RecentLogs(ctx context.Context, limit int) ([]store.LogEntry, error) {
	f.gotLimit = limit
	return f.logs, f.logsErr
}

func newReportRouter(svc ReportService) *chi.Mux {
	h := NewReportHandler(svc, nil)
	r := chi.NewRouter()
	r.Post("/api/reports/generate", h.Generate)
	r.Post("/api/reports/send", h.Send)
	r.Get("/api/reports/latest", h.Latest)
	r.Get("/api/logs", h.Logs)
	return r
}

func TestGenerateEndpointSuccess(t *testing.T) {
	svc := &fakeReportService{generate: &domain.GenerateResult{
		Success:        true,
		Analysis:       "on track",
		AnalysisSource: "model",
		Timestamp:      time.Now(),
	}}
	rec := httptest.NewRecorder()
	newReportRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports/generate", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body domain.GenerateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "model", body.AnalysisSource)
}

func TestGenerateEndpointFailureIs500(t *testing.T) {
	svc := &fakeReportService{generate: &domain.GenerateResult{
		Success: false,
		Error:   "Error generating report: API key not configured",
	}}
	rec := httptest.NewRecorder()
	newReportRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports/generate", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "API key not configured")
}

func TestSendEndpoint(t *testing.T) {
	svc := &fakeReportService{send: &domain.SendResult{Success: true, SentCount: 2, TotalClients: 3}}
	rec := httptest.NewRecorder()
	newReportRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports/send", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body domain.SendResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.SentCount)
	assert.Equal(t, 3, body.TotalClients)
}

func TestLatestEndpointNotFound(t *testing.T) {
	svc := &fakeReportService{latestErr: store.ErrNotFound}
	rec := httptest.NewRecorder()
	newReportRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/latest", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "REPORT_NOT_FOUND")
}

func TestLatestEndpointReturnsEntry(t *testing.T) {
	svc := &fakeReportService{latest: &store.ReportEntry{ID: 7, Data: `{"report":"x"}`, Status: "success"}}
	rec := httptest.NewRecorder()
	newReportRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/latest", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var entry store.ReportEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, int64(7), entry.ID)
}

func TestLogsEndpointDefaultLimit(t *testing.T) {
	svc := &fakeReportService{logs: []store.LogEntry{{ID: 1, Level: "INFO", Message: "Report generated successfully"}}}
	rec := httptest.NewRecorder()
	newReportRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, svc.gotLimit)
}

func TestLogsEndpointCustomLimit(t *testing.T) {
	svc := &fakeReportService{}
	rec := httptest.NewRecorder()
	newReportRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/logs?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.gotLimit)
	assert.Equal(t, "[]", rec.Body.String()[:2])
}

func TestLogsEndpointBadLimit(t *testing.T) {
	svc := &fakeReportService{}
	rec := httptest.NewRecorder()
	newReportRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/logs?limit=-1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestLogsEndpointStoreError(t *testing.T) {
	svc := &fakeReportService{logsErr: fmt.Errorf("disk gone")}
	rec := httptest.NewRecorder()
	newReportRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
