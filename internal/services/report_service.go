// Package services orchestrates the recruitment reporting pipeline around
// the settings/history store: generate-and-persist a report, send the latest
// report to the configured recipients, and read or update settings.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"recruitcli/internal/analysis"
	"recruitcli/internal/dataprocessing"
	"recruitcli/internal/mailer"
	"recruitcli/internal/metrics"
	"recruitcli/internal/report"
	"recruitcli/internal/store"
	"recruitcli/pkg/contracts/domain"
)

// GridFetcher obtains the raw grid from the configured source.
type GridFetcher interface {
	Fetch(ctx context.Context) (*domain.RawGrid, error)
}

// Narrator produces the analysis text for a metrics record.
type Narrator interface {
	Analyze(ctx context.Context, req analysis.Request) analysis.Result
}

// ReportService wires the pipeline stages to the settings store.
type ReportService struct {
	store       *store.Store
	fetcher     GridFetcher
	analyzer    Narrator
	sender      mailer.Sender
	projectName string
	subject     string
	logger      *slog.Logger
}

// NewReportService creates the orchestration service. All collaborators are
// injected; the service owns no I/O of its own beyond the store.
func NewReportService(st *store.Store, fetcher GridFetcher, analyzer Narrator, sender mailer.Sender, projectName, subject string, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		store:       st,
		fetcher:     fetcher,
		analyzer:    analyzer,
		sender:      sender,
		projectName: projectName,
		subject:     subject,
		logger:      logger,
	}
}

// historyPayload is the JSON blob stored per report in the history table.
type historyPayload struct {
	ProjectData    *domain.MetricsRecord `json:"project_data"`
	Analysis       string                `json:"analysis"`
	AnalysisSource string                `json:"analysis_source"`
	Report         string                `json:"report"`
}

// GenerateReport runs the full pipeline and records the outcome in the
// report history. It never panics or aborts the process; every failure mode
// is folded into the returned envelope and the operational log.
func (s *ReportService) GenerateReport(ctx context.Context) *domain.GenerateResult {
	s.store.LogMessage(ctx, "INFO", "Starting report generation")

	apiKey, err := s.store.GetSetting(ctx, store.KeyAPIKey)
	if err != nil || apiKey == "" {
		return s.generateFailed(ctx, "API key not configured")
	}

	grid, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return s.generateFailed(ctx, fmt.Sprintf("failed to fetch workbook: %v", err))
	}

	record := dataprocessing.Extract(grid, s.projectName)
	if record == nil {
		return s.generateFailed(ctx, "failed to process client summary")
	}

	res := s.analyzer.Analyze(ctx, analysis.Request{
		Metrics:      record,
		SystemPrompt: s.settingOr(ctx, store.KeySystemPrompt, ""),
		ModelID:      s.settingOr(ctx, store.KeyModelID, "gemini-2.5-flash"),
		APIKey:       apiKey,
	})
	metrics.NarrativeBySource.WithLabelValues(string(res.Source)).Inc()
	if res.Source == analysis.SourceFallback {
		s.store.LogMessage(ctx, "WARNING", "Analysis produced by rule-based fallback")
	}

	rendered := report.Render(record, res.Text, s.settingOr(ctx, store.KeyEmailTemplate, ""))

	payload, err := json.Marshal(historyPayload{
		ProjectData:    record,
		Analysis:       res.Text,
		AnalysisSource: string(res.Source),
		Report:         rendered,
	})
	if err != nil {
		return s.generateFailed(ctx, fmt.Sprintf("failed to encode report payload: %v", err))
	}
	if err := s.store.SaveReport(ctx, string(payload), "success"); err != nil {
		return s.generateFailed(ctx, fmt.Sprintf("failed to persist report: %v", err))
	}

	s.store.LogMessage(ctx, "INFO", "Report generated successfully")
	metrics.ReportsGenerated.WithLabelValues("success").Inc()

	return &domain.GenerateResult{
		Success:        true,
		ProjectData:    record,
		Analysis:       res.Text,
		AnalysisSource: string(res.Source),
		Report:         rendered,
		Timestamp:      time.Now(),
	}
}

func (s *ReportService) generateFailed(ctx context.Context, msg string) *domain.GenerateResult {
	s.logger.ErrorContext(ctx, "Report generation failed", slog.String("error", msg))
	s.store.LogMessage(ctx, "ERROR", "Error generating report: "+msg)
	s.store.SaveReport(ctx, fmt.Sprintf(`{"error":%q}`, msg), "error")
	metrics.ReportsGenerated.WithLabelValues("error").Inc()

	return &domain.GenerateResult{
		Success:   false,
		Error:     "Error generating report: " + msg,
		Timestamp: time.Now(),
	}
}

// SendEmails dispatches the most recent successful report to every configured
// recipient. A single failed delivery is logged and counted but does not
// abort the remaining recipients. With zero recipients configured the result
// is success with zero sends and no delivery attempts.
func (s *ReportService) SendEmails(ctx context.Context) *domain.SendResult {
	entry, err := s.store.LatestSuccessfulReport(ctx)
	if err != nil {
		return s.sendFailed(ctx, "no recent report found")
	}

	var payload historyPayload
	if err := json.Unmarshal([]byte(entry.Data), &payload); err != nil {
		return s.sendFailed(ctx, fmt.Sprintf("stored report is unreadable: %v", err))
	}

	// The send path requires the full credential set, API key included.
	emailUser := s.settingOr(ctx, store.KeyEmailUser, "")
	emailPassword := s.settingOr(ctx, store.KeyEmailPassword, "")
	apiKey := s.settingOr(ctx, store.KeyAPIKey, "")
	if emailUser == "" || emailPassword == "" || apiKey == "" {
		return s.sendFailed(ctx, "email credentials not configured")
	}

	recipients, err := s.clientEmails(ctx)
	if err != nil {
		return s.sendFailed(ctx, err.Error())
	}

	creds := mailer.Credentials{User: emailUser, Password: emailPassword}
	sent := 0
	for _, recipient := range recipients {
		if err := s.sender.Send(ctx, creds, recipient, s.subject, payload.Report); err != nil {
			s.logger.WarnContext(ctx, "Email delivery failed",
				slog.String("recipient", recipient),
				slog.String("error", err.Error()))
			s.store.LogMessage(ctx, "ERROR", "Failed to send email to "+recipient)
			metrics.EmailsSent.WithLabelValues("error").Inc()
			continue
		}
		sent++
		s.store.LogMessage(ctx, "INFO", "Email sent successfully to "+recipient)
		metrics.EmailsSent.WithLabelValues("success").Inc()
	}

	return &domain.SendResult{
		Success:      true,
		SentCount:    sent,
		TotalClients: len(recipients),
	}
}

func (s *ReportService) sendFailed(ctx context.Context, msg string) *domain.SendResult {
	s.logger.ErrorContext(ctx, "Email dispatch failed", slog.String("error", msg))
	s.store.LogMessage(ctx, "ERROR", "Error sending emails: "+msg)
	return &domain.SendResult{Success: false, Error: "Error sending emails: " + msg}
}

// clientEmails reads and validates the configured recipient list.
func (s *ReportService) clientEmails(ctx context.Context) ([]string, error) {
	raw := s.settingOr(ctx, store.KeyClientEmails, "[]")

	var recipients []string
	if err := json.Unmarshal([]byte(raw), &recipients); err != nil {
		return nil, fmt.Errorf("client_emails is not a JSON array: %w", err)
	}
	return recipients, nil
}

// LatestReport returns the most recent successful report entry.
func (s *ReportService) LatestReport(ctx context.Context) (*store.ReportEntry, error) {
	return s.store.LatestSuccessfulReport(ctx)
}

// RecentLogs exposes the operational log for the web layer.
func (s *ReportService) RecentLogs(ctx context.Context, limit int) ([]store.LogEntry, error) {
	return s.store.RecentLogs(ctx, limit)
}

// settingOr reads a setting, returning fallback when the key is missing. A
// present-but-empty value is returned as is.
func (s *ReportService) settingOr(ctx context.Context, key, fallback string) string {
	value, err := s.store.GetSetting(ctx, key)
	if err != nil {
		return fallback
	}
	return value
}
