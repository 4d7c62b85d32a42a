// Package store persists admin settings, report history and the operational
// log in a local SQLite database. It is the durable half of the dispatch
// layer: settings are editable at runtime through the command surface while
// the application config stays static.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"recruitcli/internal/analysis"
	"recruitcli/internal/report"
)

// ErrNotFound is returned when a requested setting or report does not exist.
var ErrNotFound = errors.New("not found")

// Setting keys understood by the rest of the system.
const (
	KeyAPIKey            = "genai_api_key"
	KeyEmailUser         = "email_user"
	KeyEmailPassword     = "email_password"
	KeyClientEmails      = "client_emails"
	KeyScheduleFrequency = "schedule_frequency"
	KeyScheduleDay       = "schedule_day"
	KeyScheduleTime      = "schedule_time"
	KeyModelID           = "model_id"
	KeySystemPrompt      = "system_prompt"
	KeyEmailTemplate     = "email_template"
)

const schema = `
CREATE TABLE IF NOT EXISTS admin_settings (
    id INTEGER PRIMARY KEY,
    setting_key TEXT UNIQUE,
    setting_value TEXT,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS report_history (
    id INTEGER PRIMARY KEY,
    report_data TEXT,
    status TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS system_logs (
    id INTEGER PRIMARY KEY,
    log_level TEXT,
    message TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// defaultSettings are seeded once; existing values are never overwritten.
var defaultSettings = map[string]string{
	KeyAPIKey:            "",
	KeyEmailUser:         "",
	KeyEmailPassword:     "",
	KeyClientEmails:      "[]",
	KeyScheduleFrequency: "weekly",
	KeyScheduleDay:       "tuesday",
	KeyScheduleTime:      "09:00",
	KeyModelID:           "gemini-2.5-flash",
	KeySystemPrompt:      "Analyze this pharmaceutical survey recruitment status and provide professional insights.",
	KeyEmailTemplate:     report.DefaultTemplate,
}

// Store wraps the SQLite connection.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path. Call Init before first use.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The settings store assumes a single writer; serialize just in case a
	// second command races the server process.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the tables and seeds the default settings.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for key, value := range defaultSettings {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO admin_settings (setting_key, setting_value) VALUES (?, ?)`,
			key, value)
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	return nil
}

// GetSetting returns the stored value for key, or ErrNotFound.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT setting_value FROM admin_settings WHERE setting_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// UpdateSetting upserts a setting by key.
func (s *Store) UpdateSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_settings (setting_key, setting_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(setting_key) DO UPDATE SET
			setting_value = excluded.setting_value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update setting %s: %w", key, err)
	}
	return nil
}

// ReportEntry is one row of the report history.
type ReportEntry struct {
	ID        int64     `json:"id"`
	Data      string    `json:"data"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveReport appends a report outcome to the history.
func (s *Store) SaveReport(ctx context.Context, data, status string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO report_history (report_data, status) VALUES (?, ?)`,
		data, status)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LatestSuccessfulReport returns the most recent history entry with a
// success status, or ErrNotFound when none exists.
func (s *Store) LatestSuccessfulReport(ctx context.Context) (*ReportEntry, error) {
	var entry ReportEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT id, report_data, status, created_at FROM report_history
		WHERE status = 'success'
		ORDER BY created_at DESC, id DESC LIMIT 1`).
		Scan(&entry.ID, &entry.Data, &entry.Status, &entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report history: %w", err)
	}
	return &entry, nil
}

// LogEntry is one row of the operational log.
type LogEntry struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// LogMessage appends a leveled message to the operational log. Failures are
// reported to slog only; the log must never break the pipeline.
func (s *Store) LogMessage(ctx context.Context, level, message string) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO system_logs (log_level, message) VALUES (?, ?)`,
		level, analysis.ToASCII(message))
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to write system log",
			slog.String("level", level),
			slog.String("error", err.Error()))
	}
}

// RecentLogs returns up to limit operational log entries, newest first.
func (s *Store) RecentLogs(ctx context.Context, limit int) ([]LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, log_level, message, created_at FROM system_logs
		ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read system logs: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Level, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
