package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"recruitcli/internal/store"
)

// SettingsService is the pass-through settings surface with write-side
// validation, so a bad value from the admin UI cannot wedge the pipeline.
type SettingsService struct {
	store    *store.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewSettingsService creates the settings surface.
func NewSettingsService(st *store.Store, logger *slog.Logger) *SettingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsService{
		store:    st,
		validate: validator.New(),
		logger:   logger,
	}
}

// Get returns the stored value for key.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	return s.store.GetSetting(ctx, key)
}

// Update validates and upserts a setting.
func (s *SettingsService) Update(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("setting key must not be empty")
	}
	if err := s.checkValue(key, value); err != nil {
		return err
	}

	if err := s.store.UpdateSetting(ctx, key, value); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Setting updated", slog.String("key", key))
	return nil
}

// checkValue applies per-key validation rules. Unknown keys are accepted
// unchecked; the store is also the home for operator-defined extras.
func (s *SettingsService) checkValue(key, value string) error {
	switch key {
	case store.KeyClientEmails:
		var recipients []string
		if err := json.Unmarshal([]byte(value), &recipients); err != nil {
			return fmt.Errorf("client_emails must be a JSON array of addresses: %w", err)
		}
		for _, addr := range recipients {
			if err := s.validate.Var(addr, "required,email"); err != nil {
				return fmt.Errorf("invalid recipient address %q", addr)
			}
		}
	case store.KeyEmailUser:
		if value != "" {
			if err := s.validate.Var(value, "email"); err != nil {
				return fmt.Errorf("email_user must be a valid address")
			}
		}
	case store.KeyScheduleTime:
		if _, err := time.Parse("15:04", value); err != nil {
			return fmt.Errorf("schedule_time must be HH:MM, got %q", value)
		}
	case store.KeyScheduleFrequency:
		switch value {
		case "daily", "weekly", "monthly":
		default:
			return fmt.Errorf("schedule_frequency must be daily, weekly or monthly")
		}
	case store.KeyScheduleDay:
		switch strings.ToLower(value) {
		case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		default:
			return fmt.Errorf("schedule_day must be a weekday name")
		}
	case store.KeyModelID:
		if err := s.validate.Var(value, "required"); err != nil {
			return fmt.Errorf("model_id must not be empty")
		}
	}
	return nil
}
