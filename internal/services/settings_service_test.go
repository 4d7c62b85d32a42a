package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitcli/internal/store"
)

func newSettingsService(t *testing.T) *SettingsService {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "settings.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Init(context.Background()))

	return NewSettingsService(st, nil)
}

func TestSettingsUpdateAndGet(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, store.KeyAPIKey, "secret"))

	value, err := svc.Get(ctx, store.KeyAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "secret", value)
}

func TestSettingsEmptyKeyRejected(t *testing.T) {
	svc := newSettingsService(t)

	err := svc.Update(context.Background(), "  ", "anything")
	assert.ErrorContains(t, err, "key must not be empty")
}

func TestSettingsClientEmailsValidation(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Update(ctx, store.KeyClientEmails, `["a@example.com","b@example.com"]`))
	assert.NoError(t, svc.Update(ctx, store.KeyClientEmails, `[]`))
	assert.ErrorContains(t, svc.Update(ctx, store.KeyClientEmails, `not json`), "JSON array")
	assert.ErrorContains(t, svc.Update(ctx, store.KeyClientEmails, `["not-an-address"]`), "invalid recipient")
}

func TestSettingsEmailUserValidation(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Update(ctx, store.KeyEmailUser, "ops@example.com"))
	// Clearing the credential is always allowed.
	assert.NoError(t, svc.Update(ctx, store.KeyEmailUser, ""))
	assert.ErrorContains(t, svc.Update(ctx, store.KeyEmailUser, "nope"), "valid address")
}

func TestSettingsScheduleValidation(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Update(ctx, store.KeyScheduleTime, "09:00"))
	assert.ErrorContains(t, svc.Update(ctx, store.KeyScheduleTime, "9am"), "HH:MM")

	assert.NoError(t, svc.Update(ctx, store.KeyScheduleFrequency, "weekly"))
	assert.ErrorContains(t, svc.Update(ctx, store.KeyScheduleFrequency, "fortnightly"), "daily, weekly or monthly")

	assert.NoError(t, svc.Update(ctx, store.KeyScheduleDay, "Tuesday"))
	assert.ErrorContains(t, svc.Update(ctx, store.KeyScheduleDay, "someday"), "weekday")
}

func TestSettingsModelIDValidation(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Update(ctx, store.KeyModelID, "gemini-2.5-flash"))
	assert.ErrorContains(t, svc.Update(ctx, store.KeyModelID, ""), "must not be empty")
}

func TestSettingsUnknownKeyAccepted(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, "custom_note", "anything goes"))
	value, err := svc.Get(ctx, "custom_note")
	require.NoError(t, err)
	assert.Equal(t, "anything goes", value)
}
