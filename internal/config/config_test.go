package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "recruitment_web.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, "GLD HBV PET Survey", cfg.Source.ProjectName)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, 500, cfg.Analysis.MaxOutputTokens)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
source:
  project_name: Custom Survey
  fetch_timeout: 10s
database:
  path: custom.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "Custom Survey", cfg.Source.ProjectName)
	assert.Equal(t, 10*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, "custom.db", cfg.Database.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RECRUIT_SOURCE_PROJECT_NAME", "Env Survey")
	t.Setenv("RECRUIT_SERVER_PORT", "7070")

	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Env Survey", cfg.Source.ProjectName)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("RECRUIT_SERVER_PORT", "0")

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}
