package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Source   SourceConfig   `yaml:"source" envconfig:"SOURCE"`
	Mail     MailConfig     `yaml:"mail" envconfig:"MAIL"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DatabaseConfig locates the SQLite settings/history store
type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"PATH"`
}

// SourceConfig describes where the recruitment workbook comes from
type SourceConfig struct {
	// Dir is scanned for local workbook files before the URL is tried.
	Dir string `yaml:"dir" envconfig:"DIR"`
	// FallbackURL is fetched when no local workbook is present.
	FallbackURL  string        `yaml:"fallback_url" envconfig:"FALLBACK_URL"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT"`
	// ProjectName labels every extracted metrics record.
	ProjectName string `yaml:"project_name" envconfig:"PROJECT_NAME"`
}

// MailConfig contains SMTP transport configuration. Credentials live in the
// settings store, not here; this is only the transport endpoint.
type MailConfig struct {
	Host    string        `yaml:"host" envconfig:"HOST"`
	Port    int           `yaml:"port" envconfig:"PORT"`
	Subject string        `yaml:"subject" envconfig:"SUBJECT"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// AnalysisConfig bounds the generative-text call
type AnalysisConfig struct {
	MaxOutputTokens int           `yaml:"max_output_tokens" envconfig:"MAX_OUTPUT_TOKENS"`
	Timeout         time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// defaultConfig returns the built-in defaults. Defaults live here rather than
// in struct tags so that file values are not clobbered when the corresponding
// environment variable is unset.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Database: DatabaseConfig{
			Path: "recruitment_web.db",
		},
		Source: SourceConfig{
			Dir:          ".",
			FallbackURL:  "https://tinyurl.com/ms747thh",
			FetchTimeout: 30 * time.Second,
			ProjectName:  "GLD HBV PET Survey",
		},
		Mail: MailConfig{
			Host:    "smtp.gmail.com",
			Port:    587,
			Subject: "Weekly Recruitment Update",
			Timeout: 30 * time.Second,
		},
		Analysis: AnalysisConfig{
			MaxOutputTokens: 500,
			Timeout:         60 * time.Second,
		},
	}
}

// Load loads configuration from environment variables and an optional
// config.yaml in the working directory. Precedence: env > file > defaults.
func Load() (*Config, error) {
	return LoadFromFile("config.yaml")
}

// LoadFromFile loads configuration, merging the named YAML file when present.
func LoadFromFile(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Explicitly set environment variables override everything.
	if err := envconfig.Process("RECRUIT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Source.FetchTimeout <= 0 {
		return fmt.Errorf("source fetch timeout must be positive")
	}
	return nil
}
