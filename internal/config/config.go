// Package config loads praetor's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the full praetor configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Timezone  string          `mapstructure:"timezone" yaml:"timezone"`
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Agents    AgentsConfig    `mapstructure:"agents" yaml:"agents"`
	Events    EventsConfig    `mapstructure:"events" yaml:"events"`
	LinkCheck LinkCheckConfig `mapstructure:"link_check" yaml:"link_check"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr" yaml:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LLMConfig configures the chat-completion provider.
// Model "auto" picks one from the provider's model list.
type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	Model       string        `mapstructure:"model" yaml:"model"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// AgentsConfig holds agent registry defaults.
type AgentsConfig struct {
	DefaultRetryMinutes float64 `mapstructure:"default_retry_minutes" yaml:"default_retry_minutes"`
}

// EventsConfig controls the event log.
type EventsConfig struct {
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
	PruneSchedule string `mapstructure:"prune_schedule" yaml:"prune_schedule"`
	DefaultLimit  int    `mapstructure:"default_limit" yaml:"default_limit"`
}

// LinkCheckConfig configures the forum link probe.
type LinkCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        "127.0.0.1:8001",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Path: "~/.praetor/praetor.db",
		},
		Timezone: "America/Phoenix",
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			APIKey:      "${OPENAI_API_KEY}",
			Model:       "auto",
			Temperature: 0.3,
			MaxTokens:   800,
			Timeout:     60 * time.Second,
		},
		Agents: AgentsConfig{
			DefaultRetryMinutes: 1,
		},
		Events: EventsConfig{
			RetentionDays: 30,
			PruneSchedule: "0 3 * * *",
			DefaultLimit:  200,
		},
		LinkCheck: LinkCheckConfig{
			Timeout: 8 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.praetor/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".praetor", "config.yaml"), nil
}
