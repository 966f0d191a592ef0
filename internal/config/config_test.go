package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range apiKeyFallbacks {
		t.Setenv(name, "")
	}
}

func TestLoadWithDefaults_MissingFile(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Server.Addr, cfg.Server.Addr)
	assert.Equal(t, "America/Phoenix", cfg.Timezone)
	assert.Equal(t, "auto", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 8*time.Second, cfg.LinkCheck.Timeout)
	assert.Equal(t, 200, cfg.Events.DefaultLimit)
	assert.Empty(t, cfg.LLM.APIKey, "unresolved ${OPENAI_API_KEY} must not leak through")
}

func TestLoad_FileValues(t *testing.T) {
	clearKeyEnv(t)
	path := writeFile(t, `
server:
  addr: 0.0.0.0:9000
  cors_origins: [http://localhost:3000]
timezone: UTC
llm:
  model: gpt-4o-mini
  timeout: 15s
events:
  retention_days: 7
  prune_schedule: "@daily"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 7, cfg.Events.RetentionDays)
	// Keys the file omits keep their defaults.
	assert.Equal(t, 800, cfg.LLM.MaxTokens)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("PRAETOR_SERVER_ADDR", "127.0.0.1:7777")
	t.Setenv("PRAETOR_EVENTS_DEFAULT_LIMIT", "50")
	path := writeFile(t, "server:\n  addr: 0.0.0.0:9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7777", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.Events.DefaultLimit)
}

func TestLoad_APIKeyResolution(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		env    map[string]string
		expect string
	}{
		{
			name:   "literal key",
			file:   "llm:\n  api_key: sk-literal\n",
			expect: "sk-literal",
		},
		{
			name:   "interpolated key",
			file:   "llm:\n  api_key: ${MY_KEY}\n",
			env:    map[string]string{"MY_KEY": "sk-from-env"},
			expect: "sk-from-env",
		},
		{
			name:   "openai fallback",
			file:   "llm:\n  api_key: ${UNSET_KEY}\n",
			env:    map[string]string{"OPENAI_API_KEY": "sk-openai"},
			expect: "sk-openai",
		},
		{
			name:   "emergent fallback",
			file:   "llm:\n  api_key: \"\"\n",
			env:    map[string]string{"EMERGENT_LLM_KEY": "sk-emergent"},
			expect: "sk-emergent",
		},
		{
			name:   "nothing configured",
			file:   "llm:\n  api_key: ${UNSET_KEY}\n",
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearKeyEnv(t)
			t.Setenv("UNSET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(writeFile(t, tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.expect, cfg.LLM.APIKey)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr string
	}{
		{"unknown timezone", "timezone: Mars/Olympus\n", "timezone"},
		{"daylight saving zone", "timezone: America/New_York\n", "daylight saving"},
		{"zero llm timeout", "llm:\n  timeout: 0s\n", "llm.timeout"},
		{"negative link timeout", "link_check:\n  timeout: -1s\n", "link_check.timeout"},
		{"bad cron", "events:\n  prune_schedule: every tuesday\n", "events.prune_schedule"},
		{"bad log format", "logging:\n  format: xml\n", "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearKeyEnv(t)
			_, err := Load(writeFile(t, tt.file))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteDefault(t *testing.T) {
	clearKeyEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefault(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Addr, cfg.Server.Addr)
	assert.Equal(t, DefaultConfig().LLM.Timeout, cfg.LLM.Timeout)

	err = WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteDefault(path, true))
}
