package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PRAETOR_SERVER_ADDR.
const EnvPrefix = "PRAETOR"

// apiKeyFallbacks are consulted in order when llm.api_key is empty.
var apiKeyFallbacks = []string{"OPENAI_API_KEY", "EMERGENT_LLM_KEY"}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads the YAML file at path, applies environment overrides and
// validates the result. The file must exist.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return finish(v)
}

// LoadWithDefaults is Load, except a missing file yields the defaults
// (still subject to environment overrides).
func LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return finish(newViper())
	}
	return Load(path)
}

// newViper registers every key with its default so AutomaticEnv can
// override keys that the file omits.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("agents.default_retry_minutes", d.Agents.DefaultRetryMinutes)
	v.SetDefault("events.retention_days", d.Events.RetentionDays)
	v.SetDefault("events.prune_schedule", d.Events.PruneSchedule)
	v.SetDefault("events.default_limit", d.Events.DefaultLimit)
	v.SetDefault("link_check.timeout", d.LinkCheck.Timeout)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.Path = interpolateString(cfg.Database.Path)
	cfg.LLM.BaseURL = interpolateString(cfg.LLM.BaseURL)
	cfg.LLM.APIKey = resolveAPIKey(cfg.LLM.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// resolveAPIKey interpolates the configured key and falls back to the
// well-known provider variables when nothing usable remains.
func resolveAPIKey(raw string) string {
	key := interpolateString(raw)
	if key != "" && !envRef.MatchString(key) {
		return key
	}
	for _, name := range apiKeyFallbacks {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// interpolateString replaces ${VAR_NAME} with environment variable values.
// Unset variables are left as written.
func interpolateString(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val := os.Getenv(name); val != "" {
			return val
		}
		return match
	})
}
