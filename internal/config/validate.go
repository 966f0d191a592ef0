package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/example/praetor/internal/clock"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses a five-field cron spec or a descriptor such as @daily.
func ParseSchedule(spec string) (cron.Schedule, error) {
	return cronParser.Parse(spec)
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	var problems []error

	if c.Server.Addr == "" {
		problems = append(problems, errors.New("server.addr is required"))
	}
	if loc, err := clock.LoadZone(c.Timezone); err != nil {
		problems = append(problems, fmt.Errorf("timezone: %w", err))
	} else if !clock.HasFixedOffset(loc) {
		problems = append(problems, fmt.Errorf("timezone %q observes daylight saving time; use a fixed-offset zone", loc.String()))
	}
	if c.LLM.Timeout <= 0 {
		problems = append(problems, errors.New("llm.timeout must be positive"))
	}
	if c.LLM.MaxTokens <= 0 {
		problems = append(problems, errors.New("llm.max_tokens must be positive"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		problems = append(problems, fmt.Errorf("llm.temperature %.2f out of range [0, 2]", c.LLM.Temperature))
	}
	if c.LinkCheck.Timeout <= 0 {
		problems = append(problems, errors.New("link_check.timeout must be positive"))
	}
	if c.Agents.DefaultRetryMinutes <= 0 {
		problems = append(problems, errors.New("agents.default_retry_minutes must be positive"))
	}
	if c.Events.RetentionDays < 0 {
		problems = append(problems, errors.New("events.retention_days must not be negative"))
	}
	if c.Events.DefaultLimit <= 0 {
		problems = append(problems, errors.New("events.default_limit must be positive"))
	}
	if c.Events.PruneSchedule != "" {
		if _, err := ParseSchedule(c.Events.PruneSchedule); err != nil {
			problems = append(problems, fmt.Errorf("events.prune_schedule: %w", err))
		}
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}

	return errors.Join(problems...)
}

// WriteDefault writes DefaultConfig to path as YAML. An existing file is
// left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
