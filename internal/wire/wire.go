// Package wire provides dependency injection for the praetor application.
// It builds the container once per process with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	rcron "github.com/robfig/cron/v3"

	cliadapter "github.com/example/praetor/internal/adapters/cli"
	"github.com/example/praetor/internal/adapters/httpapi"
	"github.com/example/praetor/internal/adapters/linkcheck"
	"github.com/example/praetor/internal/adapters/llm"
	"github.com/example/praetor/internal/adapters/sqlite"
	"github.com/example/praetor/internal/app"
	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/config"
	"github.com/example/praetor/internal/db"
	"github.com/example/praetor/internal/ports/secondary"
	"github.com/example/praetor/internal/scheduler"
)

// Container holds every wired service of one process.
type Container struct {
	Config   *config.Config
	DB       *sql.DB
	Clock    clock.Clock
	Hub      *httpapi.Hub
	LLM      secondary.LLMClient
	Services httpapi.Services
}

// Overrides replaces external collaborators; zero fields use the real ones.
type Overrides struct {
	DB      *sql.DB
	Clock   clock.Clock
	LLM     secondary.LLMClient
	Checker secondary.LinkChecker
}

// Build wires the application from cfg.
func Build(cfg *config.Config, ov Overrides) (*Container, error) {
	clk := ov.Clock
	if clk == nil {
		sys, err := clock.NewSystem(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		clk = sys
	}

	database := ov.DB
	if database == nil {
		opened, err := db.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		database = opened
	}

	llmClient := ov.LLM
	if llmClient == nil {
		client, err := llm.NewOpenAI(llm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			slog.Warn("llm disabled", "error", err)
			llmClient = llm.Unconfigured{}
		} else {
			llmClient = client
		}
	}

	checker := ov.Checker
	if checker == nil {
		checker = linkcheck.NewHTTPChecker(cfg.LinkCheck.Timeout)
	}

	hub := httpapi.NewHub(originHosts(cfg.Server.CORSOrigins))

	// Repository adapters (secondary ports)
	agentRepo := sqlite.NewAgentRepository(database)
	missionRepo := sqlite.NewMissionRepository(database)
	eventRepo := sqlite.NewEventRepository(database)
	threadRepo := sqlite.NewThreadRepository(database)
	messageRepo := sqlite.NewMessageRepository(database)
	hotLeadRepo := sqlite.NewHotLeadRepository(database)
	events := sqlite.NewLogWriterAdapter(eventRepo, clk, hub)

	// Services (primary ports)
	missions := app.NewMissionService(missionRepo, events, clk)
	providers := app.NewProviderService(llmClient, events, clk, cfg.LLM.Model)
	services := httpapi.Services{
		Agents:   app.NewAgentService(agentRepo, missionRepo, hotLeadRepo, events, clk),
		Missions: missions,
		Events:   app.NewEventService(eventRepo, events, clk, cfg.Events.DefaultLimit),
		MissionControl: app.NewMissionControlService(threadRepo, messageRepo, missions, providers, llmClient, events, clk, app.ChatSettings{
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}),
		HotLeads:   app.NewHotLeadService(hotLeadRepo, missionRepo, events, clk),
		Guardrails: app.NewGuardrailService(sqlite.NewGuardrailRepository(database), events, clk),
		Findings:   app.NewFindingService(sqlite.NewFindingRepository(database), threadRepo, messageRepo, events, clk),
		Forums:     app.NewForumService(sqlite.NewForumRepository(database), checker, events, clk),
		Providers:  providers,
	}

	return &Container{
		Config:   cfg,
		DB:       database,
		Clock:    clk,
		Hub:      hub,
		LLM:      llmClient,
		Services: services,
	}, nil
}

// originHosts turns CORS origins into websocket origin patterns, which
// match on host only.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		hosts = append(hosts, strings.TrimSuffix(o, "/"))
	}
	return hosts
}

// Server returns the HTTP API bound to the container's services.
func (c *Container) Server() *httpapi.Server {
	return httpapi.NewServer(c.Services, c.Hub, c.Clock, httpapi.Options{
		CORSOrigins:          c.Config.Server.CORSOrigins,
		ScenarioRetryMinutes: c.Config.Agents.DefaultRetryMinutes,
	})
}

// Scheduler returns the event retention scheduler. The prune schedule is
// read in the configured timezone, not the host's.
func (c *Container) Scheduler() *scheduler.Scheduler {
	return scheduler.New(c.Services.Events, c.Config.Events.PruneSchedule, c.Config.Events.RetentionDays,
		rcron.WithLocation(c.Clock.Location()))
}

// Close releases the database.
func (c *Container) Close() error {
	return c.DB.Close()
}

var (
	cfg       *config.Config
	container *Container
	once      sync.Once
)

// Configure sets the configuration used by the process-wide container.
// It must be called before the first accessor.
func Configure(c *config.Config) {
	cfg = c
}

// Default returns the process-wide container, building it on first use.
func Default() *Container {
	once.Do(initContainer)
	return container
}

// initContainer builds the container. This is called once via sync.Once.
func initContainer() {
	c := cfg
	if c == nil {
		c = config.DefaultConfig()
	}
	built, err := Build(c, Overrides{})
	if err != nil {
		slog.Error("failed to initialize praetor", "error", err)
		os.Exit(1)
	}
	container = built
}

// MissionAdapter returns a new MissionAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func MissionAdapter() *cliadapter.MissionAdapter {
	return MissionAdapterWithOutput(os.Stdout)
}

// MissionAdapterWithOutput returns a new MissionAdapter writing to the given output.
func MissionAdapterWithOutput(out io.Writer) *cliadapter.MissionAdapter {
	return cliadapter.NewMissionAdapter(Default().Services.Missions, out)
}

// AgentAdapter returns a new AgentAdapter writing to stdout.
func AgentAdapter() *cliadapter.AgentAdapter {
	return cliadapter.NewAgentAdapter(Default().Services.Agents, os.Stdout)
}

// ChatAdapter returns a new ChatAdapter writing to stdout.
func ChatAdapter() *cliadapter.ChatAdapter {
	return cliadapter.NewChatAdapter(Default().Services.MissionControl, os.Stdout)
}

// EventAdapter returns a new EventAdapter writing to stdout.
func EventAdapter() *cliadapter.EventAdapter {
	return cliadapter.NewEventAdapter(Default().Services.Events, os.Stdout)
}
