// Package httpapi exposes the primary ports as a JSON API under /api.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/ports/primary"
)

// Services are the primary ports the API drives.
type Services struct {
	Agents         primary.AgentService
	Missions       primary.MissionService
	Events         primary.EventService
	MissionControl primary.MissionControlService
	HotLeads       primary.HotLeadService
	Guardrails     primary.GuardrailService
	Findings       primary.FindingService
	Forums         primary.ForumService
	Providers      primary.ProviderService
}

// Options tune the server.
type Options struct {
	CORSOrigins         []string
	ScenarioRetryMinutes float64
}

// Server routes HTTP requests to the services.
type Server struct {
	svc   Services
	hub   *Hub
	clock clock.Clock
	opts  Options
	mux   *http.ServeMux
}

// NewServer builds the router. hub may be nil, which disables /api/events/stream.
func NewServer(svc Services, hub *Hub, clk clock.Clock, opts Options) *Server {
	if opts.ScenarioRetryMinutes <= 0 {
		opts.ScenarioRetryMinutes = 1
	}
	s := &Server{svc: svc, hub: hub, clock: clk, opts: opts, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return withLogging(withCORS(s.opts.CORSOrigins, withSource(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/agents", s.handleListAgents)
	s.mux.HandleFunc("GET /api/agents/{name}", s.handleGetAgent)
	s.mux.HandleFunc("POST /api/agents/{name}/error", s.handleTriggerError)
	s.mux.HandleFunc("POST /api/agents/{name}/activity", s.handleAppendActivity)
	s.mux.HandleFunc("POST /api/scenarios/agent_error_retry", s.handleScenarioErrorRetry)

	s.mux.HandleFunc("GET /api/missions", s.handleListMissions)
	s.mux.HandleFunc("POST /api/missions", s.handleCreateMission)
	s.mux.HandleFunc("GET /api/missions/{id}", s.handleGetMission)
	s.mux.HandleFunc("PATCH /api/missions/{id}", s.handleUpdateMission)
	s.mux.HandleFunc("POST /api/missions/{id}/state", s.handleSetMissionState)
	s.mux.HandleFunc("POST /api/missions/{id}/duplicate", s.handleDuplicateMission)

	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handleRecordEvent)
	if s.hub != nil {
		s.mux.Handle("GET /api/events/stream", s.hub)
	}

	s.mux.HandleFunc("GET /api/mission_control/threads", s.handleListThreads)
	s.mux.HandleFunc("POST /api/mission_control/threads", s.handleCreateThread)
	s.mux.HandleFunc("GET /api/mission_control/thread/{id}", s.handleGetThread)
	s.mux.HandleFunc("PATCH /api/mission_control/thread/{id}", s.handleUpdateThread)
	s.mux.HandleFunc("POST /api/mission_control/message", s.handleSendMessage)
	s.mux.HandleFunc("POST /api/mission_control/convert_to_draft", s.handleConvertToDraft)
	s.mux.HandleFunc("POST /api/mission_control/approve_draft", s.handleApproveDraft)
	s.mux.HandleFunc("POST /api/mission_control/duplicate_run", s.handleDuplicateRun)
	s.mux.HandleFunc("POST /api/mission_control/snapshot_findings", s.handleSnapshotFindings)

	s.mux.HandleFunc("GET /api/hot_leads", s.handleListHotLeads)
	s.mux.HandleFunc("POST /api/hot_leads", s.handleCreateHotLead)
	s.mux.HandleFunc("GET /api/hot_leads/{id}", s.handleGetHotLead)
	s.mux.HandleFunc("PATCH /api/hot_leads/{id}", s.handleUpdateHotLeadScript)
	s.mux.HandleFunc("POST /api/hot_leads/{id}/status", s.handleSetHotLeadStatus)

	s.mux.HandleFunc("GET /api/guardrails", s.handleListGuardrails)
	s.mux.HandleFunc("POST /api/guardrails", s.handleCreateGuardrail)
	s.mux.HandleFunc("GET /api/guardrails/{id}", s.handleGetGuardrail)
	s.mux.HandleFunc("PATCH /api/guardrails/{id}", s.handleUpdateGuardrail)

	s.mux.HandleFunc("GET /api/findings", s.handleListFindings)
	s.mux.HandleFunc("GET /api/findings/{id}", s.handleGetFinding)
	s.mux.HandleFunc("PATCH /api/findings/{id}", s.handleUpdateFinding)
	s.mux.HandleFunc("POST /api/findings/{id}/export", s.handleExportFinding)

	s.mux.HandleFunc("GET /api/forums", s.handleListForums)
	s.mux.HandleFunc("POST /api/forums", s.handleCreateForum)
	s.mux.HandleFunc("PATCH /api/forums/{id}", s.handleUpdateForum)
	s.mux.HandleFunc("POST /api/forums/{id}/check_link", s.handleCheckLink)

	s.mux.HandleFunc("GET /api/providers/models", s.handleListModels)
	s.mux.HandleFunc("GET /api/providers/health", s.handleProviderHealth)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.hub != nil {
		s.hub.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "timestamp": clock.Stamp(s.clock)})
}
