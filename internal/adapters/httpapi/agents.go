package httpapi

import (
	"net/http"

	coreagent "github.com/example/praetor/internal/core/agent"
	"github.com/example/praetor/internal/ctxutil"
	"github.com/example/praetor/internal/ports/primary"
)

// scenarioErrorCode is the error the demo scenario injects into Explorator.
const scenarioErrorCode = "crawl_timeout"

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.svc.Agents.GetAgents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := s.svc.Agents.GetAgent(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (s *Server) handleTriggerError(w http.ResponseWriter, r *http.Request) {
	var req primary.TriggerErrorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.AgentName = r.PathValue("name")

	agent, err := s.svc.Agents.TriggerError(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (s *Server) handleAppendActivity(w http.ResponseWriter, r *http.Request) {
	var req primary.AppendActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.AgentName = r.PathValue("name")

	agent, err := s.svc.Agents.AppendActivity(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// handleScenarioErrorRetry puts Explorator into a crawl_timeout error that
// recovers after the requested minutes.
func (s *Server) handleScenarioErrorRetry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Minutes float64 `json:"minutes"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Minutes == 0 {
		body.Minutes = s.opts.ScenarioRetryMinutes
	}

	ctx := ctxutil.WithSource(r.Context(), ctxutil.SourceScenario)
	agent, err := s.svc.Agents.TriggerError(ctx, primary.TriggerErrorRequest{
		AgentName:    coreagent.Explorator,
		ErrorCode:    scenarioErrorCode,
		RetryMinutes: body.Minutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}
