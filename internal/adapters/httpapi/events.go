package httpapi

import (
	"net/http"

	"github.com/example/praetor/internal/ports/primary"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	events, err := s.svc.Events.ListEvents(r.Context(), primary.EventFilters{
		EventName: q.Get("event_name"),
		Source:    q.Get("source"),
		AgentName: q.Get("agent_name"),
		MissionID: q.Get("mission_id"),
		HotLeadID: q.Get("hotlead_id"),
		ThreadID:  q.Get("thread_id"),
		Since:     q.Get("since"),
		Until:     q.Get("until"),
		Limit:     limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// handleRecordEvent accepts events reported by the frontend (fe_error and friends).
func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var req primary.RecordEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	event, err := s.svc.Events.RecordEvent(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}
