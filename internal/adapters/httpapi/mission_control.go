package httpapi

import (
	"net/http"

	"github.com/example/praetor/internal/ports/primary"
)

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.svc.MissionControl.ListThreads(r.Context(), r.URL.Query().Get("mission_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateThreadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	thread, err := s.svc.MissionControl.CreateThread(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := s.svc.MissionControl.GetThread(r.Context(), primary.GetThreadRequest{
		ThreadID: r.PathValue("id"),
		Limit:    limit,
		Before:   r.URL.Query().Get("before"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleUpdateThread patches thread metadata; a mission_id in the body links
// the thread to that mission.
func (s *Server) handleUpdateThread(w http.ResponseWriter, r *http.Request) {
	var body struct {
		primary.UpdateThreadRequest
		MissionID *string `json:"mission_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	id := r.PathValue("id")

	if body.MissionID != nil {
		if _, err := s.svc.MissionControl.LinkMission(r.Context(), id, *body.MissionID); err != nil {
			writeError(w, err)
			return
		}
	}
	req := body.UpdateThreadRequest
	req.ThreadID = id
	thread, err := s.svc.MissionControl.UpdateThread(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req primary.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.MissionControl.SendMessage(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConvertToDraft(w http.ResponseWriter, r *http.Request) {
	var req primary.ConvertToDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	draft, err := s.svc.MissionControl.ConvertToDraft(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"draft": draft})
}

func (s *Server) handleApproveDraft(w http.ResponseWriter, r *http.Request) {
	var req primary.ApproveDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.MissionControl.ApproveDraft(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDuplicateRun(w http.ResponseWriter, r *http.Request) {
	var req primary.DuplicateRunRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.MissionControl.DuplicateRun(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSnapshotFindings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ThreadID string `json:"thread_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	finding, err := s.svc.Findings.SnapshotFindings(r.Context(), body.ThreadID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, finding)
}
