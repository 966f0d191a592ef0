package httpapi

import (
	"net/http"

	"github.com/example/praetor/internal/ports/primary"
)

func (s *Server) handleListMissions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	missions, err := s.svc.Missions.ListMissions(r.Context(), primary.MissionFilters{
		State: r.URL.Query().Get("state"),
		Limit: limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, missions)
}

func (s *Server) handleCreateMission(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateMissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.svc.Missions.CreateMission(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Mission)
}

func (s *Server) handleGetMission(w http.ResponseWriter, r *http.Request) {
	mission, err := s.svc.Missions.GetMission(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

func (s *Server) handleUpdateMission(w http.ResponseWriter, r *http.Request) {
	var req primary.UpdateMissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.MissionID = r.PathValue("id")

	mission, err := s.svc.Missions.UpdateMission(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

func (s *Server) handleSetMissionState(w http.ResponseWriter, r *http.Request) {
	var req primary.SetStateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.MissionID = r.PathValue("id")

	mission, err := s.svc.Missions.SetState(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

func (s *Server) handleDuplicateMission(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Missions.DuplicateMission(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Mission)
}
