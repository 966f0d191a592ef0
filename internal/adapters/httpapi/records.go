package httpapi

import (
	"fmt"
	"net/http"

	"github.com/example/praetor/internal/ports/primary"
)

// Hot leads

func (s *Server) handleListHotLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.svc.HotLeads.ListHotLeads(r.Context(), primary.HotLeadFilters{
		MissionID: r.URL.Query().Get("mission_id"),
		Status:    r.URL.Query().Get("status"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleCreateHotLead(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateHotLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	lead, err := s.svc.HotLeads.CreateHotLead(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (s *Server) handleGetHotLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.svc.HotLeads.GetHotLead(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleUpdateHotLeadScript(w http.ResponseWriter, r *http.Request) {
	var req primary.UpdateScriptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.HotLeadID = r.PathValue("id")
	lead, err := s.svc.HotLeads.UpdateScript(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleSetHotLeadStatus(w http.ResponseWriter, r *http.Request) {
	var req primary.SetHotLeadStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.HotLeadID = r.PathValue("id")
	lead, err := s.svc.HotLeads.SetStatus(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Guardrails

func (s *Server) handleListGuardrails(w http.ResponseWriter, r *http.Request) {
	guardrails, err := s.svc.Guardrails.ListGuardrails(r.Context(), primary.GuardrailFilters{
		Type:  r.URL.Query().Get("type"),
		Scope: r.URL.Query().Get("scope"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guardrails)
}

func (s *Server) handleCreateGuardrail(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateGuardrailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.svc.Guardrails.CreateGuardrail(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGetGuardrail(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Guardrails.GetGuardrail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGuardrail(w http.ResponseWriter, r *http.Request) {
	var req primary.UpdateGuardrailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.GuardrailID = r.PathValue("id")
	g, err := s.svc.Guardrails.UpdateGuardrail(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Findings

func (s *Server) handleListFindings(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	findings, err := s.svc.Findings.ListFindings(r.Context(), primary.FindingFilters{
		MissionID: r.URL.Query().Get("mission_id"),
		Limit:     limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, findings)
}

func (s *Server) handleGetFinding(w http.ResponseWriter, r *http.Request) {
	f, err := s.svc.Findings.GetFinding(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleUpdateFinding(w http.ResponseWriter, r *http.Request) {
	var req primary.UpdateFindingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.FindingID = r.PathValue("id")
	f, err := s.svc.Findings.UpdateFinding(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleExportFinding(w http.ResponseWriter, r *http.Request) {
	export, err := s.svc.Findings.ExportFinding(r.Context(), r.PathValue("id"), r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Content)
}

// Forums

func (s *Server) handleListForums(w http.ResponseWriter, r *http.Request) {
	forums, err := s.svc.Forums.ListForums(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forums)
}

func (s *Server) handleCreateForum(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateForumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	f, err := s.svc.Forums.CreateForum(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleUpdateForum(w http.ResponseWriter, r *http.Request) {
	var req primary.UpdateForumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.ForumID = r.PathValue("id")
	f, err := s.svc.Forums.UpdateForum(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleCheckLink(w http.ResponseWriter, r *http.Request) {
	f, err := s.svc.Forums.CheckLink(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// Providers

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.svc.Providers.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

func (s *Server) handleProviderHealth(w http.ResponseWriter, r *http.Request) {
	health, err := s.svc.Providers.Health(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, health)
}
