// Handlers for state kept by this service rather than the upstream:
// transaction templates and UI preferences.

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finboard/internal/core"
	"finboard/internal/log"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.svc.Templates.List(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenterFor(r).templates(templates))
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Templates.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenterFor(r).template(t))
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionTemplate
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	created, err := s.svc.Templates.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.presenterFor(r).template(created))
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionTemplate
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	updated, err := s.svc.Templates.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenterFor(r).template(updated))
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Templates.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type applyRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var in applyRequest
	if err := decodeJSON(w, r, &in, true); err != nil {
		writeError(w, r, log.OpApply, err)
		return
	}
	draft, err := s.svc.Templates.Apply(r.Context(), authorization(r), chi.URLParam(r, "id"), in.Date)
	if err != nil {
		writeError(w, r, log.OpApply, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenterFor(r).draft(draft))
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Preferences.Get(r.Context())
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var in core.Preferences
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	saved, err := s.svc.Preferences.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
