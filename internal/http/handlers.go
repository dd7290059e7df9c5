package http

import (
	"net/http"

	"finboard/internal/core"
	"finboard/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Dashboard.Overview(r.Context(), authorization(r))
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenterFor(r).dashboard(view))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Analytics.Overview(r.Context(), authorization(r))
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenterFor(r).analytics(view))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Categories.List(r.Context(), authorization(r), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenterFor(r).categories(views))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in core.CategoryInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	created, err := s.svc.Categories.Create(r.Context(), authorization(r), in)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	var in core.CategoryInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	updated, err := s.svc.Categories.Update(r.Context(), authorization(r), id, in)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.svc.Categories.Delete(r.Context(), authorization(r), id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilter(r)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	txs, err := s.svc.Transactions.List(r.Context(), authorization(r), f)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenterFor(r).transactions(txs))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	created, err := s.svc.Transactions.Create(r.Context(), authorization(r), in)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.presenterFor(r).transactions([]core.Transaction{*created})[0])
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	var in core.TransactionInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	updated, err := s.svc.Transactions.Update(r.Context(), authorization(r), id, in)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, s.presenterFor(r).transactions([]core.Transaction{*updated})[0])
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.svc.Transactions.Delete(r.Context(), authorization(r), id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if s.svc.Profile == nil {
		writeErrorMessage(w, http.StatusNotFound, "not found")
		return
	}
	profile, err := s.svc.Profile.Get(r.Context(), authorization(r))
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if s.svc.Profile == nil {
		writeErrorMessage(w, http.StatusNotFound, "not found")
		return
	}
	var in core.ProfileUpdate
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	profile, err := s.svc.Profile.Update(r.Context(), authorization(r), in)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleIcons(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, icons())
}
