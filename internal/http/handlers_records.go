package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.finance.ListTransactions(r.Context(), requestUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	userID := requestUserID(r)
	created, err := s.finance.CreateTransaction(r.Context(), userID, t)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateReports(userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if err := s.finance.DeleteTransaction(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	s.invalidateReports(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.finance.ListCategories(r.Context(), requestUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	userID := requestUserID(r)
	created, err := s.finance.CreateCategory(r.Context(), userID, c)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateReports(userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	c.ID = chi.URLParam(r, "id")

	userID := requestUserID(r)
	updated, err := s.finance.UpdateCategory(r.Context(), userID, c)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateReports(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if err := s.finance.DeleteCategory(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	s.invalidateReports(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.finance.ListGoals(r.Context(), requestUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if goals == nil {
		goals = []core.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.Goal
	if err := decodeJSON(r, &g); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.finance.CreateGoal(r.Context(), requestUserID(r), g)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type addToGoalRequest struct {
	Amount core.Money `json:"amount"`
}

func (s *Server) handleAddToGoal(w http.ResponseWriter, r *http.Request) {
	var req addToGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.finance.AddToGoal(r.Context(), requestUserID(r), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.finance.DeleteGoal(r.Context(), requestUserID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
