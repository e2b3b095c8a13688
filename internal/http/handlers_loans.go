package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := s.finance.ListLoans(r.Context(), requestUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if loans == nil {
		loans = []core.Loan{}
	}
	writeJSON(w, http.StatusOK, loans)
}

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var l core.Loan
	if err := decodeJSON(r, &l); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.finance.CreateLoan(r.Context(), requestUserID(r), l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleLoanSchedule(w http.ResponseWriter, r *http.Request) {
	rows, err := s.finance.LoanSchedule(r.Context(), requestUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePayLoan(w http.ResponseWriter, r *http.Request) {
	paid, err := s.finance.PayLoan(r.Context(), requestUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paid)
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.finance.DeleteLoan(r.Context(), requestUserID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
