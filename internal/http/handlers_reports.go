package http

import (
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/engine"
	"fintrack/internal/storage"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	year, month := parseYearMonth(r)

	key := periodKey(userID, "summary", year, month)
	if cached, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.finance.Summary(r.Context(), userID, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	year, month := parseYearMonth(r)

	key := periodKey(userID, "budgets", year, month)
	if cached, ok := s.budgetCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	statuses, err := s.finance.BudgetReport(r.Context(), userID, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	if statuses == nil {
		statuses = []engine.BudgetStatus{}
	}
	s.budgetCache.Set(key, statuses)
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleTrendReport(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	year, month := parseYearMonth(r)
	months := parseIntQuery(r, "months", 6)

	key := periodKey(userID, "trends-"+strconv.Itoa(months), year, month)
	if cached, ok := s.trendCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	trend, err := s.finance.TrendReport(r.Context(), userID, year, month, months)
	if err != nil {
		writeError(w, err)
		return
	}
	s.trendCache.Set(key, trend)
	writeJSON(w, http.StatusOK, trend)
}

func (s *Server) handleTopExpenses(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	year, month := parseYearMonth(r)
	limit := parseIntQuery(r, "limit", 5)

	top, err := s.finance.TopExpenses(r.Context(), userID, year, month, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if top == nil {
		top = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, top)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	year, month := parseYearMonth(r)

	key := periodKey(userID, "breakdown", year, month)
	if cached, ok := s.breakdownCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	shares, err := s.finance.Breakdown(r.Context(), userID, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	if shares == nil {
		shares = []engine.CategoryShare{}
	}
	s.breakdownCache.Set(key, shares)
	writeJSON(w, http.StatusOK, shares)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)

	alerts, err := s.finance.ListAlerts(r.Context(), requestUserID(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if alerts == nil {
		alerts = []storage.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}
