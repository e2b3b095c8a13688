// Package http exposes the REST API: auth, record CRUD, loan operations,
// and the report endpoints.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/engine"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/services"
)

type Server struct {
	http.Server
	finance *services.FinanceService
	auth    *auth.Service

	authLimiter *ratelimit.Limiter

	// Report caches, keyed "<userID>:<report>:<period>". Writes drop every
	// entry under the user's prefix.
	summaryCache   *cache.LRUCache[engine.PeriodSummary]
	budgetCache    *cache.LRUCache[[]engine.BudgetStatus]
	trendCache     *cache.LRUCache[[]engine.PeriodSummary]
	breakdownCache *cache.LRUCache[[]engine.CategoryShare]

	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, finance *services.FinanceService, authSvc *auth.Service, logger *applog.Logger) *Server {
	s := &Server{
		Server: http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		finance:        finance,
		auth:           authSvc,
		authLimiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		summaryCache:   cache.NewLRUCache[engine.PeriodSummary](500, 5*time.Minute),
		budgetCache:    cache.NewLRUCache[[]engine.BudgetStatus](500, 5*time.Minute),
		trendCache:     cache.NewLRUCache[[]engine.PeriodSummary](200, 5*time.Minute),
		breakdownCache: cache.NewLRUCache[[]engine.CategoryShare](500, 5*time.Minute),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.budgetCache)
	s.cacheManager.Register(s.trendCache)
	s.cacheManager.Register(s.breakdownCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(applog.RequestLogger(logger))
	r.Use(security.Headers(security.DefaultHeadersConfig()))

	r.Get("/api/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.authLimiter.Middleware)
		r.Post("/api/auth/register", s.handleRegister)
		r.Post("/api/auth/login", s.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/api/auth/logout", s.handleLogout)

		r.Get("/api/transactions", s.handleListTransactions)
		r.Post("/api/transactions", s.handleCreateTransaction)
		r.Delete("/api/transactions/{id}", s.handleDeleteTransaction)

		r.Get("/api/categories", s.handleListCategories)
		r.Post("/api/categories", s.handleCreateCategory)
		r.Put("/api/categories/{id}", s.handleUpdateCategory)
		r.Delete("/api/categories/{id}", s.handleDeleteCategory)

		r.Get("/api/goals", s.handleListGoals)
		r.Post("/api/goals", s.handleCreateGoal)
		r.Put("/api/goals/{id}/add", s.handleAddToGoal)
		r.Delete("/api/goals/{id}", s.handleDeleteGoal)

		r.Get("/api/loans", s.handleListLoans)
		r.Post("/api/loans", s.handleCreateLoan)
		r.Get("/api/loans/{id}/schedule", s.handleLoanSchedule)
		r.Put("/api/loans/{id}/pay", s.handlePayLoan)
		r.Delete("/api/loans/{id}", s.handleDeleteLoan)

		r.Get("/api/reports/summary", s.handleSummary)
		r.Get("/api/reports/budgets", s.handleBudgetReport)
		r.Get("/api/reports/trends", s.handleTrendReport)
		r.Get("/api/reports/top-expenses", s.handleTopExpenses)
		r.Get("/api/reports/breakdown", s.handleBreakdown)

		r.Get("/api/alerts", s.handleListAlerts)
	})

	s.Handler = r
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// invalidateReports drops every cached report for the user after a write.
func (s *Server) invalidateReports(userID string) {
	prefix := userID + ":"
	s.summaryCache.DeletePrefix(prefix)
	s.budgetCache.DeletePrefix(prefix)
	s.trendCache.DeletePrefix(prefix)
	s.breakdownCache.DeletePrefix(prefix)
}

// Shutdown stops the background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.authLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
