// Package services orchestrates the engine, the repository, and the alert
// bus: handlers call in here, the engine computes, the repository persists.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/engine"
	"fintrack/internal/storage"
)

// AlertPublisher is what the service needs from the AMQP client. A nil
// publisher degrades to log-only: record writes still succeed.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

type FinanceService struct {
	repo      *storage.SQLiteRepository
	publisher AlertPublisher
}

func NewFinanceService(repo *storage.SQLiteRepository, publisher AlertPublisher) *FinanceService {
	return &FinanceService{repo: repo, publisher: publisher}
}

// DefaultCategories returns the starter set created for every new user, the
// reserved Income category included.
func DefaultCategories() []core.Category {
	return []core.Category{
		{Name: "Food", Icon: "fa-utensils", Color: "#FF6384"},
		{Name: "Transportation", Icon: "fa-car", Color: "#36A2EB"},
		{Name: "Housing", Icon: "fa-home", Color: "#FFCE56"},
		{Name: "Entertainment", Icon: "fa-film", Color: "#4BC0C0"},
		{Name: "Shopping", Icon: "fa-shopping-cart", Color: "#9966FF"},
		{Name: core.IncomeCategoryName, Icon: "fa-money-bill-wave", Color: "#00CC99"},
	}
}

// SeedDefaultCategories creates the starter categories for a new user.
func (s *FinanceService) SeedDefaultCategories(ctx context.Context, userID string) error {
	for _, c := range DefaultCategories() {
		c.ID = uuid.NewString()
		if err := s.repo.CreateCategory(ctx, userID, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}
	return nil
}

// CreateTransaction validates and persists a transaction, then re-runs the
// budget monitor for the transaction's period and publishes any alerts.
// Alert publishing is best-effort: a bus failure is logged, never surfaced,
// because the record is already saved.
func (s *FinanceService) CreateTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = uuid.NewString()

	// Denormalize the live category's name and icon onto the row so the
	// transaction survives a later category deletion.
	if t.CategoryID != "" {
		categories, err := s.repo.ListCategories(ctx, userID)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("load categories: %w", err)
		}
		for _, c := range categories {
			if c.ID == t.CategoryID {
				t.Category = c.Name
				if t.Icon == "" {
					t.Icon = c.Icon
				}
				break
			}
		}
	}

	if err := s.repo.CreateTransaction(ctx, userID, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if t.Type == core.TypeExpense {
		s.publishBudgetAlerts(ctx, userID, t.Date.Year(), t.Date.Month())
	}
	return t, nil
}

func (s *FinanceService) publishBudgetAlerts(ctx context.Context, userID string, year, month int) {
	snap, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load snapshot for budget alerts", "error", err, "user_id", userID)
		return
	}
	alerts := engine.Alerts(engine.MonitorBudgets(snap.Transactions, snap.Categories, year, month))
	if len(alerts) == 0 {
		return
	}
	if s.publisher == nil {
		slog.WarnContext(ctx, "Alert publisher not available, skipping budget alerts", "count", len(alerts))
		return
	}
	for _, st := range alerts {
		if err := s.publisher.PublishBudgetAlert(ctx, amqp.NewBudgetAlertMessage(userID, year, month, st)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget alert",
				"error", err,
				"category", st.Category,
				"state", st.State)
		}
	}
}

func (s *FinanceService) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx, userID)
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, userID, id string) error {
	return s.repo.DeleteTransaction(ctx, userID, id)
}

func (s *FinanceService) CreateCategory(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.ID = uuid.NewString()
	if err := s.repo.CreateCategory(ctx, userID, c); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	return c, nil
}

func (s *FinanceService) UpdateCategory(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.repo.UpdateCategory(ctx, userID, c); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *FinanceService) DeleteCategory(ctx context.Context, userID, id string) error {
	return s.repo.DeleteCategory(ctx, userID, id)
}

func (s *FinanceService) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

func (s *FinanceService) CreateGoal(ctx context.Context, userID string, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.ID = uuid.NewString()
	if err := s.repo.CreateGoal(ctx, userID, g); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	return g, nil
}

// AddToGoal applies an amount-to-add increment and persists the clamped
// result, returning the new state.
func (s *FinanceService) AddToGoal(ctx context.Context, userID, goalID string, amount core.Money) (core.Goal, error) {
	goal, err := s.repo.GetGoal(ctx, userID, goalID)
	if err != nil {
		return core.Goal{}, err
	}
	updated, err := goal.Add(amount)
	if err != nil {
		return core.Goal{}, err
	}
	if err := s.repo.UpdateGoalSaved(ctx, userID, updated); err != nil {
		return core.Goal{}, err
	}
	return updated, nil
}

func (s *FinanceService) DeleteGoal(ctx context.Context, userID, id string) error {
	return s.repo.DeleteGoal(ctx, userID, id)
}

func (s *FinanceService) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

// CreateLoan fills in the derived fields (EMI, balance, first due date) and
// persists the loan.
func (s *FinanceService) CreateLoan(ctx context.Context, userID string, l core.Loan) (core.Loan, error) {
	loan, err := engine.NewLoan(l)
	if err != nil {
		return core.Loan{}, err
	}
	loan.ID = uuid.NewString()
	if err := s.repo.CreateLoan(ctx, userID, loan); err != nil {
		return core.Loan{}, fmt.Errorf("save loan: %w", err)
	}
	return loan, nil
}

// PayLoan records one EMI payment and persists the state the engine
// returned. The repository's guarded update keeps concurrent payments on the
// same loan from double-applying.
func (s *FinanceService) PayLoan(ctx context.Context, userID, loanID string) (core.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, userID, loanID)
	if err != nil {
		return core.Loan{}, err
	}
	paid, err := engine.RecordPayment(loan)
	if err != nil {
		return core.Loan{}, err
	}
	if err := s.repo.ApplyLoanPayment(ctx, userID, paid); err != nil {
		return core.Loan{}, err
	}

	slog.InfoContext(ctx, "Loan payment recorded",
		"loan_id", loanID,
		"remaining_cents", paid.RemainingBalance.Cents,
		"status", paid.Status)
	return paid, nil
}

func (s *FinanceService) DeleteLoan(ctx context.Context, userID, id string) error {
	return s.repo.DeleteLoan(ctx, userID, id)
}

func (s *FinanceService) ListLoans(ctx context.Context, userID string) ([]core.Loan, error) {
	return s.repo.ListLoans(ctx, userID)
}

// LoanSchedule returns the full amortization table for an existing loan.
func (s *FinanceService) LoanSchedule(ctx context.Context, userID, loanID string) ([]engine.Installment, error) {
	loan, err := s.repo.GetLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	return engine.Schedule(loan.Principal, loan.AnnualRatePercent, loan.TenureMonths)
}

func (s *FinanceService) Summary(ctx context.Context, userID string, year, month int) (engine.PeriodSummary, error) {
	snap, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		return engine.PeriodSummary{}, err
	}
	return engine.Summarize(snap.Transactions, year, month), nil
}

func (s *FinanceService) BudgetReport(ctx context.Context, userID string, year, month int) ([]engine.BudgetStatus, error) {
	snap, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.MonitorBudgets(snap.Transactions, snap.Categories, year, month), nil
}

func (s *FinanceService) TrendReport(ctx context.Context, userID string, endYear, endMonth, months int) ([]engine.PeriodSummary, error) {
	snap, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.Trend(snap.Transactions, endYear, endMonth, months), nil
}

func (s *FinanceService) TopExpenses(ctx context.Context, userID string, year, month, limit int) ([]core.Transaction, error) {
	snap, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.TopExpenses(snap.Transactions, year, month, limit), nil
}

func (s *FinanceService) Breakdown(ctx context.Context, userID string, year, month int) ([]engine.CategoryShare, error) {
	snap, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.CategoryBreakdown(snap.Transactions, snap.Index(), year, month), nil
}

func (s *FinanceService) ListAlerts(ctx context.Context, userID string, limit int) ([]storage.Alert, error) {
	return s.repo.ListAlerts(ctx, userID, limit)
}
