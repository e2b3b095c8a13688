package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID string, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, type, amount_cents, category_id, category_name, description, tx_date, icon)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, userID, string(t.Type), t.Amount.Cents, t.CategoryID, t.Category, t.Description, dateColumn(t.Date), t.Icon)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())
	return nil
}

// ListTransactions returns the user's transactions newest first, the order
// the transaction table in the UI shows them.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	return r.listTransactions(ctx, userID, "tx_date DESC, rowid DESC")
}

func (r *SQLiteRepository) listTransactions(ctx context.Context, userID, order string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, amount_cents, category_id, category_name, description, tx_date, icon
		 FROM transactions WHERE user_id = ? ORDER BY `+order, userID)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var typ, date string
		if err := rows.Scan(&t.ID, &typ, &t.Amount.Cents, &t.CategoryID, &t.Category, &t.Description, &date, &t.Icon); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		if t.Date, err = parseDateColumn(date); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return mustAffect(res)
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, userID string, c core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, budget_cents, icon, color) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, userID, c.Name, c.Budget.Cents, c.Icon, c.Color)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, userID string, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, budget_cents = ?, icon = ?, color = ? WHERE id = ? AND user_id = ?`,
		c.Name, c.Budget.Cents, c.Icon, c.Color, c.ID, userID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return mustAffect(res)
}

// DeleteCategory removes the category only. Transactions that reference it
// keep their denormalized name and icon; there is no cascade.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return mustAffect(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, budget_cents, icon, color FROM categories WHERE user_id = ? ORDER BY rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Budget.Cents, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, userID string, g core.Goal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, target_cents, saved_cents, target_date) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, userID, g.Name, g.Target.Cents, g.Saved.Cents, dateColumn(g.Date))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	var g core.Goal
	var date string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, target_cents, saved_cents, target_date FROM goals WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Saved.Cents, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("select goal: %w", err)
	}
	if g.Date, err = parseDateColumn(date); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

// UpdateGoalSaved persists the saved total the engine returned for the goal.
func (r *SQLiteRepository) UpdateGoalSaved(ctx context.Context, userID string, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET saved_cents = ? WHERE id = ? AND user_id = ?`,
		g.Saved.Cents, g.ID, userID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return mustAffect(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return mustAffect(res)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, saved_cents, target_date FROM goals WHERE user_id = ? ORDER BY rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var g core.Goal
		var date string
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Saved.Cents, &date); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.Date, err = parseDateColumn(date); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateLoan(ctx context.Context, userID string, l core.Loan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loans (id, user_id, name, principal_cents, annual_rate, tenure_months, emi_cents, remaining_cents, start_date, next_due_date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, userID, l.Name, l.Principal.Cents, l.AnnualRatePercent, l.TenureMonths,
		l.EMIAmount.Cents, l.RemainingBalance.Cents, dateColumn(l.StartDate), dateColumn(l.NextDueDate), string(l.Status))
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}

	slog.InfoContext(ctx, "Loan saved",
		"id", l.ID,
		"principal_cents", l.Principal.Cents,
		"emi_cents", l.EMIAmount.Cents,
		"tenure_months", l.TenureMonths)
	return nil
}

func (r *SQLiteRepository) GetLoan(ctx context.Context, userID, id string) (core.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, principal_cents, annual_rate, tenure_months, emi_cents, remaining_cents, start_date, next_due_date, status
		 FROM loans WHERE id = ? AND user_id = ?`, id, userID)
	l, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Loan{}, core.ErrNotFound
	}
	if err != nil {
		return core.Loan{}, fmt.Errorf("select loan: %w", err)
	}
	return l, nil
}

// ApplyLoanPayment persists a payment the engine computed. The status guard
// serializes concurrent payments on the same loan: the second writer sees
// zero rows when the first one completed the loan.
func (r *SQLiteRepository) ApplyLoanPayment(ctx context.Context, userID string, l core.Loan) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET remaining_cents = ?, next_due_date = ?, status = ?
		 WHERE id = ? AND user_id = ? AND status = 'active'`,
		l.RemainingBalance.Cents, dateColumn(l.NextDueDate), string(l.Status), l.ID, userID)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrLoanCompleted
	}
	return nil
}

func (r *SQLiteRepository) DeleteLoan(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM loans WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	return mustAffect(res)
}

func (r *SQLiteRepository) ListLoans(ctx context.Context, userID string) ([]core.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, principal_cents, annual_rate, tenure_months, emi_cents, remaining_cents, start_date, next_due_date, status
		 FROM loans WHERE user_id = ? ORDER BY rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select loans: %w", err)
	}
	defer rows.Close()

	var out []core.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (core.Loan, error) {
	var l core.Loan
	var status, start, due string
	err := row.Scan(&l.ID, &l.Name, &l.Principal.Cents, &l.AnnualRatePercent, &l.TenureMonths,
		&l.EMIAmount.Cents, &l.RemainingBalance.Cents, &start, &due, &status)
	if err != nil {
		return core.Loan{}, err
	}
	l.Status = core.LoanStatus(status)
	if l.StartDate, err = parseDateColumn(start); err != nil {
		return core.Loan{}, err
	}
	if l.NextDueDate, err = parseDateColumn(due); err != nil {
		return core.Loan{}, err
	}
	return l, nil
}
