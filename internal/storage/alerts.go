package storage

import (
	"context"
	"fmt"
	"time"
)

// Alert is a budget alert recorded by the notifier worker.
type Alert struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"-"`
	CategoryID string    `json:"categoryId"`
	Category   string    `json:"category"`
	State      string    `json:"state"`
	SpentCents int64     `json:"spentCents"`
	LimitCents int64     `json:"limitCents"`
	DeltaCents int64     `json:"deltaCents"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *SQLiteRepository) InsertAlert(ctx context.Context, a Alert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (user_id, category_id, category, state, spent_cents, limit_cents, delta_cents, year, month)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.CategoryID, a.Category, a.State, a.SpentCents, a.LimitCents, a.DeltaCents, a.Year, a.Month)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAlerts(ctx context.Context, userID string, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, category, state, spent_cents, limit_cents, delta_cents, year, month, created_at
		 FROM alerts WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select alerts: %w", err)
	}
	defer rows.Close()

	var out []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.Category, &a.State,
			&a.SpentCents, &a.LimitCents, &a.DeltaCents, &a.Year, &a.Month, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
