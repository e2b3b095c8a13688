package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
)

// AlertWorker consumes budget alert messages off the bus and records them so
// users can review past warnings. It also runs periodic housekeeping.
type AlertWorker struct {
	storage *storage.SQLiteRepository
}

func NewAlertWorker(storage *storage.SQLiteRepository) *AlertWorker {
	return &AlertWorker{storage: storage}
}

// HandleAlertMessage persists a single budget alert from AMQP.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	slog.InfoContext(ctx, "Processing budget alert",
		"user_id", msg.UserID,
		"category", msg.Category,
		"state", msg.State)

	alert := storage.Alert{
		UserID:     msg.UserID,
		CategoryID: msg.CategoryID,
		Category:   msg.Category,
		State:      msg.State,
		SpentCents: msg.SpentCents,
		LimitCents: msg.LimitCents,
		DeltaCents: msg.DeltaCents,
		Year:       msg.Year,
		Month:      msg.Month,
	}
	if err := w.storage.InsertAlert(ctx, alert); err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}

// RunHousekeeping purges expired sessions on the given interval until the
// context is cancelled.
func (w *AlertWorker) RunHousekeeping(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.storage.DeleteExpiredSessions(ctx, time.Now().UTC())
			if err != nil {
				slog.ErrorContext(ctx, "Failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.InfoContext(ctx, "Purged expired sessions", "count", n)
			}
		}
	}
}
