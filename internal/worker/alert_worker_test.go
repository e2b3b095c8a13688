package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
)

func testWorker(t *testing.T) (*AlertWorker, *storage.SQLiteRepository, string) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	u := storage.User{ID: "u1", Name: "Test", Email: "test@example.com", PasswordHash: "x"}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewAlertWorker(repo), repo, u.ID
}

func TestHandleAlertMessage(t *testing.T) {
	w, repo, userID := testWorker(t)
	ctx := context.Background()

	msg := &amqp.BudgetAlertMessage{
		UserID:     userID,
		CategoryID: "c1",
		Category:   "Food",
		State:      "over-limit",
		SpentCents: 110000,
		LimitCents: 100000,
		DeltaCents: 10000,
		Year:       2025,
		Month:      3,
		Timestamp:  time.Now().UTC(),
	}
	if err := w.HandleAlertMessage(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	alerts, err := repo.ListAlerts(ctx, userID, 0)
	if err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	a := alerts[0]
	if a.Category != "Food" || a.State != "over-limit" || a.SpentCents != 110000 ||
		a.LimitCents != 100000 || a.DeltaCents != 10000 || a.Year != 2025 || a.Month != 3 {
		t.Errorf("stored alert = %+v", a)
	}
}

func TestRunHousekeepingPurgesExpiredSessions(t *testing.T) {
	w, repo, userID := testWorker(t)
	ctx := context.Background()

	expired := storage.Session{Token: "old", UserID: userID, ExpiresAt: time.Now().Add(-time.Hour)}
	live := storage.Session{Token: "new", UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}
	for _, s := range []storage.Session{expired, live} {
		if err := repo.CreateSession(ctx, s); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		w.RunHousekeeping(runCtx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if _, err := repo.GetSession(ctx, "old"); err == nil {
		t.Error("expired session survived housekeeping")
	}
	if _, err := repo.GetSession(ctx, "new"); err != nil {
		t.Errorf("live session was purged: %v", err)
	}
}
