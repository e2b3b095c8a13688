// Package storage persists user records in SQLite and assembles the
// immutable snapshots the engine computes over.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadSnapshot reads all of one user's records in a single pass. Transactions
// come back in insertion order so derived values that break ties by original
// order stay deterministic.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, userID string) (core.Snapshot, error) {
	var snap core.Snapshot
	var err error

	if snap.Transactions, err = r.listTransactions(ctx, userID, "rowid ASC"); err != nil {
		return core.Snapshot{}, fmt.Errorf("load transactions: %w", err)
	}
	if snap.Categories, err = r.ListCategories(ctx, userID); err != nil {
		return core.Snapshot{}, fmt.Errorf("load categories: %w", err)
	}
	if snap.Goals, err = r.ListGoals(ctx, userID); err != nil {
		return core.Snapshot{}, fmt.Errorf("load goals: %w", err)
	}
	if snap.Loans, err = r.ListLoans(ctx, userID); err != nil {
		return core.Snapshot{}, fmt.Errorf("load loans: %w", err)
	}
	return snap, nil
}

// mustAffect maps a zero-row UPDATE/DELETE to core.ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func dateColumn(d core.Date) string {
	return d.Format("2006-01-02")
}

func parseDateColumn(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}
