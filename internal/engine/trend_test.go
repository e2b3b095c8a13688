package engine

import (
	"math"
	"testing"

	"fintrack/internal/core"
)

func TestTrendWindowRollsOverYears(t *testing.T) {
	txns := []core.Transaction{
		tx(core.TypeIncome, 10000, 2023, 2, 5),
		tx(core.TypeExpense, 4000, 2023, 12, 20),
		tx(core.TypeIncome, 20000, 2024, 1, 3),
	}

	got := Trend(txns, 2024, 1, 12)

	if len(got) != 12 {
		t.Fatalf("got %d entries, want 12", len(got))
	}
	// Oldest first: 2023-02 through 2024-01.
	if got[0].Year != 2023 || got[0].Month != 2 {
		t.Fatalf("first entry = %d/%d, want 2023/2", got[0].Year, got[0].Month)
	}
	if got[11].Year != 2024 || got[11].Month != 1 {
		t.Fatalf("last entry = %d/%d, want 2024/1", got[11].Year, got[11].Month)
	}
	if got[0].Income.Cents != 10000 {
		t.Fatalf("2023-02 income = %d, want 10000", got[0].Income.Cents)
	}
	if got[10].Expenses.Cents != 4000 {
		t.Fatalf("2023-12 expenses = %d, want 4000", got[10].Expenses.Cents)
	}
	// A month without transactions is present and zero-filled, not omitted.
	if got[1].Year != 2023 || got[1].Month != 3 || got[1].Income.Cents != 0 || got[1].Expenses.Cents != 0 {
		t.Fatalf("2023-03 should be zero-filled, got %+v", got[1])
	}
}

func TestTrendDegenerateWindows(t *testing.T) {
	if got := Trend(nil, 2024, 1, 0); got != nil {
		t.Fatalf("expected nil for empty window, got %v", got)
	}
	if got := Trend(nil, 2024, 1, 1); len(got) != 1 || got[0].Month != 1 {
		t.Fatalf("single-month window wrong: %v", got)
	}
}

func TestTopExpenses(t *testing.T) {
	a := tx(core.TypeExpense, 5000, 2025, 5, 1)
	a.ID = "a"
	b := tx(core.TypeExpense, 9000, 2025, 5, 2)
	b.ID = "b"
	c := tx(core.TypeExpense, 5000, 2025, 5, 3) // ties with a, inserted later
	c.ID = "c"
	income := tx(core.TypeIncome, 99999, 2025, 5, 1)
	other := tx(core.TypeExpense, 7000, 2025, 4, 1) // wrong month

	got := TopExpenses([]core.Transaction{a, income, b, c, other}, 2025, 5, 5)

	if len(got) != 3 {
		t.Fatalf("got %d expenses, want 3", len(got))
	}
	if got[0].ID != "b" {
		t.Fatalf("largest first: got %s", got[0].ID)
	}
	// Stable sort keeps insertion order for equal amounts.
	if got[1].ID != "a" || got[2].ID != "c" {
		t.Fatalf("tie order broken: %s, %s", got[1].ID, got[2].ID)
	}

	// Truncation
	if got := TopExpenses([]core.Transaction{a, b, c}, 2025, 5, 2); len(got) != 2 {
		t.Fatalf("limit 2: got %d", len(got))
	}
	if got := TopExpenses([]core.Transaction{a}, 2025, 5, 0); got != nil {
		t.Fatalf("limit 0 should return nothing")
	}
}

func TestCategoryBreakdown(t *testing.T) {
	idx := core.CategoryIndex{
		"food":      {ID: "food", Name: "Food", Color: "#FF6384"},
		"transport": {ID: "transport", Name: "Transport", Color: "#36A2EB"},
	}

	mk := func(cat string, cents int64) core.Transaction {
		tr := tx(core.TypeExpense, cents, 2025, 6, 10)
		tr.CategoryID = cat
		return tr
	}
	txns := []core.Transaction{
		mk("food", 3000),
		mk("transport", 6000),
		mk("food", 1000),
	}
	// Deleted category keeps its denormalized name.
	orphan := mk("gone", 2000)
	orphan.Category = "Old Hobby"
	txns = append(txns, orphan)

	got := CategoryBreakdown(txns, idx, 2025, 6)

	if len(got) != 3 {
		t.Fatalf("got %d shares, want 3", len(got))
	}
	if got[0].Name != "Transport" || got[0].Amount.Cents != 6000 {
		t.Fatalf("largest share should be Transport 6000, got %+v", got[0])
	}
	if got[1].Name != "Food" || got[1].Amount.Cents != 4000 {
		t.Fatalf("second share should be Food 4000, got %+v", got[1])
	}
	if got[2].Name != "Old Hobby" || got[2].Color != fallbackColor {
		t.Fatalf("orphan share wrong: %+v", got[2])
	}

	var pct float64
	for _, s := range got {
		pct += s.Percent
	}
	if math.Abs(pct-100) > 1e-9 {
		t.Fatalf("percentages sum to %v, want 100", pct)
	}
	if math.Abs(got[0].Percent-50) > 1e-9 {
		t.Fatalf("transport percent = %v, want 50", got[0].Percent)
	}
}

func TestCategoryBreakdownEmptyPeriod(t *testing.T) {
	got := CategoryBreakdown(nil, core.CategoryIndex{}, 2025, 6)
	if len(got) != 0 {
		t.Fatalf("expected empty breakdown, got %v", got)
	}
}
