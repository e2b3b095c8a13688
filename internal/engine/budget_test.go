package engine

import (
	"reflect"
	"testing"

	"fintrack/internal/core"
)

func catTx(categoryID string, cents int64, year, month int) core.Transaction {
	return core.Transaction{
		Type:       core.TypeExpense,
		Amount:     core.Money{Cents: cents},
		CategoryID: categoryID,
		Date:       core.NewDate(year, month, 10),
	}
}

func TestMonitorBudgetsClassification(t *testing.T) {
	budget := core.Money{Cents: 100000} // 1000.00

	cases := []struct {
		name       string
		spentCents int64
		want       BudgetState
	}{
		{"well under", 50000, BudgetOK},
		{"just under 90%", 89999, BudgetOK}, // 899.99
		{"exactly 90%", 90000, BudgetNear},  // 900.00
		{"at the limit", 100000, BudgetNear},
		{"a cent over", 100001, BudgetOver}, // 1000.01
		{"nothing spent", 0, BudgetOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			categories := []core.Category{{ID: "c1", Name: "Food", Budget: budget}}
			var txns []core.Transaction
			if tc.spentCents > 0 {
				txns = append(txns, catTx("c1", tc.spentCents, 2025, 4))
			}

			got := MonitorBudgets(txns, categories, 2025, 4)
			if len(got) != 1 {
				t.Fatalf("got %d statuses, want 1", len(got))
			}
			st := got[0]
			if st.State != tc.want {
				t.Fatalf("state = %s, want %s (spent %d)", st.State, tc.want, tc.spentCents)
			}
			if st.State == BudgetOver && st.Over.Cents != tc.spentCents-budget.Cents {
				t.Fatalf("over = %d, want %d", st.Over.Cents, tc.spentCents-budget.Cents)
			}
			if st.State == BudgetNear && st.Remaining.Cents != budget.Cents-tc.spentCents {
				t.Fatalf("remaining = %d, want %d", st.Remaining.Cents, budget.Cents-tc.spentCents)
			}
		})
	}
}

func TestMonitorBudgetsSkipsIncomeAndUnbudgeted(t *testing.T) {
	categories := []core.Category{
		{ID: "inc", Name: core.IncomeCategoryName},
		{ID: "c1", Name: "Food", Budget: core.Money{Cents: 10000}},
		{ID: "c2", Name: "Misc"}, // no budget set
	}
	txns := []core.Transaction{
		catTx("c2", 999999, 2025, 4), // huge spend but unmonitored
	}

	got := MonitorBudgets(txns, categories, 2025, 4)

	if len(got) != 2 {
		t.Fatalf("got %d statuses, want 2 (Income skipped)", len(got))
	}
	for _, st := range got {
		if st.Category == core.IncomeCategoryName {
			t.Fatalf("Income category must not be monitored")
		}
	}
	if got[1].CategoryID != "c2" || got[1].State != BudgetOK {
		t.Fatalf("unbudgeted category must always be ok, got %+v", got[1])
	}
}

func TestMonitorBudgetsOnlyCountsPeriodExpenses(t *testing.T) {
	categories := []core.Category{{ID: "c1", Name: "Food", Budget: core.Money{Cents: 10000}}}
	txns := []core.Transaction{
		catTx("c1", 5000, 2025, 4),
		catTx("c1", 5000, 2025, 3), // previous month
		{ // income in the same category never counts as spend
			Type:       core.TypeIncome,
			Amount:     core.Money{Cents: 100000},
			CategoryID: "c1",
			Date:       core.NewDate(2025, 4, 1),
		},
	}

	got := MonitorBudgets(txns, categories, 2025, 4)
	if got[0].Spent.Cents != 5000 {
		t.Fatalf("spent = %d, want 5000", got[0].Spent.Cents)
	}
}

// Calling the monitor twice on the same snapshot yields identical results.
func TestMonitorBudgetsIdempotent(t *testing.T) {
	categories := []core.Category{
		{ID: "c1", Name: "Food", Budget: core.Money{Cents: 10000}},
		{ID: "c2", Name: "Transport", Budget: core.Money{Cents: 20000}},
	}
	txns := []core.Transaction{
		catTx("c1", 9500, 2025, 4),
		catTx("c2", 30000, 2025, 4),
	}

	first := MonitorBudgets(txns, categories, 2025, 4)
	second := MonitorBudgets(txns, categories, 2025, 4)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("monitor not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestAlerts(t *testing.T) {
	statuses := []BudgetStatus{
		{CategoryID: "a", State: BudgetOK},
		{CategoryID: "b", State: BudgetNear},
		{CategoryID: "c", State: BudgetOver},
	}
	got := Alerts(statuses)
	if len(got) != 2 {
		t.Fatalf("got %d alerts, want 2", len(got))
	}
	if got[0].CategoryID != "b" || got[1].CategoryID != "c" {
		t.Fatalf("unexpected alert order: %+v", got)
	}
}
