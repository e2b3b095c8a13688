package engine

import "fintrack/internal/core"

const (
	BudgetOK   BudgetState = "ok"
	BudgetNear BudgetState = "near-limit"
	BudgetOver BudgetState = "over-limit"
)

type BudgetState string

// BudgetStatus classifies one category's spend against its monthly budget.
type BudgetStatus struct {
	CategoryID string           `json:"categoryId"`
	Category   string           `json:"category"`
	Budget     core.Money       `json:"budget"`
	Spent      core.Money       `json:"spent"`
	State      BudgetState      `json:"state"`
	Over       core.Money       `json:"over"`      // spent - budget, set when over-limit
	Remaining  core.Money       `json:"remaining"` // budget - spent, set when near-limit
}

// MonitorBudgets compares each category's expense total for the period
// against its budget. The reserved Income category is skipped. Categories
// with no budget set (zero) are reported as ok and never classified.
// Thresholds run on integer cents: over-limit when spent > budget, near-limit
// when spent is within 10% of the budget (10*spent >= 9*budget) without
// exceeding it.
//
// The monitor is stateless; calling it twice on the same snapshot yields
// identical results, and whether repeated alerts are surfaced is the
// caller's policy.
func MonitorBudgets(txns []core.Transaction, categories []core.Category, year, month int) []BudgetStatus {
	spent := make(map[string]int64)
	for _, t := range txns {
		if t.Type != core.TypeExpense || !t.Date.InPeriod(year, month) {
			continue
		}
		spent[t.CategoryID] += t.Amount.Cents
	}

	statuses := make([]BudgetStatus, 0, len(categories))
	for _, c := range categories {
		if c.Name == core.IncomeCategoryName {
			continue
		}
		st := BudgetStatus{
			CategoryID: c.ID,
			Category:   c.Name,
			Budget:     c.Budget,
			Spent:      core.Money{Cents: spent[c.ID]},
			State:      BudgetOK,
		}
		if c.Budget.Cents > 0 {
			switch {
			case st.Spent.Cents > c.Budget.Cents:
				st.State = BudgetOver
				st.Over.Cents = st.Spent.Cents - c.Budget.Cents
			case 10*st.Spent.Cents >= 9*c.Budget.Cents:
				st.State = BudgetNear
				st.Remaining.Cents = c.Budget.Cents - st.Spent.Cents
			}
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// Alerts filters a status list down to the entries worth surfacing.
func Alerts(statuses []BudgetStatus) []BudgetStatus {
	var out []BudgetStatus
	for _, st := range statuses {
		if st.State != BudgetOK {
			out = append(out, st)
		}
	}
	return out
}
