// Package engine implements the financial aggregation and loan amortization
// calculators: period summaries, budget monitoring, EMI amortization, and
// multi-month trend rollups. Every function here is pure: it reads a
// snapshot of records and returns derived values, never touching storage or
// the clock.
package engine

import "fintrack/internal/core"

// PeriodSummary is the aggregate for one calendar (year, month) bucket.
type PeriodSummary struct {
	Year        int        `json:"year"`
	Month       int        `json:"month"` // 1-12
	Income      core.Money `json:"income"`
	Expenses    core.Money `json:"expenses"`
	Balance     core.Money `json:"balance"`
	SavingsRate float64    `json:"savingsRate"` // percent, 0 when there is no income
}

// Summarize buckets the transactions that fall in the given calendar month
// and returns income, expenses, balance, and savings rate. The savings rate
// is (income-expenses)/income*100, or 0 when there is no income so the
// division never degenerates.
func Summarize(txns []core.Transaction, year, month int) PeriodSummary {
	sum := PeriodSummary{Year: year, Month: month}
	for _, t := range txns {
		if !t.Date.InPeriod(year, month) {
			continue
		}
		switch t.Type {
		case core.TypeIncome:
			sum.Income.Cents += t.Amount.Cents
		case core.TypeExpense:
			sum.Expenses.Cents += t.Amount.Cents
		}
	}
	sum.Balance.Cents = sum.Income.Cents - sum.Expenses.Cents
	if sum.Income.Cents > 0 {
		sum.SavingsRate = float64(sum.Balance.Cents) / float64(sum.Income.Cents) * 100
	}
	return sum
}
