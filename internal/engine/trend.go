package engine

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// CategoryShare is one slice of a period's expense breakdown.
type CategoryShare struct {
	CategoryID string     `json:"categoryId"`
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	Amount     core.Money `json:"amount"`
	Percent    float64    `json:"percent"` // of the period's total expenses
}

const fallbackColor = "#4361ee"

// Trend returns one summary per month for the trailing window of the given
// length ending at (endYear, endMonth), oldest first. Months with no
// transactions appear zero-filled rather than being omitted, and the window
// rolls over year boundaries.
func Trend(txns []core.Transaction, endYear, endMonth, months int) []PeriodSummary {
	if months <= 0 {
		return nil
	}
	out := make([]PeriodSummary, 0, months)
	for i := months - 1; i >= 0; i-- {
		// time.Date normalizes out-of-range months, which handles the
		// year rollover for us.
		at := time.Date(endYear, time.Month(endMonth-i), 1, 0, 0, 0, 0, time.UTC)
		out = append(out, Summarize(txns, at.Year(), int(at.Month())))
	}
	return out
}

// TopExpenses returns the period's n largest expense transactions, largest
// first. The sort is stable so equal amounts keep their original order.
func TopExpenses(txns []core.Transaction, year, month, n int) []core.Transaction {
	if n <= 0 {
		return nil
	}
	var expenses []core.Transaction
	for _, t := range txns {
		if t.Type == core.TypeExpense && t.Date.InPeriod(year, month) {
			expenses = append(expenses, t)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.Cents > expenses[j].Amount.Cents
	})
	if len(expenses) > n {
		expenses = expenses[:n]
	}
	return expenses
}

// CategoryBreakdown totals the period's expenses per category and computes
// each category's share of the total, largest first. Transactions whose
// category was deleted fall back to their denormalized name and a default
// color.
func CategoryBreakdown(txns []core.Transaction, idx core.CategoryIndex, year, month int) []CategoryShare {
	totals := make(map[string]*CategoryShare)
	order := make([]string, 0)
	var totalCents int64

	for _, t := range txns {
		if t.Type != core.TypeExpense || !t.Date.InPeriod(year, month) {
			continue
		}
		share, ok := totals[t.CategoryID]
		if !ok {
			share = &CategoryShare{
				CategoryID: t.CategoryID,
				Name:       idx.Lookup(t),
				Color:      fallbackColor,
			}
			if c, live := idx[t.CategoryID]; live && c.Color != "" {
				share.Color = c.Color
			}
			totals[t.CategoryID] = share
			order = append(order, t.CategoryID)
		}
		share.Amount.Cents += t.Amount.Cents
		totalCents += t.Amount.Cents
	}

	out := make([]CategoryShare, 0, len(order))
	for _, id := range order {
		share := *totals[id]
		if totalCents > 0 {
			share.Percent = float64(share.Amount.Cents) / float64(totalCents) * 100
		}
		out = append(out, share)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}
