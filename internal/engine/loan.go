package engine

import (
	"math"
	"time"

	"fintrack/internal/core"
)

// Installment is one row of an amortization schedule.
type Installment struct {
	Number    int        `json:"number"` // 1-based
	Payment   core.Money `json:"payment"`
	Interest  core.Money `json:"interest"`
	Principal core.Money `json:"principal"`
	Remaining core.Money `json:"remaining"`
}

// ComputeEMI returns the fixed monthly installment for a loan. With a zero
// rate the standard formula divides by zero, so that case falls back to a
// straight-line split of the principal. Results are rounded half-up to cents.
func ComputeEMI(principal core.Money, annualRatePercent float64, tenureMonths int) (core.Money, error) {
	if principal.Cents <= 0 {
		return core.Money{}, core.ErrInvalidAmount
	}
	if annualRatePercent < 0 || math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) {
		return core.Money{}, core.ErrInvalidRate
	}
	if tenureMonths <= 0 {
		return core.Money{}, core.ErrInvalidTenure
	}

	monthlyRate := annualRatePercent / 100 / 12
	if monthlyRate == 0 {
		return core.Money{Cents: roundCents(float64(principal.Cents) / float64(tenureMonths))}, nil
	}

	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	emi := float64(principal.Cents) * monthlyRate * factor / (factor - 1)
	return core.Money{Cents: roundCents(emi)}, nil
}

// Schedule produces the full amortization table for a loan: every month
// interest accrues on the remaining balance and the rest of the installment
// retires principal. The final installment absorbs accumulated cent rounding
// so the balance lands exactly on zero after tenureMonths rows.
func Schedule(principal core.Money, annualRatePercent float64, tenureMonths int) ([]Installment, error) {
	emi, err := ComputeEMI(principal, annualRatePercent, tenureMonths)
	if err != nil {
		return nil, err
	}

	monthlyRate := annualRatePercent / 100 / 12
	rows := make([]Installment, 0, tenureMonths)
	balance := principal.Cents
	for k := 1; k <= tenureMonths; k++ {
		interest := roundCents(float64(balance) * monthlyRate)
		principalPart := emi.Cents - interest
		if k == tenureMonths || principalPart > balance {
			principalPart = balance
		}
		balance -= principalPart
		rows = append(rows, Installment{
			Number:    k,
			Payment:   core.Money{Cents: principalPart + interest},
			Interest:  core.Money{Cents: interest},
			Principal: core.Money{Cents: principalPart},
			Remaining: core.Money{Cents: balance},
		})
	}
	return rows, nil
}

// NewLoan fills in the derived fields of a freshly created loan: the EMI, the
// remaining balance (the full principal), and the first due date one calendar
// month after the start.
func NewLoan(loan core.Loan) (core.Loan, error) {
	if err := loan.Validate(); err != nil {
		return core.Loan{}, err
	}
	emi, err := ComputeEMI(loan.Principal, loan.AnnualRatePercent, loan.TenureMonths)
	if err != nil {
		return core.Loan{}, err
	}
	loan.EMIAmount = emi
	loan.RemainingBalance = loan.Principal
	loan.NextDueDate = AddCalendarMonth(loan.StartDate, loan.StartDate.Day())
	loan.Status = core.LoanActive
	return loan, nil
}

// RecordPayment applies one EMI to the loan and returns the new state; the
// caller persists it. When the balance reaches zero the loan flips to
// completed, the balance clamps at zero, and the due date stops advancing.
// Paying a completed loan is an explicit error, not a silent no-op.
//
// Due dates advance by one calendar month anchored to the start date's
// day-of-month: months too short for the anchor clamp to their last day, and
// the anchor is restored in the next long-enough month (Jan 31 -> Feb 28 ->
// Mar 31).
func RecordPayment(loan core.Loan) (core.Loan, error) {
	if loan.Status == core.LoanCompleted {
		return core.Loan{}, core.ErrLoanCompleted
	}
	if loan.EMIAmount.Cents <= 0 {
		return core.Loan{}, core.ErrInvalidAmount
	}

	loan.RemainingBalance.Cents -= loan.EMIAmount.Cents
	if loan.RemainingBalance.Cents <= 0 {
		loan.RemainingBalance.Cents = 0
		loan.Status = core.LoanCompleted
		return loan, nil
	}
	loan.NextDueDate = AddCalendarMonth(loan.NextDueDate, loan.StartDate.Day())
	return loan, nil
}

// AddCalendarMonth returns the date one calendar month after d, on anchorDay
// where the target month has that day and on the month's last day otherwise.
func AddCalendarMonth(d core.Date, anchorDay int) core.Date {
	first := time.Date(d.Year(), time.Month(d.Month())+1, 1, 0, 0, 0, 0, time.UTC)
	day := anchorDay
	if last := daysInMonth(first.Year(), int(first.Month())); day > last {
		day = last
	}
	return core.NewDate(first.Year(), int(first.Month()), day)
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func roundCents(x float64) int64 {
	return int64(math.Round(x))
}
