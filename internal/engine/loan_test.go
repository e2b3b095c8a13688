package engine

import (
	"errors"
	"math"
	"testing"

	"fintrack/internal/core"
)

func TestComputeEMIZeroRate(t *testing.T) {
	emi, err := ComputeEMI(core.Money{Cents: 120000}, 0, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emi.Cents != 10000 {
		t.Fatalf("emi = %d cents, want 10000 (1200/12 = 100)", emi.Cents)
	}
}

func TestComputeEMIStandardFormula(t *testing.T) {
	// 100000.00 at 12% over 12 months. Closed form gives 8884.88 per month.
	emi, err := ComputeEMI(core.Money{Cents: 10_000_000}, 12, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emi.Cents != 888488 {
		t.Fatalf("emi = %d cents, want 888488", emi.Cents)
	}
}

func TestComputeEMIInvalidInputs(t *testing.T) {
	cases := []struct {
		name      string
		principal int64
		rate      float64
		tenure    int
		wantErr   error
	}{
		{"zero principal", 0, 5, 12, core.ErrInvalidAmount},
		{"negative principal", -100, 5, 12, core.ErrInvalidAmount},
		{"negative rate", 100000, -1, 12, core.ErrInvalidRate},
		{"nan rate", 100000, math.NaN(), 12, core.ErrInvalidRate},
		{"zero tenure", 100000, 5, 0, core.ErrInvalidTenure},
		{"negative tenure", 100000, 5, -6, core.ErrInvalidTenure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeEMI(core.Money{Cents: tc.principal}, tc.rate, tc.tenure)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

// Simulating the balance reduction with the computed EMI must retire the loan
// in exactly tenureMonths installments, with the final row landing on zero.
func TestScheduleRoundTrip(t *testing.T) {
	cases := []struct {
		name      string
		principal int64
		rate      float64
		tenure    int
	}{
		{"small short loan", 1_000_00, 6, 6},
		{"car loan", 1_500_000_00, 9.5, 60},
		{"mortgage-sized", 25_000_000_00, 7.25, 240},
		{"zero rate", 120000, 0, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := Schedule(core.Money{Cents: tc.principal}, tc.rate, tc.tenure)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rows) != tc.tenure {
				t.Fatalf("got %d rows, want %d", len(rows), tc.tenure)
			}
			if rows[len(rows)-1].Remaining.Cents != 0 {
				t.Fatalf("final remaining = %d, want 0", rows[len(rows)-1].Remaining.Cents)
			}
			if tc.tenure > 1 && rows[len(rows)-2].Remaining.Cents <= 0 {
				t.Fatalf("loan retired before the final installment: %+v", rows[len(rows)-2])
			}
			// Each row conserves money: payment = interest + principal,
			// and balances chain.
			balance := tc.principal
			for _, row := range rows {
				if row.Payment.Cents != row.Interest.Cents+row.Principal.Cents {
					t.Fatalf("row %d: payment %d != interest %d + principal %d",
						row.Number, row.Payment.Cents, row.Interest.Cents, row.Principal.Cents)
				}
				balance -= row.Principal.Cents
				if row.Remaining.Cents != balance {
					t.Fatalf("row %d: remaining %d, want %d", row.Number, row.Remaining.Cents, balance)
				}
			}
		})
	}
}

func TestNewLoanDerivedFields(t *testing.T) {
	loan, err := NewLoan(core.Loan{
		Name:              "Bike",
		Principal:         core.Money{Cents: 120000},
		AnnualRatePercent: 0,
		TenureMonths:      12,
		StartDate:         core.NewDate(2025, 1, 31),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loan.EMIAmount.Cents != 10000 {
		t.Fatalf("emi = %d, want 10000", loan.EMIAmount.Cents)
	}
	if loan.RemainingBalance.Cents != loan.Principal.Cents {
		t.Fatalf("remaining = %d, want principal %d", loan.RemainingBalance.Cents, loan.Principal.Cents)
	}
	if loan.Status != core.LoanActive {
		t.Fatalf("status = %s, want active", loan.Status)
	}
	// Jan 31 start: first due date clamps to the end of February.
	if loan.NextDueDate.String() != "2025-02-28" {
		t.Fatalf("next due = %s, want 2025-02-28", loan.NextDueDate)
	}
}

func TestRecordPaymentAdvancesDueDate(t *testing.T) {
	loan := core.Loan{
		Name:              "Bike",
		Principal:         core.Money{Cents: 120000},
		TenureMonths:      12,
		EMIAmount:         core.Money{Cents: 10000},
		RemainingBalance:  core.Money{Cents: 120000},
		StartDate:         core.NewDate(2025, 1, 31),
		NextDueDate:       core.NewDate(2025, 2, 28),
		Status:            core.LoanActive,
	}

	got, err := RecordPayment(loan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RemainingBalance.Cents != 110000 {
		t.Fatalf("remaining = %d, want 110000", got.RemainingBalance.Cents)
	}
	// The anchor day (31) is restored in March even though February clamped.
	if got.NextDueDate.String() != "2025-03-31" {
		t.Fatalf("next due = %s, want 2025-03-31", got.NextDueDate)
	}
	if got.Status != core.LoanActive {
		t.Fatalf("status = %s, want active", got.Status)
	}
}

func TestRecordPaymentCompletesLoan(t *testing.T) {
	loan := core.Loan{
		Name:             "Tail end",
		Principal:        core.Money{Cents: 120000},
		TenureMonths:     12,
		EMIAmount:        core.Money{Cents: 10000},
		RemainingBalance: core.Money{Cents: 9500}, // less than one EMI left
		StartDate:        core.NewDate(2025, 1, 15),
		NextDueDate:      core.NewDate(2025, 12, 15),
		Status:           core.LoanActive,
	}

	got, err := RecordPayment(loan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != core.LoanCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	if got.RemainingBalance.Cents != 0 {
		t.Fatalf("remaining = %d, want clamp to 0", got.RemainingBalance.Cents)
	}
	// Due date frozen on completion.
	if got.NextDueDate.String() != "2025-12-15" {
		t.Fatalf("next due = %s, want unchanged 2025-12-15", got.NextDueDate)
	}

	// A completed loan rejects further payments.
	if _, err := RecordPayment(got); !errors.Is(err, core.ErrLoanCompleted) {
		t.Fatalf("err = %v, want ErrLoanCompleted", err)
	}
}

// Draining a loan payment by payment completes it on the expected installment
// and the balance never increases.
func TestRecordPaymentFullLifecycle(t *testing.T) {
	loan, err := NewLoan(core.Loan{
		Name:              "Laptop",
		Principal:         core.Money{Cents: 120000},
		AnnualRatePercent: 0,
		TenureMonths:      12,
		StartDate:         core.NewDate(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prev := loan.RemainingBalance.Cents
	payments := 0
	for loan.Status == core.LoanActive {
		loan, err = RecordPayment(loan)
		if err != nil {
			t.Fatalf("payment %d: %v", payments+1, err)
		}
		if loan.RemainingBalance.Cents > prev {
			t.Fatalf("balance increased: %d -> %d", prev, loan.RemainingBalance.Cents)
		}
		prev = loan.RemainingBalance.Cents
		payments++
		if payments > 12 {
			t.Fatalf("loan did not complete within its tenure")
		}
	}
	if payments != 12 {
		t.Fatalf("completed after %d payments, want 12", payments)
	}
}

func TestAddCalendarMonth(t *testing.T) {
	cases := []struct {
		name   string
		from   core.Date
		anchor int
		want   string
	}{
		{"plain", core.NewDate(2025, 3, 15), 15, "2025-04-15"},
		{"into short month", core.NewDate(2025, 1, 31), 31, "2025-02-28"},
		{"leap february", core.NewDate(2024, 1, 31), 31, "2024-02-29"},
		{"anchor restored", core.NewDate(2025, 2, 28), 31, "2025-03-31"},
		{"year rollover", core.NewDate(2024, 12, 10), 10, "2025-01-10"},
		{"30 day anchor into february", core.NewDate(2025, 1, 30), 30, "2025-02-28"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AddCalendarMonth(tc.from, tc.anchor)
			if got.String() != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
