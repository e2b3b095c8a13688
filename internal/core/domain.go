package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

const (
	LoanActive    LoanStatus = "active"
	LoanCompleted LoanStatus = "completed"
)

// IncomeCategoryName is reserved: the category exists so income transactions
// can be tagged, but it never carries a budget and the budget monitor skips it.
const IncomeCategoryName = "Income"

type (
	TransactionType string

	LoanStatus string

	// Date is a calendar date with day precision, stored in UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		CategoryID  string          `json:"categoryId"`
		Category    string          `json:"category"` // denormalized name, survives category deletion
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		Icon        string          `json:"icon"`
	}

	Category struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Budget Money  `json:"budget"` // zero means no budget set
		Icon   string `json:"icon"`
		Color  string `json:"color"`
	}

	Goal struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Target Money  `json:"target"`
		Saved  Money  `json:"saved"`
		Date   Date   `json:"date"` // target completion date
	}

	Loan struct {
		ID                string     `json:"id"`
		Name              string     `json:"name"`
		Principal         Money      `json:"principalAmount"`
		AnnualRatePercent float64    `json:"interestRate"`
		TenureMonths      int        `json:"tenureMonths"`
		EMIAmount         Money      `json:"emiAmount"`
		RemainingBalance  Money      `json:"remainingBalance"`
		StartDate         Date       `json:"startDate"`
		NextDueDate       Date       `json:"nextDueDate"`
		Status            LoanStatus `json:"status"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTenure    = errors.New("tenure must be a positive number of months")
	ErrInvalidRate      = errors.New("interest rate must be non-negative")
	ErrEmptyName        = errors.New("empty name")
	ErrReservedCategory = errors.New("category name is reserved")
	ErrNotFound         = errors.New("not found")
	ErrLoanCompleted    = errors.New("loan already completed")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// InPeriod reports whether the date falls in the given calendar year and month.
func (d Date) InPeriod(year, month int) bool {
	return d.Year() == year && d.Month() == month
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case TypeIncome, TypeExpense:
		return nil
	}
	return ErrInvalidType
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Budget.Cents < 0 {
		return ErrInvalidAmount
	}
	if c.Name == IncomeCategoryName && c.Budget.Cents != 0 {
		return ErrReservedCategory
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.Saved.Cents < 0 || g.Saved.Cents > g.Target.Cents {
		return ErrInvalidAmount
	}
	if err := g.Date.Validate(); err != nil {
		return err
	}
	return nil
}

// Add returns the goal with amount added to the saved total, clamped at the
// target. The increment must be positive; persisting the result is the
// caller's job.
func (g Goal) Add(amount Money) (Goal, error) {
	if amount.Cents <= 0 {
		return Goal{}, ErrInvalidAmount
	}
	g.Saved.Cents += amount.Cents
	if g.Saved.Cents > g.Target.Cents {
		g.Saved = g.Target
	}
	return g, nil
}

func (l Loan) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if l.Principal.Cents <= 0 {
		return ErrInvalidAmount
	}
	if l.AnnualRatePercent < 0 {
		return ErrInvalidRate
	}
	if l.TenureMonths <= 0 {
		return ErrInvalidTenure
	}
	if err := l.StartDate.Validate(); err != nil {
		return err
	}
	return nil
}
