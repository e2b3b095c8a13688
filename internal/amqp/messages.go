package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/engine"
)

// BudgetAlertMessage carries one budget-monitor classification worth
// surfacing (near-limit or over-limit) to the notifier worker. Amounts are
// cents; Delta is the amount over when over-limit, the amount remaining when
// near-limit.
type BudgetAlertMessage struct {
	UserID     string    `json:"userId"`
	CategoryID string    `json:"categoryId"`
	Category   string    `json:"category"`
	State      string    `json:"state"`
	SpentCents int64     `json:"spentCents"`
	LimitCents int64     `json:"limitCents"`
	DeltaCents int64     `json:"deltaCents"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage converts a monitor status into a queue message.
func NewBudgetAlertMessage(userID string, year, month int, st engine.BudgetStatus) *BudgetAlertMessage {
	msg := &BudgetAlertMessage{
		UserID:     userID,
		CategoryID: st.CategoryID,
		Category:   st.Category,
		State:      string(st.State),
		SpentCents: st.Spent.Cents,
		LimitCents: st.Budget.Cents,
		Year:       year,
		Month:      month,
		Timestamp:  time.Now(),
	}
	switch st.State {
	case engine.BudgetOver:
		msg.DeltaCents = st.Over.Cents
	case engine.BudgetNear:
		msg.DeltaCents = st.Remaining.Cents
	}
	return msg
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
