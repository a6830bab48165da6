package amqp

import (
	"encoding/json"
	"time"

	"expenses/internal/core"
)

// Event types published after the ledger is saved.
const (
	EventExpenseAdded   = "expense.added"
	EventExpenseUpdated = "expense.updated"
	EventExpenseDeleted = "expense.deleted"
)

// LedgerEvent announces a committed change to the ledger. Deletions carry
// only the id.
type LedgerEvent struct {
	Type      string        `json:"type"`
	ID        int64         `json:"id"`
	Expense   *core.Expense `json:"expense,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(eventType string, id int64, e *core.Expense) *LedgerEvent {
	return &LedgerEvent{
		Type:      eventType,
		ID:        id,
		Expense:   e,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON creates an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
