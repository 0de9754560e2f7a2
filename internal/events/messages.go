package events

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage announces one accepted ledger mutation on the change
// feed. It names the operation and the transaction ID only; consumers
// fetch the full row from storage.
type LedgerEventMessage struct {
	Op        string    `json:"op"` // add | delete | budget
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates a change-feed message stamped now.
func NewLedgerEventMessage(op string, id int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON decodes a change-feed message.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
