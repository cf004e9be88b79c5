package amqp

import (
	"encoding/json"
	"time"
)

// TransactionExportMessage asks the worker to mirror one transaction to
// the external ledger. It carries only the ID; the worker fetches the
// full record from the store.
type TransactionExportMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionExportMessage(id int64) *TransactionExportMessage {
	return &TransactionExportMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func TransactionExportMessageFromJSON(data []byte) (*TransactionExportMessage, error) {
	var msg TransactionExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
