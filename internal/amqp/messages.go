package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds the worker understands.
const (
	KindTransactionSync   = "transaction_sync"
	KindTransactionDelete = "transaction_delete"
)

// TransactionSyncMessage tells the worker a transaction changed locally
// and needs mirroring. It carries only the id; the worker fetches the
// full row from the database.
type TransactionSyncMessage struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transactionId"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Kind:          KindTransactionSync,
		TransactionID: id,
		Timestamp:     time.Now(),
	}
}

func NewTransactionDeleteMessage(id string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Kind:          KindTransactionDelete,
		TransactionID: id,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
