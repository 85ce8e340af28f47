package amqp

import (
	"encoding/json"
	"time"
)

// SaleExportMessage is the lightweight message published after a sale
// is recorded. It carries only the sale id; the worker fetches the
// full joined row from the database before exporting.
type SaleExportMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSaleExportMessage(id int64) *SaleExportMessage {
	return &SaleExportMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *SaleExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SaleExportMessageFromJSON(data []byte) (*SaleExportMessage, error) {
	var msg SaleExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
