package amqp

import (
	"encoding/json"
	"time"
)

const (
	KindDonation     = "donation"
	KindDistribution = "distribution"
)

// RecordAppendedMessage announces a newly appended record. It carries only
// the kind and ID; consumers fetch the full record from the store, so the
// store stays the single source of truth.
type RecordAppendedMessage struct {
	Kind         string    `json:"kind"`
	ID           int64     `json:"id"`
	DonationType string    `json:"donationType"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewRecordAppendedMessage creates an event for a stored record.
func NewRecordAppendedMessage(kind string, id int64, donationType string) *RecordAppendedMessage {
	return &RecordAppendedMessage{
		Kind:         kind,
		ID:           id,
		DonationType: donationType,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordAppendedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordAppendedMessageFromJSON creates a message from JSON bytes
func RecordAppendedMessageFromJSON(data []byte) (*RecordAppendedMessage, error) {
	var msg RecordAppendedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
