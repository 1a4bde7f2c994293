package models

import "time"

// PaymentEvent is published to Kafka on every payment state transition.
type PaymentEvent struct {
	Type      string    `json:"type"` // e.g. "payment_completed", "payment_refunded"
	PaymentID string    `json:"payment_id"`
	OrderID   string    `json:"order_id"`
	State     string    `json:"state"`
	Amount    string    `json:"amount"` // fixed-point decimal string
	Currency  string    `json:"currency"`
	RemoteID  string    `json:"remote_id,omitempty"`
	Timestamp time.Time `json:"timestamp"` // UTC event time
}
