package entity

import "time"

const (
	EventChargeSucceeded = "charge.succeeded"
	EventChargeFailed    = "charge.failed"
	EventChargeCaptured  = "charge.captured"
)

// ChargeEvent is published after every charge attempt.
type ChargeEvent struct {
	Type       string     `json:"type"`
	OrderID    string     `json:"order_id"`
	UserID     string     `json:"user_id"`
	Kind       ChargeKind `json:"kind"`
	ChargeID   string     `json:"charge_id,omitempty"`
	Amount     int64      `json:"amount"`
	Currency   string     `json:"currency"`
	Reason     string     `json:"reason,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
