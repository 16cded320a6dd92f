package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

// OrderContext is the read-only view of an order the charge flow works from.
type OrderContext struct {
	OrderID         string          `json:"order_id"`
	UserID          string          `json:"user_id"`
	HasSubscription bool            `json:"has_subscription"`
	AmountDue       decimal.Decimal `json:"amount_due"` // major currency units
	Capture         bool            `json:"capture"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	Status          OrderStatus     `json:"status"`

	// AwaitingCapture is set while the recorded transaction is an
	// authorization that has not been captured.
	AwaitingCapture bool `json:"awaiting_capture"`
}

// IsPaid reports whether the order was already charged, either completed or
// holding a recorded transaction.
func (o *OrderContext) IsPaid() bool {
	return o.Status == OrderStatusCompleted || o.TransactionID != ""
}

// ChargeKind returns the kind of the initial charge for the order.
func (o *OrderContext) ChargeKind() ChargeKind {
	if o.HasSubscription {
		return ChargeKindSubscription
	}
	return ChargeKindOrder
}

// DueRenewal is a subscription whose next billing period is due.
type DueRenewal struct {
	SubscriptionID int64           `json:"subscription_id"`
	OrderID        string          `json:"order_id"`
	ProductID      string          `json:"product_id"`
	Amount         decimal.Decimal `json:"amount"`
	DueAt          time.Time       `json:"due_at"`
}

type CheckoutStatus string

const (
	CheckoutStatusSuccess CheckoutStatus = "success"
	CheckoutStatusFailure CheckoutStatus = "failure"
)

// CheckoutResult is returned to the checkout caller.
type CheckoutResult struct {
	Status      CheckoutStatus `json:"result"`
	RedirectURL string         `json:"redirect,omitempty"`
	Messages    []string       `json:"messages,omitempty"`
}
