package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the storefront order as far as payment is concerned.
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         string          `gorm:"column:order_id;not null;size:64;uniqueIndex" json:"order_id"`
	UserID          string          `gorm:"column:user_id;size:100;index" json:"user_id"`
	HasSubscription bool            `gorm:"not null;default:false" json:"has_subscription"`
	AmountDue       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount_due"`
	Capture         bool            `gorm:"not null" json:"capture"`
	TransactionID   string          `gorm:"size:100" json:"transaction_id,omitempty"`
	Captured        bool            `gorm:"not null;default:false" json:"captured"`
	Status          string          `gorm:"not null;size:20;default:'pending';index" json:"status"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"default:now()" json:"updated_at"`

	Notes         []OrderNote         `gorm:"foreignKey:OrderID;references:OrderID" json:"notes,omitempty"`
	Subscriptions []OrderSubscription `gorm:"foreignKey:OrderID;references:OrderID" json:"subscriptions,omitempty"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderNote is a free-text entry in an order's history.
type OrderNote struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   string    `gorm:"column:order_id;not null;size:64;index" json:"order_id"`
	Note      string    `gorm:"type:text;not null" json:"note"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (OrderNote) TableName() string {
	return "order_notes"
}

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusOnHold    = "on-hold"
	SubscriptionStatusCancelled = "cancelled"
)

// OrderSubscription is a subscription product bought with an order.
type OrderSubscription struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID        string          `gorm:"column:order_id;not null;size:64;index" json:"order_id"`
	ProductID      string          `gorm:"column:product_id;not null;size:64" json:"product_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	IntervalMonths int             `gorm:"not null;default:1" json:"interval_months"`
	Status         string          `gorm:"not null;size:20;default:'pending'" json:"status"`
	NextPaymentAt  *time.Time      `gorm:"index:idx_order_subscriptions_due" json:"next_payment_at,omitempty"`
	FailureCount   int             `gorm:"not null;default:0" json:"failure_count"`
	LastFailedAt   *time.Time      `json:"last_failed_at,omitempty"`
	CreatedAt      time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (OrderSubscription) TableName() string {
	return "order_subscriptions"
}
