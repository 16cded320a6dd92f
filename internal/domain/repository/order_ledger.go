package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
)

// OrderLedger is the storefront's order and subscription state.
type OrderLedger interface {
	GetOrder(ctx context.Context, orderID string) (*entity.OrderContext, error)
	GetAmountDue(ctx context.Context, orderID string) (decimal.Decimal, error)
	AddNote(ctx context.Context, orderID, text string) error
	RecordTransaction(ctx context.Context, orderID, chargeID string, captured bool) error
	MarkComplete(ctx context.Context, orderID string) error
	MarkPaymentFailed(ctx context.Context, orderID string) error
	ActivateSubscriptions(ctx context.Context, orderID string) error
	MarkRenewalPaid(ctx context.Context, orderID, productID string) error
	MarkRenewalFailed(ctx context.Context, orderID, productID string) error
}

// RenewalSource lists subscriptions whose billing period is due.
type RenewalSource interface {
	DueRenewals(ctx context.Context, asOf time.Time, limit int) ([]entity.DueRenewal, error)
}
