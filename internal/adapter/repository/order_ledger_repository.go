package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderLedgerRepository implements repository.OrderLedger and
// repository.RenewalSource on the orders tables.
type OrderLedgerRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderLedgerRepository(db *gorm.DB, logger *zap.Logger) *OrderLedgerRepository {
	return &OrderLedgerRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *OrderLedgerRepository) GetOrder(ctx context.Context, orderID string) (*entity.OrderContext, error) {
	order, err := r.findOrder(r.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}
	return orderToEntity(order), nil
}

// GetAmountDue returns the order total until the order is completed and the
// recurring total of its active subscriptions afterwards.
func (r *OrderLedgerRepository) GetAmountDue(ctx context.Context, orderID string) (decimal.Decimal, error) {
	db := r.db.WithContext(ctx)
	order, err := r.findOrder(db, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	if order.Status != string(entity.OrderStatusCompleted) || !order.HasSubscription {
		return order.AmountDue, nil
	}

	var subs []model.OrderSubscription
	if err := db.Where("order_id = ? AND status = ?", orderID, model.SubscriptionStatusActive).Find(&subs).Error; err != nil {
		return decimal.Zero, err
	}
	return recurringTotal(subs), nil
}

func (r *OrderLedgerRepository) AddNote(ctx context.Context, orderID, text string) error {
	return r.db.WithContext(ctx).Create(&model.OrderNote{
		OrderID: orderID,
		Note:    text,
	}).Error
}

func (r *OrderLedgerRepository) RecordTransaction(ctx context.Context, orderID, chargeID string, captured bool) error {
	return r.updateOrder(ctx, orderID, map[string]interface{}{
		"transaction_id": chargeID,
		"captured":       captured,
	})
}

func (r *OrderLedgerRepository) MarkComplete(ctx context.Context, orderID string) error {
	return r.updateOrder(ctx, orderID, map[string]interface{}{
		"status":       string(entity.OrderStatusCompleted),
		"completed_at": r.now(),
	})
}

func (r *OrderLedgerRepository) MarkPaymentFailed(ctx context.Context, orderID string) error {
	return r.updateOrder(ctx, orderID, map[string]interface{}{
		"status": string(entity.OrderStatusFailed),
	})
}

// ActivateSubscriptions starts the billing schedule of the order's pending
// subscriptions.
func (r *OrderLedgerRepository) ActivateSubscriptions(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subs []model.OrderSubscription
		if err := tx.Where("order_id = ? AND status = ?", orderID, model.SubscriptionStatusPending).Find(&subs).Error; err != nil {
			return err
		}

		now := r.now()
		for i := range subs {
			next := nextPaymentAt(now, subs[i].IntervalMonths)
			err := tx.Model(&subs[i]).Updates(map[string]interface{}{
				"status":          model.SubscriptionStatusActive,
				"next_payment_at": next,
			}).Error
			if err != nil {
				return err
			}
		}

		r.logger.Info("Subscriptions activated",
			zap.String("order_id", orderID),
			zap.Int("count", len(subs)))
		return nil
	})
}

// MarkRenewalPaid moves the renewed subscription of the order to its next
// billing period. Other subscriptions on the same order keep their own
// schedule.
func (r *OrderLedgerRepository) MarkRenewalPaid(ctx context.Context, orderID, productID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subs []model.OrderSubscription
		if err := renewalSubscriptions(tx, orderID, productID).Find(&subs).Error; err != nil {
			return err
		}
		if len(subs) == 0 {
			r.logger.Warn("No active subscription to renew",
				zap.String("order_id", orderID),
				zap.String("product_id", productID))
			return nil
		}

		now := r.now()
		for i := range subs {
			from := now
			if subs[i].NextPaymentAt != nil {
				from = *subs[i].NextPaymentAt
			}
			err := tx.Model(&subs[i]).Updates(map[string]interface{}{
				"next_payment_at": nextPaymentAt(from, subs[i].IntervalMonths),
				"failure_count":   0,
			}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkRenewalFailed puts the subscription on hold. Whether and when to
// retry is decided outside this service.
func (r *OrderLedgerRepository) MarkRenewalFailed(ctx context.Context, orderID, productID string) error {
	result := renewalSubscriptions(r.db.WithContext(ctx), orderID, productID).
		Updates(map[string]interface{}{
			"status":         model.SubscriptionStatusOnHold,
			"failure_count":  gorm.Expr("failure_count + 1"),
			"last_failed_at": r.now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("No active subscription to put on hold",
			zap.String("order_id", orderID),
			zap.String("product_id", productID))
	}
	return nil
}

// DueRenewals lists active subscriptions whose next payment is at or
// before asOf, oldest first.
func (r *OrderLedgerRepository) DueRenewals(ctx context.Context, asOf time.Time, limit int) ([]entity.DueRenewal, error) {
	var subs []model.OrderSubscription
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_payment_at <= ?", model.SubscriptionStatusActive, asOf).
		Order("next_payment_at ASC").
		Limit(limit).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	renewals := make([]entity.DueRenewal, 0, len(subs))
	for _, sub := range subs {
		renewals = append(renewals, subscriptionToRenewal(sub))
	}
	return renewals, nil
}

// renewalSubscriptions selects the active subscription a renewal charge was
// made for.
func renewalSubscriptions(db *gorm.DB, orderID, productID string) *gorm.DB {
	return db.Model(&model.OrderSubscription{}).
		Where("order_id = ? AND product_id = ? AND status = ?", orderID, productID, model.SubscriptionStatusActive)
}

func (r *OrderLedgerRepository) findOrder(db *gorm.DB, orderID string) (*model.Order, error) {
	var order model.Order
	if err := db.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderLedgerRepository) updateOrder(ctx context.Context, orderID string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).Where("order_id = ?", orderID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func orderToEntity(m *model.Order) *entity.OrderContext {
	return &entity.OrderContext{
		OrderID:         m.OrderID,
		UserID:          m.UserID,
		HasSubscription: m.HasSubscription,
		AmountDue:       m.AmountDue,
		Capture:         m.Capture,
		TransactionID:   m.TransactionID,
		AwaitingCapture: m.TransactionID != "" && !m.Captured,
		Status:          entity.OrderStatus(m.Status),
	}
}

func subscriptionToRenewal(m model.OrderSubscription) entity.DueRenewal {
	renewal := entity.DueRenewal{
		SubscriptionID: m.ID,
		OrderID:        m.OrderID,
		ProductID:      m.ProductID,
		Amount:         m.Amount,
	}
	if m.NextPaymentAt != nil {
		renewal.DueAt = *m.NextPaymentAt
	}
	return renewal
}

func recurringTotal(subs []model.OrderSubscription) decimal.Decimal {
	total := decimal.Zero
	for _, sub := range subs {
		total = total.Add(sub.Amount)
	}
	return total
}

func nextPaymentAt(from time.Time, intervalMonths int) time.Time {
	if intervalMonths < 1 {
		intervalMonths = 1
	}
	return from.AddDate(0, intervalMonths, 0)
}
