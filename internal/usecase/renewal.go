package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	"go.uber.org/zap"
)

// HandleScheduledRenewal charges one billing period of a subscription and
// reports the result to the ledger. Retry and suspension after a failure are
// up to the ledger.
func (s *ChargeService) HandleScheduledRenewal(ctx context.Context, amountDue decimal.Decimal, order *entity.OrderContext, productID string) {
	outcome, err := s.charge(ctx, order, &amountDue, entity.ChargeKindRenewal)

	if outcome.Succeeded() {
		if err := s.ledger.MarkRenewalPaid(ctx, order.OrderID, productID); err != nil {
			s.logger.Error("Failed to mark renewal paid",
				zap.String("order_id", order.OrderID),
				zap.String("product_id", productID),
				zap.String("charge_id", outcome.ChargeID),
				zap.Error(err))
		}
		return
	}

	s.logger.Warn("Renewal payment failed",
		zap.String("order_id", order.OrderID),
		zap.String("product_id", productID),
		zap.Error(err))

	if err := s.ledger.MarkRenewalFailed(ctx, order.OrderID, productID); err != nil {
		s.logger.Error("Failed to mark renewal failed",
			zap.String("order_id", order.OrderID),
			zap.String("product_id", productID),
			zap.Error(err))
	}
}
