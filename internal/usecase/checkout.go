package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"go.uber.org/zap"
)

// GenericSubscriptionPaymentError is queued when a subscription checkout
// fails and nothing more specific was reported.
const GenericSubscriptionPaymentError = "Transaction Error: Could not complete your subscription payment."

// OneOffCharger completes the checkout of an order without subscriptions.
type OneOffCharger interface {
	ProcessPayment(ctx context.Context, order *entity.OrderContext, notices *entity.Notices) (*entity.CheckoutResult, error)
}

// CompleteCheckoutCharge takes the initial payment for a submitted order.
//
// The returned result is always set. On failure the charge error is
// returned as well and the user-facing messages are queued on notices.
func (s *ChargeService) CompleteCheckoutCharge(ctx context.Context, order *entity.OrderContext, notices *entity.Notices) (*entity.CheckoutResult, error) {
	// A repeated submit must not charge twice; the ledger is left untouched.
	if order.IsPaid() {
		s.logger.Warn("Checkout for an order that is already paid",
			zap.String("order_id", order.OrderID),
			zap.String("status", string(order.Status)),
			zap.String("transaction_id", order.TransactionID))
		return &entity.CheckoutResult{
			Status:   entity.CheckoutStatusFailure,
			Messages: notices.Errors(),
		}, domainErrors.ErrOrderAlreadyPaid
	}

	if !order.HasSubscription {
		return s.oneOff.ProcessPayment(ctx, order, notices)
	}

	outcome, err := s.ChargeForOrder(ctx, order, nil)
	if outcome.Succeeded() {
		if err := s.ledger.MarkComplete(ctx, order.OrderID); err != nil {
			s.logger.Error("Failed to mark order complete",
				zap.String("order_id", order.OrderID),
				zap.Error(err))
		}
		if err := s.ledger.ActivateSubscriptions(ctx, order.OrderID); err != nil {
			s.logger.Error("Failed to activate subscriptions",
				zap.String("order_id", order.OrderID),
				zap.Error(err))
		}
		return &entity.CheckoutResult{
			Status:      entity.CheckoutStatusSuccess,
			RedirectURL: s.orderReceivedURL(order.OrderID),
		}, nil
	}

	if markErr := s.ledger.MarkPaymentFailed(ctx, order.OrderID); markErr != nil {
		s.logger.Error("Failed to mark payment failed",
			zap.String("order_id", order.OrderID),
			zap.Error(markErr))
	}

	var procErr *domainErrors.ProcessorRequestError
	if errors.As(err, &procErr) && procErr.UserMessage != "" {
		notices.AddError(procErr.UserMessage)
	}
	if notices.ErrorCount() == 0 {
		notices.AddError(GenericSubscriptionPaymentError)
	}

	return &entity.CheckoutResult{
		Status:   entity.CheckoutStatusFailure,
		Messages: notices.Errors(),
	}, err
}

func (s *ChargeService) orderReceivedURL(orderID string) string {
	return strings.TrimRight(s.config.ClientURL, "/") + "/checkout/order-received/" + orderID
}
