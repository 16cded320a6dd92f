package usecase

import (
	"context"
	"errors"

	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/repository"
	"go.uber.org/zap"
)

const genericPaymentError = "Transaction Error: Could not complete your payment."

// SingleChargeService charges the full total of an order that carries no
// subscriptions.
type SingleChargeService struct {
	charges *ChargeService
	ledger  repository.OrderLedger
	logger  *zap.Logger
}

func NewSingleChargeService(charges *ChargeService, ledger repository.OrderLedger, logger *zap.Logger) *SingleChargeService {
	return &SingleChargeService{
		charges: charges,
		ledger:  ledger,
		logger:  logger,
	}
}

func (s *SingleChargeService) ProcessPayment(ctx context.Context, order *entity.OrderContext, notices *entity.Notices) (*entity.CheckoutResult, error) {
	outcome, err := s.charges.charge(ctx, order, nil, entity.ChargeKindOrder)
	if outcome.Succeeded() {
		if err := s.ledger.MarkComplete(ctx, order.OrderID); err != nil {
			s.logger.Error("Failed to mark order complete",
				zap.String("order_id", order.OrderID),
				zap.Error(err))
		}
		return &entity.CheckoutResult{
			Status:      entity.CheckoutStatusSuccess,
			RedirectURL: s.charges.orderReceivedURL(order.OrderID),
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
		notices.AddError(genericPaymentError)
	}

	return &entity.CheckoutResult{
		Status:   entity.CheckoutStatusFailure,
		Messages: notices.Errors(),
	}, err
}
