package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"go.uber.org/zap"
)

// CaptureOnCompletion captures a pending authorization when an order is
// completed. amountOverride is already in minor units and is rounded; nil
// captures the authorized amount. It returns nil, nil when there is nothing
// to capture.
func (s *ChargeService) CaptureOnCompletion(ctx context.Context, orderID string, amountOverride *decimal.Decimal) (*entity.ChargeResponse, error) {
	order, err := s.ledger.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.AwaitingCapture {
		return nil, nil
	}
	if order.TransactionID == "" {
		return nil, domainErrors.NewLedgerInconsistencyError(orderID, "authorization has no transaction id")
	}

	req := &entity.CaptureRequest{ChargeID: order.TransactionID}
	if amountOverride != nil {
		if amountOverride.IsNegative() {
			return nil, domainErrors.NewInvalidAmountError(*amountOverride)
		}
		amount := amountOverride.Round(0).IntPart()
		req.Amount = &amount
	}

	resp, err := s.processor.CaptureCharge(ctx, req)
	if err != nil {
		var procErr *domainErrors.ProcessorRequestError
		if !errors.As(err, &procErr) {
			err = domainErrors.NewProcessorRequestError("capture_charge", err)
		}
		s.logger.Warn("Capture failed",
			zap.String("order_id", orderID),
			zap.String("charge_id", order.TransactionID),
			zap.Error(err))
		return nil, err
	}

	if err := s.ledger.AddNote(ctx, orderID, fmt.Sprintf("Charge captured (%s)", resp.ID)); err != nil {
		s.logger.Error("Failed to add capture note",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
	if err := s.ledger.RecordTransaction(ctx, orderID, resp.ID, true); err != nil {
		s.logger.Error("Failed to record capture",
			zap.String("order_id", orderID),
			zap.Error(err))
	}

	s.logger.Info("Charge captured",
		zap.String("order_id", orderID),
		zap.String("charge_id", resp.ID),
		zap.Int64("amount", resp.Amount))

	s.publish(ctx, &entity.ChargeEvent{
		Type:     entity.EventChargeCaptured,
		OrderID:  orderID,
		UserID:   order.UserID,
		Kind:     order.ChargeKind(),
		ChargeID: resp.ID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
	})

	return resp, nil
}
