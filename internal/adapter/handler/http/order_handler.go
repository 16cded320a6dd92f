package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/repository"
	"go.uber.org/zap"
)

// OrderCharger covers the charges the storefront triggers for an existing
// order.
type OrderCharger interface {
	CaptureOnCompletion(ctx context.Context, orderID string, amountOverride *decimal.Decimal) (*entity.ChargeResponse, error)
	HandleScheduledRenewal(ctx context.Context, amountDue decimal.Decimal, order *entity.OrderContext, productID string)
}

// OrderHandler serves the internal endpoints the storefront calls on order
// lifecycle events.
type OrderHandler struct {
	charges OrderCharger
	ledger  repository.OrderLedger
	logger  *zap.Logger
}

func NewOrderHandler(charges OrderCharger, ledger repository.OrderLedger, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		charges: charges,
		ledger:  ledger,
		logger:  logger,
	}
}

type CompleteOrderRequest struct {
	// Amount in minor units; the authorized amount is captured when omitted.
	Amount *decimal.Decimal `json:"amount"`
}

type CompleteOrderResponse struct {
	Captured bool   `json:"captured"`
	ChargeID string `json:"charge_id,omitempty"`
	Amount   int64  `json:"amount,omitempty"`
}

type RenewalRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
	// Amount in major units; the order's amount due is charged when omitted.
	Amount *decimal.Decimal `json:"amount"`
}

// CompleteOrder captures the order's pending authorization, if any.
func (h *OrderHandler) CompleteOrder(c echo.Context) error {
	var req CompleteOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.charges.CaptureOnCompletion(c.Request().Context(), c.Param("id"), req.Amount)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	if resp == nil {
		return c.JSON(http.StatusOK, &CompleteOrderResponse{Captured: false})
	}
	return c.JSON(http.StatusOK, &CompleteOrderResponse{
		Captured: true,
		ChargeID: resp.ID,
		Amount:   resp.Amount,
	})
}

// ChargeRenewal charges one billing period. The outcome is written to the
// ledger, so the caller only learns that the request was accepted.
func (h *OrderHandler) ChargeRenewal(c echo.Context) error {
	var req RenewalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	order, err := h.ledger.GetOrder(ctx, req.OrderID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}

	var amount decimal.Decimal
	if req.Amount != nil {
		amount = *req.Amount
	} else {
		amount, err = h.ledger.GetAmountDue(ctx, req.OrderID)
		if err != nil {
			return toHTTPError(h.logger, err)
		}
	}

	h.charges.HandleScheduledRenewal(ctx, amount, order, req.ProductID)

	return c.JSON(http.StatusAccepted, echo.Map{
		"order_id":   req.OrderID,
		"product_id": req.ProductID,
	})
}
