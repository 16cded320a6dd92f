package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/repository"
	"github.com/wekeepgrowing/charge-orchestrator/internal/middleware/auth"
	"github.com/wekeepgrowing/charge-orchestrator/internal/usecase"
	"go.uber.org/zap"
)

const newCardChoice = "new"

// CheckoutCharger takes the initial payment of a submitted order.
type CheckoutCharger interface {
	CompleteCheckoutCharge(ctx context.Context, order *entity.OrderContext, notices *entity.Notices) (*entity.CheckoutResult, error)
}

// CardWallet manages a user's saved cards.
type CardWallet interface {
	ListCards(ctx context.Context, userID string) (*entity.CustomerRecord, error)
	RegisterCard(ctx context.Context, userID, email, token string) (*entity.CustomerRecord, error)
	DeleteCard(ctx context.Context, userID string, index int) (*entity.CustomerRecord, error)
	SetDefaultCard(ctx context.Context, userID string, index int) (*entity.CustomerRecord, error)
}

type CheckoutHandler struct {
	charges CheckoutCharger
	wallet  CardWallet
	ledger  repository.OrderLedger
	logger  *zap.Logger
}

func NewCheckoutHandler(charges CheckoutCharger, wallet CardWallet, ledger repository.OrderLedger, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		charges: charges,
		wallet:  wallet,
		ledger:  ledger,
		logger:  logger,
	}
}

// CheckoutRequest picks the card to pay with: "new" together with a card
// token, or the index of a saved card.
type CheckoutRequest struct {
	ChosenCard string `json:"chosen_card" validate:"required"`
	Token      string `json:"token" validate:"required_if=ChosenCard new"`
	Email      string `json:"email" validate:"omitempty,email"`
}

type CardFormRequest struct {
	Number     string `json:"number"`
	Expiration string `json:"expiration"`
	CVC        string `json:"cvc"`
}

// Checkout charges the order with the chosen card.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	var req CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	orderID := c.Param("id")

	order, err := h.ledger.GetOrder(ctx, orderID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	if order.UserID != user.UserID {
		h.logger.Warn("Checkout for another user's order",
			zap.String("order_id", orderID),
			zap.String("user_id", user.UserID))
		return toHTTPError(h.logger, domainErrors.ErrOrderNotOwned)
	}
	if order.IsPaid() {
		return echo.NewHTTPError(http.StatusConflict, domainErrors.ErrOrderAlreadyPaid.Message())
	}

	notices := entity.NewNotices()
	if err := h.selectCard(c, user, &req); err != nil {
		var procErr *domainErrors.ProcessorRequestError
		if errors.As(err, &procErr) && procErr.UserMessage != "" {
			notices.AddError(procErr.UserMessage)
			return c.JSON(http.StatusPaymentRequired, &entity.CheckoutResult{
				Status:   entity.CheckoutStatusFailure,
				Messages: notices.Errors(),
			})
		}
		return toHTTPError(h.logger, err)
	}

	result, err := h.charges.CompleteCheckoutCharge(ctx, order, notices)
	if result.Status == entity.CheckoutStatusSuccess {
		return c.JSON(http.StatusOK, result)
	}

	h.logger.Info("Checkout payment failed",
		zap.String("order_id", orderID),
		zap.String("user_id", user.UserID),
		zap.Error(err))
	return c.JSON(http.StatusPaymentRequired, result)
}

func (h *CheckoutHandler) selectCard(c echo.Context, user *auth.AuthUser, req *CheckoutRequest) error {
	ctx := c.Request().Context()

	if req.ChosenCard == newCardChoice {
		email := req.Email
		if email == "" {
			email = user.Email
		}
		_, err := h.wallet.RegisterCard(ctx, user.UserID, email, req.Token)
		return err
	}

	index, err := strconv.Atoi(req.ChosenCard)
	if err != nil {
		return domainErrors.ErrCardNotFound
	}
	_, err = h.wallet.SetDefaultCard(ctx, user.UserID, index)
	return err
}

// ValidateCardForm turns client-side card field errors into checkout
// messages.
func (h *CheckoutHandler) ValidateCardForm(c echo.Context) error {
	var req CardFormRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	messages := usecase.ValidateCardForm(map[string]string{
		"number":     req.Number,
		"expiration": req.Expiration,
		"cvc":        req.CVC,
	})
	if len(messages) == 0 {
		return c.JSON(http.StatusOK, &entity.CheckoutResult{Status: entity.CheckoutStatusSuccess})
	}
	return c.JSON(http.StatusOK, &entity.CheckoutResult{
		Status:   entity.CheckoutStatusFailure,
		Messages: messages,
	})
}
