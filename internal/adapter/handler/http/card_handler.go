package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	"github.com/wekeepgrowing/charge-orchestrator/internal/middleware/auth"
	"go.uber.org/zap"
)

type CardHandler struct {
	wallet CardWallet
	logger *zap.Logger
}

func NewCardHandler(wallet CardWallet, logger *zap.Logger) *CardHandler {
	return &CardHandler{
		wallet: wallet,
		logger: logger,
	}
}

type RegisterCardRequest struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

type SetDefaultCardRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

// WalletResponse never carries the processor customer id.
type WalletResponse struct {
	Mode           string                        `json:"mode"`
	DefaultCardID  string                        `json:"default_card_id,omitempty"`
	PaymentMethods []entity.PaymentMethodSummary `json:"payment_methods"`
}

func toWalletResponse(record *entity.CustomerRecord) *WalletResponse {
	methods := record.PaymentMethods
	if methods == nil {
		methods = []entity.PaymentMethodSummary{}
	}
	return &WalletResponse{
		Mode:           record.Mode,
		DefaultCardID:  record.DefaultPaymentMethodID,
		PaymentMethods: methods,
	}
}

func (h *CardHandler) ListCards(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	record, err := h.wallet.ListCards(c.Request().Context(), user.UserID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(http.StatusOK, toWalletResponse(record))
}

func (h *CardHandler) RegisterCard(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	var req RegisterCardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	email := req.Email
	if email == "" {
		email = user.Email
	}

	record, err := h.wallet.RegisterCard(c.Request().Context(), user.UserID, email, req.Token)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(http.StatusCreated, toWalletResponse(record))
}

func (h *CardHandler) DeleteCard(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid card index")
	}

	record, err := h.wallet.DeleteCard(c.Request().Context(), user.UserID, index)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(http.StatusOK, toWalletResponse(record))
}

func (h *CardHandler) SetDefaultCard(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		return err
	}

	var req SetDefaultCardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	record, err := h.wallet.SetDefaultCard(c.Request().Context(), user.UserID, *req.Index)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(http.StatusOK, toWalletResponse(record))
}
