package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	handler "github.com/wekeepgrowing/charge-orchestrator/internal/adapter/handler/http"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	charger *MockCheckoutCharger
	wallet  *MockCardWallet
	ledger  *MockOrderLedger
	serve   func(body, authHeader string) *httptest.ResponseRecorder
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		charger: new(MockCheckoutCharger),
		wallet:  new(MockCardWallet),
		ledger:  new(MockOrderLedger),
	}
	h := handler.NewCheckoutHandler(f.charger, f.wallet, f.ledger, zap.NewNop())

	e := newTestEcho()
	e.POST("/api/v1/orders/:id/checkout", h.Checkout)

	f.serve = func(body, authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/1001/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}
	return f
}

func ownOrder() *entity.OrderContext {
	return &entity.OrderContext{
		OrderID:         "1001",
		UserID:          "user-1",
		HasSubscription: true,
		AmountDue:       decimal.RequireFromString("49.99"),
		Capture:         true,
	}
}

func TestCheckout_SavedCard(t *testing.T) {
	f := newCheckoutFixture()
	order := ownOrder()

	f.ledger.On("GetOrder", mock.Anything, "1001").Return(order, nil)
	f.wallet.On("SetDefaultCard", mock.Anything, "user-1", 1).Return(&entity.CustomerRecord{}, nil)
	f.charger.On("CompleteCheckoutCharge", mock.Anything, order, mock.AnythingOfType("*entity.Notices")).
		Return(&entity.CheckoutResult{
			Status:      entity.CheckoutStatusSuccess,
			RedirectURL: "https://shop.example.com/checkout/order-received/1001",
		}, nil)

	rec := f.serve(`{"chosen_card":"1"}`, bearer("user-1", "a@example.com"))

	require.Equal(t, http.StatusOK, rec.Code)
	var result entity.CheckoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, entity.CheckoutStatusSuccess, result.Status)
	assert.Equal(t, "https://shop.example.com/checkout/order-received/1001", result.RedirectURL)
	f.wallet.AssertExpectations(t)
	f.charger.AssertExpectations(t)
}

func TestCheckout_NewCardUsesTokenEmail(t *testing.T) {
	f := newCheckoutFixture()
	order := ownOrder()

	f.ledger.On("GetOrder", mock.Anything, "1001").Return(order, nil)
	f.wallet.On("RegisterCard", mock.Anything, "user-1", "a@example.com", "tok_visa").Return(&entity.CustomerRecord{}, nil)
	f.charger.On("CompleteCheckoutCharge", mock.Anything, order, mock.Anything).
		Return(&entity.CheckoutResult{Status: entity.CheckoutStatusSuccess}, nil)

	rec := f.serve(`{"chosen_card":"new","token":"tok_visa"}`, bearer("user-1", "a@example.com"))

	assert.Equal(t, http.StatusOK, rec.Code)
	f.wallet.AssertExpectations(t)
}

func TestCheckout_NewCardWithoutToken(t *testing.T) {
	f := newCheckoutFixture()

	rec := f.serve(`{"chosen_card":"new"}`, bearer("user-1", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.ledger.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}

func TestCheckout_PaymentFailed(t *testing.T) {
	f := newCheckoutFixture()
	order := ownOrder()
	decline := &domainErrors.ProcessorRequestError{Op: "create_charge", UserMessage: "Your card was declined."}

	f.ledger.On("GetOrder", mock.Anything, "1001").Return(order, nil)
	f.wallet.On("SetDefaultCard", mock.Anything, "user-1", 0).Return(&entity.CustomerRecord{}, nil)
	f.charger.On("CompleteCheckoutCharge", mock.Anything, order, mock.Anything).
		Return(&entity.CheckoutResult{
			Status:   entity.CheckoutStatusFailure,
			Messages: []string{"Your card was declined."},
		}, decline)

	rec := f.serve(`{"chosen_card":"0"}`, bearer("user-1", ""))

	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	var result entity.CheckoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, entity.CheckoutStatusFailure, result.Status)
	assert.Equal(t, []string{"Your card was declined."}, result.Messages)
}

func TestCheckout_CardRejectedOnRegistration(t *testing.T) {
	f := newCheckoutFixture()
	decline := &domainErrors.ProcessorRequestError{Op: "attach_card", UserMessage: "Your card's security code is incorrect."}

	f.ledger.On("GetOrder", mock.Anything, "1001").Return(ownOrder(), nil)
	f.wallet.On("RegisterCard", mock.Anything, "user-1", "a@example.com", "tok_bad").Return(nil, decline)

	rec := f.serve(`{"chosen_card":"new","token":"tok_bad"}`, bearer("user-1", "a@example.com"))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "security code is incorrect")
	f.charger.AssertNotCalled(t, "CompleteCheckoutCharge", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_UnknownSavedCard(t *testing.T) {
	f := newCheckoutFixture()

	f.ledger.On("GetOrder", mock.Anything, "1001").Return(ownOrder(), nil)
	f.wallet.On("SetDefaultCard", mock.Anything, "user-1", 7).Return(nil, domainErrors.ErrCardNotFound)

	rec := f.serve(`{"chosen_card":"7"}`, bearer("user-1", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.charger.AssertNotCalled(t, "CompleteCheckoutCharge", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_ForeignOrder(t *testing.T) {
	f := newCheckoutFixture()

	f.ledger.On("GetOrder", mock.Anything, "1001").Return(ownOrder(), nil)

	rec := f.serve(`{"chosen_card":"0"}`, bearer("user-2", ""))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.wallet.AssertNotCalled(t, "SetDefaultCard", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_AlreadyPaidOrder(t *testing.T) {
	f := newCheckoutFixture()
	order := ownOrder()
	order.Status = entity.OrderStatusCompleted
	order.TransactionID = "ch_first"

	f.ledger.On("GetOrder", mock.Anything, "1001").Return(order, nil)

	rec := f.serve(`{"chosen_card":"new","token":"tok_visa"}`, bearer("user-1", "a@example.com"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	f.wallet.AssertNotCalled(t, "RegisterCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.charger.AssertNotCalled(t, "CompleteCheckoutCharge", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_OrderNotFound(t *testing.T) {
	f := newCheckoutFixture()

	f.ledger.On("GetOrder", mock.Anything, "1001").Return(nil, domainErrors.ErrOrderNotFound)

	rec := f.serve(`{"chosen_card":"0"}`, bearer("user-1", ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_RequiresToken(t *testing.T) {
	f := newCheckoutFixture()

	rec := f.serve(`{"chosen_card":"0"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateCardForm(t *testing.T) {
	e := newTestEcho()
	h := handler.NewCheckoutHandler(new(MockCheckoutCharger), new(MockCardWallet), new(MockOrderLedger), zap.NewNop())
	e.POST("/api/v1/checkout/validation", h.ValidateCardForm)

	tests := []struct {
		name     string
		body     string
		status   entity.CheckoutStatus
		messages []string
	}{
		{
			name:   "no errors",
			body:   `{}`,
			status: entity.CheckoutStatusSuccess,
		},
		{
			name:     "invalid number and missing cvc",
			body:     `{"number":"invalid","cvc":"undefined"}`,
			status:   entity.CheckoutStatusFailure,
			messages: []string{"Please enter a valid Credit Card Number.", "Credit Card CVC is a required field."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validation", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			var result entity.CheckoutResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.messages, result.Messages)
		})
	}
}
