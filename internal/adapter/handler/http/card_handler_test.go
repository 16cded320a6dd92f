package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	handler "github.com/wekeepgrowing/charge-orchestrator/internal/adapter/handler/http"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"go.uber.org/zap"
)

func newCardEcho(wallet *MockCardWallet) *echo.Echo {
	h := handler.NewCardHandler(wallet, zap.NewNop())
	e := newTestEcho()
	e.GET("/api/v1/cards", h.ListCards)
	e.POST("/api/v1/cards", h.RegisterCard)
	e.DELETE("/api/v1/cards/:index", h.DeleteCard)
	e.PUT("/api/v1/cards/default", h.SetDefaultCard)
	return e
}

func authed(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer("user-1", "a@example.com"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func walletRecord() *entity.CustomerRecord {
	return &entity.CustomerRecord{
		UserID:                 "user-1",
		Mode:                   "test",
		CustomerID:             "cus_secret",
		DefaultPaymentMethodID: "card_1",
		PaymentMethods: []entity.PaymentMethodSummary{
			{ID: "card_1", Last4: "4242", ExpMonth: 12, ExpYear: 2030, Brand: "Visa"},
		},
	}
}

func TestListCards_HidesCustomerID(t *testing.T) {
	wallet := new(MockCardWallet)
	e := newCardEcho(wallet)

	wallet.On("ListCards", mock.Anything, "user-1").Return(walletRecord(), nil)

	rec := authed(e, http.MethodGet, "/api/v1/cards", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "cus_secret")
	var resp handler.WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "card_1", resp.DefaultCardID)
	require.Len(t, resp.PaymentMethods, 1)
	assert.Equal(t, "4242", resp.PaymentMethods[0].Last4)
}

func TestListCards_EmptyWallet(t *testing.T) {
	wallet := new(MockCardWallet)
	e := newCardEcho(wallet)

	wallet.On("ListCards", mock.Anything, "user-1").Return(&entity.CustomerRecord{Mode: "live"}, nil)

	rec := authed(e, http.MethodGet, "/api/v1/cards", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mode":"live","payment_methods":[]}`, rec.Body.String())
}

func TestRegisterCard_DefaultsToTokenEmail(t *testing.T) {
	wallet := new(MockCardWallet)
	e := newCardEcho(wallet)

	wallet.On("RegisterCard", mock.Anything, "user-1", "a@example.com", "tok_visa").Return(walletRecord(), nil)

	rec := authed(e, http.MethodPost, "/api/v1/cards", `{"token":"tok_visa"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	wallet.AssertExpectations(t)
}

func TestRegisterCard_Validation(t *testing.T) {
	wallet := new(MockCardWallet)
	e := newCardEcho(wallet)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing token", body: `{}`},
		{name: "bad email", body: `{"token":"tok_visa","email":"not-an-email"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := authed(e, http.MethodPost, "/api/v1/cards", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	wallet.AssertNotCalled(t, "RegisterCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteCard(t *testing.T) {
	wallet := new(MockCardWallet)
	e := newCardEcho(wallet)

	wallet.On("DeleteCard", mock.Anything, "user-1", 0).Return(&entity.CustomerRecord{Mode: "test"}, nil)
	wallet.On("DeleteCard", mock.Anything, "user-1", 5).Return(nil, domainErrors.ErrCardNotFound)

	assert.Equal(t, http.StatusOK, authed(e, http.MethodDelete, "/api/v1/cards/0", "").Code)
	assert.Equal(t, http.StatusBadRequest, authed(e, http.MethodDelete, "/api/v1/cards/5", "").Code)
	assert.Equal(t, http.StatusBadRequest, authed(e, http.MethodDelete, "/api/v1/cards/first", "").Code)
}

func TestSetDefaultCard(t *testing.T) {
	wallet := new(MockCardWallet)
	e := newCardEcho(wallet)

	wallet.On("SetDefaultCard", mock.Anything, "user-1", 0).Return(walletRecord(), nil)

	rec := authed(e, http.MethodPut, "/api/v1/cards/default", `{"index":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = authed(e, http.MethodPut, "/api/v1/cards/default", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	wallet.AssertNumberOfCalls(t, "SetDefaultCard", 1)
}
