package http_test

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	handler "github.com/wekeepgrowing/charge-orchestrator/internal/adapter/handler/http"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	"github.com/wekeepgrowing/charge-orchestrator/internal/middleware/auth"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret"

type MockCheckoutCharger struct {
	mock.Mock
}

func (m *MockCheckoutCharger) CompleteCheckoutCharge(ctx context.Context, order *entity.OrderContext, notices *entity.Notices) (*entity.CheckoutResult, error) {
	args := m.Called(ctx, order, notices)
	return args.Get(0).(*entity.CheckoutResult), args.Error(1)
}

type MockCardWallet struct {
	mock.Mock
}

func (m *MockCardWallet) ListCards(ctx context.Context, userID string) (*entity.CustomerRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerRecord), args.Error(1)
}

func (m *MockCardWallet) RegisterCard(ctx context.Context, userID, email, token string) (*entity.CustomerRecord, error) {
	args := m.Called(ctx, userID, email, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerRecord), args.Error(1)
}

func (m *MockCardWallet) DeleteCard(ctx context.Context, userID string, index int) (*entity.CustomerRecord, error) {
	args := m.Called(ctx, userID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerRecord), args.Error(1)
}

func (m *MockCardWallet) SetDefaultCard(ctx context.Context, userID string, index int) (*entity.CustomerRecord, error) {
	args := m.Called(ctx, userID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerRecord), args.Error(1)
}

type MockOrderCharger struct {
	mock.Mock
}

func (m *MockOrderCharger) CaptureOnCompletion(ctx context.Context, orderID string, amountOverride *decimal.Decimal) (*entity.ChargeResponse, error) {
	args := m.Called(ctx, orderID, amountOverride)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChargeResponse), args.Error(1)
}

func (m *MockOrderCharger) HandleScheduledRenewal(ctx context.Context, amountDue decimal.Decimal, order *entity.OrderContext, productID string) {
	m.Called(ctx, amountDue, order, productID)
}

type MockOrderLedger struct {
	mock.Mock
}

func (m *MockOrderLedger) GetOrder(ctx context.Context, orderID string) (*entity.OrderContext, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OrderContext), args.Error(1)
}

func (m *MockOrderLedger) GetAmountDue(ctx context.Context, orderID string) (decimal.Decimal, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderLedger) AddNote(ctx context.Context, orderID, text string) error {
	return m.Called(ctx, orderID, text).Error(0)
}

func (m *MockOrderLedger) RecordTransaction(ctx context.Context, orderID, chargeID string, captured bool) error {
	return m.Called(ctx, orderID, chargeID, captured).Error(0)
}

func (m *MockOrderLedger) MarkComplete(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockOrderLedger) MarkPaymentFailed(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockOrderLedger) ActivateSubscriptions(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockOrderLedger) MarkRenewalPaid(ctx context.Context, orderID, productID string) error {
	return m.Called(ctx, orderID, productID).Error(0)
}

func (m *MockOrderLedger) MarkRenewalFailed(ctx context.Context, orderID, productID string) error {
	return m.Called(ctx, orderID, productID).Error(0)
}

// newTestEcho builds an echo instance with the validator and JWT middleware
// the server installs.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	e.Use(auth.JWTMiddleware(auth.JWTConfig{
		Secret:    testJWTSecret,
		Logger:    zap.NewNop(),
		SkipPaths: []string{"/api/v1/internal", "/api/v1/checkout/validation"},
	}))
	return e
}

func bearer(userID, email string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		panic(err)
	}
	return "Bearer " + signed
}
