package usecase_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/provider"
)

// MockCustomerRecordRepository is a mock implementation of CustomerRecordRepository
type MockCustomerRecordRepository struct {
	mock.Mock
}

func (m *MockCustomerRecordRepository) GetCustomerRecord(ctx context.Context, userID string) (*entity.CustomerRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerRecord), args.Error(1)
}

func (m *MockCustomerRecordRepository) CreateCustomerRecord(ctx context.Context, record *entity.CustomerRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCustomerRecordRepository) UpdateCustomerRecord(ctx context.Context, userID string, update entity.CustomerRecordUpdate) (*entity.CustomerRecord, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerRecord), args.Error(1)
}

// MockOrderLedger is a mock implementation of OrderLedger
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

// MockProcessorClient is a mock implementation of ProcessorClient
type MockProcessorClient struct {
	mock.Mock
}

func (m *MockProcessorClient) CreateCharge(ctx context.Context, req *entity.ChargeRequest) (*entity.ChargeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChargeResponse), args.Error(1)
}

func (m *MockProcessorClient) CaptureCharge(ctx context.Context, req *entity.CaptureRequest) (*entity.ChargeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChargeResponse), args.Error(1)
}

func (m *MockProcessorClient) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockProcessorClient) AttachCard(ctx context.Context, customerID, token string) (*entity.PaymentMethodSummary, error) {
	args := m.Called(ctx, customerID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentMethodSummary), args.Error(1)
}

func (m *MockProcessorClient) DetachCard(ctx context.Context, customerID, paymentMethodID string) error {
	return m.Called(ctx, customerID, paymentMethodID).Error(0)
}

func (m *MockProcessorClient) GetProviderName() string {
	return "mock"
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	return m.Called(ctx, channel, message).Error(0)
}
