package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/provider"
)

type fakeProcessor struct {
	chargeErr error
}

func (f *fakeProcessor) CreateCharge(ctx context.Context, req *entity.ChargeRequest) (*entity.ChargeResponse, error) {
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	return &entity.ChargeResponse{ID: "ch_1", Amount: req.Amount, Currency: req.Currency}, nil
}

func (f *fakeProcessor) CaptureCharge(ctx context.Context, req *entity.CaptureRequest) (*entity.ChargeResponse, error) {
	return &entity.ChargeResponse{ID: req.ChargeID, Captured: true}, nil
}

func (f *fakeProcessor) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (string, error) {
	return "cus_1", nil
}

func (f *fakeProcessor) AttachCard(ctx context.Context, customerID, token string) (*entity.PaymentMethodSummary, error) {
	return &entity.PaymentMethodSummary{ID: "card_1"}, nil
}

func (f *fakeProcessor) DetachCard(ctx context.Context, customerID, paymentMethodID string) error {
	return nil
}

func (f *fakeProcessor) GetProviderName() string {
	return "fake"
}

func TestInstrumentedProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("counts successful charges", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		collectors := NewProcessorCollectors(reg, "charge", "test")
		p := NewInstrumentedProcessor(&fakeProcessor{}, collectors)

		resp, err := p.CreateCharge(ctx, &entity.ChargeRequest{Amount: 4999, Currency: "usd"})
		require.NoError(t, err)
		assert.Equal(t, "ch_1", resp.ID)

		assert.Equal(t, float64(1), testutil.ToFloat64(collectors.requests.WithLabelValues("fake", "create_charge", "success", "")))
		assert.Equal(t, float64(4999), testutil.ToFloat64(collectors.amount.WithLabelValues("usd")))
		assert.Equal(t, float64(0), testutil.ToFloat64(collectors.inFlight))
	})

	t.Run("labels errors with their code", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		collectors := NewProcessorCollectors(reg, "charge", "test")
		p := NewInstrumentedProcessor(&fakeProcessor{
			chargeErr: domainErrors.NewProcessorRequestError("create_charge", errors.New("timeout")),
		}, collectors)

		_, err := p.CreateCharge(ctx, &entity.ChargeRequest{Amount: 100, Currency: "usd"})
		require.Error(t, err)

		assert.Equal(t, float64(1), testutil.ToFloat64(collectors.requests.WithLabelValues("fake", "create_charge", "error", "PROCESSOR_ERROR")))
		assert.Equal(t, float64(0), testutil.ToFloat64(collectors.amount.WithLabelValues("usd")))
	})

	t.Run("passes other calls through", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		collectors := NewProcessorCollectors(reg, "charge", "test")
		p := NewInstrumentedProcessor(&fakeProcessor{}, collectors)

		id, err := p.CreateCustomer(ctx, &provider.CreateCustomerRequest{UserID: "7"})
		require.NoError(t, err)
		assert.Equal(t, "cus_1", id)

		_, err = p.AttachCard(ctx, "cus_1", "tok")
		require.NoError(t, err)
		require.NoError(t, p.DetachCard(ctx, "cus_1", "card_1"))
		_, err = p.CaptureCharge(ctx, &entity.CaptureRequest{ChargeID: "ch_1"})
		require.NoError(t, err)

		assert.Equal(t, "fake", p.GetProviderName())
		assert.Equal(t, 4, testutil.CollectAndCount(collectors.requests))
	})
}
