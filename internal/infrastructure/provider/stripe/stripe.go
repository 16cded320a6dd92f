package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/provider"
	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// Config holds what the Stripe client needs. APIURL is only set to point
// the client at a stub server.
type Config struct {
	SecretKey  string
	APIURL     string
	Timeout    time.Duration
	MaxRetries int64
}

// StripeProvider implements provider.ProcessorClient with its own API
// client; the package-level stripe.Key is never set.
type StripeProvider struct {
	api    *client.API
	logger *zap.Logger
}

func NewStripeProvider(cfg Config, logger *zap.Logger) *StripeProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	backendConfig := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(cfg.MaxRetries),
		LeveledLogger:     logger.Sugar(),
	}
	if cfg.APIURL != "" {
		backendConfig.URL = stripe.String(cfg.APIURL)
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)
	api := client.New(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	})

	return &StripeProvider{
		api:    api,
		logger: logger,
	}
}

// GetProviderName returns the provider name
func (s *StripeProvider) GetProviderName() string {
	return string(provider.ProviderTypeStripe)
}

// CreateCharge charges a stored card of a customer
func (s *StripeProvider) CreateCharge(ctx context.Context, req *entity.ChargeRequest) (*entity.ChargeResponse, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Customer:    stripe.String(req.CustomerID),
		Description: stripe.String(req.Description),
		Capture:     stripe.Bool(req.Capture),
	}
	params.Context = ctx
	if err := params.SetSource(req.PaymentMethodID); err != nil {
		return nil, domainErrors.NewProcessorRequestError("create_charge", err)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Extra {
		if name, ok := strings.CutPrefix(k, entity.ExtraMetadataPrefix); ok {
			params.AddMetadata(name, v)
			continue
		}
		params.AddExtra(k, v)
	}

	ch, err := s.api.Charges.New(params)
	if err != nil {
		s.logger.Warn("Stripe charge request failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		return nil, toProcessorError("create_charge", err)
	}

	return chargeToResponse(ch), nil
}

// CaptureCharge captures an authorized charge
func (s *StripeProvider) CaptureCharge(ctx context.Context, req *entity.CaptureRequest) (*entity.ChargeResponse, error) {
	params := &stripe.ChargeCaptureParams{}
	params.Context = ctx
	if req.Amount != nil {
		params.Amount = stripe.Int64(*req.Amount)
	}

	ch, err := s.api.Charges.Capture(req.ChargeID, params)
	if err != nil {
		s.logger.Warn("Stripe capture request failed",
			zap.String("charge_id", req.ChargeID),
			zap.Error(err))
		return nil, toProcessorError("capture_charge", err)
	}

	return chargeToResponse(ch), nil
}

// CreateCustomer registers a Stripe customer for a storefront user
func (s *StripeProvider) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (string, error) {
	params := &stripe.CustomerParams{
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	params.AddMetadata("user_id", req.UserID)

	cus, err := s.api.Customers.New(params)
	if err != nil {
		return "", toProcessorError("create_customer", err)
	}
	return cus.ID, nil
}

// AttachCard stores a card token on the customer
func (s *StripeProvider) AttachCard(ctx context.Context, customerID, token string) (*entity.PaymentMethodSummary, error) {
	params := &stripe.CardParams{
		Customer: stripe.String(customerID),
		Token:    stripe.String(token),
	}
	params.Context = ctx

	card, err := s.api.Cards.New(params)
	if err != nil {
		return nil, toProcessorError("attach_card", err)
	}

	return &entity.PaymentMethodSummary{
		ID:       card.ID,
		Last4:    card.Last4,
		ExpMonth: int(card.ExpMonth),
		ExpYear:  int(card.ExpYear),
		Brand:    string(card.Brand),
	}, nil
}

// DetachCard deletes a stored card from the customer
func (s *StripeProvider) DetachCard(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CardParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	if _, err := s.api.Cards.Del(paymentMethodID, params); err != nil {
		return toProcessorError("detach_card", err)
	}
	return nil
}

func chargeToResponse(ch *stripe.Charge) *entity.ChargeResponse {
	resp := &entity.ChargeResponse{
		ID:       ch.ID,
		Amount:   ch.Amount,
		Currency: string(ch.Currency),
		Captured: ch.Captured,
		Paid:     ch.Paid,
		Status:   string(ch.Status),
	}
	if ch.LastResponse != nil && len(ch.LastResponse.RawJSON) > 0 {
		var raw map[string]interface{}
		if err := json.Unmarshal(ch.LastResponse.RawJSON, &raw); err == nil {
			resp.Raw = raw
		}
	}
	return resp
}

// toProcessorError maps Stripe errors; only card errors carry a message
// meant for the customer.
func toProcessorError(op string, err error) error {
	procErr := domainErrors.NewProcessorRequestError(op, err)

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		procErr.ProcessorErrorCode = string(stripeErr.Code)
		procErr.HTTPStatus = stripeErr.HTTPStatusCode
		if stripeErr.Type == stripe.ErrorTypeCard {
			procErr.UserMessage = stripeErr.Msg
		}
	}
	return procErr
}
