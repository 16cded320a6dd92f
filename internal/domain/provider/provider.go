package provider

import (
	"context"

	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
)

// ProcessorClient performs the network calls against the card processor.
// Implementations return *errors.ProcessorRequestError for every failed
// round-trip, timeouts included.
type ProcessorClient interface {
	// CreateCharge charges (or, when Capture is false, authorizes) a stored card
	CreateCharge(ctx context.Context, req *entity.ChargeRequest) (*entity.ChargeResponse, error)

	// CaptureCharge captures a previous authorization
	CaptureCharge(ctx context.Context, req *entity.CaptureRequest) (*entity.ChargeResponse, error)

	// CreateCustomer registers a new processor customer and returns its id
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (string, error)

	// AttachCard stores a tokenized card on a customer
	AttachCard(ctx context.Context, customerID, token string) (*entity.PaymentMethodSummary, error)

	// DetachCard removes a stored card from a customer
	DetachCard(ctx context.Context, customerID, paymentMethodID string) error

	// GetProviderName returns the provider name
	GetProviderName() string
}

type CreateCustomerRequest struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

// ProviderType represents the type of payment provider
type ProviderType string

const (
	ProviderTypeStripe ProviderType = "stripe"
)
