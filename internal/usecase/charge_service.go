package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasttemplate"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/provider"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/repository"
	"go.uber.org/zap"
)

const defaultDescriptionTemplate = "{{store}} - Order {{order_id}} ({{kind}})"

var minorUnitsPerMajor = decimal.NewFromInt(100)

// ChargeExtension contributes processor metadata to a charge request.
// Keys naming fields owned by the request are ignored.
type ChargeExtension func(ctx context.Context, order *entity.OrderContext, kind entity.ChargeKind) map[string]string

// EventPublisher receives charge events. It is optional.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// ChargeServiceConfig carries the store settings a charge is built from.
type ChargeServiceConfig struct {
	StoreName string
	// Currency is sent as is; callers pass the lowercased store currency.
	Currency            string
	DescriptionTemplate string
	ClientURL           string
	EventChannel        string
}

type ChargeOption func(*ChargeService)

func WithExtensions(extensions ...ChargeExtension) ChargeOption {
	return func(s *ChargeService) {
		s.extensions = append(s.extensions, extensions...)
	}
}

func WithEventPublisher(publisher EventPublisher) ChargeOption {
	return func(s *ChargeService) {
		s.publisher = publisher
	}
}

// WithOneOffCharger replaces the path taken by checkouts without a
// subscription.
func WithOneOffCharger(charger OneOffCharger) ChargeOption {
	return func(s *ChargeService) {
		s.oneOff = charger
	}
}

// ChargeService decides what to charge for an order, calls the processor
// and writes the outcome back to the ledger.
type ChargeService struct {
	customerRepo repository.CustomerRecordRepository
	ledger       repository.OrderLedger
	processor    provider.ProcessorClient
	publisher    EventPublisher
	oneOff       OneOffCharger
	extensions   []ChargeExtension
	description  *fasttemplate.Template
	config       ChargeServiceConfig
	logger       *zap.Logger

	newIdempotencyKey func() string
	now               func() time.Time
}

func NewChargeService(
	config ChargeServiceConfig,
	customerRepo repository.CustomerRecordRepository,
	ledger repository.OrderLedger,
	processor provider.ProcessorClient,
	logger *zap.Logger,
	opts ...ChargeOption,
) (*ChargeService, error) {
	if config.DescriptionTemplate == "" {
		config.DescriptionTemplate = defaultDescriptionTemplate
	}
	tmpl, err := fasttemplate.NewTemplate(config.DescriptionTemplate, "{{", "}}")
	if err != nil {
		return nil, fmt.Errorf("invalid description template: %w", err)
	}

	s := &ChargeService{
		customerRepo:      customerRepo,
		ledger:            ledger,
		processor:         processor,
		description:       tmpl,
		config:            config,
		logger:            logger,
		newIdempotencyKey: uuid.NewString,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.oneOff == nil {
		s.oneOff = NewSingleChargeService(s, ledger, logger)
	}
	return s, nil
}

// ChargeForOrder charges the owner's default card for the order.
//
// explicitAmount is in major units; when nil the order's amount due is
// charged. A zero amount is reported as success without contacting the
// processor. On failure the returned outcome carries the same error that
// is returned.
func (s *ChargeService) ChargeForOrder(ctx context.Context, order *entity.OrderContext, explicitAmount *decimal.Decimal) (*entity.ChargeOutcome, error) {
	return s.charge(ctx, order, explicitAmount, order.ChargeKind())
}

func (s *ChargeService) charge(ctx context.Context, order *entity.OrderContext, explicitAmount *decimal.Decimal, kind entity.ChargeKind) (*entity.ChargeOutcome, error) {
	amount := order.AmountDue
	if explicitAmount != nil {
		amount = *explicitAmount
	}

	if amount.IsNegative() {
		return s.fail(ctx, order, kind, nil, domainErrors.NewInvalidAmountError(amount))
	}

	// Nothing to charge counts as paid. A fully discounted renewal relies on
	// this; it also hides upstream totals that wrongly come out as zero.
	if amount.IsZero() {
		s.logger.Info("Zero amount charge skipped",
			zap.String("order_id", order.OrderID),
			zap.String("kind", string(kind)))
		return &entity.ChargeOutcome{Skipped: true}, nil
	}

	if order.UserID == "" {
		return s.fail(ctx, order, kind, nil, domainErrors.NewLedgerInconsistencyError(order.OrderID, "order has no owning user"))
	}

	record, err := s.customerRepo.GetCustomerRecord(ctx, order.UserID)
	if err != nil {
		return s.fail(ctx, order, kind, nil, fmt.Errorf("failed to get customer record: %w", err))
	}
	if record == nil || record.CustomerID == "" || record.DefaultPaymentMethodID == "" {
		return s.fail(ctx, order, kind, nil, domainErrors.NewCustomerNotFoundError(order.UserID))
	}

	req := s.buildChargeRequest(ctx, order, record, amount, kind)

	s.logger.Info("Creating charge",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", order.UserID),
		zap.String("kind", string(kind)),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
		zap.Bool("capture", req.Capture))

	resp, err := s.processor.CreateCharge(ctx, req)
	if err != nil {
		var procErr *domainErrors.ProcessorRequestError
		if !errors.As(err, &procErr) {
			err = domainErrors.NewProcessorRequestError("create_charge", err)
		}
		return s.fail(ctx, order, kind, req, err)
	}
	if resp == nil || resp.ID == "" {
		return s.fail(ctx, order, kind, req, domainErrors.NewProcessorRequestError("create_charge", errors.New("charge response missing id")))
	}

	if err := s.ledger.AddNote(ctx, order.OrderID, successNote(kind, resp.ID)); err != nil {
		s.logger.Error("Failed to add charge note",
			zap.String("order_id", order.OrderID),
			zap.String("charge_id", resp.ID),
			zap.Error(err))
	}
	if err := s.ledger.RecordTransaction(ctx, order.OrderID, resp.ID, req.Capture); err != nil {
		s.logger.Error("Failed to record transaction",
			zap.String("order_id", order.OrderID),
			zap.String("charge_id", resp.ID),
			zap.Error(err))
	}

	s.logger.Info("Charge succeeded",
		zap.String("order_id", order.OrderID),
		zap.String("charge_id", resp.ID),
		zap.Int64("amount", req.Amount))

	s.publish(ctx, &entity.ChargeEvent{
		Type:     entity.EventChargeSucceeded,
		OrderID:  order.OrderID,
		UserID:   order.UserID,
		Kind:     kind,
		ChargeID: resp.ID,
		Amount:   req.Amount,
		Currency: req.Currency,
	})

	return entity.Success(resp), nil
}

// buildChargeRequest runs the extensions first and then sets the fields
// that decide what is billed, so extensions cannot change them.
func (s *ChargeService) buildChargeRequest(ctx context.Context, order *entity.OrderContext, record *entity.CustomerRecord, amount decimal.Decimal, kind entity.ChargeKind) *entity.ChargeRequest {
	req := &entity.ChargeRequest{}
	for _, ext := range s.extensions {
		req.MergeExtra(ext(ctx, order, kind))
	}

	req.OrderID = order.OrderID
	req.Capture = order.Capture
	req.IdempotencyKey = s.newIdempotencyKey()
	req.Description = s.describe(order, kind)
	req.CustomerID = record.CustomerID
	req.PaymentMethodID = record.DefaultPaymentMethodID
	req.Amount = ToMinorUnits(amount)
	req.Currency = s.config.Currency
	return req
}

func (s *ChargeService) describe(order *entity.OrderContext, kind entity.ChargeKind) string {
	return s.description.ExecuteString(map[string]interface{}{
		"store":    s.config.StoreName,
		"order_id": order.OrderID,
		"kind":     string(kind),
	})
}

func (s *ChargeService) fail(ctx context.Context, order *entity.OrderContext, kind entity.ChargeKind, req *entity.ChargeRequest, err error) (*entity.ChargeOutcome, error) {
	s.logger.Warn("Charge failed",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", order.UserID),
		zap.String("kind", string(kind)),
		zap.Error(err))

	event := &entity.ChargeEvent{
		Type:    entity.EventChargeFailed,
		OrderID: order.OrderID,
		UserID:  order.UserID,
		Kind:    kind,
		Reason:  err.Error(),
	}
	if req != nil {
		event.Amount = req.Amount
		event.Currency = req.Currency
	}
	s.publish(ctx, event)

	return entity.Failure(err), err
}

func (s *ChargeService) publish(ctx context.Context, event *entity.ChargeEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, s.config.EventChannel, event); err != nil {
		s.logger.Warn("Failed to publish charge event",
			zap.String("type", event.Type),
			zap.String("order_id", event.OrderID),
			zap.Error(err))
	}
}

func successNote(kind entity.ChargeKind, chargeID string) string {
	if kind.IsRecurring() {
		return fmt.Sprintf("Subscription paid (%s)", chargeID)
	}
	return fmt.Sprintf("Charge succeeded (%s)", chargeID)
}

// ToMinorUnits converts a major-unit amount to rounded minor units.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerMajor).Round(0).IntPart()
}

// OrderMetadataExtension tags every charge with the order id and charge kind.
func OrderMetadataExtension(ctx context.Context, order *entity.OrderContext, kind entity.ChargeKind) map[string]string {
	return map[string]string{
		entity.ExtraMetadataPrefix + "order_id":    order.OrderID,
		entity.ExtraMetadataPrefix + "charge_kind": string(kind),
	}
}
