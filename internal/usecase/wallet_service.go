package usecase

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/provider"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/repository"
	"go.uber.org/zap"
)

// WalletService manages the cards a user has stored with the processor.
type WalletService struct {
	customerRepo repository.CustomerRecordRepository
	processor    provider.ProcessorClient
	mode         string
	logger       *zap.Logger
}

func NewWalletService(
	customerRepo repository.CustomerRecordRepository,
	processor provider.ProcessorClient,
	mode string,
	logger *zap.Logger,
) *WalletService {
	return &WalletService{
		customerRepo: customerRepo,
		processor:    processor,
		mode:         mode,
		logger:       logger,
	}
}

// ListCards returns the user's record. A user without one gets an empty
// record.
func (s *WalletService) ListCards(ctx context.Context, userID string) (*entity.CustomerRecord, error) {
	record, err := s.customerRepo.GetCustomerRecord(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer record: %w", err)
	}
	if record == nil {
		return &entity.CustomerRecord{UserID: userID, Mode: s.mode, PaymentMethods: []entity.PaymentMethodSummary{}}, nil
	}
	return record, nil
}

// RegisterCard stores a tokenized card and makes it the default. The
// processor customer is created on first use.
func (s *WalletService) RegisterCard(ctx context.Context, userID, email, token string) (*entity.CustomerRecord, error) {
	record, err := s.customerRepo.GetCustomerRecord(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer record: %w", err)
	}

	if record == nil || record.CustomerID == "" {
		customerID, err := s.processor.CreateCustomer(ctx, &provider.CreateCustomerRequest{
			UserID:      userID,
			Email:       email,
			Description: fmt.Sprintf("Customer for user %s", userID),
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info("Processor customer created",
			zap.String("user_id", userID),
			zap.String("customer_id", customerID))

		if record == nil {
			record = &entity.CustomerRecord{
				UserID:     userID,
				Mode:       s.mode,
				CustomerID: customerID,
			}
			if err := s.customerRepo.CreateCustomerRecord(ctx, record); err != nil {
				return nil, fmt.Errorf("failed to create customer record: %w", err)
			}
		} else {
			record, err = s.customerRepo.UpdateCustomerRecord(ctx, userID, entity.CustomerRecordUpdate{CustomerID: &customerID})
			if err != nil {
				return nil, fmt.Errorf("failed to update customer record: %w", err)
			}
		}
	}

	card, err := s.processor.AttachCard(ctx, record.CustomerID, token)
	if err != nil {
		return nil, err
	}

	methods := append(append([]entity.PaymentMethodSummary(nil), record.PaymentMethods...), *card)
	updated, err := s.customerRepo.UpdateCustomerRecord(ctx, userID, entity.CustomerRecordUpdate{
		DefaultPaymentMethodID: &card.ID,
		PaymentMethods:         methods,
		ReplacePaymentMethods:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	s.logger.Info("Card registered",
		zap.String("user_id", userID),
		zap.String("payment_method_id", card.ID))

	return updated, nil
}

// DeleteCard removes the card at index. When it was the default, the first
// remaining card becomes the default.
func (s *WalletService) DeleteCard(ctx context.Context, userID string, index int) (*entity.CustomerRecord, error) {
	record, card, err := s.cardAt(ctx, userID, index)
	if err != nil {
		return nil, err
	}

	if err := s.processor.DetachCard(ctx, record.CustomerID, card.ID); err != nil {
		return nil, err
	}

	methods := make([]entity.PaymentMethodSummary, 0, len(record.PaymentMethods)-1)
	methods = append(methods, record.PaymentMethods[:index]...)
	methods = append(methods, record.PaymentMethods[index+1:]...)

	update := entity.CustomerRecordUpdate{
		PaymentMethods:        methods,
		ReplacePaymentMethods: true,
	}
	if record.DefaultPaymentMethodID == card.ID {
		defaultID := ""
		if len(methods) > 0 {
			defaultID = methods[0].ID
		}
		update.DefaultPaymentMethodID = &defaultID
	}

	updated, err := s.customerRepo.UpdateCustomerRecord(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to remove card: %w", err)
	}

	s.logger.Info("Card deleted",
		zap.String("user_id", userID),
		zap.String("payment_method_id", card.ID))

	return updated, nil
}

// SetDefaultCard makes the card at index the one charged by default.
func (s *WalletService) SetDefaultCard(ctx context.Context, userID string, index int) (*entity.CustomerRecord, error) {
	_, card, err := s.cardAt(ctx, userID, index)
	if err != nil {
		return nil, err
	}

	updated, err := s.customerRepo.UpdateCustomerRecord(ctx, userID, entity.CustomerRecordUpdate{
		DefaultPaymentMethodID: &card.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set default card: %w", err)
	}
	return updated, nil
}

func (s *WalletService) cardAt(ctx context.Context, userID string, index int) (*entity.CustomerRecord, entity.PaymentMethodSummary, error) {
	record, err := s.customerRepo.GetCustomerRecord(ctx, userID)
	if err != nil {
		return nil, entity.PaymentMethodSummary{}, fmt.Errorf("failed to get customer record: %w", err)
	}
	if record == nil {
		return nil, entity.PaymentMethodSummary{}, domainErrors.ErrCardNotFound
	}
	card, ok := record.PaymentMethodAt(index)
	if !ok {
		return nil, entity.PaymentMethodSummary{}, domainErrors.ErrCardNotFound
	}
	return record, card, nil
}
