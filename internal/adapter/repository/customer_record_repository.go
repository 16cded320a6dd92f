package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/charge-orchestrator/internal/domain/errors"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/model"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/repository"
	"github.com/wekeepgrowing/charge-orchestrator/internal/infrastructure/crypto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// wallet is the encrypted part of a customer record.
type wallet struct {
	DefaultPaymentMethodID string                        `json:"default_payment_method_id"`
	PaymentMethods         []entity.PaymentMethodSummary `json:"payment_methods"`
}

type customerRecordRepository struct {
	db     *gorm.DB
	crypto crypto.EncryptionService
	mode   string
}

// NewCustomerRecordRepository returns a repository scoped to one processor
// mode ("test" or "live").
func NewCustomerRecordRepository(db *gorm.DB, enc crypto.EncryptionService, mode string) repository.CustomerRecordRepository {
	return &customerRecordRepository{
		db:     db,
		crypto: enc,
		mode:   mode,
	}
}

func (r *customerRecordRepository) GetCustomerRecord(ctx context.Context, userID string) (*entity.CustomerRecord, error) {
	var record model.CustomerRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND mode = ?", userID, r.mode).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&record)
}

func (r *customerRecordRepository) CreateCustomerRecord(ctx context.Context, record *entity.CustomerRecord) error {
	record.Mode = r.mode
	m, err := r.entityToModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	record.ID = m.ID
	record.CreatedAt = m.CreatedAt
	record.UpdatedAt = m.UpdatedAt
	return nil
}

// UpdateCustomerRecord locks the user's row for the read-modify-write so
// concurrent wallet changes for one user are applied in turn.
func (r *customerRecordRepository) UpdateCustomerRecord(ctx context.Context, userID string, update entity.CustomerRecordUpdate) (*entity.CustomerRecord, error) {
	var updated *entity.CustomerRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.CustomerRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND mode = ?", userID, r.mode).
			First(&m).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.ErrCustomerRecordNotFound
			}
			return err
		}

		record, err := r.modelToEntity(&m)
		if err != nil {
			return err
		}
		update.Apply(record)

		next, err := r.entityToModel(record)
		if err != nil {
			return err
		}
		if err := tx.Save(next).Error; err != nil {
			return err
		}

		record.UpdatedAt = next.UpdatedAt
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *customerRecordRepository) modelToEntity(m *model.CustomerRecord) (*entity.CustomerRecord, error) {
	record := &entity.CustomerRecord{
		ID:             m.ID,
		UserID:         m.UserID,
		Mode:           m.Mode,
		CustomerID:     m.ProcessorCustomerID,
		PaymentMethods: []entity.PaymentMethodSummary{},
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.EncryptedWallet == "" {
		return record, nil
	}

	plaintext, err := r.crypto.Decrypt(m.EncryptedWallet, m.WalletIV, walletAssociatedData(m.UserID, m.Mode))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt wallet: %w", err)
	}

	var w wallet
	if err := json.Unmarshal(plaintext, &w); err != nil {
		return nil, fmt.Errorf("failed to decode wallet: %w", err)
	}
	record.DefaultPaymentMethodID = w.DefaultPaymentMethodID
	if w.PaymentMethods != nil {
		record.PaymentMethods = w.PaymentMethods
	}
	return record, nil
}

func (r *customerRecordRepository) entityToModel(e *entity.CustomerRecord) (*model.CustomerRecord, error) {
	plaintext, err := json.Marshal(wallet{
		DefaultPaymentMethodID: e.DefaultPaymentMethodID,
		PaymentMethods:         e.PaymentMethods,
	})
	if err != nil {
		return nil, err
	}

	ciphertext, iv, err := r.crypto.Encrypt(plaintext, walletAssociatedData(e.UserID, e.Mode))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	return &model.CustomerRecord{
		ID:                  e.ID,
		UserID:              e.UserID,
		Mode:                e.Mode,
		ProcessorCustomerID: e.CustomerID,
		EncryptedWallet:     ciphertext,
		WalletIV:            iv,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}, nil
}

// walletAssociatedData binds a wallet blob to its row.
func walletAssociatedData(userID, mode string) []byte {
	return []byte(mode + ":" + userID)
}
