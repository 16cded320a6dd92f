package repository

import (
	"context"

	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
)

// CustomerRecordRepository stores one customer record per user.
type CustomerRecordRepository interface {
	// GetCustomerRecord returns nil, nil when the user has no record
	GetCustomerRecord(ctx context.Context, userID string) (*entity.CustomerRecord, error)
	CreateCustomerRecord(ctx context.Context, record *entity.CustomerRecord) error
	UpdateCustomerRecord(ctx context.Context, userID string, update entity.CustomerRecordUpdate) (*entity.CustomerRecord, error)
}
