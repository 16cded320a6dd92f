package database

import (
	"github.com/wekeepgrowing/charge-orchestrator/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/charge-orchestrator/internal/domain/repository"
	"github.com/wekeepgrowing/charge-orchestrator/internal/infrastructure/crypto"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	CustomerRecord domainRepo.CustomerRecordRepository
	OrderLedger    domainRepo.OrderLedger
	Renewals       domainRepo.RenewalSource
}

// NewRepositories creates the repositories for one processor mode
func NewRepositories(db *gorm.DB, enc crypto.EncryptionService, mode string, logger *zap.Logger) *Repositories {
	ledger := repository.NewOrderLedgerRepository(db, logger)
	return &Repositories{
		CustomerRecord: repository.NewCustomerRecordRepository(db, enc, mode),
		OrderLedger:    ledger,
		Renewals:       ledger,
	}
}
