package database

import (
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running GORM auto-migrations...")
	err := db.AutoMigrate(
		&model.CustomerRecord{},
		&model.Order{},
		&model.OrderNote{},
		&model.OrderSubscription{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Creating custom indexes...")
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates partial indexes GORM cannot express in tags
func createCustomIndexes(db *gorm.DB) error {
	// The renewal job scans active subscriptions by due date
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_order_subscriptions_active_due ON order_subscriptions (next_payment_at) WHERE status = 'active'`).Error; err != nil {
		return err
	}

	// Orders holding an uncaptured authorization
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_orders_awaiting_capture ON orders (order_id) WHERE transaction_id <> '' AND captured = false`).Error; err != nil {
		return err
	}

	return nil
}
