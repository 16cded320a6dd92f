package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/repository"
	"go.uber.org/zap"
)

// Renewer charges one due renewal.
type Renewer interface {
	HandleScheduledRenewal(ctx context.Context, amountDue decimal.Decimal, order *entity.OrderContext, productID string)
}

// RenewalJob charges the subscriptions whose billing period is due.
type RenewalJob struct {
	source    repository.RenewalSource
	ledger    repository.OrderLedger
	renewer   Renewer
	batchSize int
	logger    *zap.Logger
	now       func() time.Time
}

func NewRenewalJob(source repository.RenewalSource, ledger repository.OrderLedger, renewer Renewer, batchSize int, logger *zap.Logger) *RenewalJob {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &RenewalJob{
		source:    source,
		ledger:    ledger,
		renewer:   renewer,
		batchSize: batchSize,
		logger:    logger,
		now:       time.Now,
	}
}

func (j *RenewalJob) Name() string { return "subscription_renewal" }

// Run processes one batch. Renewals whose order cannot be loaded are
// skipped and picked up again on a later run.
func (j *RenewalJob) Run(ctx context.Context) error {
	renewals, err := j.source.DueRenewals(ctx, j.now(), j.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list due renewals: %w", err)
	}

	for _, renewal := range renewals {
		if err := ctx.Err(); err != nil {
			return err
		}

		order, err := j.ledger.GetOrder(ctx, renewal.OrderID)
		if err != nil {
			j.logger.Error("Failed to load order for renewal",
				zap.String("order_id", renewal.OrderID),
				zap.Int64("subscription_id", renewal.SubscriptionID),
				zap.Error(err))
			continue
		}

		j.renewer.HandleScheduledRenewal(ctx, renewal.Amount, order, renewal.ProductID)
	}

	if len(renewals) > 0 {
		j.logger.Info("Renewals processed", zap.Int("count", len(renewals)))
	}
	return nil
}
