package repository

import (
	"context"
	"errors"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RevenueLedger keeps the manual (walk-in) revenue scalar in the
// site_content table under models.ManualRevenueKey.
type RevenueLedger interface {
	Get(ctx context.Context) (decimal.Decimal, error)
	Add(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
	Set(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
	Reset(ctx context.Context) (decimal.Decimal, error)
}

type revenueLedger struct {
	logger *zap.Logger
	db     *gorm.DB
}

func NewRevenueLedger(logger *zap.Logger, db *gorm.DB) RevenueLedger {
	return &revenueLedger{
		logger: logger,
		db:     db,
	}
}

func (r *revenueLedger) read(db *gorm.DB) (decimal.Decimal, error) {
	row, err := findContent(db, models.ManualRevenueKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	value, err := decimal.NewFromString(row.Value)
	if err != nil {
		r.logger.Warn("Unparsable manual revenue, treating as zero", zap.String("value", row.Value))
		return decimal.Zero, nil
	}
	return value, nil
}

// Get implements RevenueLedger.
func (r *revenueLedger) Get(ctx context.Context) (decimal.Decimal, error) {
	value, err := r.read(r.db.WithContext(ctx))
	if err != nil {
		r.logger.Error("Failed to read manual revenue", zap.Error(err))
		return decimal.Zero, apperror.Storage("Database error", err)
	}
	return value, nil
}

// Add implements RevenueLedger. The read and the write share a transaction,
// but that does not serialise concurrent adjustments on every backend; a
// concurrent Add/Set/Reset can still lose an update.
func (r *revenueLedger) Add(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	var next decimal.Decimal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.read(tx)
		if err != nil {
			return err
		}
		next = current.Add(amount)
		return upsertContent(tx, models.ManualRevenueKey, next.String())
	})
	if err != nil {
		r.logger.Error("Failed to add manual revenue", zap.String("amount", amount.String()), zap.Error(err))
		return decimal.Zero, apperror.Storage("Database error", err)
	}
	return next, nil
}

// Set implements RevenueLedger.
func (r *revenueLedger) Set(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperror.Validation("amount must not be negative")
	}
	if err := upsertContent(r.db.WithContext(ctx), models.ManualRevenueKey, amount.String()); err != nil {
		r.logger.Error("Failed to set manual revenue", zap.String("amount", amount.String()), zap.Error(err))
		return decimal.Zero, apperror.Storage("Database error", err)
	}
	return amount, nil
}

// Reset implements RevenueLedger.
func (r *revenueLedger) Reset(ctx context.Context) (decimal.Decimal, error) {
	return r.Set(ctx, decimal.Zero)
}
