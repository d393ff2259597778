package repository

import (
	"context"
	"errors"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, o models.NewOrder, now time.Time) (models.Order, error)
	Get(ctx context.Context, id uint) (models.Order, error)
	List(ctx context.Context, status models.OrderStatus, limit int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, update models.OrderUpdate, now time.Time) (models.Order, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Aggregate(ctx context.Context, today string) (models.OrderAggregate, error)
}

type orderRepository struct {
	logger *zap.Logger
	db     *gorm.DB
}

func NewOrderRepository(logger *zap.Logger, db *gorm.DB) OrderRepository {
	return &orderRepository{
		logger: logger,
		db:     db,
	}
}

// Create implements OrderRepository. Business validation is the caller's job.
func (r *orderRepository) Create(ctx context.Context, o models.NewOrder, now time.Time) (models.Order, error) {
	order := models.Order{
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		CustomerEmail: o.CustomerEmail,
		Items:         o.Items,
		Total:         o.Total,
		Notes:         o.Notes,
		Status:        models.OrderStatusPending,
		CreatedOn:     now.Format(models.CivilDateLayout),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return models.Order{}, apperror.Storage("Failed to save order", err)
	}

	return order, nil
}

// Get implements OrderRepository.
func (r *orderRepository) Get(ctx context.Context, id uint) (models.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *orderRepository) get(db *gorm.DB, id uint) (models.Order, error) {
	var order models.Order
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, apperror.NotFound("Order not found")
		}
		r.logger.Error("Failed to get order", zap.Uint("order_id", id), zap.Error(err))
		return models.Order{}, apperror.Storage("Database error", err)
	}
	return order, nil
}

// List implements OrderRepository. An empty status lists every order.
func (r *orderRepository) List(ctx context.Context, status models.OrderStatus, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	orders := make([]models.Order, 0)
	if err := query.Order("id DESC").Limit(limit).Find(&orders).Error; err != nil {
		r.logger.Error("Failed to list orders", zap.String("status", string(status)), zap.Error(err))
		return nil, apperror.Storage("Database error", err)
	}

	return orders, nil
}

// UpdateStatus implements OrderRepository.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, update models.OrderUpdate, now time.Time) (models.Order, error) {
	if update.Empty() {
		return models.Order{}, apperror.Validation("status or notes is required")
	}
	if update.Status != nil && !update.Status.Valid() {
		return models.Order{}, apperror.Validation("invalid status %q", *update.Status)
	}

	updates := map[string]interface{}{
		"updated_at": now,
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.get(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Model(&current).Updates(updates).Error; err != nil {
			r.logger.Error("Failed to update order", zap.Uint("order_id", id), zap.Error(err))
			return apperror.Storage("Database error", err)
		}

		order, err = r.get(tx, id)
		return err
	})
	if err != nil {
		return models.Order{}, err
	}

	return order, nil
}

// Delete implements OrderRepository.
func (r *orderRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if result.Error != nil {
		r.logger.Error("Failed to delete order", zap.Uint("order_id", id), zap.Error(result.Error))
		return false, apperror.Storage("Database error", result.Error)
	}
	return result.RowsAffected > 0, nil
}

const aggregateQuery = `
	SELECT
		COUNT(*) AS total_orders,
		COALESCE(SUM(total), 0) AS revenue,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS confirmed,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled,
		COALESCE(SUM(CASE WHEN created_on = ? THEN 1 ELSE 0 END), 0) AS today_orders,
		COALESCE(SUM(CASE WHEN created_on = ? THEN total ELSE 0 END), 0) AS today_revenue
	FROM orders
`

// Aggregate implements OrderRepository. today is a business-local civil
// date (YYYY-MM-DD) compared against the date each order was created on.
func (r *orderRepository) Aggregate(ctx context.Context, today string) (models.OrderAggregate, error) {
	var agg models.OrderAggregate
	err := r.db.WithContext(ctx).Raw(aggregateQuery,
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
		today,
		today,
	).Scan(&agg).Error
	if err != nil {
		r.logger.Error("Failed to aggregate orders", zap.String("today", today), zap.Error(err))
		return models.OrderAggregate{}, apperror.Storage("Database error", err)
	}

	agg.Revenue = agg.Revenue.Round(2)
	agg.TodayRevenue = agg.TodayRevenue.Round(2)

	return agg, nil
}
