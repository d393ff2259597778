package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/metrics"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/notifier"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	auditService       = "order-service"
	defaultOrdersLimit = 50
	statusAll          = "all"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (models.Order, error)
	GetOrder(ctx context.Context, id uint) (models.Order, error)
	ListOrders(ctx context.Context, status string, limit int) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id uint, req UpdateOrderRequest) (models.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
	GetStats(ctx context.Context) (models.OrderStats, error)
	AdjustRevenue(ctx context.Context, req AdjustRevenueRequest) (decimal.Decimal, error)
	GetAuditLogs(ctx context.Context, id uint, limit int64) ([]*repository.AuditLog, error)
}

type orderService struct {
	logger            *zap.Logger
	orderRepository   repository.OrderRepository
	revenueLedger     repository.RevenueLedger
	notifier          notifier.Notifier
	audit             repository.AuditRecorder
	metrics           *metrics.Registry
	clock             func() time.Time
	location          *time.Location
	strictTransitions bool
	defaultLimit      int
}

type OrderServiceProperty struct {
	Logger            *zap.Logger
	OrderRepository   repository.OrderRepository
	RevenueLedger     repository.RevenueLedger
	Notifier          notifier.Notifier
	Audit             repository.AuditRecorder
	Metrics           *metrics.Registry
	Clock             func() time.Time
	Location          *time.Location
	StrictTransitions bool
	DefaultLimit      int
}

func NewOrderService(props OrderServiceProperty) OrderService {
	s := &orderService{
		logger:            props.Logger.Named("order-service"),
		orderRepository:   props.OrderRepository,
		revenueLedger:     props.RevenueLedger,
		notifier:          props.Notifier,
		audit:             props.Audit,
		metrics:           props.Metrics,
		clock:             props.Clock,
		location:          props.Location,
		strictTransitions: props.StrictTransitions,
		defaultLimit:      props.DefaultLimit,
	}
	if s.notifier == nil {
		s.notifier = notifier.Null{}
	}
	if s.audit == nil {
		s.audit = repository.NoopAuditRecorder()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = defaultOrdersLimit
	}
	return s
}

// now is the current business-local time.
func (s *orderService) now() time.Time {
	return s.clock().In(s.location)
}

func (s *orderService) recordAudit(action string, entityID string, data bson.M) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := s.audit.CreateAuditLog(ctx, &repository.AuditLog{
			Service:  auditService,
			Action:   action,
			EntityID: entityID,
			Data:     data,
		})
		if err != nil {
			s.logger.Warn("Failed to record audit log", zap.String("action", action), zap.Error(err))
		}
	}()
}

func orderEntityID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerPhone) == "" ||
		strings.TrimSpace(req.Items) == "" ||
		req.Total == nil {
		return apperror.Validation("Missing required fields: name, phone, items, and total are required")
	}
	// Totals are stored to the cent.
	if !req.Total.Round(2).IsPositive() {
		return apperror.Validation("Total must be a positive amount")
	}
	return nil
}

// PlaceOrder implements OrderService. The order is stored before the
// notifier is invoked; a notifier failure never fails the order.
func (s *orderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (models.Order, error) {
	if err := validatePlaceOrder(req); err != nil {
		return models.Order{}, err
	}

	order, err := s.orderRepository.Create(ctx, models.NewOrder{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Items:         req.Items,
		Total:         req.Total.Round(2),
		Notes:         req.Notes,
	}, s.now())
	if err != nil {
		return models.Order{}, err
	}

	s.metrics.OrdersPlaced.Inc()
	s.logger.Info("New order placed",
		zap.Uint("order_id", order.ID),
		zap.String("customer", order.CustomerName),
		zap.String("total", order.Total.StringFixed(2)))

	// The order is saved; a client hanging up must not drop the notification.
	if err := s.notifier.Notify(context.WithoutCancel(ctx), notifier.SnapshotOf(order)); err != nil {
		s.metrics.NotificationOutcome(err)
		s.logger.Warn("Notification failed, order still saved", zap.Uint("order_id", order.ID), zap.Error(err))
	}

	s.recordAudit("order_created", orderEntityID(order.ID), bson.M{
		"customer_name": order.CustomerName,
		"items":         order.Items,
		"total":         order.Total.String(),
	})

	return order, nil
}

// GetOrder implements OrderService.
func (s *orderService) GetOrder(ctx context.Context, id uint) (models.Order, error) {
	return s.orderRepository.Get(ctx, id)
}

// ListOrders implements OrderService. An empty status or "all" lists every
// order; limit <= 0 uses the configured default.
func (s *orderService) ListOrders(ctx context.Context, status string, limit int) ([]models.Order, error) {
	filter := models.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if filter == statusAll {
		filter = ""
	}
	if filter != "" && !filter.Valid() {
		return nil, apperror.Validation("invalid status %q", status)
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.orderRepository.List(ctx, filter, limit)
}

// UpdateOrder implements OrderService.
func (s *orderService) UpdateOrder(ctx context.Context, id uint, req UpdateOrderRequest) (models.Order, error) {
	var update models.OrderUpdate
	if req.Status != nil && *req.Status != "" {
		status := models.OrderStatus(*req.Status)
		if !status.Valid() {
			return models.Order{}, apperror.Validation("invalid status %q", *req.Status)
		}
		update.Status = &status
	}
	update.Notes = req.Notes

	if update.Status != nil && s.strictTransitions {
		current, err := s.orderRepository.Get(ctx, id)
		if err != nil {
			return models.Order{}, err
		}
		if current.Status.Terminal() && current.Status != *update.Status {
			return models.Order{}, apperror.Validation("Order is already %s", current.Status)
		}
		if !current.Status.CanTransition(*update.Status) {
			return models.Order{}, apperror.Validation("cannot change order from %s to %s", current.Status, *update.Status)
		}
	}

	order, err := s.orderRepository.UpdateStatus(ctx, id, update, s.now())
	if err != nil {
		return models.Order{}, err
	}

	if update.Status != nil {
		s.metrics.StatusUpdates.WithLabelValues(string(order.Status)).Inc()
	}
	s.logger.Info("Order updated", zap.Uint("order_id", id), zap.String("status", string(order.Status)))

	data := bson.M{"status": string(order.Status)}
	if update.Notes != nil {
		data["notes"] = *update.Notes
	}
	s.recordAudit("order_updated", orderEntityID(id), data)

	return order, nil
}

// DeleteOrder implements OrderService.
func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	deleted, err := s.orderRepository.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("Order not found")
	}

	s.logger.Info("Order deleted", zap.Uint("order_id", id))
	s.recordAudit("order_deleted", orderEntityID(id), bson.M{})
	return nil
}

// GetStats implements OrderService. Nothing is cached: every call runs the
// aggregate query and reads the ledger.
func (s *orderService) GetStats(ctx context.Context) (models.OrderStats, error) {
	agg, err := s.orderRepository.Aggregate(ctx, s.now().Format(models.CivilDateLayout))
	if err != nil {
		return models.OrderStats{}, err
	}

	manual, err := s.revenueLedger.Get(ctx)
	if err != nil {
		return models.OrderStats{}, err
	}

	return models.OrderStats{
		TotalOrders:   agg.TotalOrders,
		TotalRevenue:  agg.Revenue.Add(manual),
		ManualRevenue: manual,
		Pending:       agg.Pending,
		Confirmed:     agg.Confirmed,
		Completed:     agg.Completed,
		Cancelled:     agg.Cancelled,
		TodayOrders:   agg.TodayOrders,
		TodayRevenue:  agg.TodayRevenue,
	}, nil
}

// AdjustRevenue implements OrderService. An empty action means add.
func (s *orderService) AdjustRevenue(ctx context.Context, req AdjustRevenueRequest) (decimal.Decimal, error) {
	action := req.Action
	if action == "" {
		action = RevenueActionAdd
	}

	var (
		value decimal.Decimal
		err   error
	)
	switch action {
	case RevenueActionReset:
		value, err = s.revenueLedger.Reset(ctx)
	case RevenueActionSet, RevenueActionAdd:
		if req.Amount == nil {
			return decimal.Zero, apperror.Validation("Amount is required")
		}
		if action == RevenueActionSet {
			value, err = s.revenueLedger.Set(ctx, *req.Amount)
		} else {
			value, err = s.revenueLedger.Add(ctx, *req.Amount)
		}
	default:
		return decimal.Zero, apperror.Validation("invalid action %q", req.Action)
	}
	if err != nil {
		return decimal.Zero, err
	}

	s.metrics.RevenueAdjustments.WithLabelValues(string(action)).Inc()
	s.logger.Info("Manual revenue adjusted", zap.String("action", string(action)), zap.String("manual_revenue", value.String()))

	data := bson.M{"action": string(action), "manual_revenue": value.String()}
	if req.Amount != nil {
		data["amount"] = req.Amount.String()
	}
	s.recordAudit("revenue_adjusted", models.ManualRevenueKey, data)

	return value, nil
}

// GetAuditLogs implements OrderService.
func (s *orderService) GetAuditLogs(ctx context.Context, id uint, limit int64) ([]*repository.AuditLog, error) {
	if limit <= 0 {
		limit = int64(s.defaultLimit)
	}
	logs, err := s.audit.GetAuditLogs(ctx, orderEntityID(id), limit)
	if err != nil {
		s.logger.Error("Failed to read audit logs", zap.Uint("order_id", id), zap.Error(err))
		return nil, apperror.Storage("Failed to read audit log", err)
	}
	return logs, nil
}
