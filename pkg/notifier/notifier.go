package notifier

import (
	"context"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"github.com/shopspring/decimal"
)

// OrderSnapshot is the copy of a freshly placed order handed to a Notifier.
type OrderSnapshot struct {
	ID            uint
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Items         string
	Total         decimal.Decimal
	Notes         string
	CreatedAt     time.Time
}

func SnapshotOf(o models.Order) OrderSnapshot {
	return OrderSnapshot{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		CustomerEmail: o.CustomerEmail,
		Items:         o.Items,
		Total:         o.Total,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
	}
}

// Notifier tells staff about a new order. Delivery is best effort: callers
// log a returned error and move on.
type Notifier interface {
	Notify(ctx context.Context, order OrderSnapshot) error
}

// Null drops every notification. Used when email is not configured.
type Null struct{}

func (Null) Notify(context.Context, OrderSnapshot) error { return nil }

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, order OrderSnapshot) error

func (f Func) Notify(ctx context.Context, order OrderSnapshot) error { return f(ctx, order) }
