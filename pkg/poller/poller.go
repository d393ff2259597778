package poller

import (
	"context"
	"sync"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"go.uber.org/zap"
)

const DefaultInterval = 30 * time.Second

// Source is the read side of the orders API.
type Source interface {
	ListOrders(ctx context.Context, limit int) ([]models.Order, error)
	GetStats(ctx context.Context) (models.OrderStats, error)
}

// Alerter is told about every refresh and about new orders.
type Alerter interface {
	NewOrder(order models.Order)
	Refreshed(orders []models.Order, stats models.OrderStats)
}

// Tracker remembers the newest order id seen. Zero means nothing has been
// seen yet, so the first observation never counts as new.
type Tracker struct {
	mu       sync.Mutex
	lastSeen uint
}

func NewTracker(lastSeen uint) *Tracker {
	return &Tracker{lastSeen: lastSeen}
}

// Observe records newest and reports whether it is a new order. Several
// orders arriving between observations still report true only once.
func (t *Tracker) Observe(newest uint) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if newest == 0 {
		return false
	}
	isNew := t.lastSeen > 0 && newest > t.lastSeen
	t.lastSeen = newest
	return isNew
}

func (t *Tracker) LastSeen() uint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSeen
}

type Poller struct {
	logger   *zap.Logger
	source   Source
	alerter  Alerter
	tracker  *Tracker
	interval time.Duration
	limit    int
}

type PollerProperty struct {
	Logger   *zap.Logger
	Source   Source
	Alerter  Alerter
	Tracker  *Tracker
	Interval time.Duration
	Limit    int
}

func NewPoller(props PollerProperty) *Poller {
	p := &Poller{
		logger:   props.Logger.Named("poller"),
		source:   props.Source,
		alerter:  props.Alerter,
		tracker:  props.Tracker,
		interval: props.Interval,
		limit:    props.Limit,
	}
	if p.tracker == nil {
		p.tracker = NewTracker(0)
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	return p
}

func newestID(orders []models.Order) uint {
	var newest uint
	for _, o := range orders {
		if o.ID > newest {
			newest = o.ID
		}
	}
	return newest
}

func newestOrder(orders []models.Order) models.Order {
	newest := orders[0]
	for _, o := range orders[1:] {
		if o.ID > newest.ID {
			newest = o
		}
	}
	return newest
}

// Poll runs one cycle: fetch orders and stats, raise at most one new-order
// alert, then hand both to the alerter. It reports whether an alert fired.
func (p *Poller) Poll(ctx context.Context) (bool, error) {
	orders, err := p.source.ListOrders(ctx, p.limit)
	if err != nil {
		return false, err
	}

	stats, err := p.source.GetStats(ctx)
	if err != nil {
		return false, err
	}

	fired := p.tracker.Observe(newestID(orders))
	if fired {
		order := newestOrder(orders)
		p.logger.Info("New order observed", zap.Uint("order_id", order.ID))
		p.alerter.NewOrder(order)
	}

	p.alerter.Refreshed(orders, stats)
	return fired, nil
}

// Refresh is a manual poll outside the timer.
func (p *Poller) Refresh(ctx context.Context) (bool, error) {
	return p.Poll(ctx)
}

// Run polls immediately and then on every tick until ctx is done. A failed
// cycle is logged and the next tick tries again.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("Poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
