package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg                *prometheus.Registry
	OrdersPlaced       prometheus.Counter
	StatusUpdates      *prometheus.CounterVec
	Notifications      *prometheus.CounterVec
	RevenueAdjustments *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPLatencySec     prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{Name: "freshbread_orders_placed_total"})
	statusUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "freshbread_order_status_updates_total"}, []string{"status"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "freshbread_notifications_total"}, []string{"outcome"})
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "freshbread_revenue_adjustments_total"}, []string{"action"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "freshbread_http_requests_total"}, []string{"method", "route", "code"})
	httpLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "freshbread_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(ordersPlaced, statusUpdates, notifications, adjustments, httpRequests, httpLatency)
	return &Registry{
		reg:                r,
		OrdersPlaced:       ordersPlaced,
		StatusUpdates:      statusUpdates,
		Notifications:      notifications,
		RevenueAdjustments: adjustments,
		HTTPRequests:       httpRequests,
		HTTPLatencySec:     httpLatency,
	}
}

// NotificationOutcome records one delivery attempt: "sent" or "failed".
func (r *Registry) NotificationOutcome(err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	r.Notifications.WithLabelValues(outcome).Inc()
}

func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
