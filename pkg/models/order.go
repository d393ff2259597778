package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CivilDateLayout formats the business-local date an order was placed on.
const CivilDateLayout = "2006-01-02"

func init() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCompleted, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether to is reachable from s in one step.
// Setting the current status again is always allowed.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s == to {
		return true
	}
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerName  string          `gorm:"type:varchar(100);not null" json:"customer_name"`
	CustomerPhone string          `gorm:"type:varchar(32);not null" json:"customer_phone"`
	CustomerEmail string          `gorm:"type:varchar(100)" json:"customer_email"`
	Items         string          `gorm:"type:text;not null" json:"items"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedOn     string          `gorm:"type:char(10);not null;index" json:"-"`
	CreatedAt     time.Time       `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// NewOrder carries the customer-supplied fields of an order about to be
// stored.
type NewOrder struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Items         string
	Total         decimal.Decimal
	Notes         string
}

// OrderUpdate holds the staff-editable fields; nil means unchanged.
type OrderUpdate struct {
	Status *OrderStatus
	Notes  *string
}

func (u OrderUpdate) Empty() bool {
	return u.Status == nil && u.Notes == nil
}

// OrderAggregate is the raw result of the single stats query.
type OrderAggregate struct {
	TotalOrders  int64
	Revenue      decimal.Decimal
	Pending      int64
	Confirmed    int64
	Completed    int64
	Cancelled    int64
	TodayOrders  int64
	TodayRevenue decimal.Decimal
}

type OrderStats struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	ManualRevenue decimal.Decimal `json:"manual_revenue"`
	Pending       int64           `json:"pending"`
	Confirmed     int64           `json:"confirmed"`
	Completed     int64           `json:"completed"`
	Cancelled     int64           `json:"cancelled"`
	TodayOrders   int64           `json:"today_orders"`
	TodayRevenue  decimal.Decimal `json:"today_revenue"`
}
