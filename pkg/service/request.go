package service

import (
	"github.com/shopspring/decimal"
)

type PlaceOrderRequest struct {
	CustomerName  string           `json:"customerName" binding:"required"`
	CustomerPhone string           `json:"customerPhone" binding:"required"`
	CustomerEmail string           `json:"customerEmail"`
	Items         string           `json:"items" binding:"required"`
	Total         *decimal.Decimal `json:"total" binding:"required"`
	Notes         string           `json:"notes"`
}

// UpdateOrderRequest carries the staff-editable fields. An empty status is
// treated as absent.
type UpdateOrderRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type RevenueAction string

const (
	RevenueActionAdd   RevenueAction = "add"
	RevenueActionSet   RevenueAction = "set"
	RevenueActionReset RevenueAction = "reset"
)

type AdjustRevenueRequest struct {
	Action RevenueAction    `json:"action"`
	Amount *decimal.Decimal `json:"amount"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type ContentRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

type BatchContentRequest struct {
	Updates map[string]string `json:"updates" binding:"required"`
}
