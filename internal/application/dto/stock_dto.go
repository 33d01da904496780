package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest is a manual stock operation.
type RegisterMovementRequest struct {
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Kind            string          `json:"kind"` // IN | OUT | TRANSFER | ADJUSTMENT
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	Remarks         string          `json:"remarks"`
}

// StockBalanceResponse is the replayed balance of a key.
type StockBalanceResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	AvgCost     decimal.Decimal `json:"avg_cost"`
}

// BatchBalanceResponse is the replayed balance of one batch.
type BatchBalanceResponse struct {
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// LowStockAlertResponse is one low-stock row.
type LowStockAlertResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	WarehouseID string          `json:"warehouse_id"`
	CurrentQty  decimal.Decimal `json:"current_qty"`
}
