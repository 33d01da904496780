package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement types. Only IN and OUT rows exist in the ledger; transfers
// and adjustments are recorded as IN/OUT leg pairs so the replayed balance is
// always the plain signed sum (IN:+qty, OUT:−qty).
const (
	MovementTypeIN  = "IN"
	MovementTypeOUT = "OUT"
)

// API-level movement kinds accepted by the stock endpoints. TRANSFER and
// ADJUSTMENT expand into IN/OUT legs before hitting the ledger.
const (
	MovementKindIn         = "IN"
	MovementKindOut        = "OUT"
	MovementKindTransfer   = "TRANSFER"
	MovementKindAdjustment = "ADJUSTMENT"
)

// StockMovement is one immutable, append-only inventory movement. Quantity is
// always positive; Type carries the direction. The current balance of a
// (product, warehouse[, batch]) key is the signed sum of its movements — there
// is no mutable counter, so the balance is reconstructible from history alone.
type StockMovement struct {
	ID            string
	CompanyID     string
	ProductID     string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	BatchNumber   string
	ExpiryDate    *time.Time
	ReferenceType string
	ReferenceID   string
	Remarks       string
	Date          time.Time
	CreatedBy     string
	CreatedAt     time.Time
}

// BatchBalance is the replayed balance of one batch at a warehouse.
type BatchBalance struct {
	BatchNumber string
	ExpiryDate  *time.Time
	Quantity    decimal.Decimal
}

// BatchAllocation is one slice of an outbound FEFO allocation.
type BatchAllocation struct {
	BatchNumber   string
	ExpiryDate    *time.Time
	QuantityTaken decimal.Decimal
}

// LowStockRow is one product/warehouse whose balance fell to or below its
// alert threshold.
type LowStockRow struct {
	ProductID   string
	ProductName string
	WarehouseID string
	CurrentQty  decimal.Decimal
}
