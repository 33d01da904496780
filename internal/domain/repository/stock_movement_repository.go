package repository

import (
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
)

// StockMovementRepository is the persistence port for the append-only stock
// ledger. Balances are replayed from movement history by the aggregation
// queries; no mutable quantity counter exists.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// SignedSum replays the balance of a (product, warehouse[, batch]) key:
	// IN adds, OUT subtracts. Pass batchNumber nil to sum across batches.
	SignedSum(companyID, productID, warehouseID string, batchNumber *string) (decimal.Decimal, error)
	// BatchBalances replays per-batch balances for a product at a warehouse.
	BatchBalances(companyID, productID, warehouseID string) ([]*entity.BatchBalance, error)
	// SumInboundQtyCost returns Σqty and Σ(qty·unitCost) over IN movements,
	// the inputs to the weighted-average cost.
	SumInboundQtyCost(companyID, productID, warehouseID string) (qty, cost decimal.Decimal, err error)
	// ListByReference returns the movements recorded for one business document.
	ListByReference(companyID, referenceType, referenceID string) ([]*entity.StockMovement, error)
	// LowStock lists keys with 0 < balance ≤ min(threshold, product min level).
	LowStock(companyID string, threshold decimal.Decimal) ([]*entity.LowStockRow, error)
	// LockKey serializes check-then-write sequences on a (product, warehouse)
	// key for the remainder of the surrounding transaction.
	LockKey(productID, warehouseID string) error
}
