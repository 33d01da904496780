// Package stock implements the append-only inventory movement engine:
// movement recording, replay-based balances, weighted-average cost,
// earliest-expiry-first batch allocation and low-stock alerts.
package stock

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// Ledger records and replays stock movements. Like the double-entry engine it
// keeps no in-process state: balances come from history, atomicity from the
// caller's transaction. readRepo serves queries; write methods take the
// transaction-bound repository explicitly.
type Ledger struct {
	readRepo repository.StockMovementRepository
	clock    domain.Clock
}

// NewLedger builds the stock ledger with a pool-bound repository for reads.
func NewLedger(readRepo repository.StockMovementRepository, clock domain.Clock) *Ledger {
	return &Ledger{readRepo: readRepo, clock: clock}
}

// RecordMovement appends one movement. The primitive does not check the
// available balance — the write path stays branch-free and auditable; callers
// must verify availability before OUT movements.
func (l *Ledger) RecordMovement(repo repository.StockMovementRepository, m *entity.StockMovement) error {
	if m.ProductID == "" || m.WarehouseID == "" || m.CompanyID == "" {
		return domain.ErrInvalidInput
	}
	if m.Type != entity.MovementTypeIN && m.Type != entity.MovementTypeOUT {
		return fmt.Errorf("movement type %q: %w", m.Type, domain.ErrInvalidInput)
	}
	if !m.Quantity.IsPositive() {
		return fmt.Errorf("movement quantity must be positive: %w", domain.ErrInvalidInput)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = l.clock.Now()
	}
	if m.Date.IsZero() {
		m.Date = m.CreatedAt
	}
	return repo.Create(m)
}

// CurrentBalance replays the signed sum for a key. A negative result signals
// an upstream bug (an unguarded OUT); the engine surfaces it rather than
// clamping to zero.
func (l *Ledger) CurrentBalance(companyID, productID, warehouseID string, batchNumber *string) (decimal.Decimal, error) {
	bal, err := l.readRepo.SignedSum(companyID, productID, warehouseID, batchNumber)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock balance of %s@%s: %w", productID, warehouseID, err)
	}
	return bal, nil
}

// CurrentBalanceIn replays the balance through a transaction-bound repository,
// for re-validation after the key is locked.
func (l *Ledger) CurrentBalanceIn(repo repository.StockMovementRepository, companyID, productID, warehouseID string) (decimal.Decimal, error) {
	return repo.SignedSum(companyID, productID, warehouseID, nil)
}

// SelectBatchesForAllocation picks outbound batches earliest-expiry-first.
// Batches with zero or negative balance and batches already expired as of the
// injected clock are skipped; ties on expiry break on batch number so the
// result is deterministic. When total availability falls short the partial
// allocation is returned without error — the caller decides whether a short
// pick is acceptable.
func (l *Ledger) SelectBatchesForAllocation(repo repository.StockMovementRepository, companyID, productID, warehouseID string, requiredQty decimal.Decimal) ([]*entity.BatchAllocation, error) {
	if !requiredQty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	balances, err := repo.BatchBalances(companyID, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("batch balances of %s@%s: %w", productID, warehouseID, err)
	}

	now := l.clock.Now()
	usable := balances[:0]
	for _, b := range balances {
		if !b.Quantity.IsPositive() {
			continue
		}
		if b.ExpiryDate != nil && !b.ExpiryDate.After(now) {
			continue
		}
		usable = append(usable, b)
	}
	sort.Slice(usable, func(i, j int) bool {
		ei, ej := usable[i].ExpiryDate, usable[j].ExpiryDate
		switch {
		case ei == nil && ej == nil:
			return usable[i].BatchNumber < usable[j].BatchNumber
		case ei == nil:
			return false // undated batches issue last
		case ej == nil:
			return true
		case ei.Equal(*ej):
			return usable[i].BatchNumber < usable[j].BatchNumber
		default:
			return ei.Before(*ej)
		}
	})

	var allocations []*entity.BatchAllocation
	remaining := requiredQty
	for _, b := range usable {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(b.Quantity, remaining)
		allocations = append(allocations, &entity.BatchAllocation{
			BatchNumber:   b.BatchNumber,
			ExpiryDate:    b.ExpiryDate,
			QuantityTaken: take,
		})
		remaining = remaining.Sub(take)
	}
	return allocations, nil
}

// BatchBalances replays per-batch balances for a key, for the batch stock
// query endpoints. Rows with zero balance are included; callers filter.
func (l *Ledger) BatchBalances(companyID, productID, warehouseID string) ([]*entity.BatchBalance, error) {
	rows, err := l.readRepo.BatchBalances(companyID, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("batch balances of %s@%s: %w", productID, warehouseID, err)
	}
	return rows, nil
}

// WeightedAverageCost returns Σ(IN qty · unit cost) / Σ(IN qty) over all
// inbound movements for the key, or zero when nothing has come in.
func (l *Ledger) WeightedAverageCost(companyID, productID, warehouseID string) (decimal.Decimal, error) {
	qty, cost, err := l.readRepo.SumInboundQtyCost(companyID, productID, warehouseID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("weighted cost of %s@%s: %w", productID, warehouseID, err)
	}
	if !qty.IsPositive() {
		return decimal.Zero, nil
	}
	return cost.Div(qty), nil
}

// LowStockAlerts lists keys whose balance is positive but at or below the
// alert threshold (the product's own minimum level wins when lower).
func (l *Ledger) LowStockAlerts(companyID string, threshold decimal.Decimal) ([]*entity.LowStockRow, error) {
	if threshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	rows, err := l.readRepo.LowStock(companyID, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock alerts: %w", err)
	}
	return rows, nil
}

// ReverseMovements appends the opposite movement for every row tagged with
// the reference: OUT becomes IN and vice versa, quantities and batches
// unchanged. Originals stay in history.
func (l *Ledger) ReverseMovements(repo repository.StockMovementRepository, companyID, referenceType, referenceID string, date time.Time, userID, remarks string) error {
	originals, err := repo.ListByReference(companyID, referenceType, referenceID)
	if err != nil {
		return fmt.Errorf("load movements for %s %s: %w", referenceType, referenceID, err)
	}
	if len(originals) == 0 {
		return domain.ErrNotFound
	}
	for _, o := range originals {
		opposite := entity.MovementTypeIN
		if o.Type == entity.MovementTypeIN {
			opposite = entity.MovementTypeOUT
		}
		rev := &entity.StockMovement{
			CompanyID:     o.CompanyID,
			ProductID:     o.ProductID,
			WarehouseID:   o.WarehouseID,
			Type:          opposite,
			Quantity:      o.Quantity,
			UnitCost:      o.UnitCost,
			BatchNumber:   o.BatchNumber,
			ExpiryDate:    o.ExpiryDate,
			ReferenceType: o.ReferenceType,
			ReferenceID:   o.ReferenceID,
			Remarks:       remarks,
			Date:          date,
			CreatedBy:     userID,
			CreatedAt:     date,
		}
		if err := l.RecordMovement(repo, rev); err != nil {
			return err
		}
	}
	return nil
}
