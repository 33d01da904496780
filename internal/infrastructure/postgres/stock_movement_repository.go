package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implements the append-only stock ledger over PostgreSQL
// (usable with pool or tx). Balances are aggregated in SQL, never cached.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository builds the adapter. Pass pool or tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create appends one movement row.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, company_id, product_id, warehouse_id, type, quantity, unit_cost,
		                             batch_number, expiry_date, reference_type, reference_id, remarks,
		                             date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.ProductID, m.WarehouseID, m.Type, m.Quantity, m.UnitCost,
		nullIfEmpty(m.BatchNumber), m.ExpiryDate, m.ReferenceType, m.ReferenceID, nullIfEmpty(m.Remarks),
		m.Date, nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// SignedSum replays the balance of a key: IN adds, OUT subtracts.
func (r *StockMovementRepo) SignedSum(companyID, productID, warehouseID string, batchNumber *string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END), 0)
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND ($4::text IS NULL OR batch_number = $4)`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, companyID, productID, warehouseID, batchNumber).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("signed sum: %w", err)
	}
	return sum, nil
}

// BatchBalances replays per-batch balances for a product at a warehouse.
func (r *StockMovementRepo) BatchBalances(companyID, productID, warehouseID string) ([]*entity.BatchBalance, error) {
	query := `
		SELECT batch_number,
		       MAX(expiry_date) AS expiry_date,
		       SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END) AS quantity
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND batch_number IS NOT NULL
		GROUP BY batch_number`
	rows, err := r.q.Query(context.Background(), query, companyID, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("batch balances: %w", err)
	}
	defer rows.Close()

	var out []*entity.BatchBalance
	for rows.Next() {
		var b entity.BatchBalance
		if err := rows.Scan(&b.BatchNumber, &b.ExpiryDate, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan batch balance: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// SumInboundQtyCost returns Σqty and Σ(qty·unit_cost) over IN movements.
func (r *StockMovementRepo) SumInboundQtyCost(companyID, productID, warehouseID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * unit_cost), 0)
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND type = 'IN'`
	var qty, cost decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, companyID, productID, warehouseID).Scan(&qty, &cost)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("inbound qty/cost: %w", err)
	}
	return qty, cost, nil
}

// ListByReference returns the movements recorded for one business document,
// oldest first.
func (r *StockMovementRepo) ListByReference(companyID, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, company_id, product_id, warehouse_id, type, quantity, unit_cost,
		       batch_number, expiry_date, reference_type, reference_id, remarks,
		       date, created_by, created_at
		FROM stock_movements
		WHERE company_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, companyID, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var batch, remarks, createdBy *string
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Quantity, &m.UnitCost,
			&batch, &m.ExpiryDate, &m.ReferenceType, &m.ReferenceID, &remarks,
			&m.Date, &createdBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.BatchNumber = deref(batch)
		m.Remarks = deref(remarks)
		m.CreatedBy = deref(createdBy)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// LowStock lists keys with 0 < balance <= LEAST(threshold, product min level).
func (r *StockMovementRepo) LowStock(companyID string, threshold decimal.Decimal) ([]*entity.LowStockRow, error) {
	query := `
		SELECT sm.product_id, p.name, sm.warehouse_id,
		       SUM(CASE WHEN sm.type = 'IN' THEN sm.quantity ELSE -sm.quantity END) AS balance
		FROM stock_movements sm
		JOIN products p ON p.id = sm.product_id
		WHERE sm.company_id = $1
		GROUP BY sm.product_id, p.name, sm.warehouse_id, p.min_stock_level
		HAVING SUM(CASE WHEN sm.type = 'IN' THEN sm.quantity ELSE -sm.quantity END) > 0
		   AND SUM(CASE WHEN sm.type = 'IN' THEN sm.quantity ELSE -sm.quantity END)
		       <= LEAST($2::numeric, p.min_stock_level)`
	rows, err := r.q.Query(context.Background(), query, companyID, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()

	var out []*entity.LowStockRow
	for rows.Next() {
		var row entity.LowStockRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.WarehouseID, &row.CurrentQty); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// LockKey takes a transaction-scoped advisory lock on the (product,
// warehouse) key. There is no stock row to SELECT FOR UPDATE, balances are
// replayed, so the advisory lock serializes check-then-write sequences.
func (r *StockMovementRepo) LockKey(productID, warehouseID string) error {
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtext($1))`, productID+":"+warehouseID)
	if err != nil {
		return fmt.Errorf("advisory lock stock key: %w", err)
	}
	return nil
}
