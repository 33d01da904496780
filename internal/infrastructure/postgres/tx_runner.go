package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vyomerp/vyom-api/internal/application/billing"
	"github.com/vyomerp/vyom-api/internal/application/stock"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// Ensure TxRunner satisfies the application-layer runner ports.
var _ stock.TxRunner = (*StockTxRunner)(nil)
var _ billing.TxRunner = (*BillingTxRunner)(nil)

// StockTxRunner runs multi-leg stock operations in one transaction.
type StockTxRunner struct {
	pool *pgxpool.Pool
}

// NewStockTxRunner builds the runner with the pool.
func NewStockTxRunner(pool *pgxpool.Pool) *StockTxRunner {
	return &StockTxRunner{pool: pool}
}

// Run begins a transaction, executes fn with a tx-bound movement repository
// and commits, or rolls back on error.
func (r *StockTxRunner) Run(ctx context.Context, fn func(movRepo repository.StockMovementRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// BillingTxRunner runs invoice operations in one transaction spanning the
// invoice, ledger, stock and payment repositories.
type BillingTxRunner struct {
	pool *pgxpool.Pool
}

// NewBillingTxRunner builds the runner with the pool.
func NewBillingTxRunner(pool *pgxpool.Pool) *BillingTxRunner {
	return &BillingTxRunner{pool: pool}
}

// Run begins a transaction, executes fn with tx-bound repositories and
// commits, or rolls back on error.
func (r *BillingTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InvoiceRepository,
	ledRepo repository.LedgerRepository,
	movRepo repository.StockMovementRepository,
	payRepo repository.PaymentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewInvoiceRepository(tx),
		NewLedgerRepository(tx),
		NewStockMovementRepository(tx),
		NewPaymentRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
