package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// Cancel cancels an ACTIVE invoice: the header flips to CANCELLED and the
// stock and ledger effects are reversed with offsetting records under the
// same reference. The invoice row, its original movements and entries all
// stay in history. An invoice with linked payments cannot be cancelled.
func (u *InvoiceUseCase) Cancel(ctx context.Context, companyID, userID, invoiceID, reason string) error {
	inv, err := u.invoices.GetByID(invoiceID)
	if err != nil {
		return err
	}
	if inv.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if inv.Status != entity.InvoiceStatusActive {
		return domain.ErrAlreadyCancelled
	}
	hasPayments, err := u.payments.ExistsForInvoice(invoiceID)
	if err != nil {
		return fmt.Errorf("check payments of invoice %s: %w", invoiceID, err)
	}
	if hasPayments {
		return domain.ErrHasPayments
	}

	now := u.clock.Now()
	narration := "Cancellation of " + inv.Number
	err = u.tx.Run(ctx, func(
		invRepo repository.InvoiceRepository,
		ledRepo repository.LedgerRepository,
		movRepo repository.StockMovementRepository,
		payRepo repository.PaymentRepository,
	) error {
		// Guards re-run inside the transaction: MarkCancelled affects zero
		// rows unless the invoice is still ACTIVE.
		if err := invRepo.MarkCancelled(invoiceID, reason); err != nil {
			return err
		}
		if hasPayments, err := payRepo.ExistsForInvoice(invoiceID); err != nil {
			return err
		} else if hasPayments {
			return domain.ErrHasPayments
		}
		if inv.Kind == entity.InvoiceKindPurchase {
			if err := guardPurchaseReversal(movRepo, inv); err != nil {
				return err
			}
		}
		refType := entity.RefTypeSalesInvoice
		if inv.Kind == entity.InvoiceKindPurchase {
			refType = entity.RefTypePurchaseInvoice
		}
		if err := u.stock.ReverseMovements(movRepo, companyID, refType, inv.ID, now, userID, narration); err != nil {
			return err
		}
		return u.ledger.ReverseForReference(ledRepo, companyID, refType, inv.ID, now, narration)
	})
	if err != nil {
		return err
	}

	inv.Status = entity.InvoiceStatusCancelled
	inv.CancelReason = reason
	recordType := "SALES_INVOICE"
	if inv.Kind == entity.InvoiceKindPurchase {
		recordType = "PURCHASE_INVOICE"
	}
	u.recordAudit(companyID, userID, "CANCEL", recordType, inv)
	return nil
}

// guardPurchaseReversal verifies, under per-key locks, that reversing a
// purchase (its IN legs become OUT) will not drive any stock key negative.
// Received goods that were already sold on block the cancellation.
func guardPurchaseReversal(movRepo repository.StockMovementRepository, inv *entity.Invoice) error {
	movements, err := movRepo.ListByReference(inv.CompanyID, entity.RefTypePurchaseInvoice, inv.ID)
	if err != nil {
		return fmt.Errorf("load movements of invoice %s: %w", inv.ID, err)
	}
	needed := map[string]decimal.Decimal{}
	for _, m := range movements {
		if m.Type != entity.MovementTypeIN {
			continue
		}
		needed[m.ProductID] = needed[m.ProductID].Add(m.Quantity)
	}
	for productID, qty := range needed {
		if err := movRepo.LockKey(productID, inv.WarehouseID); err != nil {
			return fmt.Errorf("lock stock key: %w", err)
		}
		available, err := movRepo.SignedSum(inv.CompanyID, productID, inv.WarehouseID, nil)
		if err != nil {
			return fmt.Errorf("stock balance of %s: %w", productID, err)
		}
		if available.LessThan(qty) {
			return &domain.InsufficientStockError{
				ProductID: productID,
				Available: available,
				Required:  qty,
			}
		}
	}
	return nil
}
