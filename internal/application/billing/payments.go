package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// RecordPayment records money against an ACTIVE invoice: a receipt on sales
// invoices, a payment on purchase invoices. The payment row and its two-line
// ledger batch commit together. Paying more than the outstanding balance is
// rejected.
func (u *InvoiceUseCase) RecordPayment(ctx context.Context, companyID, userID string, req dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if req.InvoiceID == "" || !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if req.Mode != entity.PaymentModeCash && req.Mode != entity.PaymentModeBank {
		return nil, fmt.Errorf("payment mode %q: %w", req.Mode, domain.ErrInvalidInput)
	}
	inv, err := u.invoices.GetByID(req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.InvoiceStatusActive {
		return nil, domain.ErrAlreadyCancelled
	}
	outstanding, err := u.outstanding(inv)
	if err != nil {
		return nil, err
	}
	if req.Amount.GreaterThan(outstanding) {
		return nil, fmt.Errorf("amount %s exceeds outstanding %s: %w",
			req.Amount, outstanding, domain.ErrConflict)
	}

	kind := entity.PaymentKindReceipt
	if inv.Kind == entity.InvoiceKindPurchase {
		kind = entity.PaymentKindPayment
	}
	payment := &entity.Payment{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Kind:      kind,
		PartyID:   inv.PartyID,
		InvoiceID: inv.ID,
		Amount:    req.Amount,
		Mode:      req.Mode,
		Date:      u.clock.Now(),
		Notes:     req.Notes,
		CreatedBy: userID,
		CreatedAt: u.clock.Now(),
	}

	err = u.tx.Run(ctx, func(
		_ repository.InvoiceRepository,
		ledRepo repository.LedgerRepository,
		_ repository.StockMovementRepository,
		payRepo repository.PaymentRepository,
	) error {
		if err := payRepo.Create(payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if kind == entity.PaymentKindReceipt {
			return u.ledger.PostReceipt(ledRepo, payment)
		}
		return u.ledger.PostPayment(ledRepo, payment)
	})
	if err != nil {
		return nil, err
	}

	newValues, _ := json.Marshal(map[string]string{
		"invoice_id": inv.ID,
		"amount":     payment.Amount.String(),
		"mode":       payment.Mode,
	})
	u.audit.Record(&entity.AuditLog{
		CompanyID:  companyID,
		UserID:     userID,
		Action:     "CREATE",
		Module:     "billing",
		RecordType: kind,
		RecordID:   payment.ID,
		NewValues:  newValues,
	})
	return toPaymentResponse(payment), nil
}

// ListPayments returns the payments linked to one invoice.
func (u *InvoiceUseCase) ListPayments(companyID, invoiceID string) ([]*dto.PaymentResponse, error) {
	inv, err := u.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	payments, err := u.payments.ListByInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	return out, nil
}

// outstanding is the grand total minus everything already paid.
func (u *InvoiceUseCase) outstanding(inv *entity.Invoice) (decimal.Decimal, error) {
	payments, err := u.payments.ListByInvoice(inv.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load payments of invoice %s: %w", inv.ID, err)
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return inv.GrandTotal.Sub(paid), nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:        p.ID,
		Kind:      p.Kind,
		PartyID:   p.PartyID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Mode:      p.Mode,
		Date:      p.Date,
	}
}
