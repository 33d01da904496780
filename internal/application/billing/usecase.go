// Package billing orchestrates invoicing: it prices lines, computes GST,
// issues sequential invoice numbers and commits the invoice header, its
// lines, the stock movements and the ledger batch in one transaction.
package billing

import (
	"fmt"

	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/application/ledger"
	"github.com/vyomerp/vyom-api/internal/application/stock"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// InvoiceUseCase drives the invoice lifecycle. Reads go through the
// pool-bound repositories; every write path runs inside the TxRunner with
// transaction-bound repositories so partial invoices can never be observed.
type InvoiceUseCase struct {
	tx         TxRunner
	ledger     *ledger.Engine
	stock      *stock.Ledger
	invoices   repository.InvoiceRepository
	payments   repository.PaymentRepository
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	vendors    repository.VendorRepository
	warehouses repository.WarehouseRepository
	companies  repository.CompanyRepository
	audit      AuditRecorder
	clock      domain.Clock
}

// NewInvoiceUseCase wires the invoicing orchestrator.
func NewInvoiceUseCase(
	tx TxRunner,
	ledgerEngine *ledger.Engine,
	stockLedger *stock.Ledger,
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	vendors repository.VendorRepository,
	warehouses repository.WarehouseRepository,
	companies repository.CompanyRepository,
	audit AuditRecorder,
	clock domain.Clock,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		tx:         tx,
		ledger:     ledgerEngine,
		stock:      stockLedger,
		invoices:   invoices,
		payments:   payments,
		products:   products,
		customers:  customers,
		vendors:    vendors,
		warehouses: warehouses,
		companies:  companies,
		audit:      audit,
		clock:      clock,
	}
}

// GetByID returns one invoice with its lines, scoped to the company.
func (u *InvoiceUseCase) GetByID(companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := u.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	items, err := u.invoices.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, fmt.Errorf("load items of invoice %s: %w", inv.ID, err)
	}
	return toInvoiceResponse(inv, items), nil
}

// List returns invoices of one kind for the company, newest first.
func (u *InvoiceUseCase) List(companyID, kind string, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	if kind != entity.InvoiceKindSales && kind != entity.InvoiceKindPurchase {
		return nil, fmt.Errorf("invoice kind %q: %w", kind, domain.ErrInvalidInput)
	}
	page.DefaultPage()
	invoices, err := u.invoices.List(companyID, kind, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv, nil))
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		CompanyID:     inv.CompanyID,
		Kind:          inv.Kind,
		PartyID:       inv.PartyID,
		WarehouseID:   inv.WarehouseID,
		Number:        inv.Number,
		Date:          inv.Date,
		PlaceOfSupply: inv.PlaceOfSupply,
		Status:        inv.Status,
		Subtotal:      inv.Subtotal,
		DiscountTotal: inv.DiscountTotal,
		TaxableTotal:  inv.TaxableTotal,
		CGSTTotal:     inv.CGSTTotal,
		SGSTTotal:     inv.SGSTTotal,
		IGSTTotal:     inv.IGSTTotal,
		TaxTotal:      inv.TaxTotal,
		RoundOff:      inv.RoundOff,
		GrandTotal:    inv.GrandTotal,
		CancelReason:  inv.CancelReason,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			HSNCode:         it.HSNCode,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			TaxableAmount:   it.TaxableAmount,
			GSTRate:         it.GSTRate,
			CGSTAmount:      it.CGSTAmount,
			SGSTAmount:      it.SGSTAmount,
			IGSTAmount:      it.IGSTAmount,
			TotalAmount:     it.TotalAmount,
			BatchNumber:     it.BatchNumber,
			ExpiryDate:      it.ExpiryDate,
		})
	}
	return resp
}
