package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// InvoiceItemForPDF is one invoice line enriched with the product name for
// rendering.
type InvoiceItemForPDF struct {
	ProductName   string
	HSNCode       string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	GSTRate       decimal.Decimal
	TaxableAmount decimal.Decimal
	TotalAmount   decimal.Decimal
}

// InvoicePDFGenerator renders a tax invoice as PDF bytes.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, company *entity.Company, partyName string, items []InvoiceItemForPDF) ([]byte, error)
}

// PDFUseCase loads an invoice with its context and renders the printable
// tax invoice.
type PDFUseCase struct {
	invoices  repository.InvoiceRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	vendors   repository.VendorRepository
	companies repository.CompanyRepository
	gen       InvoicePDFGenerator
}

// NewPDFUseCase wires the PDF use case.
func NewPDFUseCase(
	invoices repository.InvoiceRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	vendors repository.VendorRepository,
	companies repository.CompanyRepository,
	gen InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoices:  invoices,
		products:  products,
		customers: customers,
		vendors:   vendors,
		companies: companies,
		gen:       gen,
	}
}

// RenderInvoice renders one invoice, scoped to the company.
func (u *PDFUseCase) RenderInvoice(ctx context.Context, companyID, invoiceID string) ([]byte, error) {
	inv, err := u.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	company, err := u.companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	partyName, err := u.partyName(inv)
	if err != nil {
		return nil, err
	}
	items, err := u.invoices.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, fmt.Errorf("load items of invoice %s: %w", inv.ID, err)
	}
	pdfItems := make([]InvoiceItemForPDF, 0, len(items))
	for _, it := range items {
		name := it.ProductID
		if p, err := u.products.GetByID(it.ProductID); err == nil && p != nil {
			name = p.Name
		}
		pdfItems = append(pdfItems, InvoiceItemForPDF{
			ProductName:   name,
			HSNCode:       it.HSNCode,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			GSTRate:       it.GSTRate,
			TaxableAmount: it.TaxableAmount,
			TotalAmount:   it.TotalAmount,
		})
	}
	return u.gen.GenerateInvoicePDF(ctx, inv, company, partyName, pdfItems)
}

func (u *PDFUseCase) partyName(inv *entity.Invoice) (string, error) {
	if inv.Kind == entity.InvoiceKindPurchase {
		v, err := u.vendors.GetByID(inv.PartyID)
		if err != nil {
			return "", err
		}
		if v == nil {
			return inv.PartyID, nil
		}
		return v.Name, nil
	}
	c, err := u.customers.GetByID(inv.PartyID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return inv.PartyID, nil
	}
	return c.Name, nil
}
