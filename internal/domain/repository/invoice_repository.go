package repository

import "github.com/vyomerp/vyom-api/internal/domain/entity"

// InvoiceRepository is the persistence port for invoice headers and lines.
// Headers support a single state change (ACTIVE → CANCELLED); lines are
// immutable once created.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	// MarkCancelled flips status to CANCELLED; it must affect zero rows when
	// the invoice is not ACTIVE (the guard runs inside the transaction).
	MarkCancelled(id, reason string) error
	// MaxNumberSuffix returns the highest NNNN suffix already issued for
	// (company, kind, prefix, year); 0 when none exist.
	MaxNumberSuffix(companyID, kind, prefix string, year int) (int, error)
	// LockNumberSequence serializes number generation for one
	// (company, kind, prefix, year) until the surrounding transaction ends,
	// so concurrent requests never issue the same suffix.
	LockNumberSequence(companyID, kind, prefix string, year int) error
	List(companyID, kind string, limit, offset int) ([]*entity.Invoice, error)
}
