package repository

import "github.com/vyomerp/vyom-api/internal/domain/entity"

// PaymentRepository is the persistence port for receipts and payments.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	// ExistsForInvoice reports whether any payment is linked to the invoice;
	// a linked payment blocks cancellation.
	ExistsForInvoice(invoiceID string) (bool, error)
	ListByInvoice(invoiceID string) ([]*entity.Payment, error)
}
