package billing

import (
	"fmt"

	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// Default number prefixes per invoice kind.
const (
	defaultSalesPrefix    = "INV"
	defaultPurchasePrefix = "PUR"
)

// nextInvoiceNumber issues the next PREFIX/YEAR/NNNN for the sequence. It
// must run inside a transaction: the sequence lock is held until that
// transaction ends, so two concurrent invoices can never draw the same
// suffix.
func nextInvoiceNumber(repo repository.InvoiceRepository, companyID, kind, prefix string, year int) (string, error) {
	if prefix == "" {
		prefix = defaultSalesPrefix
		if kind == entity.InvoiceKindPurchase {
			prefix = defaultPurchasePrefix
		}
	}
	if err := repo.LockNumberSequence(companyID, kind, prefix, year); err != nil {
		return "", fmt.Errorf("lock number sequence %s/%d: %w", prefix, year, err)
	}
	max, err := repo.MaxNumberSuffix(companyID, kind, prefix, year)
	if err != nil {
		return "", fmt.Errorf("max number suffix %s/%d: %w", prefix, year, err)
	}
	return fmt.Sprintf("%s/%d/%04d", prefix, year, max+1), nil
}
