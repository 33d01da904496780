package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
)

// LedgerRepository is the persistence port for double-entry ledger lines.
// The store is append-only: there is no update or delete method on purpose.
// Aggregations live here as named queries so the posting engine stays
// storage-agnostic and unit-testable against an in-memory fake.
type LedgerRepository interface {
	// CreateBatch inserts all entries; the caller guarantees balance and
	// supplies the transactional scope.
	CreateBatch(entries []*entity.LedgerEntry) error
	// ListByReference returns the entries posted for one business document.
	ListByReference(companyID, referenceType, referenceID string) ([]*entity.LedgerEntry, error)
	// SumDebitsCreditsAsOf aggregates an account head up to and including asOf.
	SumDebitsCreditsAsOf(companyID, accountHead string, asOf time.Time) (debits, credits decimal.Decimal, err error)
	// TrialBalance groups entries within [from, to] by account head.
	TrialBalance(companyID string, from, to time.Time) ([]*entity.TrialBalanceRow, error)
}
