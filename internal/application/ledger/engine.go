// Package ledger implements the double-entry posting engine: balanced batch
// writes, domain posting templates (sale, purchase, receipt, payment),
// reference-based reversal and balance/trial-balance queries replayed from
// the append-only entry history.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// epsilon tolerates float-born rounding drift when checking batch balance.
var epsilon = decimal.RequireFromString("0.01")

// Engine posts balanced batches of ledger entries. It holds no mutable state
// of its own: atomicity comes from the caller's transaction and consistency
// from the append-only history, so one Engine is safe for concurrent use.
// readRepo serves queries outside any transaction; write methods take the
// transaction-bound repository explicitly.
type Engine struct {
	readRepo repository.LedgerRepository
}

// NewEngine builds the engine with a pool-bound repository for reads.
func NewEngine(readRepo repository.LedgerRepository) *Engine {
	return &Engine{readRepo: readRepo}
}

// PostBatch validates and persists a batch of entries atomically against the
// caller's transactional repository. The batch is rejected before any write
// when debits and credits differ by more than epsilon, or when any entry does
// not have exactly one positive side.
func (e *Engine) PostBatch(repo repository.LedgerRepository, entries []*entity.LedgerEntry) error {
	if len(entries) == 0 {
		return domain.ErrInvalidInput
	}
	var debits, credits decimal.Decimal
	for _, en := range entries {
		if en.Debit.IsNegative() || en.Credit.IsNegative() {
			return fmt.Errorf("ledger entry for %s: %w", en.AccountHead, domain.ErrInvalidInput)
		}
		debitSet := en.Debit.IsPositive()
		creditSet := en.Credit.IsPositive()
		if debitSet == creditSet {
			// both set or both zero
			return fmt.Errorf("ledger entry for %s must have exactly one of debit/credit: %w",
				en.AccountHead, domain.ErrInvalidInput)
		}
		debits = debits.Add(en.Debit)
		credits = credits.Add(en.Credit)
	}
	if debits.Sub(credits).Abs().GreaterThan(epsilon) {
		return &domain.UnbalancedBatchError{TotalDebits: debits, TotalCredits: credits}
	}
	for _, en := range entries {
		if en.ID == "" {
			en.ID = uuid.New().String()
		}
		if en.CreatedAt.IsZero() {
			en.CreatedAt = en.Date
		}
	}
	return repo.CreateBatch(entries)
}

// ReverseForReference posts an equal-and-opposite batch for every entry
// tagged with the reference, swapping debit and credit per line. The original
// entries are never touched, preserving the full audit history.
func (e *Engine) ReverseForReference(repo repository.LedgerRepository, companyID, referenceType, referenceID string, date time.Time, narration string) error {
	originals, err := repo.ListByReference(companyID, referenceType, referenceID)
	if err != nil {
		return fmt.Errorf("load entries for %s %s: %w", referenceType, referenceID, err)
	}
	if len(originals) == 0 {
		return domain.ErrNotFound
	}
	reversal := make([]*entity.LedgerEntry, 0, len(originals))
	for _, o := range originals {
		reversal = append(reversal, &entity.LedgerEntry{
			CompanyID:     o.CompanyID,
			Date:          date,
			AccountHead:   o.AccountHead,
			Debit:         o.Credit,
			Credit:        o.Debit,
			Narration:     narration,
			ReferenceType: o.ReferenceType,
			ReferenceID:   o.ReferenceID,
			CreatedBy:     o.CreatedBy,
			CreatedAt:     date,
		})
	}
	return e.PostBatch(repo, reversal)
}

// Balance replays Σdebit − Σcredit for an account head up to asOf.
func (e *Engine) Balance(companyID, accountHead string, asOf time.Time) (decimal.Decimal, error) {
	debits, credits, err := e.readRepo.SumDebitsCreditsAsOf(companyID, accountHead, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance of %s: %w", accountHead, err)
	}
	return debits.Sub(credits), nil
}

// TrialBalance aggregates per-head debits, credits and net balance over
// [from, to]. For a company with only balanced batches the balances sum to
// zero within epsilon.
func (e *Engine) TrialBalance(companyID string, from, to time.Time) ([]*entity.TrialBalanceRow, error) {
	rows, err := e.readRepo.TrialBalance(companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("trial balance: %w", err)
	}
	for _, r := range rows {
		r.Balance = r.Debit.Sub(r.Credit)
	}
	return rows, nil
}
