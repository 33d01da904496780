package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implements the append-only ledger over PostgreSQL (usable with
// pool or tx). The table has no UPDATE or DELETE path.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository builds the adapter. Pass pool or tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// CreateBatch inserts all entries of an already-validated batch.
func (r *LedgerRepo) CreateBatch(entries []*entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, company_id, date, account_head, debit, credit,
		                            narration, reference_type, reference_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		_, err := r.q.Exec(context.Background(), query,
			e.ID, e.CompanyID, e.Date, e.AccountHead, e.Debit, e.Credit,
			nullIfEmpty(e.Narration), e.ReferenceType, e.ReferenceID, nullIfEmpty(e.CreatedBy), e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}
	return nil
}

// ListByReference returns the entries posted for one business document,
// oldest first.
func (r *LedgerRepo) ListByReference(companyID, referenceType, referenceID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, company_id, date, account_head, debit, credit,
		       narration, reference_type, reference_id, created_by, created_at
		FROM ledger_entries
		WHERE company_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, companyID, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list entries by reference: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var narration, createdBy *string
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.Date, &e.AccountHead, &e.Debit, &e.Credit,
			&narration, &e.ReferenceType, &e.ReferenceID, &createdBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Narration = deref(narration)
		e.CreatedBy = deref(createdBy)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// SumDebitsCreditsAsOf aggregates an account head up to and including asOf.
func (r *LedgerRepo) SumDebitsCreditsAsOf(companyID, accountHead string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM ledger_entries
		WHERE company_id = $1 AND account_head = $2 AND date <= $3`
	var debits, credits decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, companyID, accountHead, asOf).Scan(&debits, &credits)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum debits/credits: %w", err)
	}
	return debits, credits, nil
}

// TrialBalance groups entries within [from, to] by account head.
func (r *LedgerRepo) TrialBalance(companyID string, from, to time.Time) ([]*entity.TrialBalanceRow, error) {
	query := `
		SELECT account_head, COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM ledger_entries
		WHERE company_id = $1 AND date >= $2 AND date <= $3
		GROUP BY account_head
		ORDER BY account_head`
	rows, err := r.q.Query(context.Background(), query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("trial balance: %w", err)
	}
	defer rows.Close()

	var out []*entity.TrialBalanceRow
	for rows.Next() {
		var row entity.TrialBalanceRow
		if err := rows.Scan(&row.AccountHead, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("scan trial balance row: %w", err)
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
