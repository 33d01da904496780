package postgres

import (
	"context"
	"fmt"

	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implements AuditRepository over PostgreSQL (usable with pool or
// tx).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository builds the adapter. Pass pool or tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persists one audit entry.
func (r *AuditRepo) Create(l *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, company_id, user_id, action, module, record_type, record_id,
		                        old_values, new_values, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.CompanyID, nullIfEmpty(l.UserID), l.Action, l.Module, l.RecordType, l.RecordID,
		l.OldValues, l.NewValues, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List returns the company's audit trail, newest first.
func (r *AuditRepo) List(companyID string, limit, offset int) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, company_id, user_id, action, module, record_type, record_id,
		       old_values, new_values, created_at
		FROM audit_logs WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var userID *string
		if err := rows.Scan(
			&l.ID, &l.CompanyID, &userID, &l.Action, &l.Module, &l.RecordType, &l.RecordID,
			&l.OldValues, &l.NewValues, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		l.UserID = deref(userID)
		out = append(out, &l)
	}
	return out, rows.Err()
}
