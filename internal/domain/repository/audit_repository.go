package repository

import "github.com/vyomerp/vyom-api/internal/domain/entity"

// AuditRepository is the persistence port for the audit trail. Writes are
// best-effort: callers log and discard failures, never propagate them.
type AuditRepository interface {
	Create(log *entity.AuditLog) error
	List(companyID string, limit, offset int) ([]*entity.AuditLog, error)
}
