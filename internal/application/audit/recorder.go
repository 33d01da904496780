// Package audit writes the best-effort audit trail. A failed audit write is
// logged and discarded so it never rolls back or fails the business action it
// describes.
package audit

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// Recorder persists audit entries after the business transaction committed.
type Recorder struct {
	repo  repository.AuditRepository
	clock domain.Clock
	log   zerolog.Logger
}

// NewRecorder builds the audit recorder.
func NewRecorder(repo repository.AuditRepository, clock domain.Clock, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, clock: clock, log: log}
}

// Record fills in ID and timestamp and writes the entry. Errors are logged,
// never returned.
func (r *Recorder) Record(l *entity.AuditLog) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.clock.Now()
	}
	if err := r.repo.Create(l); err != nil {
		r.log.Error().Err(err).
			Str("action", l.Action).
			Str("module", l.Module).
			Str("record_id", l.RecordID).
			Msg("audit write failed")
	}
}

// List returns the audit trail for a company, newest first.
func (r *Recorder) List(companyID string, limit, offset int) ([]*entity.AuditLog, error) {
	return r.repo.List(companyID, limit, offset)
}
