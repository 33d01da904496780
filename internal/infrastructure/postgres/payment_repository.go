package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implements PaymentRepository over PostgreSQL (usable with pool
// or tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository builds the adapter. Pass pool or tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persists a payment.
func (r *PaymentRepo) Create(p *entity.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payments (id, company_id, kind, party_id, invoice_id, amount, mode, date, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CompanyID, p.Kind, p.PartyID, p.InvoiceID, p.Amount, p.Mode, p.Date,
		nullIfEmpty(p.Notes), nullIfEmpty(p.CreatedBy), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID returns one payment.
func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	query := `
		SELECT id, company_id, kind, party_id, invoice_id, amount, mode, date, notes, created_by, created_at
		FROM payments WHERE id = $1`
	var p entity.Payment
	var notes, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.CompanyID, &p.Kind, &p.PartyID, &p.InvoiceID, &p.Amount, &p.Mode, &p.Date,
		&notes, &createdBy, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	p.Notes = deref(notes)
	p.CreatedBy = deref(createdBy)
	return &p, nil
}

// ExistsForInvoice reports whether any payment is linked to the invoice.
func (r *PaymentRepo) ExistsForInvoice(invoiceID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM payments WHERE invoice_id = $1)`, invoiceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("payments exist for invoice: %w", err)
	}
	return exists, nil
}

// ListByInvoice returns the payments linked to one invoice, oldest first.
func (r *PaymentRepo) ListByInvoice(invoiceID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, company_id, kind, party_id, invoice_id, amount, mode, date, notes, created_by, created_at
		FROM payments WHERE invoice_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		var notes, createdBy *string
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.Kind, &p.PartyID, &p.InvoiceID, &p.Amount, &p.Mode, &p.Date,
			&notes, &createdBy, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Notes = deref(notes)
		p.CreatedBy = deref(createdBy)
		out = append(out, &p)
	}
	return out, rows.Err()
}
