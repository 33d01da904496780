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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository over PostgreSQL (usable with pool
// or tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass pool or tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persists the invoice header.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, company_id, kind, party_id, warehouse_id, prefix, number, date,
		                      place_of_supply, status, subtotal, discount_total, taxable_total,
		                      cgst_total, sgst_total, igst_total, tax_total, round_off, grand_total,
		                      created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.CompanyID, inv.Kind, inv.PartyID, inv.WarehouseID, inv.Prefix, inv.Number, inv.Date,
		inv.PlaceOfSupply, inv.Status, inv.Subtotal, inv.DiscountTotal, inv.TaxableTotal,
		inv.CGSTTotal, inv.SGSTTotal, inv.IGSTTotal, inv.TaxTotal, inv.RoundOff, inv.GrandTotal,
		nullIfEmpty(inv.CreatedBy), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persists one invoice line.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, hsn_code, quantity, unit_price,
		                           discount_percent, discount_amount, taxable_amount, gst_rate,
		                           cgst_amount, sgst_amount, igst_amount, total_amount,
		                           batch_number, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, nullIfEmpty(item.HSNCode), item.Quantity, item.UnitPrice,
		item.DiscountPercent, item.DiscountAmount, item.TaxableAmount, item.GSTRate,
		item.CGSTAmount, item.SGSTAmount, item.IGSTAmount, item.TotalAmount,
		nullIfEmpty(item.BatchNumber), item.ExpiryDate,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

const invoiceColumns = `id, company_id, kind, party_id, warehouse_id, prefix, number, date,
	place_of_supply, status, subtotal, discount_total, taxable_total,
	cgst_total, sgst_total, igst_total, tax_total, round_off, grand_total,
	cancel_reason, cancelled_at, created_by, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var cancelReason, createdBy *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.Kind, &inv.PartyID, &inv.WarehouseID, &inv.Prefix, &inv.Number, &inv.Date,
		&inv.PlaceOfSupply, &inv.Status, &inv.Subtotal, &inv.DiscountTotal, &inv.TaxableTotal,
		&inv.CGSTTotal, &inv.SGSTTotal, &inv.IGSTTotal, &inv.TaxTotal, &inv.RoundOff, &inv.GrandTotal,
		&cancelReason, &inv.CancelledAt, &createdBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.CancelReason = deref(cancelReason)
	inv.CreatedBy = deref(createdBy)
	return &inv, nil
}

// GetByID returns one invoice header.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID returns the lines of one invoice.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, hsn_code, quantity, unit_price,
		       discount_percent, discount_amount, taxable_amount, gst_rate,
		       cgst_amount, sgst_amount, igst_amount, total_amount,
		       batch_number, expiry_date
		FROM invoice_items WHERE invoice_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		var hsn, batch *string
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &hsn, &it.Quantity, &it.UnitPrice,
			&it.DiscountPercent, &it.DiscountAmount, &it.TaxableAmount, &it.GSTRate,
			&it.CGSTAmount, &it.SGSTAmount, &it.IGSTAmount, &it.TotalAmount,
			&batch, &it.ExpiryDate,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		it.HSNCode = deref(hsn)
		it.BatchNumber = deref(batch)
		out = append(out, &it)
	}
	return out, rows.Err()
}

// MarkCancelled flips an ACTIVE invoice to CANCELLED. The status guard runs
// in the statement itself; zero affected rows means the invoice was not
// ACTIVE anymore.
func (r *InvoiceRepo) MarkCancelled(id, reason string) error {
	query := `
		UPDATE invoices
		SET status = $2, cancel_reason = $3, cancelled_at = now(), updated_at = now()
		WHERE id = $1 AND status = $4`
	tag, err := r.q.Exec(context.Background(), query,
		id, entity.InvoiceStatusCancelled, reason, entity.InvoiceStatusActive)
	if err != nil {
		return fmt.Errorf("cancel invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyCancelled
	}
	return nil
}

// MaxNumberSuffix returns the highest issued NNNN for the sequence, 0 when
// none exist. The suffix is the digits after the last slash of the number.
func (r *InvoiceRepo) MaxNumberSuffix(companyID, kind, prefix string, year int) (int, error) {
	query := `
		SELECT COALESCE(MAX(split_part(number, '/', 3)::int), 0)
		FROM invoices
		WHERE company_id = $1 AND kind = $2 AND number LIKE $3 || '/' || $4::text || '/%'`
	var max int
	err := r.q.QueryRow(context.Background(), query, companyID, kind, prefix, year).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max number suffix: %w", err)
	}
	return max, nil
}

// LockNumberSequence serializes number issuance per (company, kind, prefix,
// year) with a transaction-scoped advisory lock.
func (r *InvoiceRepo) LockNumberSequence(companyID, kind, prefix string, year int) error {
	key := fmt.Sprintf("invnum:%s:%s:%s:%d", companyID, kind, prefix, year)
	_, err := r.q.Exec(context.Background(), `SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	if err != nil {
		return fmt.Errorf("advisory lock number sequence: %w", err)
	}
	return nil
}

// List returns invoices of one kind for the company, newest first.
func (r *InvoiceRepo) List(companyID, kind string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND kind = $2
		ORDER BY date DESC, number DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
