package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implements VendorRepository over PostgreSQL (usable with pool
// or tx).
type VendorRepo struct {
	q Querier
}

// NewVendorRepository builds the adapter. Pass pool or tx (Querier).
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

const vendorColumns = `id, company_id, name, gstin, state, address, email, phone, active, created_at, updated_at`

// Create persists a vendor.
func (r *VendorRepo) Create(v *entity.Vendor) error {
	query := `
		INSERT INTO vendors (` + vendorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.CompanyID, v.Name, nullIfEmpty(v.GSTIN), v.State,
		nullIfEmpty(v.Address), nullIfEmpty(v.Email), nullIfEmpty(v.Phone),
		v.Active, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// Update persists all mutable vendor fields.
func (r *VendorRepo) Update(v *entity.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $2, gstin = $3, state = $4, address = $5, email = $6, phone = $7, active = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.Name, nullIfEmpty(v.GSTIN), v.State,
		nullIfEmpty(v.Address), nullIfEmpty(v.Email), nullIfEmpty(v.Phone),
		v.Active, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vendor: %w", err)
	}
	return nil
}

func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var v entity.Vendor
	var gstin, address, email, phone *string
	err := row.Scan(
		&v.ID, &v.CompanyID, &v.Name, &gstin, &v.State, &address, &email, &phone,
		&v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.GSTIN = deref(gstin)
	v.Address = deref(address)
	v.Email = deref(email)
	v.Phone = deref(phone)
	return &v, nil
}

// GetByID returns one vendor, nil when missing.
func (r *VendorRepo) GetByID(id string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(context.Background(),
		`SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// FindActiveByID returns nil when the vendor is missing, inactive or belongs
// to another company.
func (r *VendorRepo) FindActiveByID(id, companyID string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(context.Background(),
		`SELECT `+vendorColumns+` FROM vendors WHERE id = $1 AND company_id = $2 AND active`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active vendor: %w", err)
	}
	return v, nil
}

// List returns the company's vendors with pagination.
func (r *VendorRepo) List(companyID string, limit, offset int) ([]*entity.Vendor, error) {
	query := `SELECT ` + vendorColumns + `
		FROM vendors WHERE company_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var out []*entity.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
