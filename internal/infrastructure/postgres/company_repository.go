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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implements CompanyRepository over PostgreSQL (usable with pool
// or tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository builds the adapter. Pass pool or tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persists a tenant.
func (r *CompanyRepo) Create(c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, gstin, state, address, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, nullIfEmpty(c.GSTIN), c.State,
		nullIfEmpty(c.Address), nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID returns one tenant.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `
		SELECT id, name, gstin, state, address, email, phone, created_at, updated_at
		FROM companies WHERE id = $1`
	var c entity.Company
	var gstin, address, email, phone *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &gstin, &c.State, &address, &email, &phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	c.GSTIN = deref(gstin)
	c.Address = deref(address)
	c.Email = deref(email)
	c.Phone = deref(phone)
	return &c, nil
}

// List returns tenants with pagination.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `
		SELECT id, name, gstin, state, address, email, phone, created_at, updated_at
		FROM companies
		ORDER BY name
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []*entity.Company
	for rows.Next() {
		var c entity.Company
		var gstin, address, email, phone *string
		if err := rows.Scan(&c.ID, &c.Name, &gstin, &c.State, &address, &email, &phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.GSTIN = deref(gstin)
		c.Address = deref(address)
		c.Email = deref(email)
		c.Phone = deref(phone)
		out = append(out, &c)
	}
	return out, rows.Err()
}
