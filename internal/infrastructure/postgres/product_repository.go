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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements ProductRepository over PostgreSQL (usable with pool
// or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the adapter. Pass pool or tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, sku, name, description, hsn_code, unit_price, purchase_price,
	gst_rate, unit_measure, tracks_batches, tracks_expiry, min_stock_level, active, created_at, updated_at`

// Create persists a product. SKU is unique per company.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CompanyID, p.SKU, p.Name, nullIfEmpty(p.Description), nullIfEmpty(p.HSNCode),
		p.UnitPrice, p.PurchasePrice, p.GSTRate, nullIfEmpty(p.UnitMeasure),
		p.TracksBatches, p.TracksExpiry, p.MinStockLevel, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update persists all mutable product fields.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, hsn_code = $4, unit_price = $5, purchase_price = $6,
		    gst_rate = $7, min_stock_level = $8, active = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, nullIfEmpty(p.Description), nullIfEmpty(p.HSNCode), p.UnitPrice, p.PurchasePrice,
		p.GSTRate, p.MinStockLevel, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var description, hsn, unitMeasure *string
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &description, &hsn, &p.UnitPrice, &p.PurchasePrice,
		&p.GSTRate, &unitMeasure, &p.TracksBatches, &p.TracksExpiry, &p.MinStockLevel, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = deref(description)
	p.HSNCode = deref(hsn)
	p.UnitMeasure = deref(unitMeasure)
	return &p, nil
}

// GetByID returns one product, nil when missing.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// FindActiveByID returns nil when the product is missing, inactive or
// belongs to another company.
func (r *ProductRepo) FindActiveByID(id, companyID string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND company_id = $2 AND active`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active product: %w", err)
	}
	return p, nil
}

// List returns the company's products with pagination.
func (r *ProductRepo) List(companyID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE company_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
