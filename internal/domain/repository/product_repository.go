package repository

import "github.com/vyomerp/vyom-api/internal/domain/entity"

// ProductRepository is the persistence port for products.
type ProductRepository interface {
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// FindActiveByID returns nil when the product is missing or inactive.
	FindActiveByID(id, companyID string) (*entity.Product, error)
	List(companyID string, limit, offset int) ([]*entity.Product, error)
}
