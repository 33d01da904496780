package repository

import "github.com/vyomerp/vyom-api/internal/domain/entity"

// VendorRepository is the persistence port for vendors.
type VendorRepository interface {
	Create(vendor *entity.Vendor) error
	Update(vendor *entity.Vendor) error
	GetByID(id string) (*entity.Vendor, error)
	FindActiveByID(id, companyID string) (*entity.Vendor, error)
	List(companyID string, limit, offset int) ([]*entity.Vendor, error)
}
