package repository

import "github.com/vyomerp/vyom-api/internal/domain/entity"

// CompanyRepository is the persistence port for tenants.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
}
