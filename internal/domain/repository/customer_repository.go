package repository

import "github.com/vyomerp/vyom-api/internal/domain/entity"

// CustomerRepository is the persistence port for customers.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	Update(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	FindActiveByID(id, companyID string) (*entity.Customer, error)
	List(companyID string, limit, offset int) ([]*entity.Customer, error)
}
