package repository

import "github.com/vyomerp/vyom-api/internal/domain/entity"

// UserRepository is the persistence port for users.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
}
