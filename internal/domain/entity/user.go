package entity

import "time"

// User roles.
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleOperator   = "operator"
)

// User is an application user scoped to one company.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
