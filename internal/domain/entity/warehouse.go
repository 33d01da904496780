package entity

import "time"

// Warehouse is a stock location belonging to one company.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
