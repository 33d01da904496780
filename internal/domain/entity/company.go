package entity

import "time"

// Company is a tenant. State is the seller jurisdiction for GST purposes.
type Company struct {
	ID        string
	Name      string
	GSTIN     string
	State     string
	Address   string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
