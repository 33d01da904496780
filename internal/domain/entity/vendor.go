package entity

import "time"

// Vendor is a supplier (purchase-side counterpart of Customer).
type Vendor struct {
	ID        string
	CompanyID string
	Name      string
	GSTIN     string
	State     string
	Address   string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
