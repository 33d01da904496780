package entity

import "time"

// Customer is a buyer. State drives the GST split on sales: same state as the
// selling company ⇒ CGST+SGST, different ⇒ IGST.
type Customer struct {
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
