package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment kinds: RECEIPT is money in from a customer, PAYMENT is money out to
// a vendor.
const (
	PaymentKindReceipt = "RECEIPT"
	PaymentKindPayment = "PAYMENT"
)

// Payment modes (ledger head the cash leg posts to).
const (
	PaymentModeCash = "CASH"
	PaymentModeBank = "BANK"
)

// Payment records money moving against an invoice. A linked payment blocks
// cancellation of that invoice.
type Payment struct {
	ID        string
	CompanyID string
	Kind      string
	PartyID   string
	InvoiceID string
	Amount    decimal.Decimal
	Mode      string
	Date      time.Time
	Notes     string
	CreatedBy string
	CreatedAt time.Time
}
