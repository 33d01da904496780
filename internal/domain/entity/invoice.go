package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice kinds.
const (
	InvoiceKindSales    = "SALES"
	InvoiceKindPurchase = "PURCHASE"
)

// Invoice statuses. DRAFT is implicit (never persisted); CANCELLED is
// terminal and entered only from ACTIVE.
const (
	InvoiceStatusActive    = "ACTIVE"
	InvoiceStatusCancelled = "CANCELLED"
)

// Invoice is a sales or purchase invoice header. Cancellation is a soft state:
// the row is never deleted, and stock/ledger effects are reversed with
// offsetting records tagged to the same reference.
type Invoice struct {
	ID            string
	CompanyID     string
	Kind          string
	PartyID       string // customer on SALES, vendor on PURCHASE
	WarehouseID   string
	Prefix        string
	Number        string // PREFIX/YEAR/NNNN
	Date          time.Time
	PlaceOfSupply string // buyer state; drives CGST+SGST vs IGST
	Status        string

	Subtotal      decimal.Decimal // Σ qty*unitPrice before discount
	DiscountTotal decimal.Decimal
	TaxableTotal  decimal.Decimal
	CGSTTotal     decimal.Decimal
	SGSTTotal     decimal.Decimal
	IGSTTotal     decimal.Decimal
	TaxTotal      decimal.Decimal
	RoundOff      decimal.Decimal
	GrandTotal    decimal.Decimal

	CancelReason string
	CancelledAt  *time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InvoiceItem is one invoice line. TaxableAmount = qty*unitPrice − discount;
// the tax split mirrors the GST breakdown computed for the line.
type InvoiceItem struct {
	ID              string
	InvoiceID       string
	ProductID       string
	HSNCode         string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxableAmount   decimal.Decimal
	GSTRate         decimal.Decimal
	CGSTAmount      decimal.Decimal
	SGSTAmount      decimal.Decimal
	IGSTAmount      decimal.Decimal
	TotalAmount     decimal.Decimal
	BatchNumber     string
	ExpiryDate      *time.Time
}
