package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceItemRequest is one line of an invoice creation request.
// UnitPrice zero means "use the product's list price". Batch fields are only
// honored on purchases; sales allocate batches earliest-expiry-first.
type CreateInvoiceItemRequest struct {
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
}

// CreateInvoiceRequest creates a sales or purchase invoice. PartyID is the
// customer on sales, the vendor on purchases.
type CreateInvoiceRequest struct {
	PartyID     string                     `json:"party_id"`
	WarehouseID string                     `json:"warehouse_id"`
	Prefix      string                     `json:"prefix"`
	Items       []CreateInvoiceItemRequest `json:"items"`
}

// CancelInvoiceRequest cancels an ACTIVE invoice.
type CancelInvoiceRequest struct {
	Reason string `json:"reason"`
}

// InvoiceItemResponse is one invoice line in responses.
type InvoiceItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	HSNCode         string          `json:"hsn_code,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	GSTRate         decimal.Decimal `json:"gst_rate"`
	CGSTAmount      decimal.Decimal `json:"cgst_amount"`
	SGSTAmount      decimal.Decimal `json:"sgst_amount"`
	IGSTAmount      decimal.Decimal `json:"igst_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
}

// InvoiceResponse is an invoice with its lines.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	CompanyID     string                `json:"company_id"`
	Kind          string                `json:"kind"`
	PartyID       string                `json:"party_id"`
	PartyName     string                `json:"party_name,omitempty"`
	WarehouseID   string                `json:"warehouse_id"`
	Number        string                `json:"number"`
	Date          time.Time             `json:"date"`
	PlaceOfSupply string                `json:"place_of_supply"`
	Status        string                `json:"status"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	DiscountTotal decimal.Decimal       `json:"discount_total"`
	TaxableTotal  decimal.Decimal       `json:"taxable_total"`
	CGSTTotal     decimal.Decimal       `json:"cgst_total"`
	SGSTTotal     decimal.Decimal       `json:"sgst_total"`
	IGSTTotal     decimal.Decimal       `json:"igst_total"`
	TaxTotal      decimal.Decimal       `json:"tax_total"`
	RoundOff      decimal.Decimal       `json:"round_off"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	CancelReason  string                `json:"cancel_reason,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
}

// RecordPaymentRequest records a receipt (sales) or payment (purchase)
// against an invoice.
type RecordPaymentRequest struct {
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode"` // CASH | BANK
	Notes     string          `json:"notes"`
}

// PaymentResponse is a recorded payment.
type PaymentResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	PartyID   string          `json:"party_id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode"`
	Date      time.Time       `json:"date"`
}
