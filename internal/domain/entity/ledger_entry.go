package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fixed account heads. Party heads are derived per customer/vendor.
const (
	AccountSales     = "SALES"
	AccountPurchases = "PURCHASES"
	AccountCash      = "CASH"
	AccountBank      = "BANK"
	AccountRoundOff  = "ROUND_OFF"

	AccountCGSTPayable = "CGST_PAYABLE"
	AccountSGSTPayable = "SGST_PAYABLE"
	AccountIGSTPayable = "IGST_PAYABLE"
	AccountCGSTInput   = "CGST_INPUT"
	AccountSGSTInput   = "SGST_INPUT"
	AccountIGSTInput   = "IGST_INPUT"
)

// CustomerAccountHead derives the receivable head for a customer.
func CustomerAccountHead(customerID string) string {
	return "CUSTOMER_" + customerID
}

// VendorAccountHead derives the payable head for a vendor.
func VendorAccountHead(vendorID string) string {
	return "VENDOR_" + vendorID
}

// Reference types tag ledger entries and stock movements back to the business
// document that produced them.
const (
	RefTypeSalesInvoice    = "SALES_INVOICE"
	RefTypePurchaseInvoice = "PURCHASE_INVOICE"
	RefTypeReceipt         = "RECEIPT"
	RefTypePayment         = "PAYMENT"
	RefTypeAdjustment      = "STOCK_ADJUSTMENT"
	RefTypeTransfer        = "STOCK_TRANSFER"
)

// LedgerEntry is one immutable double-entry line. Exactly one of Debit or
// Credit is positive, the other zero. Entries are only ever appended;
// corrections post reversing entries under the same reference.
type LedgerEntry struct {
	ID            string
	CompanyID     string
	Date          time.Time
	AccountHead   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Narration     string
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
	CreatedAt     time.Time
}

// TrialBalanceRow is one account head aggregated over a period.
type TrialBalanceRow struct {
	AccountHead string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}
