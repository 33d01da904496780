package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/gst"
)

var hundred = decimal.NewFromInt(100)

// pricedLine is one invoice line after pricing and tax computation, before
// persistence.
type pricedLine struct {
	product     *entity.Product
	quantity    decimal.Decimal
	unitPrice   decimal.Decimal
	discountPct decimal.Decimal
	discountAmt decimal.Decimal
	gross       decimal.Decimal
	tax         *gst.Breakdown
	batchNumber string
	expiryDate  *time.Time
}

// invoiceTotals is the folded result of all priced lines plus the rupee
// round-off that closes the grand total.
type invoiceTotals struct {
	subtotal      decimal.Decimal
	discountTotal decimal.Decimal
	tax           *gst.Breakdown
	roundOff      decimal.Decimal
	grandTotal    decimal.Decimal
}

// priceLine prices one request line against the product master and computes
// its GST breakdown. A zero unit price falls back to the given list price.
func priceLine(req dto.CreateInvoiceItemRequest, product *entity.Product, listPrice decimal.Decimal, buyerState, sellerState string) (*pricedLine, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("quantity for product %s must be positive: %w", req.ProductID, domain.ErrInvalidInput)
	}
	if req.DiscountPercent.IsNegative() || req.DiscountPercent.GreaterThan(hundred) {
		return nil, fmt.Errorf("discount for product %s out of range: %w", req.ProductID, domain.ErrInvalidInput)
	}
	unitPrice := req.UnitPrice
	if unitPrice.IsZero() {
		unitPrice = listPrice
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price for product %s: %w", req.ProductID, domain.ErrInvalidInput)
	}

	gross := req.Quantity.Mul(unitPrice).Round(2)
	discountAmt := gross.Mul(req.DiscountPercent).Div(hundred).Round(2)
	taxable := gross.Sub(discountAmt)

	breakdown, err := gst.Compute(taxable, product.GSTRate, buyerState, sellerState)
	if err != nil {
		return nil, fmt.Errorf("tax on product %s: %w", req.ProductID, err)
	}
	return &pricedLine{
		product:     product,
		quantity:    req.Quantity,
		unitPrice:   unitPrice,
		discountPct: req.DiscountPercent,
		discountAmt: discountAmt,
		gross:       gross,
		tax:         breakdown,
		batchNumber: req.BatchNumber,
		expiryDate:  req.ExpiryDate,
	}, nil
}

// foldTotals sums the priced lines and rounds the grand total to the nearest
// rupee; RoundOff carries the signed residue so the ledger batch still
// balances.
func foldTotals(lines []*pricedLine) invoiceTotals {
	var subtotal, discountTotal decimal.Decimal
	breakdowns := make([]*gst.Breakdown, 0, len(lines))
	for _, l := range lines {
		subtotal = subtotal.Add(l.gross)
		discountTotal = discountTotal.Add(l.discountAmt)
		breakdowns = append(breakdowns, l.tax)
	}
	tax := gst.Summarize(breakdowns)
	grand := tax.TotalAmount.Round(0)
	return invoiceTotals{
		subtotal:      subtotal.Round(2),
		discountTotal: discountTotal.Round(2),
		tax:           tax,
		roundOff:      grand.Sub(tax.TotalAmount),
		grandTotal:    grand,
	}
}

// toInvoiceItem materializes a priced line as a persistable invoice line.
func (l *pricedLine) toInvoiceItem(invoiceID string) *entity.InvoiceItem {
	return &entity.InvoiceItem{
		InvoiceID:       invoiceID,
		ProductID:       l.product.ID,
		HSNCode:         l.product.HSNCode,
		Quantity:        l.quantity,
		UnitPrice:       l.unitPrice,
		DiscountPercent: l.discountPct,
		DiscountAmount:  l.discountAmt,
		TaxableAmount:   l.tax.TaxableAmount,
		GSTRate:         l.tax.Rate,
		CGSTAmount:      l.tax.CGST,
		SGSTAmount:      l.tax.SGST,
		IGSTAmount:      l.tax.IGST,
		TotalAmount:     l.tax.TotalAmount,
		BatchNumber:     l.batchNumber,
		ExpiryDate:      l.expiryDate,
	}
}

// perUnitCost is the taxable amount spread back over the quantity, used as
// the inbound unit cost on purchases.
func (l *pricedLine) perUnitCost() decimal.Decimal {
	if !l.quantity.IsPositive() {
		return decimal.Zero
	}
	return l.tax.TaxableAmount.Div(l.quantity)
}
