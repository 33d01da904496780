// Package gst implements the GST computation for invoice lines: slab
// validation, the intra-state CGST+SGST split versus the inter-state IGST
// charge, and aggregation of per-line breakdowns into invoice totals.
// Everything here is pure — no I/O, safe for concurrent use.
package gst

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors.
var (
	ErrInvalidRate   = errors.New("gst: rate is not a valid slab (0, 5, 12, 18, 28)")
	ErrInvalidAmount = errors.New("gst: taxable amount cannot be negative")
	ErrMissingState  = errors.New("gst: buyer and seller state are required")
)

// precision is the monetary rounding applied to every tax figure (paise).
const precision = 2

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// slabs are the GST rates allowed on a line.
var slabs = []int64{0, 5, 12, 18, 28}

// Breakdown is the tax computed for one taxable amount. Either the
// CGST/SGST pair is set (intra-state) or IGST is set (inter-state), never
// both. Rounding CGST and SGST independently can leave CGST+SGST one paisa
// off TotalTax; that tolerance is accepted, not reconciled.
type Breakdown struct {
	TaxableAmount decimal.Decimal
	Rate          decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
	TotalTax      decimal.Decimal
	TotalAmount   decimal.Decimal
}

// ValidRate reports whether rate is one of the GST slabs.
func ValidRate(rate decimal.Decimal) bool {
	for _, s := range slabs {
		if rate.Equal(decimal.NewFromInt(s)) {
			return true
		}
	}
	return false
}

// Compute returns the GST breakdown for a taxable amount. State comparison is
// a case-insensitive exact match: same state splits the tax into equal CGST
// and SGST halves, different states charge the full amount as IGST.
func Compute(taxableAmount, rate decimal.Decimal, buyerState, sellerState string) (*Breakdown, error) {
	if !ValidRate(rate) {
		return nil, ErrInvalidRate
	}
	if taxableAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	buyer := strings.TrimSpace(buyerState)
	seller := strings.TrimSpace(sellerState)
	if buyer == "" || seller == "" {
		return nil, ErrMissingState
	}

	totalTax := taxableAmount.Mul(rate).Div(hundred).Round(precision)
	b := &Breakdown{
		TaxableAmount: taxableAmount.Round(precision),
		Rate:          rate,
		TotalTax:      totalTax,
		TotalAmount:   taxableAmount.Add(totalTax).Round(precision),
	}
	if strings.EqualFold(buyer, seller) {
		// Each half rounded on its own; CGST+SGST may differ from TotalTax
		// by one paisa.
		half := totalTax.Div(two).Round(precision)
		b.CGST = half
		b.SGST = half
	} else {
		b.IGST = totalTax
	}
	return b, nil
}

// Summarize folds per-line breakdowns into invoice totals. Elementwise sums,
// each rounded to the same precision, so the result does not depend on line
// order beyond the accepted one-paisa tolerance.
func Summarize(lines []*Breakdown) *Breakdown {
	total := &Breakdown{}
	for _, l := range lines {
		total.TaxableAmount = total.TaxableAmount.Add(l.TaxableAmount)
		total.CGST = total.CGST.Add(l.CGST)
		total.SGST = total.SGST.Add(l.SGST)
		total.IGST = total.IGST.Add(l.IGST)
		total.TotalTax = total.TotalTax.Add(l.TotalTax)
		total.TotalAmount = total.TotalAmount.Add(l.TotalAmount)
	}
	total.TaxableAmount = total.TaxableAmount.Round(precision)
	total.CGST = total.CGST.Round(precision)
	total.SGST = total.SGST.Round(precision)
	total.IGST = total.IGST.Round(precision)
	total.TotalTax = total.TotalTax.Round(precision)
	total.TotalAmount = total.TotalAmount.Round(precision)
	return total
}
