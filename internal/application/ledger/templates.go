package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// Posting templates: each builds a batch that is balanced by construction;
// PostBatch re-verifies as a safety net.

// PostSale posts a sales invoice:
//
//	Dr CUSTOMER_<id>   grand total
//	Cr SALES           taxable total
//	Cr *GST_PAYABLE    per applicable tax head
//	Dr/Cr ROUND_OFF    the rounding residue, on whichever side closes the batch
func (e *Engine) PostSale(repo repository.LedgerRepository, inv *entity.Invoice) error {
	if inv.Kind != entity.InvoiceKindSales {
		return fmt.Errorf("post sale for %s invoice: %w", inv.Kind, domain.ErrInvalidInput)
	}
	entries := []*entity.LedgerEntry{
		e.entry(inv, entity.CustomerAccountHead(inv.PartyID), inv.GrandTotal, decimal.Zero,
			"Sales invoice "+inv.Number),
		e.entry(inv, entity.AccountSales, decimal.Zero, inv.TaxableTotal,
			"Sales invoice "+inv.Number),
	}
	entries = appendTaxLines(entries, e, inv, false,
		entity.AccountCGSTPayable, entity.AccountSGSTPayable, entity.AccountIGSTPayable)
	entries = appendRoundOff(entries, e, inv)
	return e.PostBatch(repo, entries)
}

// PostPurchase posts a purchase invoice (GRN), mirroring PostSale with the
// vendor-payable and input-tax-credit heads:
//
//	Dr PURCHASES       taxable total
//	Dr *GST_INPUT      per applicable tax head
//	Cr VENDOR_<id>     grand total
func (e *Engine) PostPurchase(repo repository.LedgerRepository, inv *entity.Invoice) error {
	if inv.Kind != entity.InvoiceKindPurchase {
		return fmt.Errorf("post purchase for %s invoice: %w", inv.Kind, domain.ErrInvalidInput)
	}
	entries := []*entity.LedgerEntry{
		e.entry(inv, entity.AccountPurchases, inv.TaxableTotal, decimal.Zero,
			"Purchase invoice "+inv.Number),
		e.entry(inv, entity.VendorAccountHead(inv.PartyID), decimal.Zero, inv.GrandTotal,
			"Purchase invoice "+inv.Number),
	}
	entries = appendTaxLines(entries, e, inv, true,
		entity.AccountCGSTInput, entity.AccountSGSTInput, entity.AccountIGSTInput)
	entries = appendRoundOff(entries, e, inv)
	return e.PostBatch(repo, entries)
}

// PostReceipt posts money received from a customer:
//
//	Dr CASH/BANK       amount
//	Cr CUSTOMER_<id>   amount
func (e *Engine) PostReceipt(repo repository.LedgerRepository, p *entity.Payment) error {
	cashHead, err := cashHeadFor(p.Mode)
	if err != nil {
		return err
	}
	narration := "Receipt from customer"
	return e.PostBatch(repo, []*entity.LedgerEntry{
		paymentEntry(p, cashHead, p.Amount, decimal.Zero, narration, entity.RefTypeReceipt),
		paymentEntry(p, entity.CustomerAccountHead(p.PartyID), decimal.Zero, p.Amount, narration, entity.RefTypeReceipt),
	})
}

// PostPayment posts money paid to a vendor:
//
//	Dr VENDOR_<id>     amount
//	Cr CASH/BANK       amount
func (e *Engine) PostPayment(repo repository.LedgerRepository, p *entity.Payment) error {
	cashHead, err := cashHeadFor(p.Mode)
	if err != nil {
		return err
	}
	narration := "Payment to vendor"
	return e.PostBatch(repo, []*entity.LedgerEntry{
		paymentEntry(p, entity.VendorAccountHead(p.PartyID), p.Amount, decimal.Zero, narration, entity.RefTypePayment),
		paymentEntry(p, cashHead, decimal.Zero, p.Amount, narration, entity.RefTypePayment),
	})
}

func (e *Engine) entry(inv *entity.Invoice, head string, debit, credit decimal.Decimal, narration string) *entity.LedgerEntry {
	refType := entity.RefTypeSalesInvoice
	if inv.Kind == entity.InvoiceKindPurchase {
		refType = entity.RefTypePurchaseInvoice
	}
	return &entity.LedgerEntry{
		CompanyID:     inv.CompanyID,
		Date:          inv.Date,
		AccountHead:   head,
		Debit:         debit,
		Credit:        credit,
		Narration:     narration,
		ReferenceType: refType,
		ReferenceID:   inv.ID,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.Date,
	}
}

// appendTaxLines adds one line per nonzero tax total. debitSide selects the
// input-credit direction used on purchases.
func appendTaxLines(entries []*entity.LedgerEntry, e *Engine, inv *entity.Invoice, debitSide bool, cgstHead, sgstHead, igstHead string) []*entity.LedgerEntry {
	add := func(head string, amount decimal.Decimal) {
		if !amount.IsPositive() {
			return
		}
		if debitSide {
			entries = append(entries, e.entry(inv, head, amount, decimal.Zero, "GST on "+inv.Number))
		} else {
			entries = append(entries, e.entry(inv, head, decimal.Zero, amount, "GST on "+inv.Number))
		}
	}
	add(cgstHead, inv.CGSTTotal)
	add(sgstHead, inv.SGSTTotal)
	add(igstHead, inv.IGSTTotal)
	return entries
}

// appendRoundOff closes the gap between the rounded grand total and the exact
// taxable+tax sum (including the one-paisa CGST/SGST split drift) so the
// template stays balanced by construction.
func appendRoundOff(entries []*entity.LedgerEntry, e *Engine, inv *entity.Invoice) []*entity.LedgerEntry {
	var debits, credits decimal.Decimal
	for _, en := range entries {
		debits = debits.Add(en.Debit)
		credits = credits.Add(en.Credit)
	}
	diff := debits.Sub(credits)
	if diff.IsZero() {
		return entries
	}
	if diff.IsPositive() {
		return append(entries, e.entry(inv, entity.AccountRoundOff, decimal.Zero, diff, "Round off "+inv.Number))
	}
	return append(entries, e.entry(inv, entity.AccountRoundOff, diff.Neg(), decimal.Zero, "Round off "+inv.Number))
}

func paymentEntry(p *entity.Payment, head string, debit, credit decimal.Decimal, narration, refType string) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		CompanyID:     p.CompanyID,
		Date:          p.Date,
		AccountHead:   head,
		Debit:         debit,
		Credit:        credit,
		Narration:     narration,
		ReferenceType: refType,
		ReferenceID:   p.ID,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.Date,
	}
}

func cashHeadFor(mode string) (string, error) {
	switch mode {
	case entity.PaymentModeCash:
		return entity.AccountCash, nil
	case entity.PaymentModeBank:
		return entity.AccountBank, nil
	default:
		return "", fmt.Errorf("payment mode %q: %w", mode, domain.ErrInvalidInput)
	}
}
