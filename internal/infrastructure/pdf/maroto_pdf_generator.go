// Package pdf renders the printable GST tax invoice (Section 31, CGST Rules
// rule 46) using Maroto v2.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Company name + GSTIN  │  Invoice number + Date     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SELLER: address / phone / email / state                    │
//	│  BUYER: name + GSTIN + place of supply                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Qty | Description | HSN | Rate | GST% | Amount      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: Taxable / CGST / SGST / IGST / Round off / TOTAL   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: tax summary + legal note                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/vyomerp/vyom-api/internal/application/billing"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
)

// ── Color palette ─────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implements billing.InvoicePDFGenerator using Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF renders the invoice and returns the PDF bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.Company,
	partyName string,
	items []appbilling.InvoiceItemForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(documentTitle(invoice), true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(company))
	m.AddRows(buyerRow(invoice, partyName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

func documentTitle(invoice *entity.Invoice) string {
	if invoice.Kind == entity.InvoiceKindPurchase {
		return "Purchase Invoice"
	}
	return "Tax Invoice"
}

// headerRow: company name + GSTIN (left) and invoice number + date (right).
func headerRow(invoice *entity.Invoice, company *entity.Company) core.Row {
	title := "TAX INVOICE"
	if invoice.Kind == entity.InvoiceKindPurchase {
		title = "PURCHASE INVOICE"
	}
	date := invoice.Date.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("GSTIN: "+nonEmpty(company.GSTIN, "Unregistered"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// sellerRow: seller details.
func sellerRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("SELLER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Address: %s   |   State: %s   |   Phone: %s   |   Email: %s",
				nonEmpty(company.Address, "—"),
				company.State,
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// buyerRow: buyer name and place of supply.
func buyerRow(invoice *entity.Invoice, partyName string) core.Row {
	label := "BILL TO"
	if invoice.Kind == entity.InvoiceKindPurchase {
		label = "SUPPLIER"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(partyName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Place of supply: "+invoice.PlaceOfSupply, props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: item table header.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Description", 4, align.Left),
		h("HSN", 1, align.Center),
		h("Rate", 2, align.Right),
		h("GST%", 1, align.Center),
		h("Taxable", 2, align.Right),
		h("Amount", 1, align.Right),
	)
}

// tableItemRows: one row per invoice line.
func tableItemRows(items []appbilling.InvoiceItemForPDF) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				nonEmpty(it.HSNCode, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.UnitPrice.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.GSTRate.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.TaxableAmount.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				formatMoney(it.TotalAmount.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: totals block aligned right. Intra-state invoices carry CGST+SGST,
// inter-state carry IGST; zero components are still printed for a fixed shape.
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	labels := []core.Component{label("Taxable value:")}
	values := []core.Component{value(formatMoney(invoice.TaxableTotal.StringFixed(2)))}
	if invoice.IGSTTotal.IsZero() {
		labels = append(labels, label("CGST:"), label("SGST:"))
		values = append(values,
			value(formatMoney(invoice.CGSTTotal.StringFixed(2))),
			value(formatMoney(invoice.SGSTTotal.StringFixed(2))),
		)
	} else {
		labels = append(labels, label("IGST:"))
		values = append(values, value(formatMoney(invoice.IGSTTotal.StringFixed(2))))
	}
	labels = append(labels, label("Round off:"), grandLabel("GRAND TOTAL:"))
	values = append(values,
		value(invoice.RoundOff.StringFixed(2)),
		grandValue("₹ "+formatMoney(invoice.GrandTotal.StringFixed(2))),
	)

	return row.New(34).Add(
		col.New(3),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
		col.New(3),
	)
}

// footerRows: tax summary line and legal note, plus the cancellation stamp
// when the invoice was voided.
func footerRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("TAX SUMMARY", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Total tax: %s   (CGST %s + SGST %s + IGST %s)",
				formatMoney(invoice.TaxTotal.StringFixed(2)),
				formatMoney(invoice.CGSTTotal.StringFixed(2)),
				formatMoney(invoice.SGSTTotal.StringFixed(2)),
				formatMoney(invoice.IGSTTotal.StringFixed(2)),
			), props.Text{Size: 7.5, Color: colorGray, Top: 1}),
		)),
	}

	if invoice.Status == entity.InvoiceStatusCancelled {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("CANCELLED — "+nonEmpty(invoice.CancelReason, "no reason recorded"), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center,
				Color: &props.Color{Red: 180, Green: 30, Blue: 30}, Top: 2,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"This is a computer generated tax invoice issued under Section 31 of the "+
				"CGST Act, 2017. Retain this document for your records.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney groups the integer part of an amount in the Indian system:
// the last three digits, then pairs. Ex: "125000.00" → "1,25,000.00".
func formatMoney(s string) string {
	intPart, rest := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, rest = s[:i], s[i:]
	}
	neg := ""
	if strings.HasPrefix(intPart, "-") {
		neg, intPart = "-", intPart[1:]
	}
	if len(intPart) <= 3 {
		return neg + intPart + rest
	}
	head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return neg + strings.Join(groups, ",") + "," + tail + rest
}
