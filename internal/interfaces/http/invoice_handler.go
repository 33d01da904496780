package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vyomerp/vyom-api/internal/application/billing"
	"github.com/vyomerp/vyom-api/internal/application/dto"
)

// InvoiceHandler handles invoicing, payments and the printable invoice.
type InvoiceHandler struct {
	uc  *billing.InvoiceUseCase
	pdf *billing.PDFUseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf}
}

// CreateSales creates a sales invoice, issues stock and posts the ledger.
// POST /api/invoices/sales
func (h *InvoiceHandler) CreateSales(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.CreateSales(c.Context(), companyID, userID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// CreatePurchase creates a purchase invoice, receives stock and posts the
// ledger.
// POST /api/invoices/purchase
func (h *InvoiceHandler) CreatePurchase(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.CreatePurchase(c.Context(), companyID, userID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID returns an invoice with its lines.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	invoice, err := h.uc.GetByID(companyID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(invoice)
}

// List returns the company's invoices, optionally filtered by kind.
// GET /api/invoices?kind=SALES|PURCHASE
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	invoices, err := h.uc.List(companyID, c.Query("kind"), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(invoices)
}

// Cancel voids an ACTIVE invoice, reversing its stock and ledger effects.
// POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	var in dto.CancelInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason required"})
	}
	if err := h.uc.Cancel(c.Context(), companyID, userID, id, in.Reason); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordPayment records a receipt or payment against an invoice.
// POST /api/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.InvoiceID = c.Params("id")
	payment, err := h.uc.RecordPayment(c.Context(), companyID, userID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// ListPayments lists the payments recorded against an invoice.
// GET /api/invoices/:id/payments
func (h *InvoiceHandler) ListPayments(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	payments, err := h.uc.ListPayments(companyID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payments)
}

// DownloadPDF renders the printable tax invoice.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	data, err := h.pdf.RenderInvoice(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoice-`+c.Params("id")+`.pdf"`)
	return c.Send(data)
}
