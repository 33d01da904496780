package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/application/usecase"
)

// CustomerHandler handles the customer master.
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler builds the handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create registers a customer.
// POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.uc.Create(companyID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// GetByID returns one customer.
// GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	customer, err := h.uc.GetByID(companyID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

// List returns the company's customers with pagination.
// GET /api/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	customers, err := h.uc.List(companyID, page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customers)
}

// VendorHandler handles the vendor master.
type VendorHandler struct {
	uc *usecase.VendorUseCase
}

// NewVendorHandler builds the handler.
func NewVendorHandler(uc *usecase.VendorUseCase) *VendorHandler {
	return &VendorHandler{uc: uc}
}

// Create registers a vendor.
// POST /api/vendors
func (h *VendorHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	vendor, err := h.uc.Create(companyID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(vendor)
}

// GetByID returns one vendor.
// GET /api/vendors/:id
func (h *VendorHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	vendor, err := h.uc.GetByID(companyID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(vendor)
}

// List returns the company's vendors with pagination.
// GET /api/vendors
func (h *VendorHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	vendors, err := h.uc.List(companyID, page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(vendors)
}
