package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vyomerp/vyom-api/internal/application/audit"
	"github.com/vyomerp/vyom-api/internal/application/auth"
	"github.com/vyomerp/vyom-api/internal/application/billing"
	"github.com/vyomerp/vyom-api/internal/application/ledger"
	"github.com/vyomerp/vyom-api/internal/application/stock"
	"github.com/vyomerp/vyom-api/internal/application/usecase"
	"github.com/vyomerp/vyom-api/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// RouterDeps carries the router's dependencies.
type RouterDeps struct {
	CompanyUC      *usecase.CompanyUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	ProductUC      *usecase.ProductUseCase
	CustomerUC     *usecase.CustomerUseCase
	VendorUC       *usecase.VendorUseCase
	InvoiceUC      *billing.InvoiceUseCase
	PDFUC          *billing.PDFUseCase
	StockRegister  *stock.RegisterUseCase
	StockLedger    *stock.Ledger
	LedgerEngine   *ledger.Engine
	AuthUC         *auth.AuthUseCase
	AuditRecorder  *audit.Recorder
	AlertThreshold decimal.Decimal
	JWTSecret      string
}

// Router registers the API routes. Writes that move money or stock need the
// admin or accountant role; operators can read and record manual movements.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (public create for onboarding, like auth/register)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)

	// Protected routes (Bearer token required)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	books := RequireRole(entity.RoleAdmin, entity.RoleAccountant)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Vendors
	vendors := protected.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendors.Post("/", vendorHandler.Create)
	vendors.Get("/", vendorHandler.List)
	vendors.Get("/:id", vendorHandler.GetByID)

	// Stock
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockRegister, deps.StockLedger, deps.AlertThreshold)
	stockGroup.Post("/movements", stockHandler.RegisterMovement)
	stockGroup.Get("/balance", stockHandler.Balance)
	stockGroup.Get("/batches", stockHandler.BatchBalances)
	stockGroup.Get("/alerts", stockHandler.LowStockAlerts)

	// Invoices and payments
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Post("/sales", books, invoiceHandler.CreateSales)
	invoices.Post("/purchase", books, invoiceHandler.CreatePurchase)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/cancel", books, invoiceHandler.Cancel)
	invoices.Post("/:id/payments", books, invoiceHandler.RecordPayment)
	invoices.Get("/:id/payments", invoiceHandler.ListPayments)

	// Ledger queries
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerEngine)
	ledgerGroup.Get("/balance", ledgerHandler.AccountBalance)
	ledgerGroup.Get("/trial-balance", ledgerHandler.TrialBalance)

	// Audit trail (admin only)
	auditGroup := protected.Group("/audit", RequireRole(entity.RoleAdmin))
	auditHandler := NewAuditHandler(deps.AuditRecorder)
	auditGroup.Get("/", auditHandler.List)
}
