package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/vyomerp/vyom-api/internal/application/audit"
	"github.com/vyomerp/vyom-api/internal/application/auth"
	"github.com/vyomerp/vyom-api/internal/application/billing"
	appledger "github.com/vyomerp/vyom-api/internal/application/ledger"
	appstock "github.com/vyomerp/vyom-api/internal/application/stock"
	"github.com/vyomerp/vyom-api/internal/application/usecase"
	"github.com/vyomerp/vyom-api/internal/domain"
	infrapdf "github.com/vyomerp/vyom-api/internal/infrastructure/pdf"
	"github.com/vyomerp/vyom-api/internal/infrastructure/postgres"
	httpRouter "github.com/vyomerp/vyom-api/internal/interfaces/http"
	"github.com/vyomerp/vyom-api/pkg/config"
	"github.com/vyomerp/vyom-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)

	clock := domain.SystemClock{}
	ledgerEngine := appledger.NewEngine(ledgerRepo)
	stockLedger := appstock.NewLedger(movementRepo, clock)
	auditRecorder := audit.NewRecorder(auditRepo, clock, log.Zerolog())

	stockTx := postgres.NewStockTxRunner(pool)
	billingTx := postgres.NewBillingTxRunner(pool)

	registerUC := appstock.NewRegisterUseCase(stockTx, stockLedger, productRepo, warehouseRepo, clock)
	invoiceUC := billing.NewInvoiceUseCase(
		billingTx, ledgerEngine, stockLedger,
		invoiceRepo, paymentRepo, productRepo,
		customerRepo, vendorRepo, warehouseRepo, companyRepo,
		auditRecorder, clock,
	)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(invoiceRepo, productRepo, customerRepo, vendorRepo, companyRepo, pdfGenerator)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	vendorUC := usecase.NewVendorUseCase(vendorRepo)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:      companyUC,
		WarehouseUC:    warehouseUC,
		ProductUC:      productUC,
		CustomerUC:     customerUC,
		VendorUC:       vendorUC,
		InvoiceUC:      invoiceUC,
		PDFUC:          pdfUC,
		StockRegister:  registerUC,
		StockLedger:    stockLedger,
		LedgerEngine:   ledgerEngine,
		AuthUC:         authUC,
		AuditRecorder:  auditRecorder,
		AlertThreshold: decimal.NewFromInt(int64(cfg.Alerts.LowStockThreshold)),
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
