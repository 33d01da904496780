package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/application/stock"
)

// StockHandler handles manual movements and stock queries.
type StockHandler struct {
	register       *stock.RegisterUseCase
	ledger         *stock.Ledger
	alertThreshold decimal.Decimal
}

// NewStockHandler builds the handler. alertThreshold is the company-wide
// low-stock default; a product's own minimum level wins when lower.
func NewStockHandler(register *stock.RegisterUseCase, ledger *stock.Ledger, alertThreshold decimal.Decimal) *StockHandler {
	return &StockHandler{register: register, ledger: ledger, alertThreshold: alertThreshold}
}

// RegisterMovement records a manual IN/OUT/TRANSFER/ADJUSTMENT.
// POST /api/stock/movements
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.register.Register(c.Context(), stock.MovementInput{
		CompanyID:       companyID,
		UserID:          userID,
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Kind:            in.Kind,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		BatchNumber:     in.BatchNumber,
		ExpiryDate:      in.ExpiryDate,
		Remarks:         in.Remarks,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Balance returns the replayed balance and weighted-average cost of a key.
// GET /api/stock/balance?product_id=&warehouse_id=&batch_number=
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id and warehouse_id are required"})
	}
	var batch *string
	if b := c.Query("batch_number"); b != "" {
		batch = &b
	}
	qty, err := h.ledger.CurrentBalance(companyID, productID, warehouseID, batch)
	if err != nil {
		return fail(c, err)
	}
	avgCost, err := h.ledger.WeightedAverageCost(companyID, productID, warehouseID)
	if err != nil {
		return fail(c, err)
	}
	out := dto.StockBalanceResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		AvgCost:     avgCost,
	}
	if batch != nil {
		out.BatchNumber = *batch
	}
	return c.JSON(out)
}

// BatchBalances returns per-batch balances for a key, empty batches excluded.
// GET /api/stock/batches?product_id=&warehouse_id=
func (h *StockHandler) BatchBalances(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id and warehouse_id are required"})
	}
	rows, err := h.ledger.BatchBalances(companyID, productID, warehouseID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.BatchBalanceResponse, 0, len(rows))
	for _, r := range rows {
		if !r.Quantity.IsPositive() {
			continue
		}
		out = append(out, dto.BatchBalanceResponse{
			BatchNumber: r.BatchNumber,
			ExpiryDate:  r.ExpiryDate,
			Quantity:    r.Quantity,
		})
	}
	return c.JSON(out)
}

// LowStockAlerts lists keys at or below the alert threshold.
// GET /api/stock/alerts?threshold=
func (h *StockHandler) LowStockAlerts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	threshold := h.alertThreshold
	if t := c.Query("threshold"); t != "" {
		parsed, err := decimal.NewFromString(t)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "threshold must be numeric"})
		}
		threshold = parsed
	}
	rows, err := h.ledger.LowStockAlerts(companyID, threshold)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.LowStockAlertResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockAlertResponse{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			WarehouseID: r.WarehouseID,
			CurrentQty:  r.CurrentQty,
		})
	}
	return c.JSON(out)
}
