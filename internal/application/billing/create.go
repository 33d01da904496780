package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// CreateSales creates a sales invoice: prices and taxes every line, issues
// the next invoice number, deducts stock (earliest-expiry-first for
// batch-tracked products) and posts the sales ledger batch, all in one
// transaction. Any failure rolls the whole invoice back.
func (u *InvoiceUseCase) CreateSales(ctx context.Context, companyID, userID string, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(req.Items) == 0 || req.PartyID == "" || req.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	company, err := u.companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	customer, err := u.customers.FindActiveByID(req.PartyID, companyID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %s: %w", req.PartyID, domain.ErrNotFound)
	}
	if err := u.checkWarehouse(req.WarehouseID, companyID); err != nil {
		return nil, err
	}

	lines, err := u.priceLines(req.Items, companyID, customer.State, company.State, false)
	if err != nil {
		return nil, err
	}
	totals := foldTotals(lines)

	now := u.clock.Now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Kind:          entity.InvoiceKindSales,
		PartyID:       customer.ID,
		WarehouseID:   req.WarehouseID,
		Prefix:        req.Prefix,
		Date:          now,
		PlaceOfSupply: customer.State,
		Status:        entity.InvoiceStatusActive,
		Subtotal:      totals.subtotal,
		DiscountTotal: totals.discountTotal,
		TaxableTotal:  totals.tax.TaxableAmount,
		CGSTTotal:     totals.tax.CGST,
		SGSTTotal:     totals.tax.SGST,
		IGSTTotal:     totals.tax.IGST,
		TaxTotal:      totals.tax.TotalTax,
		RoundOff:      totals.roundOff,
		GrandTotal:    totals.grandTotal,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var items []*entity.InvoiceItem
	err = u.tx.Run(ctx, func(
		invRepo repository.InvoiceRepository,
		ledRepo repository.LedgerRepository,
		movRepo repository.StockMovementRepository,
		_ repository.PaymentRepository,
	) error {
		number, err := nextInvoiceNumber(invRepo, companyID, inv.Kind, req.Prefix, now.Year())
		if err != nil {
			return err
		}
		inv.Number = number
		if err := invRepo.Create(inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		for _, line := range lines {
			if err := u.issueStock(movRepo, inv, line, userID); err != nil {
				return err
			}
			item := line.toInvoiceItem(inv.ID)
			item.ID = uuid.New().String()
			if err := invRepo.CreateItem(item); err != nil {
				return fmt.Errorf("create invoice item: %w", err)
			}
			items = append(items, item)
		}
		return u.ledger.PostSale(ledRepo, inv)
	})
	if err != nil {
		return nil, err
	}

	u.recordAudit(companyID, userID, "CREATE", "SALES_INVOICE", inv)
	return toInvoiceResponse(inv, items), nil
}

// CreatePurchase creates a purchase invoice (goods receipt): lines carry the
// received batch and expiry, stock comes IN at the discounted per-unit cost
// and the purchase ledger batch posts the input tax credit.
func (u *InvoiceUseCase) CreatePurchase(ctx context.Context, companyID, userID string, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(req.Items) == 0 || req.PartyID == "" || req.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	company, err := u.companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	vendor, err := u.vendors.FindActiveByID(req.PartyID, companyID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, fmt.Errorf("vendor %s: %w", req.PartyID, domain.ErrNotFound)
	}
	if err := u.checkWarehouse(req.WarehouseID, companyID); err != nil {
		return nil, err
	}

	lines, err := u.priceLines(req.Items, companyID, company.State, vendor.State, true)
	if err != nil {
		return nil, err
	}
	totals := foldTotals(lines)

	now := u.clock.Now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Kind:          entity.InvoiceKindPurchase,
		PartyID:       vendor.ID,
		WarehouseID:   req.WarehouseID,
		Prefix:        req.Prefix,
		Date:          now,
		PlaceOfSupply: company.State,
		Status:        entity.InvoiceStatusActive,
		Subtotal:      totals.subtotal,
		DiscountTotal: totals.discountTotal,
		TaxableTotal:  totals.tax.TaxableAmount,
		CGSTTotal:     totals.tax.CGST,
		SGSTTotal:     totals.tax.SGST,
		IGSTTotal:     totals.tax.IGST,
		TaxTotal:      totals.tax.TotalTax,
		RoundOff:      totals.roundOff,
		GrandTotal:    totals.grandTotal,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var items []*entity.InvoiceItem
	err = u.tx.Run(ctx, func(
		invRepo repository.InvoiceRepository,
		ledRepo repository.LedgerRepository,
		movRepo repository.StockMovementRepository,
		_ repository.PaymentRepository,
	) error {
		number, err := nextInvoiceNumber(invRepo, companyID, inv.Kind, req.Prefix, now.Year())
		if err != nil {
			return err
		}
		inv.Number = number
		if err := invRepo.Create(inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		for _, line := range lines {
			if err := u.stock.RecordMovement(movRepo, &entity.StockMovement{
				CompanyID:     companyID,
				ProductID:     line.product.ID,
				WarehouseID:   inv.WarehouseID,
				Type:          entity.MovementTypeIN,
				Quantity:      line.quantity,
				UnitCost:      line.perUnitCost(),
				BatchNumber:   line.batchNumber,
				ExpiryDate:    line.expiryDate,
				ReferenceType: entity.RefTypePurchaseInvoice,
				ReferenceID:   inv.ID,
				Remarks:       "Purchase " + inv.Number,
				Date:          now,
				CreatedBy:     userID,
			}); err != nil {
				return err
			}
			item := line.toInvoiceItem(inv.ID)
			item.ID = uuid.New().String()
			if err := invRepo.CreateItem(item); err != nil {
				return fmt.Errorf("create invoice item: %w", err)
			}
			items = append(items, item)
		}
		return u.ledger.PostPurchase(ledRepo, inv)
	})
	if err != nil {
		return nil, err
	}

	u.recordAudit(companyID, userID, "CREATE", "PURCHASE_INVOICE", inv)
	return toInvoiceResponse(inv, items), nil
}

// priceLines loads and validates every product, then prices the lines.
// inbound toggles the purchase-side rules: batch and expiry are taken from
// the request and required when the product tracks them; on sales they are
// ignored because allocation decides the batches.
func (u *InvoiceUseCase) priceLines(items []dto.CreateInvoiceItemRequest, companyID, buyerState, sellerState string, inbound bool) ([]*pricedLine, error) {
	lines := make([]*pricedLine, 0, len(items))
	for _, it := range items {
		product, err := u.products.FindActiveByID(it.ProductID, companyID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, domain.ErrNotFound)
		}
		listPrice := product.UnitPrice
		if inbound {
			listPrice = product.PurchasePrice
		} else {
			it.BatchNumber = ""
			it.ExpiryDate = nil
		}
		if inbound && product.TracksBatches && it.BatchNumber == "" {
			return nil, fmt.Errorf("product %s requires a batch number: %w", product.SKU, domain.ErrInvalidInput)
		}
		if inbound && product.TracksExpiry && it.ExpiryDate == nil {
			return nil, fmt.Errorf("product %s requires an expiry date: %w", product.SKU, domain.ErrInvalidInput)
		}
		line, err := priceLine(it, product, listPrice, buyerState, sellerState)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// issueStock deducts one sales line inside the transaction. The key is locked
// first and availability replayed under the lock, so a concurrent invoice
// cannot oversell the same stock. Batch-tracked products split across batches
// earliest-expiry-first; the line keeps the batch only when a single batch
// covered it, the movement rows always carry the full split.
func (u *InvoiceUseCase) issueStock(movRepo repository.StockMovementRepository, inv *entity.Invoice, line *pricedLine, userID string) error {
	if err := movRepo.LockKey(line.product.ID, inv.WarehouseID); err != nil {
		return fmt.Errorf("lock stock key: %w", err)
	}
	avgCost, err := inboundAverageCost(movRepo, inv.CompanyID, line.product.ID, inv.WarehouseID)
	if err != nil {
		return err
	}

	if line.product.TracksBatches {
		allocations, err := u.stock.SelectBatchesForAllocation(movRepo, inv.CompanyID, line.product.ID, inv.WarehouseID, line.quantity)
		if err != nil {
			return err
		}
		var allocated decimal.Decimal
		for _, a := range allocations {
			allocated = allocated.Add(a.QuantityTaken)
		}
		if allocated.LessThan(line.quantity) {
			return &domain.InsufficientStockError{
				ProductID: line.product.ID,
				Available: allocated,
				Required:  line.quantity,
			}
		}
		for _, a := range allocations {
			if err := u.stock.RecordMovement(movRepo, &entity.StockMovement{
				CompanyID:     inv.CompanyID,
				ProductID:     line.product.ID,
				WarehouseID:   inv.WarehouseID,
				Type:          entity.MovementTypeOUT,
				Quantity:      a.QuantityTaken,
				UnitCost:      avgCost,
				BatchNumber:   a.BatchNumber,
				ExpiryDate:    a.ExpiryDate,
				ReferenceType: entity.RefTypeSalesInvoice,
				ReferenceID:   inv.ID,
				Remarks:       "Sale " + inv.Number,
				Date:          inv.Date,
				CreatedBy:     userID,
			}); err != nil {
				return err
			}
		}
		if len(allocations) == 1 {
			line.batchNumber = allocations[0].BatchNumber
			line.expiryDate = allocations[0].ExpiryDate
		}
		return nil
	}

	available, err := movRepo.SignedSum(inv.CompanyID, line.product.ID, inv.WarehouseID, nil)
	if err != nil {
		return fmt.Errorf("stock balance of %s: %w", line.product.ID, err)
	}
	if available.LessThan(line.quantity) {
		return &domain.InsufficientStockError{
			ProductID: line.product.ID,
			Available: available,
			Required:  line.quantity,
		}
	}
	return u.stock.RecordMovement(movRepo, &entity.StockMovement{
		CompanyID:     inv.CompanyID,
		ProductID:     line.product.ID,
		WarehouseID:   inv.WarehouseID,
		Type:          entity.MovementTypeOUT,
		Quantity:      line.quantity,
		UnitCost:      avgCost,
		ReferenceType: entity.RefTypeSalesInvoice,
		ReferenceID:   inv.ID,
		Remarks:       "Sale " + inv.Number,
		Date:          inv.Date,
		CreatedBy:     userID,
	})
}

// inboundAverageCost replays the weighted-average cost through the
// transaction-bound repository.
func inboundAverageCost(movRepo repository.StockMovementRepository, companyID, productID, warehouseID string) (decimal.Decimal, error) {
	qty, cost, err := movRepo.SumInboundQtyCost(companyID, productID, warehouseID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("weighted cost of %s: %w", productID, err)
	}
	if !qty.IsPositive() {
		return decimal.Zero, nil
	}
	return cost.Div(qty), nil
}

func (u *InvoiceUseCase) checkWarehouse(warehouseID, companyID string) error {
	wh, err := u.warehouses.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh.CompanyID != companyID {
		return fmt.Errorf("warehouse %s: %w", warehouseID, domain.ErrNotFound)
	}
	return nil
}

func (u *InvoiceUseCase) recordAudit(companyID, userID, action, recordType string, inv *entity.Invoice) {
	newValues, _ := json.Marshal(map[string]string{
		"number":      inv.Number,
		"status":      inv.Status,
		"grand_total": inv.GrandTotal.String(),
	})
	u.audit.Record(&entity.AuditLog{
		CompanyID:  companyID,
		UserID:     userID,
		Action:     action,
		Module:     "billing",
		RecordType: recordType,
		RecordID:   inv.ID,
		NewValues:  newValues,
	})
}
