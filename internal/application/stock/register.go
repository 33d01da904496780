package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// MovementInput is a manual stock operation from the API. IN/OUT touch one
// warehouse; TRANSFER moves between FromWarehouseID and ToWarehouseID;
// ADJUSTMENT books a signed correction (negative Quantity allowed).
type MovementInput struct {
	CompanyID       string
	UserID          string
	ProductID       string
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	Kind            string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	BatchNumber     string
	ExpiryDate      *time.Time
	Remarks         string
}

// RegisterUseCase validates manual movements and writes them through the
// Ledger inside one transaction. TRANSFER and ADJUSTMENT expand into IN/OUT
// legs sharing a reference ID so the pair stays traceable.
type RegisterUseCase struct {
	txRunner      TxRunner
	ledger        *Ledger
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	clock         domain.Clock
}

// NewRegisterUseCase builds the use case.
func NewRegisterUseCase(txRunner TxRunner, ledger *Ledger, productRepo repository.ProductRepository, warehouseRepo repository.WarehouseRepository, clock domain.Clock) *RegisterUseCase {
	return &RegisterUseCase{
		txRunner:      txRunner,
		ledger:        ledger,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		clock:         clock,
	}
}

// Register validates the input, then records the movement legs atomically.
// OUT legs lock the (product, warehouse) key and re-check availability inside
// the transaction before writing.
func (uc *RegisterUseCase) Register(ctx context.Context, in MovementInput) error {
	product, err := uc.productRepo.FindActiveByID(in.ProductID, in.CompanyID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.TracksExpiry && in.Kind == entity.MovementKindIn && in.ExpiryDate == nil {
		return fmt.Errorf("product %s tracks expiry, expiry date required: %w", product.SKU, domain.ErrInvalidInput)
	}

	switch in.Kind {
	case entity.MovementKindIn, entity.MovementKindOut:
		if !in.Quantity.IsPositive() {
			return domain.ErrInvalidInput
		}
		if err := uc.checkWarehouse(in.WarehouseID, in.CompanyID); err != nil {
			return err
		}
	case entity.MovementKindTransfer:
		if !in.Quantity.IsPositive() || in.FromWarehouseID == in.ToWarehouseID {
			return domain.ErrInvalidInput
		}
		if err := uc.checkWarehouse(in.FromWarehouseID, in.CompanyID); err != nil {
			return err
		}
		if err := uc.checkWarehouse(in.ToWarehouseID, in.CompanyID); err != nil {
			return err
		}
	case entity.MovementKindAdjustment:
		if in.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
		if err := uc.checkWarehouse(in.WarehouseID, in.CompanyID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("movement kind %q: %w", in.Kind, domain.ErrInvalidInput)
	}

	now := uc.clock.Now()
	refID := uuid.New().String()

	return uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository) error {
		switch in.Kind {
		case entity.MovementKindIn:
			return uc.ledger.RecordMovement(movRepo, uc.leg(in, entity.MovementTypeIN, in.WarehouseID, in.Quantity, entity.RefTypeAdjustment, refID, now))
		case entity.MovementKindOut:
			if err := uc.guardedOut(movRepo, in.CompanyID, in.ProductID, in.WarehouseID, in.Quantity); err != nil {
				return err
			}
			return uc.ledger.RecordMovement(movRepo, uc.leg(in, entity.MovementTypeOUT, in.WarehouseID, in.Quantity, entity.RefTypeAdjustment, refID, now))
		case entity.MovementKindAdjustment:
			typ, qty := entity.MovementTypeIN, in.Quantity
			if in.Quantity.IsNegative() {
				typ, qty = entity.MovementTypeOUT, in.Quantity.Neg()
				if err := uc.guardedOut(movRepo, in.CompanyID, in.ProductID, in.WarehouseID, qty); err != nil {
					return err
				}
			}
			return uc.ledger.RecordMovement(movRepo, uc.leg(in, typ, in.WarehouseID, qty, entity.RefTypeAdjustment, refID, now))
		case entity.MovementKindTransfer:
			if err := uc.guardedOut(movRepo, in.CompanyID, in.ProductID, in.FromWarehouseID, in.Quantity); err != nil {
				return err
			}
			out := uc.leg(in, entity.MovementTypeOUT, in.FromWarehouseID, in.Quantity, entity.RefTypeTransfer, refID, now)
			if err := uc.ledger.RecordMovement(movRepo, out); err != nil {
				return err
			}
			return uc.ledger.RecordMovement(movRepo, uc.leg(in, entity.MovementTypeIN, in.ToWarehouseID, in.Quantity, entity.RefTypeTransfer, refID, now))
		}
		return domain.ErrInvalidInput
	})
}

// guardedOut serializes the key, then re-checks availability inside the
// transaction. Two concurrent outs can both pass an early check; the lock
// makes the second one see the first one's write.
func (uc *RegisterUseCase) guardedOut(movRepo repository.StockMovementRepository, companyID, productID, warehouseID string, qty decimal.Decimal) error {
	if err := movRepo.LockKey(productID, warehouseID); err != nil {
		return fmt.Errorf("lock stock key: %w", err)
	}
	available, err := movRepo.SignedSum(companyID, productID, warehouseID, nil)
	if err != nil {
		return err
	}
	if available.LessThan(qty) {
		return &domain.InsufficientStockError{ProductID: productID, Available: available, Required: qty}
	}
	return nil
}

func (uc *RegisterUseCase) leg(in MovementInput, typ, warehouseID string, qty decimal.Decimal, refType, refID string, now time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		CompanyID:     in.CompanyID,
		ProductID:     in.ProductID,
		WarehouseID:   warehouseID,
		Type:          typ,
		Quantity:      qty,
		UnitCost:      in.UnitCost,
		BatchNumber:   in.BatchNumber,
		ExpiryDate:    in.ExpiryDate,
		ReferenceType: refType,
		ReferenceID:   refID,
		Remarks:       in.Remarks,
		Date:          now,
		CreatedBy:     in.UserID,
		CreatedAt:     now,
	}
}

func (uc *RegisterUseCase) checkWarehouse(warehouseID, companyID string) error {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh == nil || wh.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}
