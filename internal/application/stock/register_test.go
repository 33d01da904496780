package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyomerp/vyom-api/internal/application/stock"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// fakeStockTx hands the shared repo to fn; rollback semantics are covered by
// the billing fakes, here the interest is the legs that get written.
type fakeStockTx struct {
	repo *fakeMovementRepo
}

func (f *fakeStockTx) Run(_ context.Context, fn func(movRepo repository.StockMovementRepository) error) error {
	before := len(f.repo.movements)
	if err := fn(f.repo); err != nil {
		f.repo.movements = f.repo.movements[:before]
		return err
	}
	return nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(*entity.Product) error { return nil }
func (f *fakeProductRepo) Update(*entity.Product) error { return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) FindActiveByID(id, companyID string) (*entity.Product, error) {
	p := f.products[id]
	if p == nil || p.CompanyID != companyID || !p.Active {
		return nil, nil
	}
	return p, nil
}
func (f *fakeProductRepo) List(string, int, int) ([]*entity.Product, error) { return nil, nil }

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (f *fakeWarehouseRepo) Create(*entity.Warehouse) error { return nil }
func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return f.warehouses[id], nil
}
func (f *fakeWarehouseRepo) List(string, int, int) ([]*entity.Warehouse, error) { return nil, nil }

func registerFixture() (*stock.RegisterUseCase, *fakeMovementRepo) {
	repo := &fakeMovementRepo{}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", CompanyID: "co-1", SKU: "SKU-1", Active: true},
		"prod-exp": {
			ID: "prod-exp", CompanyID: "co-1", SKU: "SKU-EXP",
			TracksBatches: true, TracksExpiry: true, Active: true,
		},
	}}
	warehouses := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		"wh-1": {ID: "wh-1", CompanyID: "co-1", Active: true},
		"wh-2": {ID: "wh-2", CompanyID: "co-1", Active: true},
	}}
	uc := stock.NewRegisterUseCase(&fakeStockTx{repo: repo}, newLedger(repo), products, warehouses, fixedClock{testNow})
	return uc, repo
}

func input(kind, qty string) stock.MovementInput {
	return stock.MovementInput{
		CompanyID:   "co-1",
		UserID:      "user-1",
		ProductID:   "prod-1",
		WarehouseID: "wh-1",
		Kind:        kind,
		Quantity:    d(qty),
		UnitCost:    d("10"),
	}
}

func TestRegisterInWritesOneLeg(t *testing.T) {
	uc, repo := registerFixture()

	require.NoError(t, uc.Register(context.Background(), input("IN", "25")))

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, entity.MovementTypeIN, m.Type)
	assert.True(t, m.Quantity.Equal(d("25")))
	assert.Equal(t, entity.RefTypeAdjustment, m.ReferenceType)
	assert.Equal(t, "user-1", m.CreatedBy)
}

func TestRegisterOutGuardsAvailability(t *testing.T) {
	uc, repo := registerFixture()

	require.NoError(t, uc.Register(context.Background(), input("IN", "10")))

	err := uc.Register(context.Background(), input("OUT", "15"))
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(d("10")))
	assert.Len(t, repo.movements, 1, "failed OUT writes nothing")
	assert.Contains(t, repo.locked, "prod-1@wh-1", "OUT locks the key before re-checking")
}

func TestRegisterTransferExpandsToTwoLegs(t *testing.T) {
	uc, repo := registerFixture()

	require.NoError(t, uc.Register(context.Background(), input("IN", "20")))

	in := input("TRANSFER", "8")
	in.WarehouseID = ""
	in.FromWarehouseID = "wh-1"
	in.ToWarehouseID = "wh-2"
	require.NoError(t, uc.Register(context.Background(), in))

	require.Len(t, repo.movements, 3)
	out, rcv := repo.movements[1], repo.movements[2]
	assert.Equal(t, entity.MovementTypeOUT, out.Type)
	assert.Equal(t, "wh-1", out.WarehouseID)
	assert.Equal(t, entity.MovementTypeIN, rcv.Type)
	assert.Equal(t, "wh-2", rcv.WarehouseID)
	assert.Equal(t, out.ReferenceID, rcv.ReferenceID, "legs share one reference")
	assert.Equal(t, entity.RefTypeTransfer, out.ReferenceType)

	from, err := newLedger(repo).CurrentBalance("co-1", "prod-1", "wh-1", nil)
	require.NoError(t, err)
	assert.True(t, from.Equal(d("12")))
	to, err := newLedger(repo).CurrentBalance("co-1", "prod-1", "wh-2", nil)
	require.NoError(t, err)
	assert.True(t, to.Equal(d("8")))
}

func TestRegisterTransferSameWarehouseRejected(t *testing.T) {
	uc, _ := registerFixture()

	in := input("TRANSFER", "5")
	in.FromWarehouseID = "wh-1"
	in.ToWarehouseID = "wh-1"
	assert.ErrorIs(t, uc.Register(context.Background(), in), domain.ErrInvalidInput)
}

func TestRegisterTransferShortStockWritesNothing(t *testing.T) {
	uc, repo := registerFixture()

	require.NoError(t, uc.Register(context.Background(), input("IN", "3")))

	in := input("TRANSFER", "5")
	in.FromWarehouseID = "wh-1"
	in.ToWarehouseID = "wh-2"
	err := uc.Register(context.Background(), in)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Len(t, repo.movements, 1, "neither leg survives a short transfer")
}

func TestRegisterNegativeAdjustmentBecomesOut(t *testing.T) {
	uc, repo := registerFixture()

	require.NoError(t, uc.Register(context.Background(), input("IN", "10")))
	require.NoError(t, uc.Register(context.Background(), input("ADJUSTMENT", "-4")))

	require.Len(t, repo.movements, 2)
	adj := repo.movements[1]
	assert.Equal(t, entity.MovementTypeOUT, adj.Type)
	assert.True(t, adj.Quantity.Equal(d("4")), "ledger rows carry positive quantities")

	bal, err := newLedger(repo).CurrentBalance("co-1", "prod-1", "wh-1", nil)
	require.NoError(t, err)
	assert.True(t, bal.Equal(d("6")))
}

func TestRegisterZeroAdjustmentRejected(t *testing.T) {
	uc, _ := registerFixture()
	assert.ErrorIs(t, uc.Register(context.Background(), input("ADJUSTMENT", "0")), domain.ErrInvalidInput)
}

func TestRegisterExpiryTrackedProductNeedsExpiry(t *testing.T) {
	uc, _ := registerFixture()

	in := input("IN", "5")
	in.ProductID = "prod-exp"
	in.BatchNumber = "B1"
	assert.ErrorIs(t, uc.Register(context.Background(), in), domain.ErrInvalidInput)

	in.ExpiryDate = expiry(2025, 6, 1)
	assert.NoError(t, uc.Register(context.Background(), in))
}

func TestRegisterUnknownProduct(t *testing.T) {
	uc, _ := registerFixture()
	in := input("IN", "5")
	in.ProductID = "ghost"
	assert.ErrorIs(t, uc.Register(context.Background(), in), domain.ErrNotFound)
}

func TestRegisterForeignWarehouseRejected(t *testing.T) {
	uc, _ := registerFixture()
	in := input("IN", "5")
	in.WarehouseID = "wh-ghost"
	assert.ErrorIs(t, uc.Register(context.Background(), in), domain.ErrNotFound)
}
