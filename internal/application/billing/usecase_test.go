package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vyomerp/vyom-api/internal/application/dto"
	"github.com/vyomerp/vyom-api/internal/application/ledger"
	"github.com/vyomerp/vyom-api/internal/application/stock"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
)

var testNow = time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	s     *store
	uc    *InvoiceUseCase
	audit *fakeAudit
}

func newFixture() *fixture {
	s := newStore()
	clock := fixedClock{now: testNow}
	audit := &fakeAudit{}

	products := &fakeProductRepo{products: map[string]*entity.Product{
		"p1": {
			ID: "p1", CompanyID: "co1", SKU: "WIDGET", Name: "Widget",
			UnitPrice:     decimal.RequireFromString("100"),
			PurchasePrice: decimal.RequireFromString("60"),
			GSTRate:       decimal.NewFromInt(18),
			Active:        true,
		},
		"p2": {
			ID: "p2", CompanyID: "co1", SKU: "SYRUP", Name: "Syrup",
			UnitPrice:     decimal.RequireFromString("50"),
			PurchasePrice: decimal.RequireFromString("30"),
			GSTRate:       decimal.NewFromInt(5),
			TracksBatches: true, TracksExpiry: true,
			Active: true,
		},
	}}
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cust1": {ID: "cust1", CompanyID: "co1", Name: "Acme", State: "Karnataka", Active: true},
		"cust2": {ID: "cust2", CompanyID: "co1", Name: "Nadir", State: "Maharashtra", Active: true},
	}}
	vendors := &fakeVendorRepo{vendors: map[string]*entity.Vendor{
		"ven1": {ID: "ven1", CompanyID: "co1", Name: "Supply Co", State: "Maharashtra", Active: true},
	}}
	warehouses := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		"wh1": {ID: "wh1", CompanyID: "co1", Name: "Main"},
	}}
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{
		"co1": {ID: "co1", Name: "Vyom Traders", State: "Karnataka"},
	}}

	uc := NewInvoiceUseCase(
		&fakeTx{s: s},
		ledger.NewEngine(&fakeLedgerRepo{s}),
		stock.NewLedger(&fakeMovementRepo{s}, clock),
		&fakeInvoiceRepo{s},
		&fakePaymentRepo{s},
		products, customers, vendors, warehouses, companies,
		audit, clock,
	)
	return &fixture{s: s, uc: uc, audit: audit}
}

// seedIn plants inventory directly in the movement history.
func (f *fixture) seedIn(productID string, qty, cost string, batch string, expiry *time.Time) {
	f.s.movements = append(f.s.movements, &entity.StockMovement{
		ID: "seed-" + productID + "-" + batch, CompanyID: "co1",
		ProductID: productID, WarehouseID: "wh1",
		Type:     entity.MovementTypeIN,
		Quantity: decimal.RequireFromString(qty),
		UnitCost: decimal.RequireFromString(cost),
		BatchNumber: batch, ExpiryDate: expiry,
		ReferenceType: entity.RefTypeAdjustment, ReferenceID: "seed",
		Date: testNow.AddDate(0, -1, 0),
	})
}

func (f *fixture) headNet(head string) decimal.Decimal {
	net := decimal.Zero
	for _, e := range f.s.entries {
		if e.AccountHead == head {
			net = net.Add(e.Debit).Sub(e.Credit)
		}
	}
	return net
}

func (f *fixture) balance(productID string) decimal.Decimal {
	sum, _ := (&fakeMovementRepo{f.s}).SignedSum("co1", productID, "wh1", nil)
	return sum
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func expiry(y, m, d int) *time.Time {
	e := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &e
}

func TestCreateSalesIntraState(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(2), DiscountPercent: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "INV/2024/0001", resp.Number)
	require.Equal(t, entity.InvoiceStatusActive, resp.Status)
	assertDec(t, "200", resp.Subtotal)
	assertDec(t, "20", resp.DiscountTotal)
	assertDec(t, "180", resp.TaxableTotal)
	assertDec(t, "16.20", resp.CGSTTotal)
	assertDec(t, "16.20", resp.SGSTTotal)
	assertDec(t, "0", resp.IGSTTotal)
	assertDec(t, "212", resp.GrandTotal)
	assertDec(t, "-0.40", resp.RoundOff)

	// Stock deducted at the weighted-average cost.
	assertDec(t, "8", f.balance("p1"))

	// Ledger posted and balanced.
	assertDec(t, "212", f.headNet(entity.CustomerAccountHead("cust1")))
	assertDec(t, "-180", f.headNet(entity.AccountSales))
	assertDec(t, "-16.20", f.headNet(entity.AccountCGSTPayable))
	assertDec(t, "-16.20", f.headNet(entity.AccountSGSTPayable))
	assertDec(t, "0.40", f.headNet(entity.AccountRoundOff))

	require.Len(t, f.audit.records, 1)
	require.Equal(t, "CREATE", f.audit.records[0].Action)
}

func TestCreateSalesInterStateUsesIGST(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "5", "60", "", nil)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust2", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	assertDec(t, "0", resp.CGSTTotal)
	assertDec(t, "0", resp.SGSTTotal)
	assertDec(t, "18", resp.IGSTTotal)
	assertDec(t, "118", resp.GrandTotal)
	assertDec(t, "-18", f.headNet(entity.AccountIGSTPayable))
}

func TestCreateSalesInsufficientStockRollsBack(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "1", "60", "", nil)

	_, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(5)},
		},
	})
	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assertDec(t, "1", insufficientErr.Available)
	assertDec(t, "5", insufficientErr.Required)

	// Nothing observable survived the rollback.
	require.Empty(t, f.s.invoices)
	require.Empty(t, f.s.items)
	require.Empty(t, f.s.entries)
	require.Len(t, f.s.movements, 1) // the seed only
	require.Empty(t, f.audit.records)
}

func TestCreateSalesAllocatesBatchesEarliestExpiryFirst(t *testing.T) {
	f := newFixture()
	f.seedIn("p2", "3", "30", "B1", expiry(2025, 1, 1))
	f.seedIn("p2", "5", "30", "B2", expiry(2025, 2, 1))

	_, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p2", Quantity: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)

	var outs []*entity.StockMovement
	for _, m := range f.s.movements {
		if m.Type == entity.MovementTypeOUT {
			outs = append(outs, m)
		}
	}
	require.Len(t, outs, 2)
	require.Equal(t, "B1", outs[0].BatchNumber)
	assertDec(t, "3", outs[0].Quantity)
	require.Equal(t, "B2", outs[1].BatchNumber)
	assertDec(t, "1", outs[1].Quantity)
	assertDec(t, "4", f.balance("p2"))
}

func TestCreateSalesNumberSequenceIsMonotonic(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	req := dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1)},
		},
	}
	first, err := f.uc.CreateSales(context.Background(), "co1", "u1", req)
	require.NoError(t, err)
	second, err := f.uc.CreateSales(context.Background(), "co1", "u1", req)
	require.NoError(t, err)

	require.Equal(t, "INV/2024/0001", first.Number)
	require.Equal(t, "INV/2024/0002", second.Number)
	require.Contains(t, f.s.locks, "seq:co1:SALES:INV:2024")
}

func TestCreateSalesUnknownProduct(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "ghost", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePurchaseInterState(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.CreatePurchase(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "ven1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p2", Quantity: decimal.NewFromInt(10), BatchNumber: "B9", ExpiryDate: expiry(2025, 6, 1)},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "PUR/2024/0001", resp.Number)
	assertDec(t, "300", resp.TaxableTotal)
	assertDec(t, "15", resp.IGSTTotal)
	assertDec(t, "315", resp.GrandTotal)

	// Goods came in at the discounted per-unit cost, under the stated batch.
	require.Len(t, f.s.movements, 1)
	in := f.s.movements[0]
	require.Equal(t, entity.MovementTypeIN, in.Type)
	require.Equal(t, "B9", in.BatchNumber)
	assertDec(t, "10", in.Quantity)
	assertDec(t, "30", in.UnitCost)

	assertDec(t, "300", f.headNet(entity.AccountPurchases))
	assertDec(t, "15", f.headNet(entity.AccountIGSTInput))
	assertDec(t, "-315", f.headNet(entity.VendorAccountHead("ven1")))
}

func TestCreatePurchaseRequiresBatchForTrackedProduct(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CreatePurchase(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "ven1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p2", Quantity: decimal.NewFromInt(10)},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelReversesStockAndLedger(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	err = f.uc.Cancel(context.Background(), "co1", "u1", resp.ID, "entry mistake")
	require.NoError(t, err)

	inv := f.s.invoices[resp.ID]
	require.Equal(t, entity.InvoiceStatusCancelled, inv.Status)
	require.Equal(t, "entry mistake", inv.CancelReason)

	// Stock back to the seed level; every ledger head nets to zero.
	assertDec(t, "10", f.balance("p1"))
	assertDec(t, "0", f.headNet(entity.CustomerAccountHead("cust1")))
	assertDec(t, "0", f.headNet(entity.AccountSales))
	assertDec(t, "0", f.headNet(entity.AccountCGSTPayable))
	assertDec(t, "0", f.headNet(entity.AccountSGSTPayable))

	// Originals were not touched, the reversal was appended.
	require.Len(t, f.s.movements, 3) // seed + OUT + reversing IN
	require.Equal(t, "CANCEL", f.audit.records[len(f.audit.records)-1].Action)
}

func TestCancelTwiceFails(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.Cancel(context.Background(), "co1", "u1", resp.ID, "first"))
	err = f.uc.Cancel(context.Background(), "co1", "u1", resp.ID, "second")
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestCancelBlockedByLinkedPayment(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	_, err = f.uc.RecordPayment(context.Background(), "co1", "u1", dto.RecordPaymentRequest{
		InvoiceID: resp.ID, Amount: decimal.NewFromInt(50), Mode: entity.PaymentModeCash,
	})
	require.NoError(t, err)

	err = f.uc.Cancel(context.Background(), "co1", "u1", resp.ID, "mistake")
	require.ErrorIs(t, err, domain.ErrHasPayments)
	require.Equal(t, entity.InvoiceStatusActive, f.s.invoices[resp.ID].Status)
}

func TestCancelPurchaseBlockedWhenStockAlreadyIssued(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.CreatePurchase(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "ven1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p2", Quantity: decimal.NewFromInt(10), BatchNumber: "B9", ExpiryDate: expiry(2025, 6, 1)},
		},
	})
	require.NoError(t, err)

	// Most of the received goods already left the warehouse.
	f.s.movements = append(f.s.movements, &entity.StockMovement{
		ID: "out1", CompanyID: "co1", ProductID: "p2", WarehouseID: "wh1",
		Type: entity.MovementTypeOUT, Quantity: decimal.NewFromInt(8),
		BatchNumber: "B9", ReferenceType: entity.RefTypeAdjustment, ReferenceID: "adj1",
		Date: testNow,
	})

	err = f.uc.Cancel(context.Background(), "co1", "u1", resp.ID, "return to vendor")
	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	require.Equal(t, entity.InvoiceStatusActive, f.s.invoices[resp.ID].Status)
}

func TestRecordPaymentPostsReceipt(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)
	customerBefore := f.headNet(entity.CustomerAccountHead("cust1"))

	pay, err := f.uc.RecordPayment(context.Background(), "co1", "u1", dto.RecordPaymentRequest{
		InvoiceID: resp.ID, Amount: decimal.NewFromInt(100), Mode: entity.PaymentModeCash,
	})
	require.NoError(t, err)

	require.Equal(t, entity.PaymentKindReceipt, pay.Kind)
	assertDec(t, "100", f.headNet(entity.AccountCash))
	assertDec(t, customerBefore.Sub(decimal.NewFromInt(100)).String(), f.headNet(entity.CustomerAccountHead("cust1")))

	payments, err := f.uc.ListPayments("co1", resp.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	_, err = f.uc.RecordPayment(context.Background(), "co1", "u1", dto.RecordPaymentRequest{
		InvoiceID: resp.ID, Amount: resp.GrandTotal.Add(decimal.NewFromInt(1)), Mode: entity.PaymentModeBank,
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestRecordPaymentOnCancelledInvoice(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.Cancel(context.Background(), "co1", "u1", resp.ID, "void"))

	_, err = f.uc.RecordPayment(context.Background(), "co1", "u1", dto.RecordPaymentRequest{
		InvoiceID: resp.ID, Amount: decimal.NewFromInt(10), Mode: entity.PaymentModeCash,
	})
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestGetByIDScopedToCompany(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	_, err = f.uc.GetByID("other-company", resp.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.uc.GetByID("co1", resp.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
}

func TestTrialBalanceClosesAfterFullCycle(t *testing.T) {
	f := newFixture()
	f.seedIn("p1", "10", "60", "", nil)

	_, err := f.uc.CreatePurchase(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "ven1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	resp, err := f.uc.CreateSales(context.Background(), "co1", "u1", dto.CreateInvoiceRequest{
		PartyID: "cust1", WarehouseID: "wh1",
		Items: []dto.CreateInvoiceItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)
	_, err = f.uc.RecordPayment(context.Background(), "co1", "u1", dto.RecordPaymentRequest{
		InvoiceID: resp.ID, Amount: decimal.NewFromInt(200), Mode: entity.PaymentModeBank,
	})
	require.NoError(t, err)

	total := decimal.Zero
	for _, e := range f.s.entries {
		total = total.Add(e.Debit).Sub(e.Credit)
	}
	require.Truef(t, total.Abs().LessThanOrEqual(decimal.RequireFromString("0.02")),
		"ledger out of balance by %s", total)
}

func TestCancelUnknownInvoice(t *testing.T) {
	f := newFixture()
	err := f.uc.Cancel(context.Background(), "co1", "u1", "ghost", "why not")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}
