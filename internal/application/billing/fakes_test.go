package billing

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vyomerp/vyom-api/internal/domain"
	"github.com/vyomerp/vyom-api/internal/domain/entity"
	"github.com/vyomerp/vyom-api/internal/domain/repository"
)

// store is the shared in-memory backing for all fake repositories.
type store struct {
	invoices  map[string]*entity.Invoice
	items     []*entity.InvoiceItem
	entries   []*entity.LedgerEntry
	movements []*entity.StockMovement
	payments  map[string]*entity.Payment
	locks     []string
}

func newStore() *store {
	return &store{
		invoices: map[string]*entity.Invoice{},
		payments: map[string]*entity.Payment{},
	}
}

func (s *store) snapshot() *store {
	cp := newStore()
	for k, v := range s.invoices {
		inv := *v
		cp.invoices[k] = &inv
	}
	for k, v := range s.payments {
		p := *v
		cp.payments[k] = &p
	}
	cp.items = append([]*entity.InvoiceItem(nil), s.items...)
	cp.entries = append([]*entity.LedgerEntry(nil), s.entries...)
	cp.movements = append([]*entity.StockMovement(nil), s.movements...)
	cp.locks = append([]string(nil), s.locks...)
	return cp
}

// fakeTx mimics transactional semantics: on error the store is restored to
// its pre-transaction snapshot, so rollback behavior is observable in tests.
type fakeTx struct{ s *store }

func (t *fakeTx) Run(_ context.Context, fn func(
	repository.InvoiceRepository,
	repository.LedgerRepository,
	repository.StockMovementRepository,
	repository.PaymentRepository,
) error) error {
	snap := t.s.snapshot()
	err := fn(&fakeInvoiceRepo{t.s}, &fakeLedgerRepo{t.s}, &fakeMovementRepo{t.s}, &fakePaymentRepo{t.s})
	if err != nil {
		*t.s = *snap
	}
	return err
}

type fakeInvoiceRepo struct{ s *store }

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	r.s.invoices[inv.ID] = inv
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	r.s.items = append(r.s.items, item)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (r *fakeInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	var out []*entity.InvoiceItem
	for _, it := range r.s.items {
		if it.InvoiceID == invoiceID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) MarkCancelled(id, reason string) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	if inv.Status != entity.InvoiceStatusActive {
		return domain.ErrAlreadyCancelled
	}
	inv.Status = entity.InvoiceStatusCancelled
	inv.CancelReason = reason
	return nil
}

func (r *fakeInvoiceRepo) MaxNumberSuffix(companyID, kind, prefix string, year int) (int, error) {
	max := 0
	want := prefix + "/" + strconv.Itoa(year) + "/"
	for _, inv := range r.s.invoices {
		if inv.CompanyID != companyID || inv.Kind != kind || !strings.HasPrefix(inv.Number, want) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(inv.Number, want))
		if err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

func (r *fakeInvoiceRepo) LockNumberSequence(companyID, kind, prefix string, year int) error {
	r.s.locks = append(r.s.locks, "seq:"+companyID+":"+kind+":"+prefix+":"+strconv.Itoa(year))
	return nil
}

func (r *fakeInvoiceRepo) List(companyID, kind string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.CompanyID == companyID && inv.Kind == kind {
			out = append(out, inv)
		}
	}
	return out, nil
}

type fakeLedgerRepo struct{ s *store }

func (r *fakeLedgerRepo) CreateBatch(entries []*entity.LedgerEntry) error {
	r.s.entries = append(r.s.entries, entries...)
	return nil
}

func (r *fakeLedgerRepo) ListByReference(companyID, refType, refID string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.entries {
		if e.CompanyID == companyID && e.ReferenceType == refType && e.ReferenceID == refID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) SumDebitsCreditsAsOf(companyID, head string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var debits, credits decimal.Decimal
	for _, e := range r.s.entries {
		if e.CompanyID == companyID && e.AccountHead == head && !e.Date.After(asOf) {
			debits = debits.Add(e.Debit)
			credits = credits.Add(e.Credit)
		}
	}
	return debits, credits, nil
}

func (r *fakeLedgerRepo) TrialBalance(companyID string, from, to time.Time) ([]*entity.TrialBalanceRow, error) {
	byHead := map[string]*entity.TrialBalanceRow{}
	var out []*entity.TrialBalanceRow
	for _, e := range r.s.entries {
		if e.CompanyID != companyID || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		row, ok := byHead[e.AccountHead]
		if !ok {
			row = &entity.TrialBalanceRow{AccountHead: e.AccountHead}
			byHead[e.AccountHead] = row
			out = append(out, row)
		}
		row.Debit = row.Debit.Add(e.Debit)
		row.Credit = row.Credit.Add(e.Credit)
	}
	return out, nil
}

type fakeMovementRepo struct{ s *store }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r *fakeMovementRepo) SignedSum(companyID, productID, warehouseID string, batchNumber *string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.CompanyID != companyID || m.ProductID != productID || m.WarehouseID != warehouseID {
			continue
		}
		if batchNumber != nil && m.BatchNumber != *batchNumber {
			continue
		}
		if m.Type == entity.MovementTypeIN {
			sum = sum.Add(m.Quantity)
		} else {
			sum = sum.Sub(m.Quantity)
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) BatchBalances(companyID, productID, warehouseID string) ([]*entity.BatchBalance, error) {
	byBatch := map[string]*entity.BatchBalance{}
	var out []*entity.BatchBalance
	for _, m := range r.s.movements {
		if m.CompanyID != companyID || m.ProductID != productID || m.WarehouseID != warehouseID || m.BatchNumber == "" {
			continue
		}
		b, ok := byBatch[m.BatchNumber]
		if !ok {
			b = &entity.BatchBalance{BatchNumber: m.BatchNumber, ExpiryDate: m.ExpiryDate}
			byBatch[m.BatchNumber] = b
			out = append(out, b)
		}
		if m.Type == entity.MovementTypeIN {
			b.Quantity = b.Quantity.Add(m.Quantity)
		} else {
			b.Quantity = b.Quantity.Sub(m.Quantity)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) SumInboundQtyCost(companyID, productID, warehouseID string) (decimal.Decimal, decimal.Decimal, error) {
	var qty, cost decimal.Decimal
	for _, m := range r.s.movements {
		if m.CompanyID == companyID && m.ProductID == productID && m.WarehouseID == warehouseID && m.Type == entity.MovementTypeIN {
			qty = qty.Add(m.Quantity)
			cost = cost.Add(m.Quantity.Mul(m.UnitCost))
		}
	}
	return qty, cost, nil
}

func (r *fakeMovementRepo) ListByReference(companyID, refType, refID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.CompanyID == companyID && m.ReferenceType == refType && m.ReferenceID == refID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) LowStock(companyID string, threshold decimal.Decimal) ([]*entity.LowStockRow, error) {
	return nil, nil
}

func (r *fakeMovementRepo) LockKey(productID, warehouseID string) error {
	r.s.locks = append(r.s.locks, "key:"+productID+":"+warehouseID)
	return nil
}

type fakePaymentRepo struct{ s *store }

func (r *fakePaymentRepo) Create(p *entity.Payment) error {
	r.s.payments[p.ID] = p
	return nil
}

func (r *fakePaymentRepo) GetByID(id string) (*entity.Payment, error) {
	p, ok := r.s.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakePaymentRepo) ExistsForInvoice(invoiceID string) (bool, error) {
	for _, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) ListByInvoice(invoiceID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeProductRepo struct{ products map[string]*entity.Product }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindActiveByID(id, companyID string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok || p.CompanyID != companyID || !p.Active {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProductRepo) List(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeCustomerRepo struct{ customers map[string]*entity.Customer }

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { r.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) Update(c *entity.Customer) error { r.customers[c.ID] = c; return nil }

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) FindActiveByID(id, companyID string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.CompanyID != companyID || !c.Active {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCustomerRepo) List(companyID string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

type fakeVendorRepo struct{ vendors map[string]*entity.Vendor }

func (r *fakeVendorRepo) Create(v *entity.Vendor) error { r.vendors[v.ID] = v; return nil }
func (r *fakeVendorRepo) Update(v *entity.Vendor) error { r.vendors[v.ID] = v; return nil }

func (r *fakeVendorRepo) GetByID(id string) (*entity.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (r *fakeVendorRepo) FindActiveByID(id, companyID string) (*entity.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok || v.CompanyID != companyID || !v.Active {
		return nil, nil
	}
	return v, nil
}

func (r *fakeVendorRepo) List(companyID string, limit, offset int) ([]*entity.Vendor, error) {
	return nil, nil
}

type fakeWarehouseRepo struct{ warehouses map[string]*entity.Warehouse }

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error { r.warehouses[w.ID] = w; return nil }

func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

func (r *fakeWarehouseRepo) List(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type fakeCompanyRepo struct{ companies map[string]*entity.Company }

func (r *fakeCompanyRepo) Create(c *entity.Company) error { r.companies[c.ID] = c; return nil }

func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	return nil, nil
}

type fakeAudit struct{ records []*entity.AuditLog }

func (a *fakeAudit) Record(l *entity.AuditLog) { a.records = append(a.records, l) }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
