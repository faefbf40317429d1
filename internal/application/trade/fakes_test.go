package trade

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinic/backend/internal/domain/billing"
	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/trade"
)

// fakeMedicineRepo is an in-memory MedicineRepository keyed by product name.
// AdjustStock mirrors the conditional-update semantics of the real
// implementation: unknown names and insufficient stock are rejected without
// touching the count.
type fakeMedicineRepo struct {
	byName   map[string]*inventory.Medicine
	nextCode int
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{byName: make(map[string]*inventory.Medicine), nextCode: 1}
}

func (r *fakeMedicineRepo) add(m *inventory.Medicine) {
	r.byName[m.ProductName] = m
	if m.Code >= r.nextCode {
		r.nextCode = m.Code + 1
	}
}

func (r *fakeMedicineRepo) FindByName(_ context.Context, productName string) (*inventory.Medicine, error) {
	m, ok := r.byName[productName]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMedicineRepo) FindByCode(_ context.Context, code int) (*inventory.Medicine, error) {
	for _, m := range r.byName {
		if m.Code == code {
			copied := *m
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMedicineRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[inventory.Medicine], error) {
	items := make([]inventory.Medicine, 0, len(r.byName))
	for _, m := range r.byName {
		items = append(items, *m)
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeMedicineRepo) SearchByNamePrefix(_ context.Context, prefix string, limit int) ([]inventory.Medicine, error) {
	var out []inventory.Medicine
	for _, m := range r.byName {
		if strings.HasPrefix(m.ProductName, prefix) && len(out) < limit {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMedicineRepo) FindLowStock(_ context.Context, threshold int) ([]inventory.Medicine, error) {
	var out []inventory.Medicine
	for _, m := range r.byName {
		if m.QuantityOnHand <= threshold {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMedicineRepo) NextCode(_ context.Context) (int, error) {
	return r.nextCode, nil
}

func (r *fakeMedicineRepo) Create(_ context.Context, medicine *inventory.Medicine) error {
	if _, ok := r.byName[medicine.ProductName]; ok {
		return shared.ErrAlreadyExists
	}
	copied := *medicine
	r.add(&copied)
	return nil
}

func (r *fakeMedicineRepo) Save(_ context.Context, medicine *inventory.Medicine) error {
	existing, ok := r.byName[medicine.ProductName]
	if !ok {
		return shared.ErrNotFound
	}
	// the real Save never writes the on-hand quantity
	quantity := existing.QuantityOnHand
	copied := *medicine
	copied.QuantityOnHand = quantity
	r.byName[medicine.ProductName] = &copied
	return nil
}

func (r *fakeMedicineRepo) DeleteByCode(_ context.Context, code int) error {
	for name, m := range r.byName {
		if m.Code == code {
			delete(r.byName, name)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *fakeMedicineRepo) AdjustStock(_ context.Context, productName string, delta int) error {
	m, ok := r.byName[productName]
	if !ok {
		return shared.NewDomainError("MEDICINE_NOT_FOUND", "Medicine "+productName+" not found in catalog")
	}
	if delta < 0 && m.QuantityOnHand < -delta {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", productName, -delta, m.QuantityOnHand))
	}
	m.QuantityOnHand += delta
	return nil
}

func (r *fakeMedicineRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byName)), nil
}

// fakeSaleRepo is an in-memory SaleRepository
type fakeSaleRepo struct {
	byID map[uuid.UUID]*trade.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{byID: make(map[uuid.UUID]*trade.Sale)}
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Sale, error) {
	sale, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *sale
	copied.Lines = append([]trade.SaleLine(nil), sale.Lines...)
	return &copied, nil
}

func (r *fakeSaleRepo) FindByBillNumber(_ context.Context, billNumber string) (*trade.Sale, error) {
	for _, sale := range r.byID {
		if sale.BillNumber == billNumber {
			copied := *sale
			copied.Lines = append([]trade.SaleLine(nil), sale.Lines...)
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[trade.Sale], error) {
	items := make([]trade.Sale, 0, len(r.byID))
	for _, sale := range r.byID {
		items = append(items, *sale)
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeSaleRepo) FindBetween(_ context.Context, startDate, endDate string) ([]trade.Sale, error) {
	var out []trade.Sale
	for _, sale := range r.byID {
		if sale.SaleDate >= startDate && sale.SaleDate <= endDate {
			out = append(out, *sale)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) Create(_ context.Context, sale *trade.Sale) error {
	if _, ok := r.byID[sale.ID]; ok {
		return shared.ErrAlreadyExists
	}
	copied := *sale
	copied.Lines = append([]trade.SaleLine(nil), sale.Lines...)
	r.byID[sale.ID] = &copied
	return nil
}

func (r *fakeSaleRepo) Update(_ context.Context, sale *trade.Sale) error {
	if _, ok := r.byID[sale.ID]; !ok {
		return shared.ErrNotFound
	}
	copied := *sale
	copied.Lines = append([]trade.SaleLine(nil), sale.Lines...)
	r.byID[sale.ID] = &copied
	return nil
}

func (r *fakeSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeSaleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

// fakePurchaseRepo is an in-memory PurchaseRepository
type fakePurchaseRepo struct {
	byID map[uuid.UUID]*trade.Purchase
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{byID: make(map[uuid.UUID]*trade.Purchase)}
}

func (r *fakePurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Purchase, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePurchaseRepo) FindByInvoiceNumber(_ context.Context, invoiceNumber string) (*trade.Purchase, error) {
	for _, p := range r.byID {
		if p.InvoiceNumber == invoiceNumber {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePurchaseRepo) ExistsByInvoiceNumber(_ context.Context, invoiceNumber string) (bool, error) {
	for _, p := range r.byID {
		if p.InvoiceNumber == invoiceNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePurchaseRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[trade.Purchase], error) {
	items := make([]trade.Purchase, 0, len(r.byID))
	for _, p := range r.byID {
		items = append(items, *p)
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakePurchaseRepo) FindBetween(_ context.Context, startDate, endDate string) ([]trade.Purchase, error) {
	var out []trade.Purchase
	for _, p := range r.byID {
		if p.BillingDate >= startDate && p.BillingDate <= endDate {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) Create(_ context.Context, purchase *trade.Purchase) error {
	for _, p := range r.byID {
		if p.InvoiceNumber == purchase.InvoiceNumber {
			return shared.ErrAlreadyExists
		}
	}
	copied := *purchase
	copied.Lines = append([]trade.PurchaseLine(nil), purchase.Lines...)
	r.byID[purchase.ID] = &copied
	return nil
}

func (r *fakePurchaseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

// fakeCounterRepo is an in-memory BillCounterRepository
type fakeCounterRepo struct {
	counters map[int]*billing.BillCounter
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{counters: make(map[int]*billing.BillCounter)}
}

func (r *fakeCounterRepo) FindByYear(_ context.Context, yearStart int) (*billing.BillCounter, error) {
	counter, ok := r.counters[yearStart]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *counter
	return &copied, nil
}

func (r *fakeCounterRepo) Create(_ context.Context, counter *billing.BillCounter) error {
	if _, ok := r.counters[counter.YearStart]; ok {
		return shared.ErrAlreadyExists
	}
	copied := *counter
	r.counters[counter.YearStart] = &copied
	return nil
}

func (r *fakeCounterRepo) SaveWithLock(_ context.Context, counter *billing.BillCounter) error {
	current, ok := r.counters[counter.YearStart]
	if !ok || current.Version != counter.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	copied := *counter
	r.counters[counter.YearStart] = &copied
	return nil
}
