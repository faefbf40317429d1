package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/shared"
)

// fakeMedicineRepo is an in-memory MedicineRepository. Save deliberately
// leaves the stored on-hand quantity alone, matching the real implementation.
type fakeMedicineRepo struct {
	byName map[string]*inventory.Medicine
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{byName: make(map[string]*inventory.Medicine)}
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
	next := 1
	for _, m := range r.byName {
		if m.Code >= next {
			next = m.Code + 1
		}
	}
	return next, nil
}

func (r *fakeMedicineRepo) Create(_ context.Context, medicine *inventory.Medicine) error {
	if _, ok := r.byName[medicine.ProductName]; ok {
		return shared.ErrAlreadyExists
	}
	copied := *medicine
	r.byName[medicine.ProductName] = &copied
	return nil
}

func (r *fakeMedicineRepo) Save(_ context.Context, medicine *inventory.Medicine) error {
	var existing *inventory.Medicine
	var existingName string
	for name, m := range r.byName {
		if m.Code == medicine.Code {
			existing = m
			existingName = name
			break
		}
	}
	if existing == nil {
		return shared.ErrNotFound
	}
	quantity := existing.QuantityOnHand
	copied := *medicine
	copied.QuantityOnHand = quantity
	delete(r.byName, existingName)
	r.byName[copied.ProductName] = &copied
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

func seedMedicine(t *testing.T, repo *fakeMedicineRepo, code int, name string, quantity int) {
	t.Helper()
	m, err := inventory.NewMedicine(code, name, quantity)
	require.NoError(t, err)
	repo.byName[name] = m
}

func TestMedicineService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates entry with explicit code", func(t *testing.T) {
		repo := newFakeMedicineRepo()
		svc := NewMedicineService(repo)

		resp, err := svc.Create(ctx, CreateMedicineRequest{
			Code:         42,
			ProductName:  "Ashwagandha",
			Quantity:     10,
			PricePerUnit: decimal.NewFromInt(50),
			Rack:         "R3",
		})

		require.NoError(t, err)
		assert.Equal(t, 42, resp.Code)
		assert.Equal(t, 10, resp.QuantityOnHand)
		assert.Equal(t, "R3", resp.Rack)
		assert.True(t, decimal.NewFromInt(500).Equal(resp.StockValue))
	})

	t.Run("allocates the next code when none is given", func(t *testing.T) {
		repo := newFakeMedicineRepo()
		seedMedicine(t, repo, 7, "Triphala", 5)
		svc := NewMedicineService(repo)

		resp, err := svc.Create(ctx, CreateMedicineRequest{ProductName: "Ashwagandha"})

		require.NoError(t, err)
		assert.Equal(t, 8, resp.Code)
	})

	t.Run("rejects duplicate product name", func(t *testing.T) {
		repo := newFakeMedicineRepo()
		seedMedicine(t, repo, 1, "Ashwagandha", 5)
		svc := NewMedicineService(repo)

		_, err := svc.Create(ctx, CreateMedicineRequest{Code: 2, ProductName: "Ashwagandha"})
		assert.Error(t, err)
	})
}

func TestMedicineService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("edits metadata without touching stock", func(t *testing.T) {
		repo := newFakeMedicineRepo()
		seedMedicine(t, repo, 1, "Ashwagandha", 10)
		svc := NewMedicineService(repo)

		company := "Himalaya"
		resp, err := svc.Update(ctx, 1, UpdateMedicineRequest{Company: &company})

		require.NoError(t, err)
		assert.Equal(t, "Himalaya", resp.Company)
		assert.Equal(t, 10, resp.QuantityOnHand)
	})

	t.Run("quantity in the request becomes a stock correction", func(t *testing.T) {
		repo := newFakeMedicineRepo()
		seedMedicine(t, repo, 1, "Ashwagandha", 10)
		svc := NewMedicineService(repo)

		target := 4
		resp, err := svc.Update(ctx, 1, UpdateMedicineRequest{Quantity: &target})

		require.NoError(t, err)
		assert.Equal(t, 4, resp.QuantityOnHand)
	})

	t.Run("unknown code fails", func(t *testing.T) {
		svc := NewMedicineService(newFakeMedicineRepo())

		_, err := svc.Update(ctx, 404, UpdateMedicineRequest{})
		assert.Error(t, err)
	})
}

func TestMedicineService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a signed delta", func(t *testing.T) {
		repo := newFakeMedicineRepo()
		seedMedicine(t, repo, 1, "Ashwagandha", 10)
		svc := NewMedicineService(repo)

		resp, err := svc.AdjustStock(ctx, AdjustStockRequest{ProductName: "Ashwagandha", Delta: -4})
		require.NoError(t, err)
		assert.Equal(t, 6, resp.QuantityOnHand)

		resp, err = svc.AdjustStock(ctx, AdjustStockRequest{ProductName: "Ashwagandha", Delta: 2})
		require.NoError(t, err)
		assert.Equal(t, 8, resp.QuantityOnHand)
	})

	t.Run("rejects a zero delta", func(t *testing.T) {
		svc := NewMedicineService(newFakeMedicineRepo())

		_, err := svc.AdjustStock(ctx, AdjustStockRequest{ProductName: "Ashwagandha", Delta: 0})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("rejects deltas that would drive stock negative", func(t *testing.T) {
		repo := newFakeMedicineRepo()
		seedMedicine(t, repo, 1, "Ashwagandha", 3)
		svc := NewMedicineService(repo)

		_, err := svc.AdjustStock(ctx, AdjustStockRequest{ProductName: "Ashwagandha", Delta: -5})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "requested 5, available 3")
		assert.Equal(t, 3, repo.byName["Ashwagandha"].QuantityOnHand)
	})
}

func TestMedicineService_LowStock(t *testing.T) {
	ctx := context.Background()
	repo := newFakeMedicineRepo()
	seedMedicine(t, repo, 1, "Ashwagandha", 2)
	seedMedicine(t, repo, 2, "Triphala", 50)
	svc := NewMedicineService(repo)

	low, err := svc.LowStock(ctx, 10)

	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Ashwagandha", low[0].ProductName)
}

func TestMedicineService_Suggest(t *testing.T) {
	ctx := context.Background()
	repo := newFakeMedicineRepo()
	seedMedicine(t, repo, 1, "Ashwagandha", 2)
	seedMedicine(t, repo, 2, "Ashoka", 5)
	seedMedicine(t, repo, 3, "Triphala", 50)
	svc := NewMedicineService(repo)

	got, err := svc.Suggest(ctx, "Ash", 20)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}
