package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/shared"
)

func setupMedicineTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.Medicine{})
	require.NoError(t, err)

	return db
}

func seedMedicine(t *testing.T, repo *GormMedicineRepository, code int, name string, quantity int) *inventory.Medicine {
	t.Helper()
	medicine, err := inventory.NewMedicine(code, name, quantity)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), medicine))
	return medicine
}

func TestMedicineRepository_Create(t *testing.T) {
	db := setupMedicineTestDB(t)
	repo := NewGormMedicineRepository(db)
	ctx := context.Background()

	t.Run("creates and finds by name and code", func(t *testing.T) {
		medicine, err := inventory.NewMedicine(1, "Ashwagandha", 10)
		require.NoError(t, err)
		medicine.Company = "Himalaya"
		medicine.PricePerUnit = decimal.NewFromInt(50)

		require.NoError(t, repo.Create(ctx, medicine))

		byName, err := repo.FindByName(ctx, "Ashwagandha")
		require.NoError(t, err)
		assert.Equal(t, 1, byName.Code)
		assert.Equal(t, 10, byName.QuantityOnHand)
		assert.Equal(t, "Himalaya", byName.Company)
		assert.True(t, byName.PricePerUnit.Equal(decimal.NewFromInt(50)))

		byCode, err := repo.FindByCode(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Ashwagandha", byCode.ProductName)
	})

	t.Run("duplicate product name returns already exists", func(t *testing.T) {
		duplicate, err := inventory.NewMedicine(2, "Ashwagandha", 5)
		require.NoError(t, err)

		err = repo.Create(ctx, duplicate)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("duplicate code returns already exists", func(t *testing.T) {
		duplicate, err := inventory.NewMedicine(1, "Brahmi", 5)
		require.NoError(t, err)

		err = repo.Create(ctx, duplicate)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown name returns not found", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "Nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestMedicineRepository_Save(t *testing.T) {
	db := setupMedicineTestDB(t)
	repo := NewGormMedicineRepository(db)
	ctx := context.Background()

	t.Run("updates metadata but never the on-hand quantity", func(t *testing.T) {
		medicine := seedMedicine(t, repo, 1, "Ashwagandha", 10)

		// Simulate a stale in-memory copy: the caller's quantity is out of
		// date, only the metadata edits should land.
		medicine.Company = "Dabur"
		medicine.Rack = "A3"
		medicine.QuantityOnHand = 999

		require.NoError(t, repo.Save(ctx, medicine))

		found, err := repo.FindByName(ctx, "Ashwagandha")
		require.NoError(t, err)
		assert.Equal(t, "Dabur", found.Company)
		assert.Equal(t, "A3", found.Rack)
		assert.Equal(t, 10, found.QuantityOnHand)
	})
}

func TestMedicineRepository_AdjustStock(t *testing.T) {
	db := setupMedicineTestDB(t)
	repo := NewGormMedicineRepository(db)
	ctx := context.Background()

	seedMedicine(t, repo, 1, "Ashwagandha", 3)

	t.Run("positive delta adds stock", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, "Ashwagandha", 7))

		found, err := repo.FindByName(ctx, "Ashwagandha")
		require.NoError(t, err)
		assert.Equal(t, 10, found.QuantityOnHand)
	})

	t.Run("negative delta removes stock", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, "Ashwagandha", -4))

		found, err := repo.FindByName(ctx, "Ashwagandha")
		require.NoError(t, err)
		assert.Equal(t, 6, found.QuantityOnHand)
	})

	t.Run("can drain stock to exactly zero", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, "Ashwagandha", -6))

		found, err := repo.FindByName(ctx, "Ashwagandha")
		require.NoError(t, err)
		assert.Equal(t, 0, found.QuantityOnHand)
	})

	t.Run("insufficient stock is rejected with available quantity", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, "Ashwagandha", 3))

		err := repo.AdjustStock(ctx, "Ashwagandha", -5)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, "Insufficient stock for Ashwagandha: requested 5, available 3", domainErr.Message)

		// The failed decrement must leave the count untouched.
		found, findErr := repo.FindByName(ctx, "Ashwagandha")
		require.NoError(t, findErr)
		assert.Equal(t, 3, found.QuantityOnHand)
	})

	t.Run("unknown medicine is distinguished from insufficient stock", func(t *testing.T) {
		err := repo.AdjustStock(ctx, "Ghost", -1)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "MEDICINE_NOT_FOUND", domainErr.Code)
	})

	t.Run("zero delta is a no-op", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, "Ghost", 0))
	})
}

func TestMedicineRepository_NextCode(t *testing.T) {
	db := setupMedicineTestDB(t)
	repo := NewGormMedicineRepository(db)
	ctx := context.Background()

	t.Run("starts at 1 on an empty catalog", func(t *testing.T) {
		code, err := repo.NextCode(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, code)
	})

	t.Run("returns max existing code plus one", func(t *testing.T) {
		seedMedicine(t, repo, 3, "Ashwagandha", 0)
		seedMedicine(t, repo, 7, "Brahmi", 0)

		code, err := repo.NextCode(ctx)
		require.NoError(t, err)
		assert.Equal(t, 8, code)
	})
}

func TestMedicineRepository_SearchByNamePrefix(t *testing.T) {
	db := setupMedicineTestDB(t)
	repo := NewGormMedicineRepository(db)
	ctx := context.Background()

	seedMedicine(t, repo, 1, "Ashwagandha", 10)
	seedMedicine(t, repo, 2, "Ashoka", 4)
	seedMedicine(t, repo, 3, "Brahmi", 6)

	t.Run("matches by prefix in name order", func(t *testing.T) {
		results, err := repo.SearchByNamePrefix(ctx, "Ash", 20)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Ashoka", results[0].ProductName)
		assert.Equal(t, "Ashwagandha", results[1].ProductName)
	})

	t.Run("honours the limit", func(t *testing.T) {
		results, err := repo.SearchByNamePrefix(ctx, "Ash", 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("no matches returns empty slice", func(t *testing.T) {
		results, err := repo.SearchByNamePrefix(ctx, "Zzz", 20)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestMedicineRepository_FindLowStock(t *testing.T) {
	db := setupMedicineTestDB(t)
	repo := NewGormMedicineRepository(db)
	ctx := context.Background()

	seedMedicine(t, repo, 1, "Ashwagandha", 0)
	seedMedicine(t, repo, 2, "Brahmi", 5)
	seedMedicine(t, repo, 3, "Shatavari", 50)

	t.Run("returns medicines at or below the threshold, lowest first", func(t *testing.T) {
		results, err := repo.FindLowStock(ctx, 5)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Ashwagandha", results[0].ProductName)
		assert.Equal(t, "Brahmi", results[1].ProductName)
	})
}

func TestMedicineRepository_FindAll(t *testing.T) {
	db := setupMedicineTestDB(t)
	repo := NewGormMedicineRepository(db)
	ctx := context.Background()

	seedMedicine(t, repo, 1, "Ashwagandha", 10)
	seedMedicine(t, repo, 2, "Brahmi", 0)
	seedMedicine(t, repo, 3, "Shatavari", 2)

	t.Run("paginates in sort order", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2, OrderBy: "code", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Ashwagandha", page.Items[0].ProductName)
	})

	t.Run("search matches product name fragment", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "tava"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Shatavari", page.Items[0].ProductName)
	})

	t.Run("in_stock filter excludes empty shelves", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{
			Page:     1,
			PageSize: 10,
			Filters:  map[string]interface{}{"in_stock": true},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})
}

func TestMedicineRepository_DeleteByCode(t *testing.T) {
	db := setupMedicineTestDB(t)
	repo := NewGormMedicineRepository(db)
	ctx := context.Background()

	seedMedicine(t, repo, 1, "Ashwagandha", 10)

	t.Run("deletes existing medicine", func(t *testing.T) {
		require.NoError(t, repo.DeleteByCode(ctx, 1))

		_, err := repo.FindByCode(ctx, 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown code returns not found", func(t *testing.T) {
		err := repo.DeleteByCode(ctx, 42)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
