package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/trade"
)

func setupSaleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&trade.Sale{}, &trade.SaleLine{})
	require.NoError(t, err)

	return db
}

func buildSale(t *testing.T, billNumber, patientName, saleDate string) *trade.Sale {
	t.Helper()
	sale, err := trade.NewSale(billNumber, "P-00001", patientName, saleDate)
	require.NoError(t, err)
	_, err = sale.AddLine("Ashwagandha", "B-17", "3004", "12/2026", 2, decimal.NewFromInt(50))
	require.NoError(t, err)
	_, err = sale.AddLine("Brahmi", "", "", "", 1, decimal.NewFromInt(30))
	require.NoError(t, err)
	sale.RecalculateTotals()
	return sale
}

func TestSaleRepository_CreateAndFind(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	sale := buildSale(t, "BD/2025-26/M/0001", "Priya Menon", "2025-06-10")
	require.NoError(t, repo.Create(ctx, sale))

	t.Run("round-trips the sale with its lines", func(t *testing.T) {
		found, err := repo.FindByBillNumber(ctx, "BD/2025-26/M/0001")
		require.NoError(t, err)
		assert.Equal(t, "Priya Menon", found.PatientName)
		require.Len(t, found.Lines, 2)
		assert.Equal(t, "Ashwagandha", found.Lines[0].MedicineName)
		assert.Equal(t, 2, found.Lines[0].Quantity)
		assert.True(t, found.Subtotal.Equal(decimal.NewFromInt(130)))
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(130)))
	})

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, "BD/2025-26/M/0001", found.BillNumber)
	})

	t.Run("duplicate bill number returns already exists", func(t *testing.T) {
		duplicate := buildSale(t, "BD/2025-26/M/0001", "Someone Else", "2025-06-11")
		err := repo.Create(ctx, duplicate)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown bill number returns not found", func(t *testing.T) {
		_, err := repo.FindByBillNumber(ctx, "BD/2025-26/M/9999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSaleRepository_Update(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	sale := buildSale(t, "BD/2025-26/M/0001", "Priya Menon", "2025-06-10")
	require.NoError(t, repo.Create(ctx, sale))

	t.Run("replaces the full line set", func(t *testing.T) {
		line, err := trade.NewSaleLine(sale.ID, "Shatavari", "", "", "", 3, decimal.NewFromInt(40))
		require.NoError(t, err)
		sale.ReplaceLines([]trade.SaleLine{*line})
		sale.RecalculateTotals()

		require.NoError(t, repo.Update(ctx, sale))

		found, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		require.Len(t, found.Lines, 1)
		assert.Equal(t, "Shatavari", found.Lines[0].MedicineName)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(120)))

		// No orphaned lines from the original sale survive.
		var lineCount int64
		require.NoError(t, db.Model(&trade.SaleLine{}).Count(&lineCount).Error)
		assert.Equal(t, int64(1), lineCount)
	})
}

func TestSaleRepository_Delete(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	sale := buildSale(t, "BD/2025-26/M/0001", "Priya Menon", "2025-06-10")
	require.NoError(t, repo.Create(ctx, sale))

	t.Run("removes the sale and its lines", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, sale.ID))

		_, err := repo.FindByID(ctx, sale.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var lineCount int64
		require.NoError(t, db.Model(&trade.SaleLine{}).Count(&lineCount).Error)
		assert.Equal(t, int64(0), lineCount)
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSaleRepository_FindBetween(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	for i, date := range []string{"2025-06-01", "2025-06-15", "2025-07-01"} {
		bill := []string{"BD/2025-26/M/0001", "BD/2025-26/M/0002", "BD/2025-26/M/0003"}[i]
		require.NoError(t, repo.Create(ctx, buildSale(t, bill, "Priya Menon", date)))
	}

	t.Run("bounds are inclusive", func(t *testing.T) {
		sales, err := repo.FindBetween(ctx, "2025-06-01", "2025-06-15")
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, "BD/2025-26/M/0001", sales[0].BillNumber)
		assert.Equal(t, "BD/2025-26/M/0002", sales[1].BillNumber)
	})

	t.Run("empty bounds return everything", func(t *testing.T) {
		sales, err := repo.FindBetween(ctx, "", "")
		require.NoError(t, err)
		assert.Len(t, sales, 3)
	})
}

func TestSaleRepository_FindAll(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, buildSale(t, "BD/2025-26/M/0001", "Priya Menon", "2025-06-01")))
	require.NoError(t, repo.Create(ctx, buildSale(t, "BD/2025-26/M/0002", "Arjun Nair", "2025-06-15")))

	t.Run("search matches patient name", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "Arjun"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "BD/2025-26/M/0002", page.Items[0].BillNumber)
	})

	t.Run("date filters narrow the result", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{
			Page:     1,
			PageSize: 10,
			Filters:  map[string]interface{}{"start_date": "2025-06-10"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})
}
