package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/trade"
)

func setupPurchaseTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&trade.Purchase{}, &trade.PurchaseLine{})
	require.NoError(t, err)

	return db
}

func buildPurchase(t *testing.T, invoiceNumber, billingDate string) *trade.Purchase {
	t.Helper()
	purchase, err := trade.NewPurchase(invoiceNumber, billingDate, "Kerala Ayurveda Ltd", "32AAACK1234F1Z5", "Aluva, Kerala")
	require.NoError(t, err)
	_, err = purchase.AddLine("Ashwagandha", "Himalaya", "bottle", "B-17", "3004", "12/2026",
		10, decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.NewFromInt(12))
	require.NoError(t, err)
	return purchase
}

func TestPurchaseRepository_CreateAndFind(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	purchase := buildPurchase(t, "INV-2025-001", "2025-06-10")
	require.NoError(t, repo.Create(ctx, purchase))

	t.Run("round-trips the invoice with its lines", func(t *testing.T) {
		found, err := repo.FindByInvoiceNumber(ctx, "INV-2025-001")
		require.NoError(t, err)
		assert.Equal(t, "Kerala Ayurveda Ltd", found.SupplierName)
		require.Len(t, found.Lines, 1)
		assert.Equal(t, "Ashwagandha", found.Lines[0].ProductName)
		assert.True(t, found.GrandTotal.Equal(decimal.NewFromInt(1008)))
	})

	t.Run("duplicate invoice number returns already exists", func(t *testing.T) {
		err := repo.Create(ctx, buildPurchase(t, "INV-2025-001", "2025-06-11"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("exists check", func(t *testing.T) {
		exists, err := repo.ExistsByInvoiceNumber(ctx, "INV-2025-001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByInvoiceNumber(ctx, "INV-2025-999")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestPurchaseRepository_FindBetween(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, buildPurchase(t, "INV-A", "2025-05-01")))
	require.NoError(t, repo.Create(ctx, buildPurchase(t, "INV-B", "2025-06-15")))
	require.NoError(t, repo.Create(ctx, buildPurchase(t, "INV-C", "2025-08-01")))

	t.Run("returns invoices inside the inclusive range", func(t *testing.T) {
		purchases, err := repo.FindBetween(ctx, "2025-05-01", "2025-06-30")
		require.NoError(t, err)
		require.Len(t, purchases, 2)
		assert.Equal(t, "INV-A", purchases[0].InvoiceNumber)
		assert.Equal(t, "INV-B", purchases[1].InvoiceNumber)
	})
}

func TestPurchaseRepository_FindAll(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, buildPurchase(t, "INV-A", "2025-05-01")))
	require.NoError(t, repo.Create(ctx, buildPurchase(t, "INV-B", "2025-06-15")))

	t.Run("search matches invoice number fragment", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "INV-B"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "INV-B", page.Items[0].InvoiceNumber)
		require.Len(t, page.Items[0].Lines, 1)
	})

	t.Run("orders by invoice number when asked", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, OrderBy: "invoice_number", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "INV-A", page.Items[0].InvoiceNumber)
	})
}
