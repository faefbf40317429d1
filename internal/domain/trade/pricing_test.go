package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	total := LineTotal(3, decimal.NewFromFloat(12.50))
	assert.True(t, decimal.NewFromFloat(37.50).Equal(total))
}

func TestComputeSaleTotals(t *testing.T) {
	t.Run("computes subtotal, GST split and rounded grand total", func(t *testing.T) {
		lines := []SaleLine{
			{Quantity: 2, PricePerUnit: decimal.NewFromInt(50)},
			{Quantity: 1, PricePerUnit: decimal.NewFromInt(30)},
		}

		totals := ComputeSaleTotals(lines, decimal.NewFromInt(10))

		assert.True(t, decimal.NewFromInt(130).Equal(totals.Subtotal), "subtotal %s", totals.Subtotal)
		assert.True(t, decimal.NewFromFloat(3.25).Equal(totals.SGST), "sgst %s", totals.SGST)
		assert.True(t, decimal.NewFromFloat(3.25).Equal(totals.CGST), "cgst %s", totals.CGST)
		assert.True(t, decimal.NewFromInt(13).Equal(totals.DiscountAmount), "discount %s", totals.DiscountAmount)
		assert.True(t, decimal.NewFromInt(117).Equal(totals.TotalAmount), "total %s", totals.TotalAmount)
	})

	t.Run("rounds the grand total to the nearest whole unit", func(t *testing.T) {
		lines := []SaleLine{
			{Quantity: 1, PricePerUnit: decimal.NewFromFloat(99.50)},
		}

		totals := ComputeSaleTotals(lines, decimal.Zero)

		assert.True(t, decimal.NewFromInt(100).Equal(totals.TotalAmount), "total %s", totals.TotalAmount)
	})

	t.Run("empty line set yields zero totals", func(t *testing.T) {
		totals := ComputeSaleTotals(nil, decimal.Zero)

		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.TotalAmount.IsZero())
	})
}

func TestPurchaseLineTotal(t *testing.T) {
	t.Run("applies discount before GST", func(t *testing.T) {
		// 10 * 100 = 1000, -10% = 900, +12% GST = 1008
		total := PurchaseLineTotal(10, decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.NewFromInt(12))
		assert.True(t, decimal.NewFromInt(1008).Equal(total), "total %s", total)
	})

	t.Run("zero discount and GST is plain quantity times price", func(t *testing.T) {
		total := PurchaseLineTotal(4, decimal.NewFromFloat(2.5), decimal.Zero, decimal.Zero)
		assert.True(t, decimal.NewFromInt(10).Equal(total), "total %s", total)
	})
}
