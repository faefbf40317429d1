package trade

import "github.com/shopspring/decimal"

// GST rates applied to every sale: 2.5% SGST + 2.5% CGST, 5% combined.
// Fixed by the billing rules, not configurable.
var (
	sgstRate = decimal.NewFromFloat(0.025)
	cgstRate = decimal.NewFromFloat(0.025)
	hundred  = decimal.NewFromInt(100)
)

// SaleTotals is the computed money summary of a sale
type SaleTotals struct {
	Subtotal       decimal.Decimal
	SGST           decimal.Decimal
	CGST           decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// LineTotal returns quantity times price per unit
func LineTotal(quantity int, pricePerUnit decimal.Decimal) decimal.Decimal {
	return pricePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeSaleTotals derives the sale summary from its lines. SGST and CGST
// are stored unrounded; the grand total is rounded to the nearest whole
// currency unit (decimal.Round, half away from zero).
func ComputeSaleTotals(lines []SaleLine, discountPercent decimal.Decimal) SaleTotals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(LineTotal(line.Quantity, line.PricePerUnit))
	}

	discountAmount := subtotal.Mul(discountPercent).Div(hundred)

	return SaleTotals{
		Subtotal:       subtotal,
		SGST:           subtotal.Mul(sgstRate),
		CGST:           subtotal.Mul(cgstRate),
		DiscountAmount: discountAmount,
		TotalAmount:    subtotal.Sub(discountAmount).Round(0),
	}
}

// PurchaseLineTotal applies the line discount then GST on top of
// quantity times price.
func PurchaseLineTotal(quantity int, pricePerUnit, discountPercent, gstPercent decimal.Decimal) decimal.Decimal {
	base := pricePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
	afterDiscount := base.Sub(base.Mul(discountPercent).Div(hundred))
	return afterDiscount.Add(afterDiscount.Mul(gstPercent).Div(hundred))
}
