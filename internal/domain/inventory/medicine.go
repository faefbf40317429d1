package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Medicine represents one stocked product in the pharmacy catalog.
// It is the aggregate root for stock operations; ProductName is the
// lookup key used by sale and purchase lines, Code is the stable
// human-facing identifier assigned on first creation.
type Medicine struct {
	shared.BaseAggregateRoot
	Code           int             `gorm:"uniqueIndex;not null"`
	ProductName    string          `gorm:"uniqueIndex;not null"`
	Company        string          `gorm:"size:255"`
	Unit           string          `gorm:"size:64"`
	QuantityOnHand int             `gorm:"not null;default:0"`
	PricePerUnit   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	HSN            string          `gorm:"column:hsn;size:64"`
	BatchNumber    string          `gorm:"size:128"`
	ExpiryDate     string          `gorm:"size:64"` // free-form, not a parsed date
	Rack           string          `gorm:"size:64"`
	Shelf          string          `gorm:"size:64"`
}

// TableName returns the table name for GORM
func (Medicine) TableName() string {
	return "medicines"
}

// NewMedicine creates a catalog entry with the given code and an initial
// on-hand quantity. Codes are allocated by the repository (max existing + 1).
func NewMedicine(code int, productName string, quantity int) (*Medicine, error) {
	if code <= 0 {
		return nil, shared.NewDomainError("INVALID_CODE", "Medicine code must be positive")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity cannot be negative")
	}
	return &Medicine{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		ProductName:       productName,
		QuantityOnHand:    quantity,
	}, nil
}

// IncreaseStock adds purchased or restored quantity to the on-hand count
func (m *Medicine) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	m.QuantityOnHand += quantity
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// DecreaseStock removes sold quantity from the on-hand count. The error
// message includes the available quantity so the rejection is actionable
// at the point of sale.
func (m *Medicine) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if m.QuantityOnHand < quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", m.ProductName, quantity, m.QuantityOnHand))
	}
	m.QuantityOnHand -= quantity
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// ApplyPurchaseDetails overwrites pricing and batch metadata with the
// values from an incoming purchase line, keeping existing values where
// the line leaves a field empty.
func (m *Medicine) ApplyPurchaseDetails(pricePerUnit decimal.Decimal, hsn, batchNumber, expiryDate, company, unit string) {
	if pricePerUnit.GreaterThan(decimal.Zero) {
		m.PricePerUnit = pricePerUnit
	}
	if hsn != "" {
		m.HSN = hsn
	}
	if batchNumber != "" {
		m.BatchNumber = batchNumber
	}
	if expiryDate != "" {
		m.ExpiryDate = expiryDate
	}
	if company != "" {
		m.Company = company
	}
	if unit != "" {
		m.Unit = unit
	}
	m.UpdatedAt = time.Now()
}

// HasStock reports whether any quantity is on hand
func (m *Medicine) HasStock() bool {
	return m.QuantityOnHand > 0
}

// CanFulfill reports whether the on-hand quantity covers the requested quantity
func (m *Medicine) CanFulfill(quantity int) bool {
	return m.QuantityOnHand >= quantity
}

// StockValue returns on-hand quantity times price per unit
func (m *Medicine) StockValue() decimal.Decimal {
	return m.PricePerUnit.Mul(decimal.NewFromInt(int64(m.QuantityOnHand)))
}
