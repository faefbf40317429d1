package trade

import (
	"strings"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseLine represents one received product within a supplier invoice
type PurchaseLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"not null"`
	Company         string          `gorm:"size:255"`
	Unit            string          `gorm:"size:64"`
	BatchNumber     string          `gorm:"size:128"`
	HSN             string          `gorm:"column:hsn;size:64"`
	ExpiryDate      string          `gorm:"size:64"`
	Quantity        int             `gorm:"not null"`
	PricePerUnit    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	GSTPercent      decimal.Decimal `gorm:"column:gst_percent;type:decimal(8,4);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time
}

// TableName returns the table name for GORM
func (PurchaseLine) TableName() string {
	return "purchase_lines"
}

// NewPurchaseLine creates a validated purchase line with its total computed
func NewPurchaseLine(purchaseID uuid.UUID, productName, company, unit, batchNumber, hsn, expiryDate string,
	quantity int, pricePerUnit, discountPercent, gstPercent decimal.Decimal) (*PurchaseLine, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if pricePerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per unit cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	if gstPercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_GST", "GST percent cannot be negative")
	}

	return &PurchaseLine{
		ID:              uuid.New(),
		PurchaseID:      purchaseID,
		ProductName:     productName,
		Company:         company,
		Unit:            unit,
		BatchNumber:     batchNumber,
		HSN:             hsn,
		ExpiryDate:      expiryDate,
		Quantity:        quantity,
		PricePerUnit:    pricePerUnit,
		DiscountPercent: discountPercent,
		GSTPercent:      gstPercent,
		Total:           PurchaseLineTotal(quantity, pricePerUnit, discountPercent, gstPercent),
		CreatedAt:       time.Now(),
	}, nil
}

// Purchase represents one supplier invoice. Purchases are immutable once
// recorded: there is no update or delete flow, so the stock increments
// they apply are never reversed.
type Purchase struct {
	shared.BaseAggregateRoot
	InvoiceNumber   string          `gorm:"uniqueIndex;not null"`
	BillingDate     string          `gorm:"size:32"`
	SupplierName    string          `gorm:"size:255;not null"`
	SupplierGSTIN   string          `gorm:"column:supplier_gstin;size:64"`
	SupplierAddress string          `gorm:"size:512"`
	Lines           []PurchaseLine  `gorm:"foreignKey:PurchaseID;references:ID"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a purchase with no lines yet
func NewPurchase(invoiceNumber, billingDate, supplierName, supplierGSTIN, supplierAddress string) (*Purchase, error) {
	if strings.TrimSpace(invoiceNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	return &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		BillingDate:       billingDate,
		SupplierName:      supplierName,
		SupplierGSTIN:     supplierGSTIN,
		SupplierAddress:   supplierAddress,
		Lines:             make([]PurchaseLine, 0),
	}, nil
}

// AddLine appends a validated line and rolls its total into the grand total
func (p *Purchase) AddLine(productName, company, unit, batchNumber, hsn, expiryDate string,
	quantity int, pricePerUnit, discountPercent, gstPercent decimal.Decimal) (*PurchaseLine, error) {
	line, err := NewPurchaseLine(p.ID, productName, company, unit, batchNumber, hsn, expiryDate,
		quantity, pricePerUnit, discountPercent, gstPercent)
	if err != nil {
		return nil, err
	}
	p.Lines = append(p.Lines, *line)
	p.GrandTotal = p.GrandTotal.Add(line.Total)
	p.UpdatedAt = time.Now()
	return &p.Lines[len(p.Lines)-1], nil
}

// IsEmpty reports whether the purchase has no lines
func (p *Purchase) IsEmpty() bool {
	return len(p.Lines) == 0
}
