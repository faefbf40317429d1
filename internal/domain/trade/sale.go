package trade

import (
	"strings"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine represents one dispensed product within a sale
type SaleLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MedicineName string          `gorm:"not null"`
	BatchNumber  string          `gorm:"size:128"`
	HSN          string          `gorm:"column:hsn;size:64"`
	ExpiryDate   string          `gorm:"size:64"`
	Quantity     int             `gorm:"not null"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// NewSaleLine creates a validated sale line with its total computed
func NewSaleLine(saleID uuid.UUID, medicineName, batchNumber, hsn, expiryDate string, quantity int, pricePerUnit decimal.Decimal) (*SaleLine, error) {
	if strings.TrimSpace(medicineName) == "" {
		return nil, shared.NewDomainError("INVALID_MEDICINE_NAME", "Medicine name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if pricePerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per unit cannot be negative")
	}

	return &SaleLine{
		ID:           uuid.New(),
		SaleID:       saleID,
		MedicineName: medicineName,
		BatchNumber:  batchNumber,
		HSN:          hsn,
		ExpiryDate:   expiryDate,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalPrice:   LineTotal(quantity, pricePerUnit),
		CreatedAt:    time.Now(),
	}, nil
}

// Sale represents one point-of-sale event. The bill number is minted once
// at creation and never changes; editing a sale replaces its lines and
// recomputes totals but keeps the bill number.
type Sale struct {
	shared.BaseAggregateRoot
	BillNumber         string          `gorm:"uniqueIndex;not null"`
	PatientID          string          `gorm:"size:64;index"`
	PatientName        string          `gorm:"size:255"`
	SaleDate           string          `gorm:"size:32"` // stored as given, not a parsed date
	Lines              []SaleLine      `gorm:"foreignKey:SaleID;references:ID"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SGST               decimal.Decimal `gorm:"column:sgst;type:decimal(18,4);not null;default:0"`
	CGST               decimal.Decimal `gorm:"column:cgst;type:decimal(18,4);not null;default:0"`
	DiscountPercent    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	DiscountApprovedBy string          `gorm:"size:255"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a sale with its minted bill number and no lines yet
func NewSale(billNumber, patientID, patientName, saleDate string) (*Sale, error) {
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNumber:        billNumber,
		PatientID:         patientID,
		PatientName:       patientName,
		SaleDate:          saleDate,
		Lines:             make([]SaleLine, 0),
	}, nil
}

// AddLine appends a validated line to the sale
func (s *Sale) AddLine(medicineName, batchNumber, hsn, expiryDate string, quantity int, pricePerUnit decimal.Decimal) (*SaleLine, error) {
	line, err := NewSaleLine(s.ID, medicineName, batchNumber, hsn, expiryDate, quantity, pricePerUnit)
	if err != nil {
		return nil, err
	}
	s.Lines = append(s.Lines, *line)
	s.UpdatedAt = time.Now()
	return &s.Lines[len(s.Lines)-1], nil
}

// ReplaceLines swaps the full line set during a sale edit. Inventory
// reconciliation for the old lines is the caller's responsibility.
func (s *Sale) ReplaceLines(lines []SaleLine) {
	for i := range lines {
		lines[i].SaleID = s.ID
	}
	s.Lines = lines
	s.UpdatedAt = time.Now()
}

// ApplyDiscount sets the discount and who approved it
func (s *Sale) ApplyDiscount(percent decimal.Decimal, approvedBy string) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	s.DiscountPercent = percent
	s.DiscountApprovedBy = approvedBy
	s.UpdatedAt = time.Now()
	return nil
}

// RecalculateTotals recomputes the money summary from the current lines
func (s *Sale) RecalculateTotals() {
	totals := ComputeSaleTotals(s.Lines, s.DiscountPercent)
	s.Subtotal = totals.Subtotal
	s.SGST = totals.SGST
	s.CGST = totals.CGST
	s.TotalAmount = totals.TotalAmount
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsEmpty reports whether the sale has no lines
func (s *Sale) IsEmpty() bool {
	return len(s.Lines) == 0
}
