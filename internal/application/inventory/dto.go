package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/clinic/backend/internal/domain/inventory"
)

// CreateMedicineRequest represents a request to add a catalog entry.
// Code 0 lets the service allocate the next free code.
type CreateMedicineRequest struct {
	Code         int             `json:"code" binding:"min=0"`
	ProductName  string          `json:"product_name" binding:"required,min=1,max=255"`
	Company      string          `json:"company" binding:"max=255"`
	Unit         string          `json:"unit" binding:"max=64"`
	Quantity     int             `json:"quantity" binding:"min=0"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	HSN          string          `json:"hsn" binding:"max=64"`
	BatchNumber  string          `json:"batch_number" binding:"max=128"`
	ExpiryDate   string          `json:"expiry_date" binding:"max=64"`
	Rack         string          `json:"rack" binding:"max=64"`
	Shelf        string          `json:"shelf" binding:"max=64"`
}

// UpdateMedicineRequest represents a catalog metadata edit. A nil Quantity
// leaves stock untouched; a value corrects the on-hand count to it.
type UpdateMedicineRequest struct {
	ProductName  *string          `json:"product_name" binding:"omitempty,min=1,max=255"`
	Company      *string          `json:"company" binding:"omitempty,max=255"`
	Unit         *string          `json:"unit" binding:"omitempty,max=64"`
	Quantity     *int             `json:"quantity" binding:"omitempty,min=0"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
	HSN          *string          `json:"hsn" binding:"omitempty,max=64"`
	BatchNumber  *string          `json:"batch_number" binding:"omitempty,max=128"`
	ExpiryDate   *string          `json:"expiry_date" binding:"omitempty,max=64"`
	Rack         *string          `json:"rack" binding:"omitempty,max=64"`
	Shelf        *string          `json:"shelf" binding:"omitempty,max=64"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	Delta       int    `json:"delta" binding:"required"`
}

// MedicineResponse represents a catalog entry in API responses
type MedicineResponse struct {
	Code           int             `json:"code"`
	ProductName    string          `json:"product_name"`
	Company        string          `json:"company"`
	Unit           string          `json:"unit"`
	QuantityOnHand int             `json:"quantity_on_hand"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	HSN            string          `json:"hsn"`
	BatchNumber    string          `json:"batch_number"`
	ExpiryDate     string          `json:"expiry_date"`
	Rack           string          `json:"rack"`
	Shelf          string          `json:"shelf"`
	StockValue     decimal.Decimal `json:"stock_value"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MedicineListFilter carries list query parameters
type MedicineListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Company  string `form:"company"`
	InStock  bool   `form:"in_stock"`
}

// ToMedicineResponse converts a domain medicine to its response form
func ToMedicineResponse(m *inventory.Medicine) MedicineResponse {
	return MedicineResponse{
		Code:           m.Code,
		ProductName:    m.ProductName,
		Company:        m.Company,
		Unit:           m.Unit,
		QuantityOnHand: m.QuantityOnHand,
		PricePerUnit:   m.PricePerUnit,
		HSN:            m.HSN,
		BatchNumber:    m.BatchNumber,
		ExpiryDate:     m.ExpiryDate,
		Rack:           m.Rack,
		Shelf:          m.Shelf,
		StockValue:     m.StockValue(),
		UpdatedAt:      m.UpdatedAt,
	}
}

// ToMedicineResponses converts a slice of domain medicines
func ToMedicineResponses(medicines []inventory.Medicine) []MedicineResponse {
	responses := make([]MedicineResponse, 0, len(medicines))
	for i := range medicines {
		responses = append(responses, ToMedicineResponse(&medicines[i]))
	}
	return responses
}
