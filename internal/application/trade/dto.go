package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinic/backend/internal/domain/trade"
)

// ==================== Sale DTOs ====================

// CreateSaleRequest represents a request to record a pharmacy sale
type CreateSaleRequest struct {
	PatientID          string          `json:"patient_id" binding:"max=64"`
	PatientName        string          `json:"patient_name" binding:"max=255"`
	SaleDate           string          `json:"sale_date" binding:"max=32"`
	Lines              []SaleLineInput `json:"lines" binding:"required,min=1,dive"`
	DiscountPercent    decimal.Decimal `json:"discount_percent"`
	DiscountApprovedBy string          `json:"discount_approved_by" binding:"max=255"`
}

// SaleLineInput represents one dispensed item in a sale request.
// PricePerUnit zero means "use the current catalog price".
type SaleLineInput struct {
	MedicineName string          `json:"medicine_name" binding:"required,min=1,max=255"`
	Quantity     int             `json:"quantity" binding:"required,gt=0"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// UpdateSaleRequest replaces a sale's line set and discount. The bill number
// never changes on update.
type UpdateSaleRequest struct {
	PatientID          *string         `json:"patient_id" binding:"omitempty,max=64"`
	PatientName        *string         `json:"patient_name" binding:"omitempty,max=255"`
	SaleDate           *string         `json:"sale_date" binding:"omitempty,max=32"`
	Lines              []SaleLineInput `json:"lines" binding:"required,min=1,dive"`
	DiscountPercent    decimal.Decimal `json:"discount_percent"`
	DiscountApprovedBy string          `json:"discount_approved_by" binding:"max=255"`
}

// SaleLineResponse represents one sale line in API responses
type SaleLineResponse struct {
	MedicineName string          `json:"medicine_name"`
	BatchNumber  string          `json:"batch_number"`
	HSN          string          `json:"hsn"`
	ExpiryDate   string          `json:"expiry_date"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID                 uuid.UUID          `json:"id"`
	BillNumber         string             `json:"bill_number"`
	PatientID          string             `json:"patient_id"`
	PatientName        string             `json:"patient_name"`
	SaleDate           string             `json:"sale_date"`
	Lines              []SaleLineResponse `json:"lines"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	SGST               decimal.Decimal    `json:"sgst"`
	CGST               decimal.Decimal    `json:"cgst"`
	DiscountPercent    decimal.Decimal    `json:"discount_percent"`
	DiscountApprovedBy string             `json:"discount_approved_by"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// SaleListFilter carries sale list query parameters
type SaleListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir"`
	Search    string `form:"search"`
	PatientID string `form:"patient_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// ToSaleResponse converts a domain sale to its response form
func ToSaleResponse(sale *trade.Sale) SaleResponse {
	lines := make([]SaleLineResponse, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		lines = append(lines, SaleLineResponse{
			MedicineName: line.MedicineName,
			BatchNumber:  line.BatchNumber,
			HSN:          line.HSN,
			ExpiryDate:   line.ExpiryDate,
			Quantity:     line.Quantity,
			PricePerUnit: line.PricePerUnit,
			TotalPrice:   line.TotalPrice,
		})
	}
	return SaleResponse{
		ID:                 sale.ID,
		BillNumber:         sale.BillNumber,
		PatientID:          sale.PatientID,
		PatientName:        sale.PatientName,
		SaleDate:           sale.SaleDate,
		Lines:              lines,
		Subtotal:           sale.Subtotal,
		SGST:               sale.SGST,
		CGST:               sale.CGST,
		DiscountPercent:    sale.DiscountPercent,
		DiscountApprovedBy: sale.DiscountApprovedBy,
		TotalAmount:        sale.TotalAmount,
		CreatedAt:          sale.CreatedAt,
		UpdatedAt:          sale.UpdatedAt,
	}
}

// ==================== Purchase DTOs ====================

// CreatePurchaseRequest represents a request to record a supplier invoice
type CreatePurchaseRequest struct {
	InvoiceNumber   string              `json:"invoice_number" binding:"required,min=1,max=128"`
	BillingDate     string              `json:"billing_date" binding:"max=32"`
	SupplierName    string              `json:"supplier_name" binding:"required,min=1,max=255"`
	SupplierGSTIN   string              `json:"supplier_gstin" binding:"max=64"`
	SupplierAddress string              `json:"supplier_address" binding:"max=512"`
	Lines           []PurchaseLineInput `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseLineInput represents one received item in a purchase request
type PurchaseLineInput struct {
	ProductName     string          `json:"product_name" binding:"required,min=1,max=255"`
	Company         string          `json:"company" binding:"max=255"`
	Unit            string          `json:"unit" binding:"max=64"`
	BatchNumber     string          `json:"batch_number" binding:"max=128"`
	HSN             string          `json:"hsn" binding:"max=64"`
	ExpiryDate      string          `json:"expiry_date" binding:"max=64"`
	Quantity        int             `json:"quantity" binding:"required,gt=0"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	GSTPercent      decimal.Decimal `json:"gst_percent"`
}

// PurchaseLineResponse represents one purchase line in API responses
type PurchaseLineResponse struct {
	ProductName     string          `json:"product_name"`
	Company         string          `json:"company"`
	Unit            string          `json:"unit"`
	BatchNumber     string          `json:"batch_number"`
	HSN             string          `json:"hsn"`
	ExpiryDate      string          `json:"expiry_date"`
	Quantity        int             `json:"quantity"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	GSTPercent      decimal.Decimal `json:"gst_percent"`
	Total           decimal.Decimal `json:"total"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID              uuid.UUID              `json:"id"`
	InvoiceNumber   string                 `json:"invoice_number"`
	BillingDate     string                 `json:"billing_date"`
	SupplierName    string                 `json:"supplier_name"`
	SupplierGSTIN   string                 `json:"supplier_gstin"`
	SupplierAddress string                 `json:"supplier_address"`
	Lines           []PurchaseLineResponse `json:"lines"`
	GrandTotal      decimal.Decimal        `json:"grand_total"`
	CreatedAt       time.Time              `json:"created_at"`
}

// PurchaseListFilter carries purchase list query parameters
type PurchaseListFilter struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir"`
	Search       string `form:"search"`
	SupplierName string `form:"supplier_name"`
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
}

// ToPurchaseResponse converts a domain purchase to its response form
func ToPurchaseResponse(purchase *trade.Purchase) PurchaseResponse {
	lines := make([]PurchaseLineResponse, 0, len(purchase.Lines))
	for _, line := range purchase.Lines {
		lines = append(lines, PurchaseLineResponse{
			ProductName:     line.ProductName,
			Company:         line.Company,
			Unit:            line.Unit,
			BatchNumber:     line.BatchNumber,
			HSN:             line.HSN,
			ExpiryDate:      line.ExpiryDate,
			Quantity:        line.Quantity,
			PricePerUnit:    line.PricePerUnit,
			DiscountPercent: line.DiscountPercent,
			GSTPercent:      line.GSTPercent,
			Total:           line.Total,
		})
	}
	return PurchaseResponse{
		ID:              purchase.ID,
		InvoiceNumber:   purchase.InvoiceNumber,
		BillingDate:     purchase.BillingDate,
		SupplierName:    purchase.SupplierName,
		SupplierGSTIN:   purchase.SupplierGSTIN,
		SupplierAddress: purchase.SupplierAddress,
		Lines:           lines,
		GrandTotal:      purchase.GrandTotal,
		CreatedAt:       purchase.CreatedAt,
	}
}
