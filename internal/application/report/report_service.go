package report

import (
	"bytes"
	"context"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/trade"
)

// ReportService renders xlsx registers for accounting handover: the sales
// register, the purchase register and a stock summary snapshot.
type ReportService struct {
	saleRepo     trade.SaleRepository
	purchaseRepo trade.PurchaseRepository
	medicineRepo inventory.MedicineRepository
}

// NewReportService creates a new ReportService
func NewReportService(saleRepo trade.SaleRepository, purchaseRepo trade.PurchaseRepository, medicineRepo inventory.MedicineRepository) *ReportService {
	return &ReportService{
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		medicineRepo: medicineRepo,
	}
}

// SalesRegister renders every sale in the date range as one row per line
// item, with the bill-level totals repeated on each of its rows.
func (s *ReportService) SalesRegister(ctx context.Context, startDate, endDate string) (*bytes.Buffer, error) {
	sales, err := s.saleRepo.FindBetween(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales Register"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Bill Number", "Date", "Patient", "Medicine", "Batch", "HSN",
		"Expiry", "Qty", "Price", "Line Total", "Subtotal", "SGST", "CGST",
		"Discount %", "Bill Total"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	row := 2
	grandTotal := decimal.Zero
	for _, sale := range sales {
		for _, line := range sale.Lines {
			values := []interface{}{
				sale.BillNumber, sale.SaleDate, sale.PatientName,
				line.MedicineName, line.BatchNumber, line.HSN, line.ExpiryDate,
				line.Quantity, decimalCell(line.PricePerUnit), decimalCell(line.TotalPrice),
				decimalCell(sale.Subtotal), decimalCell(sale.SGST), decimalCell(sale.CGST),
				decimalCell(sale.DiscountPercent), decimalCell(sale.TotalAmount),
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
		grandTotal = grandTotal.Add(sale.TotalAmount)
	}

	if err := writeRow(f, sheet, row+1, []interface{}{"Grand Total", "", "", "", "", "", "", "", "", "", "", "", "", "", decimalCell(grandTotal)}); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

// PurchaseRegister renders every purchase in the date range as one row per
// received line.
func (s *ReportService) PurchaseRegister(ctx context.Context, startDate, endDate string) (*bytes.Buffer, error) {
	purchases, err := s.purchaseRepo.FindBetween(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Purchase Register"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Invoice", "Date", "Supplier", "GSTIN", "Product", "Batch",
		"HSN", "Expiry", "Qty", "Price", "Discount %", "GST %", "Line Total", "Invoice Total"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	row := 2
	grandTotal := decimal.Zero
	for _, purchase := range purchases {
		for _, line := range purchase.Lines {
			values := []interface{}{
				purchase.InvoiceNumber, purchase.BillingDate, purchase.SupplierName, purchase.SupplierGSTIN,
				line.ProductName, line.BatchNumber, line.HSN, line.ExpiryDate,
				line.Quantity, decimalCell(line.PricePerUnit),
				decimalCell(line.DiscountPercent), decimalCell(line.GSTPercent),
				decimalCell(line.Total), decimalCell(purchase.GrandTotal),
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
		grandTotal = grandTotal.Add(purchase.GrandTotal)
	}

	if err := writeRow(f, sheet, row+1, []interface{}{"Grand Total", "", "", "", "", "", "", "", "", "", "", "", "", decimalCell(grandTotal)}); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

// StockSummary renders the current catalog with on-hand quantities and
// stock value per entry.
func (s *ReportService) StockSummary(ctx context.Context) (*bytes.Buffer, error) {
	const pageSize = 500

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Stock Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Code", "Product", "Company", "Unit", "On Hand", "Price",
		"Stock Value", "HSN", "Batch", "Expiry", "Rack", "Shelf"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	row := 2
	totalValue := decimal.Zero
	for page := 1; ; page++ {
		result, err := s.medicineRepo.FindAll(ctx, medicinePageFilter(page, pageSize))
		if err != nil {
			return nil, err
		}
		for i := range result.Items {
			m := &result.Items[i]
			values := []interface{}{
				m.Code, m.ProductName, m.Company, m.Unit, m.QuantityOnHand,
				decimalCell(m.PricePerUnit), decimalCell(m.StockValue()),
				m.HSN, m.BatchNumber, m.ExpiryDate, m.Rack, m.Shelf,
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			totalValue = totalValue.Add(m.StockValue())
			row++
		}
		if int64(page*pageSize) >= result.Total {
			break
		}
	}

	if err := writeRow(f, sheet, row+1, []interface{}{"Total Stock Value", "", "", "", "", "", decimalCell(totalValue)}); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// decimalCell renders a decimal as float for native xlsx number formatting
func decimalCell(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func medicinePageFilter(page, pageSize int) shared.Filter {
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "code",
		OrderDir: "ASC",
	}
}
