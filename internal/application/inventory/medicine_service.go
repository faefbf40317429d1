package inventory

import (
	"context"

	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/shared"
)

// MedicineService handles the pharmacy catalog and manual stock corrections.
// Stock movement driven by sales and purchases lives in the trade services;
// everything here operates on one catalog entry at a time.
type MedicineService struct {
	medicineRepo inventory.MedicineRepository
}

// NewMedicineService creates a new MedicineService
func NewMedicineService(medicineRepo inventory.MedicineRepository) *MedicineService {
	return &MedicineService{medicineRepo: medicineRepo}
}

// Create adds a catalog entry. When the request carries no code, the next
// free one is allocated.
func (s *MedicineService) Create(ctx context.Context, req CreateMedicineRequest) (*MedicineResponse, error) {
	code := req.Code
	if code == 0 {
		next, err := s.medicineRepo.NextCode(ctx)
		if err != nil {
			return nil, err
		}
		code = next
	}

	medicine, err := inventory.NewMedicine(code, req.ProductName, req.Quantity)
	if err != nil {
		return nil, err
	}
	medicine.ApplyPurchaseDetails(req.PricePerUnit, req.HSN, req.BatchNumber, req.ExpiryDate, req.Company, req.Unit)
	medicine.Rack = req.Rack
	medicine.Shelf = req.Shelf

	if err := s.medicineRepo.Create(ctx, medicine); err != nil {
		return nil, err
	}

	response := ToMedicineResponse(medicine)
	return &response, nil
}

// Update edits catalog metadata by code. A quantity in the request is a
// correction: the difference to the stored count is applied through the
// atomic stock adjustment, so a concurrent sale cannot be overwritten.
func (s *MedicineService) Update(ctx context.Context, code int, req UpdateMedicineRequest) (*MedicineResponse, error) {
	medicine, err := s.medicineRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.ProductName != nil {
		medicine.ProductName = *req.ProductName
	}
	if req.Company != nil {
		medicine.Company = *req.Company
	}
	if req.Unit != nil {
		medicine.Unit = *req.Unit
	}
	if req.PricePerUnit != nil {
		medicine.PricePerUnit = *req.PricePerUnit
	}
	if req.HSN != nil {
		medicine.HSN = *req.HSN
	}
	if req.BatchNumber != nil {
		medicine.BatchNumber = *req.BatchNumber
	}
	if req.ExpiryDate != nil {
		medicine.ExpiryDate = *req.ExpiryDate
	}
	if req.Rack != nil {
		medicine.Rack = *req.Rack
	}
	if req.Shelf != nil {
		medicine.Shelf = *req.Shelf
	}

	if err := s.medicineRepo.Save(ctx, medicine); err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		delta := *req.Quantity - medicine.QuantityOnHand
		if delta != 0 {
			if err := s.medicineRepo.AdjustStock(ctx, medicine.ProductName, delta); err != nil {
				return nil, err
			}
		}
	}

	updated, err := s.medicineRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToMedicineResponse(updated)
	return &response, nil
}

// AdjustStock applies a manual signed correction to the on-hand count
func (s *MedicineService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*MedicineResponse, error) {
	if req.Delta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}
	if err := s.medicineRepo.AdjustStock(ctx, req.ProductName, req.Delta); err != nil {
		return nil, err
	}
	medicine, err := s.medicineRepo.FindByName(ctx, req.ProductName)
	if err != nil {
		return nil, err
	}
	response := ToMedicineResponse(medicine)
	return &response, nil
}

// GetByCode retrieves a catalog entry by code
func (s *MedicineService) GetByCode(ctx context.Context, code int) (*MedicineResponse, error) {
	medicine, err := s.medicineRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToMedicineResponse(medicine)
	return &response, nil
}

// GetByName retrieves a catalog entry by exact product name
func (s *MedicineService) GetByName(ctx context.Context, productName string) (*MedicineResponse, error) {
	medicine, err := s.medicineRepo.FindByName(ctx, productName)
	if err != nil {
		return nil, err
	}
	response := ToMedicineResponse(medicine)
	return &response, nil
}

// List retrieves catalog entries with filtering and pagination
func (s *MedicineService) List(ctx context.Context, filter MedicineListFilter) ([]MedicineResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.Company != "" {
		domainFilter.Filters["company"] = filter.Company
	}
	if filter.InStock {
		domainFilter.Filters["in_stock"] = true
	}

	page, err := s.medicineRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMedicineResponses(page.Items), page.Total, nil
}

// Suggest returns catalog entries whose name starts with the prefix
func (s *MedicineService) Suggest(ctx context.Context, prefix string, limit int) ([]MedicineResponse, error) {
	medicines, err := s.medicineRepo.SearchByNamePrefix(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}
	return ToMedicineResponses(medicines), nil
}

// LowStock lists entries at or below the reorder threshold
func (s *MedicineService) LowStock(ctx context.Context, threshold int) ([]MedicineResponse, error) {
	if threshold < 0 {
		threshold = 0
	}
	medicines, err := s.medicineRepo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return ToMedicineResponses(medicines), nil
}

// Delete removes a catalog entry by code
func (s *MedicineService) Delete(ctx context.Context, code int) error {
	return s.medicineRepo.DeleteByCode(ctx, code)
}
