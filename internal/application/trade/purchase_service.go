package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/trade"
)

// PurchaseService records supplier invoices and folds the received goods
// into the catalog. Purchases are immutable once recorded.
type PurchaseService struct {
	purchaseRepo trade.PurchaseRepository
	scope        TransactionScope
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(purchaseRepo trade.PurchaseRepository, scope TransactionScope) *PurchaseService {
	return &PurchaseService{purchaseRepo: purchaseRepo, scope: scope}
}

// Create records a purchase. Each line either tops up an existing catalog
// entry or creates a new one under the next free code; catalog metadata
// (price, batch, HSN, expiry) is refreshed from the line. All stock
// increments and the purchase row commit atomically.
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	exists, err := s.purchaseRepo.ExistsByInvoiceNumber(ctx, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_INVOICE",
			"Invoice "+req.InvoiceNumber+" has already been recorded")
	}

	var created *trade.Purchase
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		purchase, err := trade.NewPurchase(req.InvoiceNumber, req.BillingDate,
			req.SupplierName, req.SupplierGSTIN, req.SupplierAddress)
		if err != nil {
			return err
		}

		medicineRepo := repos.MedicineRepo()
		for _, input := range req.Lines {
			if _, err := purchase.AddLine(input.ProductName, input.Company, input.Unit,
				input.BatchNumber, input.HSN, input.ExpiryDate,
				input.Quantity, input.PricePerUnit, input.DiscountPercent, input.GSTPercent); err != nil {
				return err
			}
			if err := s.receiveLine(ctx, medicineRepo, input); err != nil {
				return err
			}
		}

		if err := repos.PurchaseRepo().Create(ctx, purchase); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return shared.NewDomainError("DUPLICATE_INVOICE",
					"Invoice "+req.InvoiceNumber+" has already been recorded")
			}
			return err
		}
		created = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(created)
	return &response, nil
}

// receiveLine applies one purchase line to the catalog: top up known
// products, register unknown ones under a fresh code.
func (s *PurchaseService) receiveLine(ctx context.Context, medicineRepo inventory.MedicineRepository, input PurchaseLineInput) error {
	medicine, err := medicineRepo.FindByName(ctx, input.ProductName)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		code, err := medicineRepo.NextCode(ctx)
		if err != nil {
			return err
		}
		medicine, err = inventory.NewMedicine(code, input.ProductName, input.Quantity)
		if err != nil {
			return err
		}
		medicine.ApplyPurchaseDetails(input.PricePerUnit, input.HSN, input.BatchNumber,
			input.ExpiryDate, input.Company, input.Unit)
		return medicineRepo.Create(ctx, medicine)
	}

	medicine.ApplyPurchaseDetails(input.PricePerUnit, input.HSN, input.BatchNumber,
		input.ExpiryDate, input.Company, input.Unit)
	if err := medicineRepo.Save(ctx, medicine); err != nil {
		return err
	}
	return medicineRepo.AdjustStock(ctx, input.ProductName, input.Quantity)
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// GetByInvoiceNumber retrieves a purchase by supplier invoice number
func (s *PurchaseService) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// List retrieves purchases with filtering and pagination
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
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
	if filter.SupplierName != "" {
		domainFilter.Filters["supplier_name"] = filter.SupplierName
	}
	if filter.StartDate != "" {
		domainFilter.Filters["start_date"] = filter.StartDate
	}
	if filter.EndDate != "" {
		domainFilter.Filters["end_date"] = filter.EndDate
	}

	page, err := s.purchaseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToPurchaseResponse(&page.Items[i]))
	}
	return responses, page.Total, nil
}
