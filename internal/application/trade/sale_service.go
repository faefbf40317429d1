package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	billingapp "github.com/clinic/backend/internal/application/billing"
	"github.com/clinic/backend/internal/domain/billing"
	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/trade"
)

// SaleService handles pharmacy point-of-sale operations. Every mutation runs
// inside one transaction scope: all stock decrements, the bill number draw
// and the sale row commit together or not at all, so a failing line can
// never leave part of the order applied.
type SaleService struct {
	saleRepo   trade.SaleRepository
	scope      TransactionScope
	maxRetries int
	now        func() time.Time
	logger     *zap.Logger
}

// NewSaleService creates a new SaleService. maxRetries bounds the bill
// counter retry loop.
func NewSaleService(saleRepo trade.SaleRepository, scope TransactionScope, maxRetries int, logger *zap.Logger) *SaleService {
	return &SaleService{
		saleRepo:   saleRepo,
		scope:      scope,
		maxRetries: maxRetries,
		now:        time.Now,
		logger:     logger,
	}
}

// Create records a sale: deducts stock for every line, mints the bill number
// and persists the sale atomically.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	saleDate := req.SaleDate
	if saleDate == "" {
		saleDate = s.now().Format("2006-01-02")
	}

	var created *trade.Sale
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		billNumber, err := billingapp.Issue(ctx, repos.CounterRepo(), billing.CategorySale, s.now(), s.maxRetries)
		if err != nil {
			return err
		}

		sale, err := trade.NewSale(billNumber, req.PatientID, req.PatientName, saleDate)
		if err != nil {
			return err
		}

		if err := s.applyLines(ctx, repos.MedicineRepo(), sale, req.Lines); err != nil {
			return err
		}
		if err := sale.ApplyDiscount(req.DiscountPercent, req.DiscountApprovedBy); err != nil {
			return err
		}
		sale.RecalculateTotals()

		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}
		created = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(created)
	return &response, nil
}

// Update replaces a sale's lines. Stock for the old lines is restored and
// stock for the new lines deducted in the same transaction, so an edit that
// fails part-way leaves both inventory and the sale untouched. The bill
// number is preserved.
func (s *SaleService) Update(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	var updated *trade.Sale
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		medicineRepo := repos.MedicineRepo()
		for _, line := range sale.Lines {
			if err := medicineRepo.AdjustStock(ctx, line.MedicineName, line.Quantity); err != nil {
				return err
			}
		}

		if req.PatientID != nil {
			sale.PatientID = *req.PatientID
		}
		if req.PatientName != nil {
			sale.PatientName = *req.PatientName
		}
		if req.SaleDate != nil {
			sale.SaleDate = *req.SaleDate
		}

		sale.ReplaceLines(nil)
		if err := s.applyLines(ctx, medicineRepo, sale, req.Lines); err != nil {
			return err
		}
		if err := sale.ApplyDiscount(req.DiscountPercent, req.DiscountApprovedBy); err != nil {
			return err
		}
		sale.RecalculateTotals()

		if err := repos.SaleRepo().Update(ctx, sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(updated)
	return &response, nil
}

// Delete removes a sale and restores its stock. A line whose medicine has
// since been removed from the catalog is skipped with a log entry rather
// than blocking the delete.
func (s *SaleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		medicineRepo := repos.MedicineRepo()
		for _, line := range sale.Lines {
			err := medicineRepo.AdjustStock(ctx, line.MedicineName, line.Quantity)
			if err != nil {
				var domainErr *shared.DomainError
				if errors.As(err, &domainErr) && domainErr.Code == "MEDICINE_NOT_FOUND" {
					s.logger.Warn("skipping stock restore for removed medicine",
						zap.String("bill_number", sale.BillNumber),
						zap.String("medicine", line.MedicineName),
						zap.Int("quantity", line.Quantity))
					continue
				}
				return err
			}
		}

		return repos.SaleRepo().Delete(ctx, sale.ID)
	})
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByBillNumber retrieves a sale by its bill number
func (s *SaleService) GetByBillNumber(ctx context.Context, billNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
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
	if filter.PatientID != "" {
		domainFilter.Filters["patient_id"] = filter.PatientID
	}
	if filter.StartDate != "" {
		domainFilter.Filters["start_date"] = filter.StartDate
	}
	if filter.EndDate != "" {
		domainFilter.Filters["end_date"] = filter.EndDate
	}

	page, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToSaleResponse(&page.Items[i]))
	}
	return responses, page.Total, nil
}

// applyLines deducts stock for each requested line and appends it to the
// sale, snapshotting batch, HSN and expiry from the catalog entry. Lines
// with no explicit price take the current catalog price.
func (s *SaleService) applyLines(ctx context.Context, medicineRepo inventory.MedicineRepository, sale *trade.Sale, lines []SaleLineInput) error {
	for _, input := range lines {
		if input.Quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}

		medicine, err := medicineRepo.FindByName(ctx, input.MedicineName)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("MEDICINE_NOT_FOUND",
					"Medicine "+input.MedicineName+" not found in inventory")
			}
			return err
		}

		if err := medicineRepo.AdjustStock(ctx, input.MedicineName, -input.Quantity); err != nil {
			return err
		}

		price := input.PricePerUnit
		if price.IsZero() {
			price = medicine.PricePerUnit
		}
		if _, err := sale.AddLine(medicine.ProductName, medicine.BatchNumber, medicine.HSN, medicine.ExpiryDate, input.Quantity, price); err != nil {
			return err
		}
	}
	return nil
}
