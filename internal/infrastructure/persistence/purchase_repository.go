package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/trade"
)

// GormPurchaseRepository implements trade.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GORM purchase repository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormPurchaseRepository) WithTx(tx *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: tx}
}

func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	err := r.db.WithContext(ctx).Preload("Lines").Where("id = ?", id).First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *GormPurchaseRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.Purchase, error) {
	var purchase trade.Purchase
	err := r.db.WithContext(ctx).Preload("Lines").Where("invoice_number = ?", invoiceNumber).First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *GormPurchaseRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.Purchase{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.Purchase], error) {
	var purchases []trade.Purchase
	var total int64

	query := r.db.WithContext(ctx).Model(&trade.Purchase{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Preload("Lines").Find(&purchases).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(purchases, total, filter.Page, filter.PageSize), nil
}

func (r *GormPurchaseRepository) FindBetween(ctx context.Context, startDate, endDate string) ([]trade.Purchase, error) {
	var purchases []trade.Purchase
	query := r.db.WithContext(ctx).Preload("Lines").Order("billing_date ASC, invoice_number ASC")
	if startDate != "" {
		query = query.Where("billing_date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("billing_date <= ?", endDate)
	}
	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	err := r.db.WithContext(ctx).Create(purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *GormPurchaseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.Purchase{}).Count(&count).Error
	return count, err
}

func (r *GormPurchaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("supplier_name LIKE ? OR invoice_number LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_name":
			query = query.Where("supplier_name = ?", value)
		case "start_date":
			query = query.Where("billing_date >= ?", value)
		case "end_date":
			query = query.Where("billing_date <= ?", value)
		}
	}

	return query
}

var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
