package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/clinic/backend/internal/domain/trade"
)

// GormSaleRepository implements trade.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GORM sale repository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormSaleRepository) WithTx(tx *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: tx}
}

func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	err := r.db.WithContext(ctx).Preload("Lines").Where("id = ?", id).First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

func (r *GormSaleRepository) FindByBillNumber(ctx context.Context, billNumber string) (*trade.Sale, error) {
	var sale trade.Sale
	err := r.db.WithContext(ctx).Preload("Lines").Where("bill_number = ?", billNumber).First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.Sale], error) {
	var sales []trade.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&trade.Sale{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Preload("Lines").Find(&sales).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(sales, total, filter.Page, filter.PageSize), nil
}

func (r *GormSaleRepository) FindBetween(ctx context.Context, startDate, endDate string) ([]trade.Sale, error) {
	var sales []trade.Sale
	query := r.db.WithContext(ctx).Preload("Lines").Order("bill_number ASC")
	if startDate != "" {
		query = query.Where("sale_date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("sale_date <= ?", endDate)
	}
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	err := r.db.WithContext(ctx).Create(sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update replaces the sale row and its full line set. Existing lines are
// removed first so edits that drop or rename a line leave nothing behind.
func (r *GormSaleRepository) Update(ctx context.Context, sale *trade.Sale) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("sale_id = ?", sale.ID).Delete(&trade.SaleLine{}).Error; err != nil {
		return err
	}
	if err := db.Omit("Lines").Save(sale).Error; err != nil {
		return err
	}
	if len(sale.Lines) > 0 {
		if err := db.Create(&sale.Lines).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("sale_id = ?", id).Delete(&trade.SaleLine{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&trade.Sale{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormSaleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.Sale{}).Count(&count).Error
	return count, err
}

func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("patient_name LIKE ? OR bill_number LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "patient_id":
			query = query.Where("patient_id = ?", value)
		case "start_date":
			query = query.Where("sale_date >= ?", value)
		case "end_date":
			query = query.Where("sale_date <= ?", value)
		}
	}

	return query
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)
