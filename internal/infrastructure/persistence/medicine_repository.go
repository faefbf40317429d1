package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/shared"
)

// GormMedicineRepository implements inventory.MedicineRepository using GORM
type GormMedicineRepository struct {
	db *gorm.DB
}

// NewGormMedicineRepository creates a new GORM medicine repository
func NewGormMedicineRepository(db *gorm.DB) *GormMedicineRepository {
	return &GormMedicineRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormMedicineRepository) WithTx(tx *gorm.DB) *GormMedicineRepository {
	return &GormMedicineRepository{db: tx}
}

func (r *GormMedicineRepository) FindByName(ctx context.Context, productName string) (*inventory.Medicine, error) {
	var medicine inventory.Medicine
	err := r.db.WithContext(ctx).Where("product_name = ?", productName).First(&medicine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &medicine, nil
}

func (r *GormMedicineRepository) FindByCode(ctx context.Context, code int) (*inventory.Medicine, error) {
	var medicine inventory.Medicine
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&medicine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &medicine, nil
}

func (r *GormMedicineRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[inventory.Medicine], error) {
	var medicines []inventory.Medicine
	var total int64

	query := r.db.WithContext(ctx).Model(&inventory.Medicine{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	query = r.applyPagination(query, filter)
	if err := query.Find(&medicines).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(medicines, total, filter.Page, filter.PageSize), nil
}

func (r *GormMedicineRepository) SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]inventory.Medicine, error) {
	if limit <= 0 {
		limit = 20
	}
	var medicines []inventory.Medicine
	err := r.db.WithContext(ctx).
		Where("product_name LIKE ?", prefix+"%").
		Order("product_name ASC").
		Limit(limit).
		Find(&medicines).Error
	if err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *GormMedicineRepository) FindLowStock(ctx context.Context, threshold int) ([]inventory.Medicine, error) {
	var medicines []inventory.Medicine
	err := r.db.WithContext(ctx).
		Where("quantity_on_hand <= ?", threshold).
		Order("quantity_on_hand ASC").
		Find(&medicines).Error
	if err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *GormMedicineRepository) Create(ctx context.Context, medicine *inventory.Medicine) error {
	err := r.db.WithContext(ctx).Create(medicine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save writes catalog metadata. The on-hand quantity is deliberately omitted:
// stock only moves through AdjustStock, so a stale in-memory quantity can
// never clobber a concurrent adjustment.
func (r *GormMedicineRepository) Save(ctx context.Context, medicine *inventory.Medicine) error {
	return r.db.WithContext(ctx).Omit("quantity_on_hand").Save(medicine).Error
}

// AdjustStock applies a signed delta to the on-hand quantity in a single
// conditional UPDATE. A negative delta only succeeds when enough stock is
// available, so concurrent sales can never drive the quantity below zero.
func (r *GormMedicineRepository) AdjustStock(ctx context.Context, productName string, delta int) error {
	if delta == 0 {
		return nil
	}

	query := r.db.WithContext(ctx).Model(&inventory.Medicine{})
	if delta < 0 {
		query = query.Where("product_name = ? AND quantity_on_hand >= ?", productName, -delta)
	} else {
		query = query.Where("product_name = ?", productName)
	}

	result := query.Updates(map[string]interface{}{
		"quantity_on_hand": gorm.Expr("quantity_on_hand + ?", delta),
		"updated_at":       time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the medicine does not exist or the decrement
	// would have gone negative. Re-read to report which.
	medicine, err := r.FindByName(ctx, productName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("MEDICINE_NOT_FOUND",
				fmt.Sprintf("Medicine %s not found in inventory", productName))
		}
		return err
	}
	return shared.NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Insufficient stock for %s: requested %d, available %d",
			productName, -delta, medicine.QuantityOnHand))
}

func (r *GormMedicineRepository) DeleteByCode(ctx context.Context, code int) error {
	result := r.db.WithContext(ctx).Where("code = ?", code).Delete(&inventory.Medicine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextCode returns the next free catalog code (max existing code + 1).
func (r *GormMedicineRepository) NextCode(ctx context.Context) (int, error) {
	var maxCode int
	err := r.db.WithContext(ctx).Model(&inventory.Medicine{}).
		Select("COALESCE(MAX(code), 0)").
		Scan(&maxCode).Error
	if err != nil {
		return 0, err
	}
	return maxCode + 1, nil
}

func (r *GormMedicineRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.Medicine{}).Count(&count).Error
	return count, err
}

func (r *GormMedicineRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("product_name LIKE ? OR company LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "company":
			query = query.Where("company = ?", value)
		case "rack":
			query = query.Where("rack = ?", value)
		case "max_quantity":
			query = query.Where("quantity_on_hand <= ?", value)
		case "in_stock":
			if inStock, ok := value.(bool); ok && inStock {
				query = query.Where("quantity_on_hand > 0")
			}
		}
	}

	return query
}

func (r *GormMedicineRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, MedicineSortFields, "product_name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ inventory.MedicineRepository = (*GormMedicineRepository)(nil)
