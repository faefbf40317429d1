package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinic/backend/internal/domain/billing"
	"github.com/clinic/backend/internal/domain/shared"
)

// GormBillCounterRepository implements billing.BillCounterRepository using GORM
type GormBillCounterRepository struct {
	db *gorm.DB
}

// NewGormBillCounterRepository creates a new GORM bill counter repository
func NewGormBillCounterRepository(db *gorm.DB) *GormBillCounterRepository {
	return &GormBillCounterRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormBillCounterRepository) WithTx(tx *gorm.DB) *GormBillCounterRepository {
	return &GormBillCounterRepository{db: tx}
}

func (r *GormBillCounterRepository) FindByYear(ctx context.Context, yearStart int) (*billing.BillCounter, error) {
	var counter billing.BillCounter
	err := r.db.WithContext(ctx).Where("year_start = ?", yearStart).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &counter, nil
}

func (r *GormBillCounterRepository) Create(ctx context.Context, counter *billing.BillCounter) error {
	err := r.db.WithContext(ctx).Create(counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithLock persists the counter only when the stored version still matches
// the version it was loaded at. Losing the race returns ErrConcurrencyConflict
// so the caller can reload and retry without ever handing out a duplicate
// sequence number.
func (r *GormBillCounterRepository) SaveWithLock(ctx context.Context, counter *billing.BillCounter) error {
	result := r.db.WithContext(ctx).Model(&billing.BillCounter{}).
		Where("id = ? AND version = ?", counter.ID, counter.Version-1).
		Updates(map[string]interface{}{
			"sale_seq":         counter.SaleSeq,
			"consultation_seq": counter.ConsultationSeq,
			"therapy_seq":      counter.TherapySeq,
			"prakriti_seq":     counter.PrakritiSeq,
			"version":          counter.Version,
			"updated_at":       counter.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ billing.BillCounterRepository = (*GormBillCounterRepository)(nil)
