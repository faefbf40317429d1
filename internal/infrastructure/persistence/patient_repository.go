package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinic/backend/internal/domain/patient"
	"github.com/clinic/backend/internal/domain/shared"
)

// GormPatientRepository implements patient.PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GORM patient repository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).Preload("Visits").Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPatientRepository) FindByCode(ctx context.Context, patientCode string) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).Preload("Visits").Where("patient_code = ?", patientCode).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPatientRepository) SearchByName(ctx context.Context, query string, limit int) ([]patient.Patient, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	var patients []patient.Patient
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR phone LIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *GormPatientRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[patient.Patient], error) {
	var patients []patient.Patient
	var total int64

	query := r.db.WithContext(ctx).Model(&patient.Patient{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR patient_code LIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "gender":
			query = query.Where("gender = ?", value)
		case "prakriti":
			query = query.Where("prakriti = ?", value)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PatientSortFields, "patient_code")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&patients).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(patients, total, filter.Page, filter.PageSize), nil
}

// NextCode allocates the next sequential registration code. Codes are of the
// form P-00042; the numeric tail is extracted in SQL so ordering is by value,
// not by string.
func (r *GormPatientRepository) NextCode(ctx context.Context) (string, error) {
	var maxSeq int
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Select("COALESCE(MAX(CAST(SUBSTR(patient_code, 3) AS INTEGER)), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("P-%05d", maxSeq+1), nil
}

func (r *GormPatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *GormPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
}

func (r *GormPatientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).Count(&count).Error
	return count, err
}

var _ patient.PatientRepository = (*GormPatientRepository)(nil)
