package patient

import (
	"context"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PatientRepository defines the interface for patient persistence
type PatientRepository interface {
	// FindByID finds a patient with visits preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// FindByCode finds a patient by registration code
	FindByCode(ctx context.Context, patientCode string) (*Patient, error)

	// SearchByName finds patients whose name or phone matches the query
	// (autosuggest support)
	SearchByName(ctx context.Context, query string, limit int) ([]Patient, error)

	// FindAll lists patients matching the filter with pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Patient], error)

	// NextCode returns the next sequential registration code
	NextCode(ctx context.Context) (string, error)

	// Create inserts a new patient
	Create(ctx context.Context, p *Patient) error

	// Save updates an existing patient (visits included)
	Save(ctx context.Context, p *Patient) error

	// Count counts all registered patients
	Count(ctx context.Context) (int64, error)
}
