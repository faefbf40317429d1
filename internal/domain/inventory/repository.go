package inventory

import (
	"context"

	"github.com/clinic/backend/internal/domain/shared"
)

// MedicineRepository defines the interface for medicine catalog persistence.
//
// Stock mutation goes through the atomic AdjustStock operation rather than a
// load-then-save cycle: the conditional single-row update is what keeps two
// concurrent sales from both passing the sufficiency check and driving the
// on-hand quantity negative.
type MedicineRepository interface {
	// FindByName finds a medicine by exact product name
	FindByName(ctx context.Context, productName string) (*Medicine, error)

	// FindByCode finds a medicine by its catalog code
	FindByCode(ctx context.Context, code int) (*Medicine, error)

	// FindAll lists medicines matching the filter with pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Medicine], error)

	// SearchByNamePrefix finds medicines whose name starts with the prefix
	// (autosuggest support)
	SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]Medicine, error)

	// FindLowStock lists medicines with on-hand quantity at or below the threshold
	FindLowStock(ctx context.Context, threshold int) ([]Medicine, error)

	// NextCode returns max existing code + 1, or 1 on an empty catalog
	NextCode(ctx context.Context) (int, error)

	// Create inserts a new catalog entry
	Create(ctx context.Context, medicine *Medicine) error

	// Save updates an existing catalog entry's metadata. Implementations
	// must not write the on-hand quantity; stock moves only through
	// AdjustStock.
	Save(ctx context.Context, medicine *Medicine) error

	// DeleteByCode removes a catalog entry (administrative operation)
	DeleteByCode(ctx context.Context, code int) error

	// AdjustStock applies a signed quantity delta to a medicine's on-hand
	// count as one conditional update. Negative deltas fail with
	// ErrInsufficientStock (message carries the available quantity) instead
	// of driving the count below zero; an unknown product name fails with
	// ErrMedicineNotFound.
	AdjustStock(ctx context.Context, productName string, delta int) error

	// Count counts all catalog entries
	Count(ctx context.Context) (int64, error)
}
