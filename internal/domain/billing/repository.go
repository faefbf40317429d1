package billing

import "context"

// BillCounterRepository defines the interface for bill counter persistence
type BillCounterRepository interface {
	// FindByYear finds the counter for a financial year start.
	// Returns shared.ErrNotFound when the year has not been seen yet.
	FindByYear(ctx context.Context, yearStart int) (*BillCounter, error)

	// Create inserts a new counter row. Returns shared.ErrAlreadyExists
	// when another request created the row for the same year first.
	Create(ctx context.Context, counter *BillCounter) error

	// SaveWithLock persists an incremented counter using optimistic locking
	// on the version column. Returns shared.ErrConcurrencyConflict when the
	// row was advanced by a concurrent issuer since it was loaded.
	SaveWithLock(ctx context.Context, counter *BillCounter) error
}
