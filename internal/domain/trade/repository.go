package trade

import (
	"context"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByBillNumber finds a sale by its bill number
	FindByBillNumber(ctx context.Context, billNumber string) (*Sale, error)

	// FindAll lists sales matching the filter (supports patient_id,
	// start_date and end_date filters) with pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Sale], error)

	// FindBetween lists all sales in a date range with lines preloaded,
	// ordered by bill number (report export)
	FindBetween(ctx context.Context, startDate, endDate string) ([]Sale, error)

	// Create inserts a sale with its lines
	Create(ctx context.Context, sale *Sale) error

	// Update replaces a sale's lines and totals
	Update(ctx context.Context, sale *Sale) error

	// Delete removes a sale and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all sales
	Count(ctx context.Context) (int64, error)
}

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	// FindByID finds a purchase with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByInvoiceNumber finds a purchase by supplier invoice number
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Purchase, error)

	// ExistsByInvoiceNumber checks invoice number uniqueness
	ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error)

	// FindAll lists purchases matching the filter (supports supplier and
	// date-range filters) with pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Purchase], error)

	// FindBetween lists all purchases in a date range with lines preloaded,
	// ordered by billing date (report export)
	FindBetween(ctx context.Context, startDate, endDate string) ([]Purchase, error)

	// Create inserts a purchase with its lines
	Create(ctx context.Context, purchase *Purchase) error

	// Count counts all purchases
	Count(ctx context.Context) (int64, error)
}
