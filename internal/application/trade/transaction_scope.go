package trade

import (
	"context"

	"github.com/clinic/backend/internal/domain/billing"
	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the trade repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed or
// rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a trade
// operation touches, all scoped to one transaction. A sale mutates stock for
// every line, draws a bill number from the counter and inserts the sale row;
// wrapping the three in one transaction is what prevents both partial stock
// application and burned sequence numbers when a later step fails.
type TransactionalRepositories interface {
	// MedicineRepo returns the medicine repository scoped to the current transaction
	MedicineRepo() inventory.MedicineRepository
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() trade.SaleRepository
	// PurchaseRepo returns the purchase repository scoped to the current transaction
	PurchaseRepo() trade.PurchaseRepository
	// CounterRepo returns the bill counter repository scoped to the current transaction
	CounterRepo() billing.BillCounterRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests running against plain repositories.
type NoOpTransactionScope struct {
	medicineRepo inventory.MedicineRepository
	saleRepo     trade.SaleRepository
	purchaseRepo trade.PurchaseRepository
	counterRepo  billing.BillCounterRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	medicineRepo inventory.MedicineRepository,
	saleRepo trade.SaleRepository,
	purchaseRepo trade.PurchaseRepository,
	counterRepo billing.BillCounterRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		medicineRepo: medicineRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		counterRepo:  counterRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// MedicineRepo returns the medicine repository.
func (s *NoOpTransactionScope) MedicineRepo() inventory.MedicineRepository {
	return s.medicineRepo
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository {
	return s.saleRepo
}

// PurchaseRepo returns the purchase repository.
func (s *NoOpTransactionScope) PurchaseRepo() trade.PurchaseRepository {
	return s.purchaseRepo
}

// CounterRepo returns the bill counter repository.
func (s *NoOpTransactionScope) CounterRepo() billing.BillCounterRepository {
	return s.counterRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
