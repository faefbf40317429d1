package persistence

import (
	"context"

	"gorm.io/gorm"

	tradeapp "github.com/clinic/backend/internal/application/trade"
	"github.com/clinic/backend/internal/domain/billing"
	"github.com/clinic/backend/internal/domain/inventory"
	"github.com/clinic/backend/internal/domain/trade"
)

// GormTransactionScope implements tradeapp.TransactionScope on a GORM
// database transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a transaction scope over the given database
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction. The repositories handed to
// fn all share that transaction; returning an error rolls everything back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos tradeapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) MedicineRepo() inventory.MedicineRepository {
	return NewGormMedicineRepository(r.tx)
}

func (r *gormTransactionalRepositories) SaleRepo() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseRepo() trade.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormTransactionalRepositories) CounterRepo() billing.BillCounterRepository {
	return NewGormBillCounterRepository(r.tx)
}

var _ tradeapp.TransactionScope = (*GormTransactionScope)(nil)
var _ tradeapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
