package shared

// BaseAggregateRoot extends BaseEntity with a version counter.
// Version backs optimistic locking on shared mutable state (stock rows,
// bill counters): saves are conditioned on the version the row was
// loaded at, and every mutation bumps it.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// IncrementVersion bumps the optimistic-lock version
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
