package billing

import (
	"fmt"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
)

// Category identifies the transaction type a bill number belongs to.
// Each category draws from its own sequence within a financial year.
type Category string

const (
	CategorySale         Category = "sale"
	CategoryConsultation Category = "consultation"
	CategoryTherapy      Category = "therapy"
	CategoryPrakriti     Category = "prakriti"
)

// billPrefix is the fixed leading segment of every bill number.
const billPrefix = "BD"

// categoryLetters maps each category to the letter embedded in the bill number.
var categoryLetters = map[Category]string{
	CategorySale:         "M",
	CategoryConsultation: "C",
	CategoryTherapy:      "T",
	CategoryPrakriti:     "P",
}

// ParseCategory validates a raw category string
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if _, ok := categoryLetters[c]; !ok {
		return "", shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown bill category: %q", raw))
	}
	return c, nil
}

// Letter returns the category letter used in formatted bill numbers
func (c Category) Letter() (string, error) {
	letter, ok := categoryLetters[c]
	if !ok {
		return "", shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown bill category: %q", string(c)))
	}
	return letter, nil
}

// IsValid reports whether the category is one of the four known categories
func (c Category) IsValid() bool {
	_, ok := categoryLetters[c]
	return ok
}

// FinancialYearStart returns the start calendar year of the April–March
// financial year containing t. January–March belong to the year that
// started the previous April.
func FinancialYearStart(t time.Time) int {
	if t.Month() < time.April {
		return t.Year() - 1
	}
	return t.Year()
}

// YearSuffix formats a financial year start as "2025-26"
func YearSuffix(yearStart int) string {
	return fmt.Sprintf("%d-%02d", yearStart, (yearStart+1)%100)
}

// FormatBillNumber renders the canonical bill number for a sequence value,
// e.g. start 2025, consultation, seq 7 -> "BD/2025-26/C/0007".
func FormatBillNumber(yearStart int, category Category, seq int) (string, error) {
	letter, err := category.Letter()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/%04d", billPrefix, YearSuffix(yearStart), letter, seq), nil
}

// BillCounter holds the per-category bill sequences for one financial year.
// It is the aggregate root for bill number issuance; one row exists per
// financial year, created lazily on first use. Counters only move forward.
type BillCounter struct {
	shared.BaseAggregateRoot
	YearStart       int `gorm:"uniqueIndex;not null"`
	SaleSeq         int `gorm:"not null;default:0"`
	ConsultationSeq int `gorm:"not null;default:0"`
	TherapySeq      int `gorm:"not null;default:0"`
	PrakritiSeq     int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BillCounter) TableName() string {
	return "bill_counters"
}

// NewBillCounter creates a counter record for a financial year with all
// four sequences at zero.
func NewBillCounter(yearStart int) *BillCounter {
	return &BillCounter{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		YearStart:         yearStart,
	}
}

// Next advances the sequence for the given category and returns the new
// value. The other three sequences are untouched. The caller must persist
// the counter with an optimistic-lock save so concurrent issuers cannot
// both observe the same value.
func (c *BillCounter) Next(category Category) (int, error) {
	seq, err := c.seqPtr(category)
	if err != nil {
		return 0, err
	}
	*seq++
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return *seq, nil
}

// Peek returns the value Next would return without mutating the counter.
// It carries no uniqueness guarantee; a concurrent issuer may claim the
// value before the caller does.
func (c *BillCounter) Peek(category Category) (int, error) {
	seq, err := c.seqPtr(category)
	if err != nil {
		return 0, err
	}
	return *seq + 1, nil
}

func (c *BillCounter) seqPtr(category Category) (*int, error) {
	switch category {
	case CategorySale:
		return &c.SaleSeq, nil
	case CategoryConsultation:
		return &c.ConsultationSeq, nil
	case CategoryTherapy:
		return &c.TherapySeq, nil
	case CategoryPrakriti:
		return &c.PrakritiSeq, nil
	default:
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown bill category: %q", string(category)))
	}
}
