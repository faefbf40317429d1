package billing

import (
	"context"
	"errors"
	"time"

	"github.com/clinic/backend/internal/domain/billing"
	"github.com/clinic/backend/internal/domain/shared"
)

// ErrCounterContention is returned when the issuance retry budget runs out.
var ErrCounterContention = shared.NewDomainError("COUNTER_CONTENTION",
	"Could not issue a bill number, too many concurrent requests")

// Issue draws the next bill number for a category from the counter of the
// financial year containing now. The counter row is created lazily on first
// use. Version conflicts with concurrent issuers are retried up to maxRetries
// times; every successful return observed a committed counter advance, so two
// callers can never receive the same number.
func Issue(ctx context.Context, repo billing.BillCounterRepository, category billing.Category, now time.Time, maxRetries int) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	yearStart := billing.FinancialYearStart(now)

	for attempt := 0; attempt < maxRetries; attempt++ {
		counter, err := repo.FindByYear(ctx, yearStart)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return "", err
			}
			// First bill of this financial year. If another issuer wins
			// the insert race, reload and go through the locked path.
			counter = billing.NewBillCounter(yearStart)
			seq, err := counter.Next(category)
			if err != nil {
				return "", err
			}
			if err := repo.Create(ctx, counter); err != nil {
				if errors.Is(err, shared.ErrAlreadyExists) {
					continue
				}
				return "", err
			}
			return billing.FormatBillNumber(yearStart, category, seq)
		}

		seq, err := counter.Next(category)
		if err != nil {
			return "", err
		}
		if err := repo.SaveWithLock(ctx, counter); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				continue
			}
			return "", err
		}
		return billing.FormatBillNumber(yearStart, category, seq)
	}

	return "", ErrCounterContention
}

// BillService issues and previews bill numbers for the standalone billing
// endpoints (consultation, therapy and prakriti bills that are not tied to a
// pharmacy sale).
type BillService struct {
	counterRepo billing.BillCounterRepository
	maxRetries  int
	now         func() time.Time
}

// NewBillService creates a new BillService. maxRetries bounds the optimistic
// lock retry loop during issuance.
func NewBillService(counterRepo billing.BillCounterRepository, maxRetries int) *BillService {
	return &BillService{
		counterRepo: counterRepo,
		maxRetries:  maxRetries,
		now:         time.Now,
	}
}

// IssueBillNumber mints the next bill number for the given category
func (s *BillService) IssueBillNumber(ctx context.Context, req IssueBillNumberRequest) (*BillNumberResponse, error) {
	category, err := billing.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	billNumber, err := Issue(ctx, s.counterRepo, category, s.now(), s.maxRetries)
	if err != nil {
		return nil, err
	}

	return &BillNumberResponse{
		BillNumber: billNumber,
		Category:   string(category),
		YearStart:  billing.FinancialYearStart(s.now()),
	}, nil
}

// PreviewBillNumber returns the number the next issuance would produce
// without advancing the counter. The preview carries no reservation; a
// concurrent issuer may claim the number first.
func (s *BillService) PreviewBillNumber(ctx context.Context, rawCategory string) (*BillNumberResponse, error) {
	category, err := billing.ParseCategory(rawCategory)
	if err != nil {
		return nil, err
	}

	yearStart := billing.FinancialYearStart(s.now())
	seq := 1
	counter, err := s.counterRepo.FindByYear(ctx, yearStart)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	} else {
		seq, err = counter.Peek(category)
		if err != nil {
			return nil, err
		}
	}

	billNumber, err := billing.FormatBillNumber(yearStart, category, seq)
	if err != nil {
		return nil, err
	}

	return &BillNumberResponse{
		BillNumber: billNumber,
		Category:   string(category),
		YearStart:  yearStart,
	}, nil
}
