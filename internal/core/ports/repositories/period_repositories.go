package repositories

import (
	"context"
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
)

// FiscalPeriodRepository persists fiscal periods.
type FiscalPeriodRepository interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	// FindPeriodForDate returns the period covering the date, or nil when
	// no period covers it (postings are then unrestricted).
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
	// FindOverlappingPeriod returns any period intersecting [start, end],
	// or nil when the range is free.
	FindOverlappingPeriod(ctx context.Context, start, end time.Time) (*domain.FiscalPeriod, error)
	SetPeriodFlags(ctx context.Context, periodID string, isLocked, isClosed bool, actor string, updatedAt time.Time) error
	// CountDraftEntriesInRange counts unposted journal entries dated inside
	// the range; closing a period requires zero.
	CountDraftEntriesInRange(ctx context.Context, start, end time.Time) (int, error)
}
