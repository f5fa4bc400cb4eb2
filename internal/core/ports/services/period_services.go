package services

import (
	"context"
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/bukubesar/bukubesar/internal/dto"
)

// FiscalPeriodSvcFacade administers fiscal periods.
// Lifecycle: lock -> unlock (while open) -> close (no drafts in range)
// -> reopen (only from closed).
type FiscalPeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, actor string) (*domain.FiscalPeriod, error)
	GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
	// FindPeriodForDate returns nil when no period covers the date.
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)
	LockPeriod(ctx context.Context, periodID string, actor string) (*domain.FiscalPeriod, error)
	UnlockPeriod(ctx context.Context, periodID string, actor string) (*domain.FiscalPeriod, error)
	ClosePeriod(ctx context.Context, periodID string, actor string) (*domain.FiscalPeriod, error)
	ReopenPeriod(ctx context.Context, periodID string, actor string) (*domain.FiscalPeriod, error)
}
