package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/dto"
)

// periodService administers fiscal periods and their lock/close lifecycle.
type periodService struct {
	BaseService
	periodRepo   portsrepo.FiscalPeriodRepository
	reportingSvc portssvc.ReportingSvcFacade
	now          func() time.Time
}

// NewFiscalPeriodService creates a new fiscal period service. The reporting
// facade is used to verify trial balance closure before a period closes.
func NewFiscalPeriodService(periodRepo portsrepo.FiscalPeriodRepository, reportingSvc portssvc.ReportingSvcFacade) portssvc.FiscalPeriodSvcFacade {
	return &periodService{
		periodRepo:   periodRepo,
		reportingSvc: reportingSvc,
		now:          time.Now,
	}
}

var _ portssvc.FiscalPeriodSvcFacade = (*periodService)(nil)

// CreatePeriod creates an open period. Periods must not overlap.
func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreateFiscalPeriodRequest, actor string) (*domain.FiscalPeriod, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}

	overlapping, err := s.periodRepo.FindOverlappingPeriod(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check for overlapping periods: %w", err)
	}
	if overlapping != nil {
		return nil, fmt.Errorf("%w: overlaps %s", apperrors.ErrOverlappingPeriod, overlapping.Name)
	}

	now := s.now().UTC()
	period := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsClosed:  false,
		IsLocked:  false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "Failed to save fiscal period", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	s.LogInfo(ctx, "Fiscal period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// GetPeriodByID retrieves a fiscal period.
func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

// ListPeriods lists all fiscal periods ordered by start date.
func (s *periodService) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	return s.periodRepo.ListPeriods(ctx)
}

// FindPeriodForDate returns the period covering the date's calendar day, or
// nil when none does. The date is normalized to UTC midnight first: period
// membership is a calendar question, and a timestamp late on the period's
// last day must still resolve to it.
func (s *periodService) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	d := date.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return s.periodRepo.FindPeriodForDate(ctx, day)
}

// LockPeriod blocks new postings into the period. Locking is reversible.
func (s *periodService) LockPeriod(ctx context.Context, periodID string, actor string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodClosed, period.Name)
	}
	if period.IsLocked {
		return period, nil
	}
	return s.setFlags(ctx, period, true, false, actor, "Fiscal period locked")
}

// UnlockPeriod lifts a lock. Closed periods must be reopened instead.
func (s *periodService) UnlockPeriod(ctx context.Context, periodID string, actor string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodClosed, period.Name)
	}
	if !period.IsLocked {
		return period, nil
	}
	return s.setFlags(ctx, period, false, false, actor, "Fiscal period unlocked")
}

// ClosePeriod finalizes a period. It refuses while draft entries remain in
// the range and verifies the trial balance still closes as of the period's
// end before committing.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, actor string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodClosed, period.Name)
	}

	drafts, err := s.periodRepo.CountDraftEntriesInRange(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count draft entries: %w", err)
	}
	if drafts > 0 {
		return nil, fmt.Errorf("%w: %d draft entries remain in %s", apperrors.ErrConflict, drafts, period.Name)
	}

	tb, err := s.reportingSvc.TrialBalance(ctx, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to verify trial balance: %w", err)
	}
	if !tb.IsBalanced {
		s.LogError(ctx, apperrors.ErrTrialBalanceUnbalanced, "Refusing to close unbalanced period",
			slog.String("period_id", periodID),
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
		return nil, fmt.Errorf("%w: debits %s, credits %s as of %s",
			apperrors.ErrTrialBalanceUnbalanced, tb.TotalDebit.String(), tb.TotalCredit.String(), period.EndDate.Format("2006-01-02"))
	}

	return s.setFlags(ctx, period, true, true, actor, "Fiscal period closed")
}

// ReopenPeriod reverts a closed period to locked-but-open so corrections
// can be posted after an explicit unlock.
func (s *periodService) ReopenPeriod(ctx context.Context, periodID string, actor string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsClosed {
		return nil, fmt.Errorf("%w: period %s is not closed", apperrors.ErrConflict, period.Name)
	}
	return s.setFlags(ctx, period, true, false, actor, "Fiscal period reopened")
}

func (s *periodService) setFlags(ctx context.Context, period *domain.FiscalPeriod, isLocked, isClosed bool, actor, logMsg string) (*domain.FiscalPeriod, error) {
	now := s.now().UTC()
	if err := s.periodRepo.SetPeriodFlags(ctx, period.PeriodID, isLocked, isClosed, actor, now); err != nil {
		s.LogError(ctx, err, "Failed to update fiscal period flags", slog.String("period_id", period.PeriodID))
		return nil, fmt.Errorf("failed to update fiscal period: %w", err)
	}

	period.IsLocked = isLocked
	period.IsClosed = isClosed
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actor

	s.LogInfo(ctx, logMsg, slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return period, nil
}
