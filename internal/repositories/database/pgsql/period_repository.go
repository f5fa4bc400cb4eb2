package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
)

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal period data.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepository {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepository = (*PgxFiscalPeriodRepository)(nil)

const periodColumns = `period_id, name, start_date, end_date, is_closed, is_locked, created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (*domain.FiscalPeriod, error) {
	var p domain.FiscalPeriod
	err := row.Scan(
		&p.PeriodID,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.IsClosed,
		&p.IsLocked,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan fiscal period", err)
	}
	return &p, nil
}

// SavePeriod inserts a new fiscal period.
func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID,
		period.Name,
		period.StartDate,
		period.EndDate,
		period.IsClosed,
		period.IsLocked,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert fiscal period "+period.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a fiscal period.
func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE period_id = $1;`
	return scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
}

// FindPeriodForDate returns the period covering the date, or nil when no
// period covers it.
func (r *PgxFiscalPeriodRepository) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE start_date <= $1 AND end_date >= $1;`
	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return period, nil
}

// ListPeriods lists all fiscal periods ordered by start date.
func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods ORDER BY start_date;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fiscal periods", err)
	}
	defer rows.Close()

	var periods []domain.FiscalPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate fiscal periods", err)
	}
	return periods, nil
}

// FindOverlappingPeriod returns any period intersecting [start, end], or
// nil when the range is free.
func (r *PgxFiscalPeriodRepository) FindOverlappingPeriod(ctx context.Context, start, end time.Time) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE start_date <= $2 AND end_date >= $1 LIMIT 1;`
	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, start, end))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return period, nil
}

// SetPeriodFlags persists the lock/close state of a period.
func (r *PgxFiscalPeriodRepository) SetPeriodFlags(ctx context.Context, periodID string, isLocked, isClosed bool, actor string, updatedAt time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET is_locked = $2, is_closed = $3, last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, periodID, isLocked, isClosed, updatedAt, actor)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update fiscal period "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountDraftEntriesInRange counts unposted journal entries dated inside the
// range.
func (r *PgxFiscalPeriodRepository) CountDraftEntriesInRange(ctx context.Context, start, end time.Time) (int, error) {
	query := `SELECT count(*) FROM journal_entries WHERE is_posted = FALSE AND entry_date >= $1 AND entry_date <= $2;`
	var count int
	if err := r.Pool.QueryRow(ctx, query, start, end).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count draft entries", err)
	}
	return count, nil
}
