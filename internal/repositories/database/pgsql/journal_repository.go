package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
	"github.com/bukubesar/bukubesar/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_number, entry_date, description, reference, is_posted, is_reversed, original_entry_id, reversing_entry_id, fiscal_period_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, description, line_order, created_at, created_by, last_updated_at, last_updated_by`

// insertEntryQuery assigns the sequential entry number from the dedicated
// sequence at insert time, so numbers are gapless-enough and strictly
// increasing without a read-modify-write cycle.
const insertEntryQuery = `
	INSERT INTO journal_entries (
		entry_id, entry_number, entry_date, description, reference,
		is_posted, is_reversed, original_entry_id, reversing_entry_id, fiscal_period_id,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, 'JE-' || lpad(nextval('journal_entry_number_seq')::text, 6, '0'), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING entry_number;
`

const insertLineQuery = `
	INSERT INTO journal_entry_lines (` + lineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.EntryNumber,
		&e.EntryDate,
		&e.Description,
		&e.Reference,
		&e.IsPosted,
		&e.IsReversed,
		&e.OriginalEntryID,
		&e.ReversingEntryID,
		&e.FiscalPeriodID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan journal entry", err)
	}
	return &e, nil
}

func scanLines(rows pgx.Rows) ([]domain.JournalEntryLine, error) {
	defer rows.Close()

	var lines []domain.JournalEntryLine
	for rows.Next() {
		var l domain.JournalEntryLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.Description,
			&l.LineOrder,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate journal lines", err)
	}
	return lines, nil
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(insertLineQuery,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.Description,
			line.LineOrder,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert journal line", err)
		}
	}
	return nil
}

// SaveEntry inserts the entry header and its lines in one transaction and
// returns the assigned entry number.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	var entryNumber string
	err = tx.QueryRow(ctx, insertEntryQuery,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		entry.IsPosted,
		entry.IsReversed,
		entry.OriginalEntryID,
		entry.ReversingEntryID,
		entry.FiscalPeriodID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	).Scan(&entryNumber)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
	}

	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// FindEntryByID returns the entry with its lines fully materialized.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entryQuery := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, entryQuery, entryID))
	if err != nil {
		return nil, err
	}

	linesQuery := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_order;`
	rows, err := r.Pool.Query(ctx, linesQuery, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines for entry "+entryID, err)
	}
	entry.Lines, err = scanLines(rows)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns a page of entries newest first using cursor
// pagination on (entry_date, created_at). The returned token resumes the
// scan; nil means the listing is exhausted.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string, includeDrafts bool) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}

	if !includeDrafts {
		query += ` AND is_posted = TRUE`
	}
	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, entryDate, createdAt)
		query += fmt.Sprintf(` AND (entry_date, created_at) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate journal entries", err)
	}

	var newToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		newToken = &token
	}

	if err := r.loadLinesForEntries(ctx, entries); err != nil {
		return nil, nil, err
	}
	return entries, newToken, nil
}

// loadLinesForEntries fetches lines for a page of entries in one query.
func (r *PgxJournalRepository) loadLinesForEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	entryIDs := make([]string, len(entries))
	index := make(map[string]int, len(entries))
	for i := range entries {
		entryIDs[i] = entries[i].EntryID
		index[entries[i].EntryID] = i
	}

	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_order;`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	lines, err := scanLines(rows)
	if err != nil {
		return err
	}
	for _, line := range lines {
		i := index[line.EntryID]
		entries[i].Lines = append(entries[i].Lines, line)
	}
	return nil
}

// UpdateDraftEntry replaces the header and lines of an unposted entry. The
// header update is guarded on is_posted = FALSE; zero rows affected means
// the entry was posted (or deleted) concurrently.
func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, reference = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1 AND is_posted = FALSE;
	`
	tag, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal entry "+entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrImmutableEntry
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to replace journal lines for entry "+entry.EntryID, err)
	}
	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteDraftEntry removes an unposted entry and its lines.
func (r *PgxJournalRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete journal lines for entry "+entryID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND is_posted = FALSE;`, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrImmutableEntry
	}

	return r.Commit(ctx, tx)
}

// MarkEntryPosted flips is_posted with an optimistic guard on the current
// value. Returns false when the entry was already posted, so concurrent
// posters lose cleanly without an error.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, entryID string, fiscalPeriodID *string, actor string, postedAt time.Time) (bool, error) {
	query := `
		UPDATE journal_entries
		SET is_posted = TRUE, fiscal_period_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND is_posted = FALSE;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, fiscalPeriodID, postedAt, actor)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to post journal entry "+entryID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// SaveReversal inserts the already-posted reversing entry and flags the
// original as reversed in one transaction. The original's update is guarded
// on is_reversed = FALSE so a concurrent reversal fails cleanly.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, originalEntryID string, actor string, now time.Time) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	guardQuery := `
		UPDATE journal_entries
		SET is_reversed = TRUE, reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND is_posted = TRUE AND is_reversed = FALSE;
	`
	tag, err := tx.Exec(ctx, guardQuery, originalEntryID, reversing.EntryID, now, actor)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to flag journal entry "+originalEntryID+" as reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return "", apperrors.ErrAlreadyReversed
	}

	var entryNumber string
	err = tx.QueryRow(ctx, insertEntryQuery,
		reversing.EntryID,
		reversing.EntryDate,
		reversing.Description,
		reversing.Reference,
		reversing.IsPosted,
		reversing.IsReversed,
		reversing.OriginalEntryID,
		reversing.ReversingEntryID,
		reversing.FiscalPeriodID,
		reversing.CreatedAt,
		reversing.CreatedBy,
		reversing.LastUpdatedAt,
		reversing.LastUpdatedBy,
	).Scan(&entryNumber)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to insert reversing entry "+reversing.EntryID, err)
	}

	if err := insertLines(ctx, tx, reversing.Lines); err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}
