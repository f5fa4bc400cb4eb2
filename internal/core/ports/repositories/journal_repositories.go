package repositories

import (
	"context"
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
)

// JournalRepository persists journal entries and their lines. Lines are a
// composition: they are written and destroyed with their parent entry and
// never shared.
type JournalRepository interface {
	// SaveEntry inserts a draft entry with its lines atomically and returns
	// the assigned sequential entry number.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) (string, error)
	// FindEntryByID returns the entry with its lines fully materialized.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, limit int, nextToken *string, includeDrafts bool) ([]domain.JournalEntry, *string, error)
	// UpdateDraftEntry replaces the header and lines of an unposted entry.
	// Returns apperrors.ErrImmutableEntry when the entry is already posted.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error
	// DeleteDraftEntry removes an unposted entry and its lines.
	DeleteDraftEntry(ctx context.Context, entryID string) error
	// MarkEntryPosted flips is_posted with an optimistic guard on the
	// current value. Returns false (and no error) when the entry was
	// already posted, so concurrent posters lose cleanly.
	MarkEntryPosted(ctx context.Context, entryID string, fiscalPeriodID *string, actor string, postedAt time.Time) (bool, error)
	// SaveReversal inserts the already-posted reversing entry and flags the
	// original as reversed in one transaction. Returns the reversing
	// entry's number. Fails with apperrors.ErrAlreadyReversed when the
	// original was reversed concurrently.
	SaveReversal(ctx context.Context, reversing domain.JournalEntry, originalEntryID string, actor string, now time.Time) (string, error)
}
