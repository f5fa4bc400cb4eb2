package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/dto"
	"github.com/bukubesar/bukubesar/internal/utils/accounting"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrMissingDescription = errors.New("journal entry description is required")
)

// journalService drives journal entries through draft -> posted -> reversed.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepository
	accountSvc  portssvc.AccountSvcFacade
	periodSvc   portssvc.FiscalPeriodSvcFacade
	now         func() time.Time
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountSvc portssvc.AccountSvcFacade, periodSvc portssvc.FiscalPeriodSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		periodSvc:   periodSvc,
		now:         time.Now,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts line requests into domain lines bound to an entry.
func (s *journalService) buildLines(entryID string, reqs []dto.JournalLineRequest, actor string, now time.Time) []domain.JournalEntryLine {
	lines := make([]domain.JournalEntryLine, len(reqs))
	for i, req := range reqs {
		lines[i] = domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   req.AccountID,
			Debit:       req.Debit,
			Credit:      req.Credit,
			Description: req.Description,
			LineOrder:   i,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
	}
	return lines
}

// validateLineAccounts checks that every referenced account exists and is active.
func (s *journalService) validateLineAccounts(ctx context.Context, lines []domain.JournalEntryLine) error {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		accountIDs = append(accountIDs, line.AccountID)
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accountsMap[id]
		if !found {
			return fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: %s", ErrAccountInactive, acc.Code)
		}
	}
	return nil
}

// CreateEntry validates and persists a draft journal entry. Nothing is
// persisted when validation fails.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actor string) (*domain.JournalEntry, error) {
	if req.Description == "" {
		return nil, ErrMissingDescription
	}

	now := s.now().UTC()
	entryID := uuid.NewString()
	lines := s.buildLines(entryID, req.Lines, actor, now)

	if err := accounting.ValidateEntryLines(lines); err != nil {
		return nil, err
	}
	if err := s.validateLineAccounts(ctx, lines); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   req.EntryDate,
		Description: req.Description,
		Reference:   req.Reference,
		IsPosted:    false,
		IsReversed:  false,
		Lines:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	entryNumber, err := s.journalRepo.SaveEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to save journal entry")
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}
	entry.EntryNumber = entryNumber

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber))
	return &entry, nil
}

// GetEntryByID retrieves an entry with its lines fully materialized.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, entryID)
}

// ListEntries retrieves a page of journal entries.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken, params.IncludeDrafts)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}

	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// checkPostable rejects postings dated inside a locked or closed period.
func (s *journalService) checkPostable(ctx context.Context, entryDate time.Time) (*domain.FiscalPeriod, error) {
	period, err := s.periodSvc.FindPeriodForDate(ctx, entryDate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}
	if period != nil && period.RejectsPostings() {
		return nil, fmt.Errorf("%w: period %s", apperrors.ErrPeriodLocked, period.Name)
	}
	return period, nil
}

// PostEntry transitions a draft to posted. The balance invariant is
// re-verified at posting time, and the repository guard ensures two
// concurrent posters cannot both win.
func (s *journalService) PostEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsPosted {
		return nil, apperrors.ErrAlreadyPosted
	}

	if err := accounting.ValidateEntryLines(entry.Lines); err != nil {
		return nil, err
	}

	period, err := s.checkPostable(ctx, entry.EntryDate)
	if err != nil {
		return nil, err
	}
	var periodID *string
	if period != nil {
		periodID = &period.PeriodID
	}

	now := s.now().UTC()
	posted, err := s.journalRepo.MarkEntryPosted(ctx, entryID, periodID, actor, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}
	if !posted {
		// A concurrent caller got there first.
		return nil, apperrors.ErrAlreadyPosted
	}

	entry.IsPosted = true
	entry.FiscalPeriodID = periodID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// ReverseEntry creates a mirrored entry cancelling a posted one. The
// reversing entry is posted immediately; the original keeps its amounts and
// is only flagged as reversed.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, actor string) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !original.IsPosted {
		return nil, apperrors.ErrNotPosted
	}
	if original.IsReversed {
		return nil, apperrors.ErrAlreadyReversed
	}

	now := s.now().UTC()
	reversalDate := now
	if req.ReversalDate != nil {
		reversalDate = *req.ReversalDate
	}

	period, err := s.checkPostable(ctx, reversalDate)
	if err != nil {
		return nil, err
	}
	var periodID *string
	if period != nil {
		periodID = &period.PeriodID
	}

	description := fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, original.Description)
	if req.Description != nil {
		description = *req.Description
	}

	reversingID := uuid.NewString()
	reversing := domain.JournalEntry{
		EntryID:         reversingID,
		EntryDate:       reversalDate,
		Description:     description,
		Reference:       original.Reference,
		IsPosted:        true,
		OriginalEntryID: &original.EntryID,
		FiscalPeriodID:  periodID,
		Lines:           accounting.ReversedLines(original.Lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	for i := range reversing.Lines {
		reversing.Lines[i].LineID = uuid.NewString()
		reversing.Lines[i].EntryID = reversingID
		reversing.Lines[i].AuditFields = reversing.AuditFields
	}

	entryNumber, err := s.journalRepo.SaveReversal(ctx, reversing, original.EntryID, actor, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	reversing.EntryNumber = entryNumber

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversing_entry_id", reversingID),
		slog.String("reversing_entry_number", entryNumber))
	return &reversing, nil
}

// UpdateEntry edits a draft. Posted entries are immutable.
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, actor string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsPosted {
		return nil, apperrors.ErrImmutableEntry
	}

	now := s.now().UTC()
	updated := false
	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
		updated = true
	}
	if req.Description != nil {
		entry.Description = *req.Description
		updated = true
	}
	if req.Reference != nil {
		entry.Reference = *req.Reference
		updated = true
	}
	if len(req.Lines) > 0 {
		lines := s.buildLines(entry.EntryID, req.Lines, actor, now)
		if err := accounting.ValidateEntryLines(lines); err != nil {
			return nil, err
		}
		if err := s.validateLineAccounts(ctx, lines); err != nil {
			return nil, err
		}
		entry.Lines = lines
		updated = true
	}

	if !updated {
		return entry, nil
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor

	if err := s.journalRepo.UpdateDraftEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

// DeleteEntry removes a draft and its lines. Posted entries are never
// deleted, only reversed.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string, actor string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.IsPosted {
		return apperrors.ErrImmutableEntry
	}

	if err := s.journalRepo.DeleteDraftEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Draft journal entry deleted",
		slog.String("entry_id", entryID),
		slog.String("actor", actor))
	return nil
}
