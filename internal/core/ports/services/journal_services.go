package services

import (
	"context"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/bukubesar/bukubesar/internal/dto"
)

// JournalSvcFacade drives the journal entry state machine:
// draft -> posted -> reversed.
type JournalSvcFacade interface {
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actor string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	// PostEntry makes a draft authoritative. It rejects already-posted
	// entries and entries dated inside a locked or closed fiscal period.
	PostEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error)
	// ReverseEntry creates and posts a mirrored entry cancelling a posted
	// one, and flags the original as reversed. History is never deleted.
	ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, actor string) (*domain.JournalEntry, error)
	// UpdateEntry and DeleteEntry operate on drafts only.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, actor string) (*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, entryID string, actor string) error
}
