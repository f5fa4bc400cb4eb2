package dto

import (
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit/credit line of a journal entry request.
// Exactly one of Debit/Credit must be positive; the other must be zero.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalEntryRequest defines the payload for creating a draft entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time            `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	Description string               `json:"description" binding:"required"`
	Reference   string               `json:"reference"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest defines the editable fields of a draft entry.
// Providing Lines replaces the full line set.
type UpdateJournalEntryRequest struct {
	EntryDate   *time.Time           `json:"entryDate" time_format:"2006-01-02"`
	Description *string              `json:"description"`
	Reference   *string              `json:"reference"`
	Lines       []JournalLineRequest `json:"lines"`
}

// ReverseJournalEntryRequest optionally overrides the reversal date and description.
type ReverseJournalEntryRequest struct {
	ReversalDate *time.Time `json:"reversalDate" time_format:"2006-01-02"`
	Description  *string    `json:"description"`
}

// ListEntriesParams holds pagination parameters for listing journal entries.
type ListEntriesParams struct {
	Limit         int     `form:"limit"`
	NextToken     *string `form:"nextToken"`
	IncludeDrafts bool    `form:"includeDrafts"`
}

// JournalLineResponse is the REST representation of an entry line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntryResponse is the REST representation of a journal entry.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	EntryNumber      string                `json:"entryNumber"`
	EntryDate        time.Time             `json:"entryDate"`
	Description      string                `json:"description"`
	Reference        string                `json:"reference"`
	IsPosted         bool                  `json:"isPosted"`
	IsReversed       bool                  `json:"isReversed"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	Lines            []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
}

// ListEntriesResponse is a page of journal entries plus a continuation token.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalLineResponses converts domain lines to response DTOs.
func ToJournalLineResponses(lines []domain.JournalEntryLine) []JournalLineResponse {
	responses := make([]JournalLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = JournalLineResponse{
			LineID:      line.LineID,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		}
	}
	return responses
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          e.EntryID,
		EntryNumber:      e.EntryNumber,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		Reference:        e.Reference,
		IsPosted:         e.IsPosted,
		IsReversed:       e.IsReversed,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = ToJournalLineResponses(e.Lines)
	}
	return resp
}
