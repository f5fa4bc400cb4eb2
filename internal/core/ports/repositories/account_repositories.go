package repositories

import (
	"context"
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
)

// AccountRepository persists the chart of accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	// FindAccountsByIDs returns the found accounts keyed by ID; missing IDs
	// are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	// SoftDeleteAccount stamps deleted_at and deactivates the account.
	SoftDeleteAccount(ctx context.Context, accountID string, deletedBy string, deletedAt time.Time) error
	// HasJournalLines reports whether any journal line references the account.
	HasJournalLines(ctx context.Context, accountID string) (bool, error)
}
