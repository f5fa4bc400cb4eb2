package services

import (
	"context"

	"github.com/bukubesar/bukubesar/internal/core/domain"
	"github.com/bukubesar/bukubesar/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error)
	// DeleteAccount soft-deletes; it fails when the account is a system
	// account or carries journal lines.
	DeleteAccount(ctx context.Context, accountID string, actor string) error
}
