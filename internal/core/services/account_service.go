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
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount adds an account to the chart of accounts. The code must be
// unique across all accounts, including soft-deleted ones.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code %s: %w", req.Code, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, req.Code)
	}

	var parentID *string
	if req.ParentCode != "" {
		parent, err := s.accountRepo.FindAccountByCode(ctx, req.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account code %s", apperrors.ErrNotFound, req.ParentCode)
			}
			return nil, fmt.Errorf("failed to find parent account %s: %w", req.ParentCode, err)
		}
		parentID = &parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     domain.AccountType(req.AccountType),
		Subtype:         domain.AccountSubtype(req.Subtype),
		ParentAccountID: parentID,
		Description:     req.Description,
		IsSystem:        false,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Unique index raced us; report the same validation error.
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, req.Code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves an account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccountByCode retrieves an account by its chart code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccountsByIDs retrieves a batch of accounts keyed by ID.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

// ListAccounts lists the chart of accounts.
func (s *accountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, includeInactive)
}

// UpdateAccount applies partial updates. A code change is rejected for
// system accounts and for accounts already referenced by journal lines.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Code != nil && *req.Code != account.Code {
		if account.IsSystem {
			return nil, fmt.Errorf("%w: cannot change code of %s", apperrors.ErrSystemAccount, account.Code)
		}
		hasLines, err := s.accountRepo.HasJournalLines(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to check journal lines for account %s: %w", accountID, err)
		}
		if hasLines {
			return nil, fmt.Errorf("%w: code is immutable once referenced by journal lines", apperrors.ErrConflict)
		}
		other, err := s.accountRepo.FindAccountByCode(ctx, *req.Code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check account code %s: %w", *req.Code, err)
		}
		if other != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, *req.Code)
		}
		account.Code = *req.Code
		updated = true
	}
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Subtype != nil {
		account.Subtype = domain.AccountSubtype(*req.Subtype)
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}

	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actor

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount soft-deletes an account. System accounts are never
// deletable; accounts with journal lines are rejected with an explicit
// query, not a cascading event.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, actor string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.IsSystem {
		return fmt.Errorf("%w: %s", apperrors.ErrSystemAccount, account.Code)
	}

	hasLines, err := s.accountRepo.HasJournalLines(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check journal lines for account %s: %w", accountID, err)
	}
	if hasLines {
		return fmt.Errorf("%w: %s", apperrors.ErrHasTransactions, account.Code)
	}

	if err := s.accountRepo.SoftDeleteAccount(ctx, accountID, actor, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("code", account.Code))
	return nil
}
