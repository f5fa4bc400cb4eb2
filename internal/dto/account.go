package dto

import (
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a chart-of-accounts entry.
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	AccountType string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Subtype     string `json:"subtype"`
	ParentCode  string `json:"parentCode"`
	Description string `json:"description"`
}

// UpdateAccountRequest defines the updatable fields of an account.
// Code changes are rejected for system accounts and for accounts that
// already carry journal lines.
type UpdateAccountRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Subtype     *string `json:"subtype"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse is the REST representation of an account.
type AccountResponse struct {
	AccountID   string     `json:"accountID"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	AccountType string     `json:"accountType"`
	Subtype     string     `json:"subtype"`
	ParentID    *string    `json:"parentAccountID,omitempty"`
	Description string     `json:"description"`
	IsSystem    bool       `json:"isSystem"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: string(a.AccountType),
		Subtype:     string(a.Subtype),
		ParentID:    a.ParentAccountID,
		Description: a.Description,
		IsSystem:    a.IsSystem,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		DeletedAt:   a.DeletedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
