package dto

import (
	"time"

	"github.com/bukubesar/bukubesar/internal/core/domain"
)

// CreateFiscalPeriodRequest defines the payload for creating a fiscal period.
type CreateFiscalPeriodRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
}

// FiscalPeriodResponse is the REST representation of a fiscal period.
type FiscalPeriodResponse struct {
	PeriodID  string    `json:"periodID"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsClosed  bool      `json:"isClosed"`
	IsLocked  bool      `json:"isLocked"`
}

// ToFiscalPeriodResponse converts a domain.FiscalPeriod to its response DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodID:  p.PeriodID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		IsClosed:  p.IsClosed,
		IsLocked:  p.IsLocked,
	}
}

// ToFiscalPeriodResponses converts a slice of periods.
func ToFiscalPeriodResponses(periods []domain.FiscalPeriod) []FiscalPeriodResponse {
	responses := make([]FiscalPeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToFiscalPeriodResponse(&periods[i])
	}
	return responses
}
