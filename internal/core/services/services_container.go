package services

import (
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/bukubesar/bukubesar/internal/core/ports/services"
	"github.com/bukubesar/bukubesar/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account and reporting first; the others depend on them.
	container.Account = NewAccountService(repos.AccountRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.DocumentRepo, cfg.AgingBoundaries)

	// Period close verifies trial balance closure through reporting.
	container.Period = NewFiscalPeriodService(repos.PeriodRepo, container.Reporting)

	container.Journal = NewJournalService(repos.JournalRepo, container.Account, container.Period)
	container.Ledger = NewLedgerService(repos.ReportingRepo, container.Account)
	container.Document = NewDocumentService(repos.DocumentRepo)
	container.Posting = NewPostingService(repos.DocumentRepo, container.Account, container.Period, PostingAccounts{
		Cash:          cfg.PostingAccounts.Cash,
		Receivable:    cfg.PostingAccounts.Receivable,
		Payable:       cfg.PostingAccounts.Payable,
		SalesRevenue:  cfg.PostingAccounts.SalesRevenue,
		TaxPayable:    cfg.PostingAccounts.TaxPayable,
		Purchases:     cfg.PostingAccounts.Purchases,
		TaxReceivable: cfg.PostingAccounts.TaxReceivable,
	})

	return container
}
