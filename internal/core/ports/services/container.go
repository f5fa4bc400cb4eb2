package services

// ServiceContainer holds all the service facades handed to the handlers.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Journal   JournalSvcFacade
	Ledger    LedgerSvcFacade
	Period    FiscalPeriodSvcFacade
	Document  DocumentSvcFacade
	Posting   PostingSvcFacade
	Reporting ReportingSvcFacade
}
