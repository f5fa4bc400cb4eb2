package repositories

// RepositoryProvider bundles the concrete repositories handed to the
// service container.
type RepositoryProvider struct {
	AccountRepo   AccountRepository
	JournalRepo   JournalRepository
	PeriodRepo    FiscalPeriodRepository
	DocumentRepo  DocumentRepository
	ReportingRepo ReportingRepository
}
