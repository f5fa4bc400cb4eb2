package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the concrete pgx repositories into the
// provider handed to the service container.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		PeriodRepo:    newPgxFiscalPeriodRepository(dbPool),
		DocumentRepo:  newPgxDocumentRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
	}
}
