package domain

import "time"

// FiscalPeriod is a non-overlapping date range that gates postings.
// A locked period rejects new postings; a closed period is finalized and
// must be reopened before it can be unlocked.
type FiscalPeriod struct {
	PeriodID  string    `json:"periodID"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsClosed  bool      `json:"isClosed"`
	IsLocked  bool      `json:"isLocked"`
	AuditFields
}

// RejectsPostings reports whether a posting dated inside this period must
// fail with a period-locked error.
func (p FiscalPeriod) RejectsPostings() bool {
	return p.IsLocked || p.IsClosed
}
