package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Mutating operations receive an explicit actor ID; no ambient user state.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
