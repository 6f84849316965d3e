package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // user id from the auth token subject
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// EntryFilter narrows entry listings.
type EntryFilter struct {
	Status    EntryStatus
	Limit     int
	NextToken *string
}
