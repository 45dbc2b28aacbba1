package database

import "time"

// MatchType identifies which contact field produced a duplicate match
type MatchType string

const (
	MatchTypeEmail MatchType = "email"
	MatchTypePhone MatchType = "phone"
)

// ReportStatus represents the lifecycle state of a duplicate report
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusMerged   ReportStatus = "merged"
	ReportStatusArchived ReportStatus = "archived"
)

// DuplicateReport records a cluster of contacts believed to be the same
// real-world person, keyed deterministically by match type and normalized
// value so that re-running detection upserts instead of duplicating.
type DuplicateReport struct {
	ID             string       `gorm:"primaryKey;type:varchar(320)" json:"id"`
	MatchType      MatchType    `gorm:"type:varchar(10);not null;index" json:"match_type"`
	MatchKey       string       `gorm:"type:varchar(255);not null" json:"match_key"`
	ContactIDs     StringList   `gorm:"type:jsonb" json:"contact_ids"`
	DuplicateCount int          `json:"duplicate_count"` // cluster size at detection time, display aid only
	Status         ReportStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Note           string       `gorm:"type:text" json:"note"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (DuplicateReport) TableName() string {
	return "duplicate_reports"
}

// ReportID builds the deterministic report key, e.g. "email-a@b.com"
func ReportID(matchType MatchType, normalizedKey string) string {
	return string(matchType) + "-" + normalizedKey
}
