package database

import "time"

// DedupSettings controls duplicate detection and merge behavior
type DedupSettings struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ScanEnabled        bool      `gorm:"default:true" json:"scan_enabled"`
	ScanIntervalHours  int       `gorm:"default:24" json:"scan_interval_hours"`
	MaxBatchWrites     int       `gorm:"default:500" json:"max_batch_writes"`
	MergeRetryAttempts int       `gorm:"default:3" json:"merge_retry_attempts"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (DedupSettings) TableName() string {
	return "dedup_settings"
}

// NewDefaultDedupSettings returns settings with default values
func NewDefaultDedupSettings() *DedupSettings {
	return &DedupSettings{
		ScanEnabled:        true,
		ScanIntervalHours:  24,
		MaxBatchWrites:     500,
		MergeRetryAttempts: 3,
	}
}
