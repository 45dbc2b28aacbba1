package jobs

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/opsdesk/opsdesk/internal/database"
	"github.com/opsdesk/opsdesk/internal/dedup"
	"github.com/opsdesk/opsdesk/internal/services"
)

// EventPublisher receives pipeline lifecycle events for UI fan-out
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

// ScanNotifier receives scan summaries for ops notification
type ScanNotifier interface {
	NotifyScanSummary(contactsScanned, reportsUpserted int, pendingReports int64)
}

// ScanJob periodically runs duplicate detection over the full contact set
type ScanJob struct {
	db           *gorm.DB
	dedupService *services.DedupService
	notifier     ScanNotifier
	events       EventPublisher
}

// NewScanJob creates a new scan job. notifier and events may be nil.
func NewScanJob(db *gorm.DB, dedupService *services.DedupService, notifier ScanNotifier, events EventPublisher) *ScanJob {
	return &ScanJob{
		db:           db,
		dedupService: dedupService,
		notifier:     notifier,
		events:       events,
	}
}

// Run executes one detection pass. Returns nil result when scanning is
// disabled in settings.
func (j *ScanJob) Run(ctx context.Context) (*dedup.ScanResult, error) {
	settings, err := database.GetOrCreateDedupSettings(j.db)
	if err != nil {
		return nil, err
	}

	if !settings.ScanEnabled {
		log.Println("Duplicate scan is disabled, skipping")
		return nil, nil
	}

	result, err := j.dedupService.Scan(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := j.dedupService.CountPendingReports()
	if err != nil {
		log.Printf("ScanJob: failed to count pending reports: %v", err)
	}

	if j.events != nil {
		j.events.Publish("scan.completed", result)
	}
	if j.notifier != nil {
		j.notifier.NotifyScanSummary(result.ContactsScanned, result.ReportsUpserted, pending)
	}

	return result, nil
}

// Start begins the periodic scans and blocks until stop is closed
func (j *ScanJob) Start(stop <-chan struct{}) {
	settings, err := database.GetOrCreateDedupSettings(j.db)
	if err != nil {
		log.Printf("Failed to get dedup settings, using default interval: %v", err)
		settings = database.NewDefaultDedupSettings()
	}

	interval := time.Duration(settings.ScanIntervalHours) * time.Hour
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result, err := j.Run(context.Background())
			if err != nil {
				log.Printf("Scan job error: %v", err)
			} else if result != nil {
				log.Printf("Scan job: %d contacts scanned, %d reports upserted, %d chunks failed",
					result.ContactsScanned, result.ReportsUpserted, result.FailedChunks)
			}

			// Refresh interval from settings (in case it changed)
			newSettings, err := database.GetOrCreateDedupSettings(j.db)
			if err == nil && newSettings.ScanIntervalHours != settings.ScanIntervalHours {
				settings = newSettings
				interval = time.Duration(settings.ScanIntervalHours) * time.Hour
				ticker.Reset(interval)
				log.Printf("Scan interval updated to %d hours", settings.ScanIntervalHours)
			}

		case <-stop:
			log.Println("Scan job stopped")
			return
		}
	}
}
