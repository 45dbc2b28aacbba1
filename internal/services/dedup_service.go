package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/opsdesk/opsdesk/internal/database"
	"github.com/opsdesk/opsdesk/internal/dedup"
)

// ContactSummary is the lightweight contact projection attached to pending
// reports for display purposes.
type ContactSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PendingReport is a duplicate report enriched with contact summaries and the
// computed primary contact (latest created_at member). Read-only projection.
type PendingReport struct {
	database.DuplicateReport
	Contacts         []ContactSummary `json:"contacts"`
	PrimaryContactID string           `json:"primary_contact_id"`
}

// DedupService fronts the duplicate pipeline for handlers and jobs
type DedupService struct {
	db       *gorm.DB
	detector *dedup.Detector
	merger   *dedup.Merger
	bulk     *dedup.Bulk
}

// NewDedupService creates a new dedup service wired to the given database
func NewDedupService(db *gorm.DB) *DedupService {
	merger := dedup.NewMerger(db)
	return &DedupService{
		db:       db,
		detector: dedup.NewDetector(db),
		merger:   merger,
		bulk:     dedup.NewBulk(db, merger),
	}
}

// Scan runs one full detection pass over the contact set
func (s *DedupService) Scan(ctx context.Context) (*dedup.ScanResult, error) {
	return s.detector.Scan(ctx)
}

// MergeReport merges a single report
func (s *DedupService) MergeReport(ctx context.Context, reportID string) (*dedup.MergeResult, error) {
	return s.merger.MergeReport(ctx, reportID)
}

// MergeMany merges many reports independently in parallel
func (s *DedupService) MergeMany(ctx context.Context, reportIDs []string) *dedup.BulkMergeResult {
	return s.bulk.MergeMany(ctx, reportIDs)
}

// DeleteContacts bulk-deletes contacts, chunked under the batch-write limit
func (s *DedupService) DeleteContacts(ctx context.Context, contactIDs []string) (int64, error) {
	return s.bulk.DeleteMany(ctx, contactIDs)
}

// TagContacts applies a tag mutation to many contacts
func (s *DedupService) TagContacts(ctx context.Context, contactIDs []string, tag string, action dedup.TagAction) (int, error) {
	return s.bulk.TagMany(ctx, contactIDs, tag, action)
}

// CountPendingReports returns the number of reports eligible for merge
func (s *DedupService) CountPendingReports() (int64, error) {
	var count int64
	err := s.db.Model(&database.DuplicateReport{}).
		Where("status = ?", database.ReportStatusPending).Count(&count).Error
	return count, err
}

// ListPendingReports returns pending reports enriched with contact summaries.
// Members that no longer exist are omitted from the summaries; the report
// itself is untouched (archival is the merge engine's job).
func (s *DedupService) ListPendingReports() ([]PendingReport, error) {
	var reports []database.DuplicateReport
	if err := s.db.Where("status = ?", database.ReportStatusPending).
		Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}

	// One contact fetch for all reports
	idSet := make(map[string]bool)
	for _, r := range reports {
		for _, id := range r.ContactIDs {
			idSet[id] = true
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	contactsByID := make(map[string]database.Contact, len(ids))
	if len(ids) > 0 {
		var contacts []database.Contact
		if err := s.db.Where("id IN ?", ids).Find(&contacts).Error; err != nil {
			return nil, err
		}
		for _, c := range contacts {
			contactsByID[c.ID] = c
		}
	}

	enriched := make([]PendingReport, 0, len(reports))
	for _, r := range reports {
		pr := PendingReport{DuplicateReport: r}
		var primary *database.Contact
		for _, id := range r.ContactIDs {
			c, ok := contactsByID[id]
			if !ok {
				continue
			}
			pr.Contacts = append(pr.Contacts, ContactSummary{ID: c.ID, Name: c.Name, Email: c.Email})
			if primary == nil || c.CreatedAt.After(primary.CreatedAt) {
				member := c
				primary = &member
			}
		}
		if primary != nil {
			pr.PrimaryContactID = primary.ID
		}
		enriched = append(enriched, pr)
	}
	return enriched, nil
}
