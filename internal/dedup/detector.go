package dedup

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opsdesk/opsdesk/internal/database"
)

// Detector scans the full contact set and emits duplicate-cluster reports.
type Detector struct {
	db *gorm.DB
}

// NewDetector creates a new duplicate detector
func NewDetector(db *gorm.DB) *Detector {
	return &Detector{db: db}
}

// ScanResult summarizes one detection pass
type ScanResult struct {
	ContactsScanned int `json:"contacts_scanned"`
	ReportsUpserted int `json:"reports_upserted"`
	FailedChunks    int `json:"failed_chunks"`
}

// Scan loads all contacts, buckets them by normalized email and phone, and
// upserts a pending DuplicateReport for every cluster of 2 or more.
// Upserts are keyed deterministically, so re-running a scan on unchanged data
// rewrites the same documents instead of creating new ones, and never touches
// the status, note or created_at of a report that already exists.
func (d *Detector) Scan(ctx context.Context) (*ScanResult, error) {
	var contacts []database.Contact
	if err := d.db.WithContext(ctx).Find(&contacts).Error; err != nil {
		return nil, err
	}

	byEmail := make(map[string][]string)
	byPhone := make(map[string][]string)
	for _, c := range contacts {
		if key := NormalizeEmail(c.Email); key != "" {
			byEmail[key] = append(byEmail[key], c.ID)
		}
		if key := NormalizePhone(c.Phone); key != "" {
			byPhone[key] = append(byPhone[key], c.ID)
		}
	}

	var reports []database.DuplicateReport
	collect := func(matchType database.MatchType, groups map[string][]string) {
		for key, ids := range groups {
			ids = dedupeIDs(ids)
			if len(ids) < 2 {
				continue
			}
			reports = append(reports, database.DuplicateReport{
				ID:             database.ReportID(matchType, key),
				MatchType:      matchType,
				MatchKey:       key,
				ContactIDs:     database.StringList(ids),
				DuplicateCount: len(ids),
				Status:         database.ReportStatusPending,
			})
		}
	}
	collect(database.MatchTypeEmail, byEmail)
	collect(database.MatchTypePhone, byPhone)

	settings, err := database.GetOrCreateDedupSettings(d.db)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{ContactsScanned: len(contacts)}
	for _, chunk := range chunkReports(reports, settings.MaxBatchWrites) {
		if err := d.upsertReports(ctx, chunk); err != nil {
			// Idempotent keys make re-running the scan always safe, so a failed
			// chunk is logged with its keys and not retried automatically.
			log.Printf("Detector: failed to upsert %d reports (%s): %v",
				len(chunk), reportKeys(chunk), err)
			result.FailedChunks++
			continue
		}
		result.ReportsUpserted += len(chunk)
	}

	return result, nil
}

// upsertReports merge-writes a batch of reports at their deterministic keys.
// On conflict only the cluster membership columns are rewritten; lifecycle
// columns (status, note, created_at) belong to the merge engine.
func (d *Detector) upsertReports(ctx context.Context, reports []database.DuplicateReport) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"match_key", "contact_ids", "duplicate_count", "updated_at"}),
	}).Create(&reports).Error
}

// dedupeIDs removes duplicate IDs preserving first-seen order
func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func chunkReports(reports []database.DuplicateReport, size int) [][]database.DuplicateReport {
	if size <= 0 {
		size = 500
	}
	var chunks [][]database.DuplicateReport
	for start := 0; start < len(reports); start += size {
		end := start + size
		if end > len(reports) {
			end = len(reports)
		}
		chunks = append(chunks, reports[start:end])
	}
	return chunks
}

func reportKeys(reports []database.DuplicateReport) string {
	keys := make([]string, 0, len(reports))
	for _, r := range reports {
		keys = append(keys, r.ID)
	}
	return strings.Join(keys, ", ")
}
