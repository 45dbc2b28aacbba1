package dedup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/opsdesk/opsdesk/internal/database"
)

// TagAction selects the tag mutation applied by TagMany
type TagAction string

const (
	TagActionAdd    TagAction = "add"    // set-union
	TagActionRemove TagAction = "remove" // set-difference
)

// BulkMergeOutcome is the per-report result inside a bulk merge
type BulkMergeOutcome struct {
	ReportID    string `json:"report_id"`
	Status      string `json:"status"` // merged, archived, failed
	CanonicalID string `json:"canonical_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// BulkMergeResult aggregates every attempted merge; a failed report never
// rolls back or prevents the others.
type BulkMergeResult struct {
	Outcomes []BulkMergeOutcome `json:"outcomes"`
	Merged   int                `json:"merged"`
	Archived int                `json:"archived"`
	Failed   int                `json:"failed"`
}

// Bulk fans merge, delete and tag operations out across many reports or
// contacts, aggregating partial failures instead of failing fast.
type Bulk struct {
	db     *gorm.DB
	merger *Merger
}

// NewBulk creates a new bulk orchestrator
func NewBulk(db *gorm.DB, merger *Merger) *Bulk {
	return &Bulk{db: db, merger: merger}
}

// MergeMany merges each report in parallel in its own independent
// transaction. Every report gets an outcome; cross-report ordering is not
// guaranteed and overlapping clusters degrade gracefully inside MergeReport.
func (b *Bulk) MergeMany(ctx context.Context, reportIDs []string) *BulkMergeResult {
	outcomes := make([]BulkMergeOutcome, len(reportIDs))

	var wg sync.WaitGroup
	for i, id := range reportIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			res, err := b.merger.MergeReport(ctx, id)
			if err != nil {
				outcomes[i] = BulkMergeOutcome{ReportID: id, Status: "failed", Error: err.Error()}
				return
			}
			outcomes[i] = BulkMergeOutcome{
				ReportID:    res.ReportID,
				Status:      string(res.Status),
				CanonicalID: res.CanonicalID,
			}
		}(i, id)
	}
	wg.Wait()

	result := &BulkMergeResult{Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case string(MergeStatusMerged):
			result.Merged++
		case string(MergeStatusArchived):
			result.Archived++
		default:
			result.Failed++
		}
	}
	return result
}

// DeleteMany hard-deletes the given contacts. IDs are deduplicated and the
// delete is chunked under the store's batch-write limit so arbitrarily large
// ID lists stay safe. Returns the number of contacts actually deleted.
func (b *Bulk) DeleteMany(ctx context.Context, contactIDs []string) (int64, error) {
	ids := dedupeIDs(append([]string(nil), contactIDs...))
	if len(ids) == 0 {
		return 0, nil
	}

	settings, err := database.GetOrCreateDedupSettings(b.db)
	if err != nil {
		return 0, err
	}
	chunkSize := settings.MaxBatchWrites
	if chunkSize <= 0 {
		chunkSize = 500
	}

	var deleted int64
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		res := b.db.WithContext(ctx).Where("id IN ?", ids[start:end]).Delete(&database.Contact{})
		if res.Error != nil {
			return deleted, res.Error
		}
		deleted += res.RowsAffected
	}
	return deleted, nil
}

// TagMany applies the tag mutation to every contact. Each contact's tag list
// is updated in its own transaction; there is no cross-contact atomicity.
// Contacts that no longer exist are skipped. Returns the number updated.
func (b *Bulk) TagMany(ctx context.Context, contactIDs []string, tag string, action TagAction) (int, error) {
	if tag == "" {
		return 0, fmt.Errorf("tag is required")
	}
	if action != TagActionAdd && action != TagActionRemove {
		return 0, fmt.Errorf("unknown tag action %q", action)
	}

	updated := 0
	for _, id := range dedupeIDs(append([]string(nil), contactIDs...)) {
		err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var contact database.Contact
			if err := tx.First(&contact, "id = ?", id).Error; err != nil {
				return err
			}

			var tags database.StringList
			switch action {
			case TagActionAdd:
				tags = contact.Tags.WithAdded(tag)
			case TagActionRemove:
				tags = contact.Tags.WithRemoved(tag)
			}
			return tx.Model(&contact).Update("tags", tags).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			log.Printf("Bulk: failed to %s tag %q on contact %s: %v", action, tag, id, err)
			continue
		}
		updated++
	}
	return updated, nil
}
