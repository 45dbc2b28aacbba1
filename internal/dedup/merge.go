package dedup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/opsdesk/opsdesk/internal/database"
)

// MergeStatus is the terminal state of a single merge attempt
type MergeStatus string

const (
	MergeStatusMerged   MergeStatus = "merged"
	MergeStatusArchived MergeStatus = "archived"
)

// MergeResult describes the outcome of merging one report
type MergeResult struct {
	ReportID         string      `json:"report_id"`
	Status           MergeStatus `json:"status"`
	CanonicalID      string      `json:"canonical_id,omitempty"`
	MergedContactIDs []string    `json:"merged_contact_ids,omitempty"`
	Note             string      `json:"note,omitempty"`
}

// Merger collapses a duplicate cluster into a single canonical contact.
// The whole merge runs inside one transaction: report read, contact snapshot,
// reconciliation, secondary deletes and the report status update either all
// commit or none do.
type Merger struct {
	db           *gorm.DB
	retryBackoff time.Duration
}

// NewMerger creates a new merge engine
func NewMerger(db *gorm.DB) *Merger {
	return &Merger{db: db, retryBackoff: 50 * time.Millisecond}
}

// MergeReport executes the merge for a single report. Serialization failures
// and deadlocks are retried a bounded number of times; the transaction body
// has no side effects outside the store, so re-execution is safe.
func (m *Merger) MergeReport(ctx context.Context, reportID string) (*MergeResult, error) {
	attempts := database.NewDefaultDedupSettings().MergeRetryAttempts
	if settings, err := database.GetOrCreateDedupSettings(m.db); err == nil {
		attempts = settings.MergeRetryAttempts
	}

	var result *MergeResult
	var err error
	for attempt := 0; ; attempt++ {
		result, err = m.mergeOnce(ctx, reportID)
		if err == nil || !isWriteConflict(err) || attempt >= attempts {
			break
		}
		log.Printf("Merger: write conflict on report %s, retrying (attempt %d/%d)",
			reportID, attempt+1, attempts)
		time.Sleep(time.Duration(attempt+1) * m.retryBackoff)
	}
	if err != nil && isWriteConflict(err) {
		return nil, fmt.Errorf("%w: report %s: %v", ErrWriteConflict, reportID, err)
	}
	return result, err
}

func (m *Merger) mergeOnce(ctx context.Context, reportID string) (*MergeResult, error) {
	var result *MergeResult

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report database.DuplicateReport
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrReportNotFound, reportID)
			}
			return err
		}

		if report.Status != database.ReportStatusPending {
			return fmt.Errorf("%w: report %s has status %s", ErrInvalidReportState, reportID, report.Status)
		}
		if len(report.ContactIDs) < 2 {
			return fmt.Errorf("%w: report %s references %d contacts", ErrInvalidReportState, reportID, len(report.ContactIDs))
		}

		// Consistent snapshot of every referenced contact; IDs pointing at
		// contacts a prior merge already deleted simply drop out here.
		var contacts []database.Contact
		if err := tx.Where("id IN ?", []string(report.ContactIDs)).Find(&contacts).Error; err != nil {
			return err
		}

		if len(contacts) < 2 {
			note := fmt.Sprintf("archived: only %d of %d referenced contacts still exist", len(contacts), len(report.ContactIDs))
			if err := tx.Model(&report).Updates(map[string]interface{}{
				"status": database.ReportStatusArchived,
				"note":   note,
			}).Error; err != nil {
				return err
			}
			result = &MergeResult{ReportID: report.ID, Status: MergeStatusArchived, Note: note}
			return nil
		}

		// Newest-wins canonical selection: most recently created contact
		// survives and absorbs the others. Missing created_at ranks last.
		sort.SliceStable(contacts, func(i, j int) bool {
			return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
		})
		canonical := contacts[0]
		secondaries := contacts[1:]

		if updates := reconcile(&canonical, secondaries); len(updates) > 0 {
			if err := tx.Model(&database.Contact{}).Where("id = ?", canonical.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		secondaryIDs := make([]string, 0, len(secondaries))
		for _, s := range secondaries {
			secondaryIDs = append(secondaryIDs, s.ID)
		}
		if err := tx.Where("id IN ?", secondaryIDs).Delete(&database.Contact{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&report).Update("status", database.ReportStatusMerged).Error; err != nil {
			return err
		}

		result = &MergeResult{
			ReportID:         report.ID,
			Status:           MergeStatusMerged,
			CanonicalID:      canonical.ID,
			MergedContactIDs: secondaryIDs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reconcile fills gaps in the canonical contact from the secondaries:
// a canonical value is never overwritten once present, and across multiple
// secondaries the first one to supply a missing field wins. The same rule
// applies one level deeper for custom_data, keyed by sub-field.
// Returns the column updates to persist, empty when nothing changed.
func reconcile(canonical *database.Contact, secondaries []database.Contact) map[string]interface{} {
	updates := make(map[string]interface{})

	for _, sec := range secondaries {
		if canonical.Name == "" && sec.Name != "" {
			canonical.Name = sec.Name
			updates["name"] = sec.Name
		}
		if canonical.Email == "" && sec.Email != "" {
			canonical.Email = sec.Email
			updates["email"] = sec.Email
		}
		if canonical.Phone == "" && sec.Phone != "" {
			canonical.Phone = sec.Phone
			updates["phone"] = sec.Phone
		}
		if len(canonical.Tags) == 0 && len(sec.Tags) > 0 {
			canonical.Tags = sec.Tags
			updates["tags"] = sec.Tags
		}
		for key, value := range sec.CustomData {
			if !present(value) {
				continue
			}
			if existing, ok := canonical.CustomData[key]; ok && present(existing) {
				continue
			}
			if canonical.CustomData == nil {
				canonical.CustomData = database.JSONB{}
			}
			canonical.CustomData[key] = value
			updates["custom_data"] = canonical.CustomData
		}
	}

	return updates
}

// present reports whether a custom_data scalar counts as set.
// Zero-valued scalars behave like absent ones during reconciliation.
func present(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	default:
		return true
	}
}

// isWriteConflict reports whether err is a retryable transactional conflict
// (PostgreSQL serialization failure 40001 or deadlock 40P01).
func isWriteConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
