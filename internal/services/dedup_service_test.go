package services

import (
	"context"
	"testing"
	"time"

	"github.com/opsdesk/opsdesk/internal/database"
	"github.com/opsdesk/opsdesk/internal/testhelpers"
)

func TestDedupService_EndToEndScanAndMerge(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDedupService(db)

	testhelpers.NewContactBuilder().WithName("A").WithEmail("dup@example.com").Create(t, db)
	testhelpers.NewContactBuilder().WithName("B").WithEmail("dup@example.com").Create(t, db)

	scan, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if scan.ReportsUpserted != 1 {
		t.Fatalf("expected 1 report, got %d", scan.ReportsUpserted)
	}

	count, err := svc.CountPendingReports()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 pending report, got %d", count)
	}

	result, err := svc.MergeReport(context.Background(), "email-dup@example.com")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if result.Status != "merged" {
		t.Errorf("expected merged, got %s", result.Status)
	}

	count, _ = svc.CountPendingReports()
	if count != 0 {
		t.Errorf("expected no pending reports after merge, got %d", count)
	}
}

func TestDedupService_ListPendingReports(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDedupService(db)
	now := time.Now()

	older := testhelpers.NewContactBuilder().WithName("Older").WithEmail("dup@example.com").
		WithCreatedAt(now.Add(-time.Hour)).Create(t, db)
	newer := testhelpers.NewContactBuilder().WithName("Newer").WithEmail("dup@example.com").
		WithCreatedAt(now).Create(t, db)

	testhelpers.NewReportBuilder(database.MatchTypeEmail, "dup@example.com").
		WithContacts(older.ID, newer.ID, "vanished").Create(t, db)
	testhelpers.NewReportBuilder(database.MatchTypePhone, "5551234567").
		WithContacts("a", "b").
		WithStatus(database.ReportStatusMerged).Create(t, db)

	reports, err := svc.ListPendingReports()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected only the pending report, got %d", len(reports))
	}

	report := reports[0]
	if len(report.Contacts) != 2 {
		t.Errorf("expected vanished member omitted from summaries, got %d", len(report.Contacts))
	}
	if report.PrimaryContactID != newer.ID {
		t.Errorf("expected latest member %s as primary, got %s", newer.ID, report.PrimaryContactID)
	}
	// The stored report row keeps all three IDs; only the projection filters
	if len(report.ContactIDs) != 3 {
		t.Errorf("expected stored membership untouched, got %v", report.ContactIDs)
	}
}

func TestDedupService_ListPendingReportsEmpty(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDedupService(db)

	reports, err := svc.ListPendingReports()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("expected no reports, got %d", len(reports))
	}
}
