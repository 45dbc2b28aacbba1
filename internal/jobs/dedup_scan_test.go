package jobs

import (
	"context"
	"testing"

	"github.com/opsdesk/opsdesk/internal/database"
	"github.com/opsdesk/opsdesk/internal/services"
	"github.com/opsdesk/opsdesk/internal/testhelpers"
)

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.events = append(p.events, eventType)
}

type recordingNotifier struct {
	called          bool
	contactsScanned int
	reportsUpserted int
	pendingReports  int64
}

func (n *recordingNotifier) NotifyScanSummary(contactsScanned, reportsUpserted int, pendingReports int64) {
	n.called = true
	n.contactsScanned = contactsScanned
	n.reportsUpserted = reportsUpserted
	n.pendingReports = pendingReports
}

func TestScanJob_SkipsWhenDisabled(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	settings := database.NewDefaultDedupSettings()
	settings.ScanEnabled = false
	db.Create(settings)

	notifier := &recordingNotifier{}
	job := NewScanJob(db, services.NewDedupService(db), notifier, nil)

	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result when disabled, got %+v", result)
	}
	if notifier.called {
		t.Errorf("notifier must not fire for a skipped scan")
	}
}

func TestScanJob_RunDetectsAndNotifies(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	testhelpers.NewContactBuilder().WithEmail("dup@example.com").Create(t, db)
	testhelpers.NewContactBuilder().WithEmail("dup@example.com").Create(t, db)
	testhelpers.NewContactBuilder().WithEmail("unique@example.com").Create(t, db)

	publisher := &recordingPublisher{}
	notifier := &recordingNotifier{}
	job := NewScanJob(db, services.NewDedupService(db), notifier, publisher)

	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a scan result")
	}
	if result.ContactsScanned != 3 {
		t.Errorf("expected 3 contacts scanned, got %d", result.ContactsScanned)
	}
	if result.ReportsUpserted != 1 {
		t.Errorf("expected 1 report upserted, got %d", result.ReportsUpserted)
	}

	if len(publisher.events) != 1 || publisher.events[0] != "scan.completed" {
		t.Errorf("expected one scan.completed event, got %v", publisher.events)
	}
	if !notifier.called {
		t.Fatal("expected notifier to fire")
	}
	if notifier.contactsScanned != 3 || notifier.reportsUpserted != 1 || notifier.pendingReports != 1 {
		t.Errorf("unexpected notifier summary: scanned=%d upserted=%d pending=%d",
			notifier.contactsScanned, notifier.reportsUpserted, notifier.pendingReports)
	}
}

func TestScanJob_NilCollaboratorsAreOptional(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	testhelpers.NewContactBuilder().WithEmail("dup@example.com").Create(t, db)
	testhelpers.NewContactBuilder().WithEmail("dup@example.com").Create(t, db)

	job := NewScanJob(db, services.NewDedupService(db), nil, nil)

	if _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error with nil notifier and publisher: %v", err)
	}
}
