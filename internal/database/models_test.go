package database

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(&Contact{}, &DuplicateReport{}, &DedupSettings{}, &SlackSettings{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func TestJSONB_ScanValue(t *testing.T) {
	original := JSONB{"company": "Acme", "score": float64(42)}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value() failed: %v", err)
	}

	var scanned JSONB
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if scanned["company"] != "Acme" {
		t.Errorf("expected company=Acme, got %v", scanned["company"])
	}
	if scanned["score"] != float64(42) {
		t.Errorf("expected score=42, got %v", scanned["score"])
	}
}

func TestJSONB_ScanString(t *testing.T) {
	// SQLite hands JSON columns back as strings
	var j JSONB
	if err := j.Scan(`{"key":"value"}`); err != nil {
		t.Fatalf("Scan(string) failed: %v", err)
	}
	if j["key"] != "value" {
		t.Errorf("expected key=value, got %v", j["key"])
	}
}

func TestJSONB_ScanNil(t *testing.T) {
	var j JSONB
	if err := j.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if j == nil {
		t.Errorf("expected empty map, got nil")
	}
}

func TestStringList_SetSemantics(t *testing.T) {
	list := StringList{"a", "b"}

	if !list.Contains("a") || list.Contains("c") {
		t.Errorf("Contains misbehaved on %v", list)
	}

	added := list.WithAdded("c")
	if len(added) != 3 || !added.Contains("c") {
		t.Errorf("WithAdded failed: %v", added)
	}

	// Adding an existing value is a no-op
	same := list.WithAdded("a")
	if len(same) != 2 {
		t.Errorf("WithAdded should not duplicate: %v", same)
	}

	removed := list.WithRemoved("a")
	if len(removed) != 1 || removed.Contains("a") {
		t.Errorf("WithRemoved failed: %v", removed)
	}

	// Removing an absent value leaves the list intact
	intact := list.WithRemoved("z")
	if len(intact) != 2 {
		t.Errorf("WithRemoved of absent value changed list: %v", intact)
	}
}

func TestContact_BeforeCreateAssignsID(t *testing.T) {
	db := setupTestDB(t)

	contact := Contact{Name: "Test", Email: "test@example.com"}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if contact.ID == "" {
		t.Errorf("expected generated ID")
	}

	// Explicit IDs are preserved
	explicit := Contact{ID: "my-id", Name: "Explicit"}
	if err := db.Create(&explicit).Error; err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if explicit.ID != "my-id" {
		t.Errorf("expected explicit ID preserved, got %s", explicit.ID)
	}
}

func TestContact_TagsAndCustomDataRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	contact := Contact{
		Name:       "Round Trip",
		Tags:       StringList{"vip", "newsletter"},
		CustomData: JSONB{"company": "Acme"},
	}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}

	var loaded Contact
	if err := db.First(&loaded, "id = ?", contact.ID).Error; err != nil {
		t.Fatalf("failed to load contact: %v", err)
	}
	if !loaded.Tags.Contains("vip") || !loaded.Tags.Contains("newsletter") {
		t.Errorf("tags did not round-trip: %v", loaded.Tags)
	}
	if loaded.CustomData["company"] != "Acme" {
		t.Errorf("custom data did not round-trip: %v", loaded.CustomData)
	}
}

func TestReportID(t *testing.T) {
	if got := ReportID(MatchTypeEmail, "user@example.com"); got != "email-user@example.com" {
		t.Errorf("unexpected email report ID: %s", got)
	}
	if got := ReportID(MatchTypePhone, "15551234567"); got != "phone-15551234567" {
		t.Errorf("unexpected phone report ID: %s", got)
	}
}

func TestGetOrCreateDedupSettings(t *testing.T) {
	db := setupTestDB(t)

	settings, err := GetOrCreateDedupSettings(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settings.ScanEnabled {
		t.Errorf("expected scan enabled by default")
	}
	if settings.ScanIntervalHours != 24 {
		t.Errorf("expected 24h default interval, got %d", settings.ScanIntervalHours)
	}
	if settings.MaxBatchWrites != 500 {
		t.Errorf("expected 500 default batch limit, got %d", settings.MaxBatchWrites)
	}
	if settings.MergeRetryAttempts != 3 {
		t.Errorf("expected 3 default retry attempts, got %d", settings.MergeRetryAttempts)
	}

	// Second call returns the same singleton row
	again, err := GetOrCreateDedupSettings(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != settings.ID {
		t.Errorf("expected singleton settings row, got IDs %d and %d", settings.ID, again.ID)
	}

	var count int64
	db.Model(&DedupSettings{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one settings row, got %d", count)
	}
}

func TestSlackSettings_IsActive(t *testing.T) {
	s := &SlackSettings{}
	if s.IsActive() {
		t.Errorf("empty settings should not be active")
	}

	s.BotToken = "xoxb-token"
	s.Channel = "#ops"
	if s.IsActive() {
		t.Errorf("disabled settings should not be active")
	}
	if !s.IsConfigured() {
		t.Errorf("token+channel should count as configured")
	}

	s.Enabled = true
	if !s.IsActive() {
		t.Errorf("enabled and configured settings should be active")
	}
}
