// Package testhelpers provides reusable testing utilities for OpsDesk.
//
// This package contains:
// - HTTP test helpers (building requests, running handlers)
// - In-memory test database setup
// - Sample data builders for contacts and duplicate reports
// - Assertion helpers
package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/opsdesk/opsdesk/internal/database"
)

// ========================================
// HTTP Test Helpers
// ========================================

// HTTPTestContext holds components for HTTP handler testing
type HTTPTestContext struct {
	T        *testing.T
	Recorder *httptest.ResponseRecorder
	Request  *http.Request
}

// NewHTTPTestContext creates a new HTTP test context
func NewHTTPTestContext(t *testing.T, method, path string, body io.Reader) *HTTPTestContext {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	return &HTTPTestContext{
		T:        t,
		Recorder: httptest.NewRecorder(),
		Request:  req,
	}
}

// WithHeader adds a header to the request
func (ctx *HTTPTestContext) WithHeader(key, value string) *HTTPTestContext {
	ctx.Request.Header.Set(key, value)
	return ctx
}

// WithJSONBody sets JSON body on the request
func (ctx *HTTPTestContext) WithJSONBody(v interface{}) *HTTPTestContext {
	ctx.T.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		ctx.T.Fatalf("failed to marshal JSON body: %v", err)
	}
	ctx.Request = httptest.NewRequest(ctx.Request.Method, ctx.Request.URL.String(), bytes.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")
	return ctx
}

// WithBearerToken adds Authorization Bearer header
func (ctx *HTTPTestContext) WithBearerToken(token string) *HTTPTestContext {
	return ctx.WithHeader("Authorization", "Bearer "+token)
}

// Execute runs the handler and returns the response
func (ctx *HTTPTestContext) Execute(handler http.Handler) *HTTPTestContext {
	handler.ServeHTTP(ctx.Recorder, ctx.Request)
	return ctx
}

// ExecuteFunc runs the handler func and returns the response
func (ctx *HTTPTestContext) ExecuteFunc(handler http.HandlerFunc) *HTTPTestContext {
	handler(ctx.Recorder, ctx.Request)
	return ctx
}

// AssertStatus checks the response status code
func (ctx *HTTPTestContext) AssertStatus(expected int) *HTTPTestContext {
	ctx.T.Helper()
	if ctx.Recorder.Code != expected {
		ctx.T.Errorf("expected status %d, got %d. Body: %s", expected, ctx.Recorder.Code, ctx.Recorder.Body.String())
	}
	return ctx
}

// AssertBodyContains checks if response body contains substring
func (ctx *HTTPTestContext) AssertBodyContains(substr string) *HTTPTestContext {
	ctx.T.Helper()
	body := ctx.Recorder.Body.String()
	if !containsString(body, substr) {
		ctx.T.Errorf("expected body to contain %q, got: %s", substr, body)
	}
	return ctx
}

// DecodeJSON decodes response body as JSON
func (ctx *HTTPTestContext) DecodeJSON(v interface{}) *HTTPTestContext {
	ctx.T.Helper()
	if err := json.NewDecoder(ctx.Recorder.Body).Decode(v); err != nil {
		ctx.T.Fatalf("failed to decode JSON response: %v", err)
	}
	return ctx
}

// ========================================
// Test Database
// ========================================

// NewTestDB opens an in-memory SQLite database with all tables migrated
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&database.Contact{},
		&database.DuplicateReport{},
		&database.DedupSettings{},
		&database.SlackSettings{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// ========================================
// Sample Data Builders
// ========================================

// ContactBuilder builds Contact instances for testing
type ContactBuilder struct {
	contact database.Contact
}

// NewContactBuilder creates a new contact builder with defaults
func NewContactBuilder() *ContactBuilder {
	return &ContactBuilder{
		contact: database.Contact{
			Name:  "Test Contact",
			Email: "test@example.com",
		},
	}
}

// WithID sets the contact ID
func (b *ContactBuilder) WithID(id string) *ContactBuilder {
	b.contact.ID = id
	return b
}

// WithName sets the name
func (b *ContactBuilder) WithName(name string) *ContactBuilder {
	b.contact.Name = name
	return b
}

// WithEmail sets the email
func (b *ContactBuilder) WithEmail(email string) *ContactBuilder {
	b.contact.Email = email
	return b
}

// WithPhone sets the phone number
func (b *ContactBuilder) WithPhone(phone string) *ContactBuilder {
	b.contact.Phone = phone
	return b
}

// WithTags sets the tags
func (b *ContactBuilder) WithTags(tags ...string) *ContactBuilder {
	b.contact.Tags = database.StringList(tags)
	return b
}

// WithCustomData sets a custom data field
func (b *ContactBuilder) WithCustomData(key string, value interface{}) *ContactBuilder {
	if b.contact.CustomData == nil {
		b.contact.CustomData = database.JSONB{}
	}
	b.contact.CustomData[key] = value
	return b
}

// WithCreatedAt sets the creation timestamp
func (b *ContactBuilder) WithCreatedAt(ts time.Time) *ContactBuilder {
	b.contact.CreatedAt = ts
	return b
}

// Build returns the constructed contact
func (b *ContactBuilder) Build() database.Contact {
	return b.contact
}

// Create persists the contact and returns it
func (b *ContactBuilder) Create(t *testing.T, db *gorm.DB) database.Contact {
	t.Helper()
	contact := b.contact
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("failed to create test contact: %v", err)
	}
	return contact
}

// ReportBuilder builds DuplicateReport instances for testing
type ReportBuilder struct {
	report database.DuplicateReport
}

// NewReportBuilder creates a new report builder with defaults
func NewReportBuilder(matchType database.MatchType, matchKey string) *ReportBuilder {
	return &ReportBuilder{
		report: database.DuplicateReport{
			ID:        database.ReportID(matchType, matchKey),
			MatchType: matchType,
			MatchKey:  matchKey,
			Status:    database.ReportStatusPending,
		},
	}
}

// WithContacts sets the member contact IDs
func (b *ReportBuilder) WithContacts(ids ...string) *ReportBuilder {
	b.report.ContactIDs = database.StringList(ids)
	b.report.DuplicateCount = len(ids)
	return b
}

// WithStatus sets the report status
func (b *ReportBuilder) WithStatus(status database.ReportStatus) *ReportBuilder {
	b.report.Status = status
	return b
}

// Build returns the constructed report
func (b *ReportBuilder) Build() database.DuplicateReport {
	return b.report
}

// Create persists the report and returns it
func (b *ReportBuilder) Create(t *testing.T, db *gorm.DB) database.DuplicateReport {
	t.Helper()
	report := b.report
	if err := db.Create(&report).Error; err != nil {
		t.Fatalf("failed to create test report: %v", err)
	}
	return report
}

// ========================================
// Assertion Helpers
// ========================================

// AssertEqual checks equality with a helpful error message
func AssertEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertError checks that an error occurred
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error, got nil", msg)
	}
}

// AssertNoError checks that no error occurred
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", msg, err)
	}
}

// AssertContains checks if string contains substring
func AssertContains(t *testing.T, s, substr string, msg string) {
	t.Helper()
	if !containsString(s, substr) {
		t.Errorf("%s: expected %q to contain %q", msg, s, substr)
	}
}

// ========================================
// Internal helpers
// ========================================

func containsString(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		findSubstring(s, substr))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
