package handlers

import (
	"net/http"

	"github.com/opsdesk/opsdesk/internal/api"
	"github.com/opsdesk/opsdesk/internal/jobs"
	"github.com/opsdesk/opsdesk/internal/services"
)

// APIHandler handles API endpoints for the UI
type APIHandler struct {
	contactService *services.ContactService
	dedupService   *services.DedupService
	scanJob        *jobs.ScanJob
	events         *EventBroker
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(contactService *services.ContactService, dedupService *services.DedupService, scanJob *jobs.ScanJob, events *EventBroker) *APIHandler {
	return &APIHandler{
		contactService: contactService,
		dedupService:   dedupService,
		scanJob:        scanJob,
		events:         events,
	}
}

// SetupRoutes sets up all API routes
func (h *APIHandler) SetupRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)

	// Contacts
	mux.HandleFunc("/api/contacts", h.handleContacts)
	mux.HandleFunc("GET /api/contacts/{id}", h.handleGetContact)
	mux.HandleFunc("PUT /api/contacts/{id}", h.handleUpdateContact)
	mux.HandleFunc("DELETE /api/contacts/{id}", h.handleDeleteContact)

	// Bulk contact operations
	mux.HandleFunc("POST /api/contacts/bulk-delete", h.handleBulkDelete)
	mux.HandleFunc("POST /api/contacts/bulk-tag", h.handleBulkTag)

	// Duplicate reports
	mux.HandleFunc("GET /api/duplicates", h.handleListDuplicates)
	mux.HandleFunc("GET /api/duplicates/count", h.handleCountDuplicates)
	mux.HandleFunc("POST /api/duplicates/scan", h.handleScan)
	mux.HandleFunc("POST /api/duplicates/merge", h.handleMergeMany)
	mux.HandleFunc("POST /api/duplicates/{id}/merge", h.handleMergeReport)

	// Settings
	mux.HandleFunc("GET /api/settings/dedup", h.handleGetDedupSettings)
	mux.HandleFunc("PUT /api/settings/dedup", h.handleUpdateDedupSettings)
	mux.HandleFunc("/api/settings/slack", h.handleSlackSettings)
}

// handleHealth handles GET /health
func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
