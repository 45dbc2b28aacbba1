package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/opsdesk/opsdesk/internal/api"
	"github.com/opsdesk/opsdesk/internal/dedup"
)

// handleListDuplicates handles GET /api/duplicates
func (h *APIHandler) handleListDuplicates(w http.ResponseWriter, r *http.Request) {
	reports, err := h.dedupService.ListPendingReports()
	if err != nil {
		log.Printf("APIHandler: failed to list pending reports: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to get duplicate reports")
		return
	}
	api.RespondJSON(w, http.StatusOK, reports)
}

// handleCountDuplicates handles GET /api/duplicates/count
func (h *APIHandler) handleCountDuplicates(w http.ResponseWriter, r *http.Request) {
	count, err := h.dedupService.CountPendingReports()
	if err != nil {
		api.RespondError(w, http.StatusInternalServerError, "Failed to count duplicate reports")
		return
	}
	api.RespondJSON(w, http.StatusOK, api.CountResponse{Count: count})
}

// handleScan handles POST /api/duplicates/scan — the authenticated manual
// trigger. Runs the same job the scheduler runs, synchronously.
func (h *APIHandler) handleScan(w http.ResponseWriter, r *http.Request) {
	result, err := h.scanJob.Run(r.Context())
	if err != nil {
		log.Printf("APIHandler: manual scan failed: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Scan failed")
		return
	}
	if result == nil {
		api.RespondErrorWithCode(w, http.StatusConflict, "scan_disabled", "Duplicate scanning is disabled in settings")
		return
	}
	api.RespondJSON(w, http.StatusOK, result)
}

// handleMergeReport handles POST /api/duplicates/{id}/merge
func (h *APIHandler) handleMergeReport(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("id")

	result, err := h.dedupService.MergeReport(r.Context(), reportID)
	if err != nil {
		h.respondMergeError(w, err)
		return
	}

	h.publishMergeEvent(result)
	api.RespondJSON(w, http.StatusOK, result)
}

// handleMergeMany handles POST /api/duplicates/merge. Reports are merged
// independently; the response carries a per-report outcome rather than a
// single success/failure.
func (h *APIHandler) handleMergeMany(w http.ResponseWriter, r *http.Request) {
	var req api.MergeManyRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}

	result := h.dedupService.MergeMany(r.Context(), req.ReportIDs)

	if h.events != nil {
		for _, outcome := range result.Outcomes {
			switch outcome.Status {
			case string(dedup.MergeStatusMerged):
				h.events.Publish(EventReportMerged, outcome)
			case string(dedup.MergeStatusArchived):
				h.events.Publish(EventReportArchived, outcome)
			}
		}
	}

	api.RespondJSON(w, http.StatusOK, result)
}

// respondMergeError maps the merge error taxonomy onto HTTP statuses
func (h *APIHandler) respondMergeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dedup.ErrReportNotFound):
		api.RespondErrorWithCode(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, dedup.ErrInvalidReportState):
		api.RespondErrorWithCode(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, dedup.ErrWriteConflict):
		api.RespondErrorWithCode(w, http.StatusInternalServerError, "write_conflict", err.Error())
	default:
		log.Printf("APIHandler: merge failed: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to merge report")
	}
}

func (h *APIHandler) publishMergeEvent(result *dedup.MergeResult) {
	if h.events == nil || result == nil {
		return
	}
	switch result.Status {
	case dedup.MergeStatusMerged:
		h.events.Publish(EventReportMerged, result)
	case dedup.MergeStatusArchived:
		h.events.Publish(EventReportArchived, result)
	}
}
