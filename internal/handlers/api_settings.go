package handlers

import (
	"log"
	"net/http"

	"github.com/opsdesk/opsdesk/internal/api"
	"github.com/opsdesk/opsdesk/internal/database"
)

// handleGetDedupSettings handles GET /api/settings/dedup
func (h *APIHandler) handleGetDedupSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := database.GetOrCreateDedupSettings(database.GetDB())
	if err != nil {
		api.RespondError(w, http.StatusInternalServerError, "Failed to get dedup settings")
		return
	}
	api.RespondJSON(w, http.StatusOK, settings)
}

// handleUpdateDedupSettings handles PUT /api/settings/dedup
func (h *APIHandler) handleUpdateDedupSettings(w http.ResponseWriter, r *http.Request) {
	db := database.GetDB()

	settings, err := database.GetOrCreateDedupSettings(db)
	if err != nil {
		api.RespondError(w, http.StatusInternalServerError, "Failed to get dedup settings")
		return
	}

	var req struct {
		ScanEnabled        *bool `json:"scan_enabled"`
		ScanIntervalHours  *int  `json:"scan_interval_hours" validate:"omitempty,min=1,max=168"`
		MaxBatchWrites     *int  `json:"max_batch_writes" validate:"omitempty,min=1,max=500"`
		MergeRetryAttempts *int  `json:"merge_retry_attempts" validate:"omitempty,min=0,max=10"`
	}
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}

	if req.ScanEnabled != nil {
		settings.ScanEnabled = *req.ScanEnabled
	}
	if req.ScanIntervalHours != nil {
		settings.ScanIntervalHours = *req.ScanIntervalHours
	}
	if req.MaxBatchWrites != nil {
		settings.MaxBatchWrites = *req.MaxBatchWrites
	}
	if req.MergeRetryAttempts != nil {
		settings.MergeRetryAttempts = *req.MergeRetryAttempts
	}

	if err := database.UpdateDedupSettings(db, settings); err != nil {
		log.Printf("APIHandler: failed to update dedup settings: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to update dedup settings")
		return
	}

	api.RespondJSON(w, http.StatusOK, settings)
}

// handleSlackSettings handles GET and PUT /api/settings/slack
func (h *APIHandler) handleSlackSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := database.GetSlackSettings()
		if err != nil {
			api.RespondError(w, http.StatusInternalServerError, "Failed to get Slack settings")
			return
		}
		// Never return the token to the UI, just whether one is set
		api.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"enabled":   settings.Enabled,
			"channel":   settings.Channel,
			"has_token": settings.BotToken != "",
		})

	case http.MethodPut:
		settings, err := database.GetSlackSettings()
		if err != nil {
			api.RespondError(w, http.StatusInternalServerError, "Failed to get Slack settings")
			return
		}

		var req struct {
			Enabled  *bool   `json:"enabled"`
			Channel  *string `json:"channel"`
			BotToken *string `json:"bot_token"`
		}
		if err := api.DecodeJSON(r, &req); err != nil {
			api.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		if req.Enabled != nil {
			settings.Enabled = *req.Enabled
		}
		if req.Channel != nil {
			settings.Channel = *req.Channel
		}
		if req.BotToken != nil {
			settings.BotToken = *req.BotToken
		}

		if err := database.UpdateSlackSettings(settings); err != nil {
			log.Printf("APIHandler: failed to update Slack settings: %v", err)
			api.RespondError(w, http.StatusInternalServerError, "Failed to update Slack settings")
			return
		}

		api.RespondNoContent(w)

	default:
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
