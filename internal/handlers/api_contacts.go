package handlers

import (
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/opsdesk/opsdesk/internal/api"
	"github.com/opsdesk/opsdesk/internal/dedup"
)

// handleContacts handles GET /api/contacts and POST /api/contacts
func (h *APIHandler) handleContacts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		params := api.ParsePagination(r)

		contacts, total, err := h.contactService.ListContacts(params.Offset(), params.PerPage)
		if err != nil {
			api.RespondError(w, http.StatusInternalServerError, "Failed to get contacts")
			return
		}

		api.RespondJSON(w, http.StatusOK, api.PaginatedResponse{
			Data: contacts,
			Pagination: api.PaginationMeta{
				Page:       params.Page,
				PerPage:    params.PerPage,
				Total:      total,
				TotalPages: params.TotalPages(total),
			},
		})

	case http.MethodPost:
		var req api.CreateContactRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			api.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if fieldErrors := api.Validate(req); fieldErrors != nil {
			api.RespondValidationError(w, fieldErrors)
			return
		}

		contact := api.NewContact(req)
		if err := h.contactService.CreateContact(&contact); err != nil {
			log.Printf("APIHandler: failed to create contact: %v", err)
			api.RespondError(w, http.StatusInternalServerError, "Failed to create contact")
			return
		}

		api.RespondJSON(w, http.StatusCreated, contact)

	default:
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleGetContact handles GET /api/contacts/{id}
func (h *APIHandler) handleGetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := h.contactService.GetContact(r.PathValue("id"))
	if err != nil {
		api.RespondError(w, http.StatusNotFound, "Contact not found")
		return
	}
	api.RespondJSON(w, http.StatusOK, contact)
}

// handleUpdateContact handles PUT /api/contacts/{id}
func (h *APIHandler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.contactService.GetContact(id); err != nil {
		api.RespondError(w, http.StatusNotFound, "Contact not found")
		return
	}

	var req api.UpdateContactRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}

	updates := api.ContactUpdates(req)
	if len(updates) == 0 {
		api.RespondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	contact, err := h.contactService.UpdateContact(id, updates)
	if err != nil {
		log.Printf("APIHandler: failed to update contact %s: %v", id, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	api.RespondJSON(w, http.StatusOK, contact)
}

// handleDeleteContact handles DELETE /api/contacts/{id}
func (h *APIHandler) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.contactService.DeleteContact(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondError(w, http.StatusNotFound, "Contact not found")
			return
		}
		log.Printf("APIHandler: failed to delete contact %s: %v", id, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to delete contact")
		return
	}

	api.RespondNoContent(w)
}

// handleBulkDelete handles POST /api/contacts/bulk-delete
func (h *APIHandler) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req api.BulkDeleteRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}

	count, err := h.dedupService.DeleteContacts(r.Context(), req.ContactIDs)
	if err != nil {
		log.Printf("APIHandler: bulk delete failed after %d deletions: %v", count, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to delete contacts")
		return
	}

	api.RespondJSON(w, http.StatusOK, api.BulkDeleteResponse{Count: count})
}

// handleBulkTag handles POST /api/contacts/bulk-tag
func (h *APIHandler) handleBulkTag(w http.ResponseWriter, r *http.Request) {
	var req api.BulkTagRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}

	updated, err := h.dedupService.TagContacts(r.Context(), req.ContactIDs, req.Tag, dedup.TagAction(req.Action))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	api.RespondJSON(w, http.StatusOK, api.BulkTagResponse{Updated: updated})
}
