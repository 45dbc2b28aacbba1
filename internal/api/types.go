package api

import (
	"github.com/opsdesk/opsdesk/internal/database"
)

// ========== Contact Types ==========

// CreateContactRequest is the request body for POST /api/contacts.
type CreateContactRequest struct {
	Name       string         `json:"name" validate:"omitempty,max=255"`
	Email      string         `json:"email" validate:"omitempty,email,max=255"`
	Phone      string         `json:"phone" validate:"omitempty,max=64"`
	Tags       []string       `json:"tags"`
	CustomData database.JSONB `json:"custom_data"`
}

// UpdateContactRequest is the request body for PUT /api/contacts/:id.
// Pointer fields distinguish "not sent" from "set to empty".
type UpdateContactRequest struct {
	Name       *string        `json:"name" validate:"omitempty,max=255"`
	Email      *string        `json:"email" validate:"omitempty,max=255"`
	Phone      *string        `json:"phone" validate:"omitempty,max=64"`
	Tags       *[]string      `json:"tags"`
	CustomData database.JSONB `json:"custom_data"`
}

// BulkDeleteRequest is the request body for POST /api/contacts/bulk-delete.
type BulkDeleteRequest struct {
	ContactIDs []string `json:"contact_ids" validate:"required,min=1"`
}

// BulkDeleteResponse reports how many contacts were removed.
type BulkDeleteResponse struct {
	Count int64 `json:"count"`
}

// BulkTagRequest is the request body for POST /api/contacts/bulk-tag.
type BulkTagRequest struct {
	ContactIDs []string `json:"contact_ids" validate:"required,min=1"`
	Tag        string   `json:"tag" validate:"required,min=1,max=64"`
	Action     string   `json:"action" validate:"required,oneof=add remove"`
}

// BulkTagResponse reports how many contacts were updated.
type BulkTagResponse struct {
	Updated int `json:"updated"`
}

// ========== Duplicate Types ==========

// MergeManyRequest is the request body for POST /api/duplicates/merge.
type MergeManyRequest struct {
	ReportIDs []string `json:"report_ids" validate:"required,min=1"`
}

// CountResponse wraps a single count value.
type CountResponse struct {
	Count int64 `json:"count"`
}

// ========== Pagination Envelope ==========

// PaginationMeta describes the current page of a paginated response.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse is the envelope for paginated list endpoints.
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}
