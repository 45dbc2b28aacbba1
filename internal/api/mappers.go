package api

import "github.com/opsdesk/opsdesk/internal/database"

// NewContact builds a Contact record from a create request.
func NewContact(req CreateContactRequest) database.Contact {
	return database.Contact{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Tags:       database.StringList(req.Tags),
		CustomData: req.CustomData,
	}
}

// ContactUpdates converts an UpdateContactRequest into a column-update map
// containing only the fields that were actually sent.
func ContactUpdates(req UpdateContactRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Tags != nil {
		updates["tags"] = database.StringList(*req.Tags)
	}
	if req.CustomData != nil {
		updates["custom_data"] = req.CustomData
	}
	return updates
}
