package services

import (
	"gorm.io/gorm"

	"github.com/opsdesk/opsdesk/internal/database"
)

// ContactService handles contact record CRUD
type ContactService struct {
	db *gorm.DB
}

// NewContactService creates a new contact service
func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

// ListContacts returns a page of contacts plus the total count
func (s *ContactService) ListContacts(offset, limit int) ([]database.Contact, int64, error) {
	var total int64
	if err := s.db.Model(&database.Contact{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []database.Contact
	err := s.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&contacts).Error
	return contacts, total, err
}

// GetContact returns a contact by ID
func (s *ContactService) GetContact(id string) (*database.Contact, error) {
	var contact database.Contact
	if err := s.db.First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// CreateContact persists a new contact record
func (s *ContactService) CreateContact(contact *database.Contact) error {
	return s.db.Create(contact).Error
}

// UpdateContact applies a partial field update to a contact
func (s *ContactService) UpdateContact(id string, updates map[string]interface{}) (*database.Contact, error) {
	if err := s.db.Model(&database.Contact{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetContact(id)
}

// DeleteContact hard-deletes a contact by ID
func (s *ContactService) DeleteContact(id string) error {
	res := s.db.Where("id = ?", id).Delete(&database.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
