package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONB is a custom type for PostgreSQL JSONB columns
type JSONB map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("type assertion to []byte failed")
		}
	}
	return json.Unmarshal(bytes, j)
}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// StringList is a JSON-encoded list of strings stored in a JSONB column.
// Used for contact tags and for the contact ID sets on duplicate reports.
type StringList []string

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("type assertion to []byte failed")
		}
	}
	return json.Unmarshal(bytes, l)
}

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Contains reports whether the list holds the given value
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// WithAdded returns the list with v appended if not already present (set-union)
func (l StringList) WithAdded(v string) StringList {
	if l.Contains(v) {
		return l
	}
	return append(l, v)
}

// WithRemoved returns the list with every occurrence of v removed (set-difference)
func (l StringList) WithRemoved(v string) StringList {
	out := make(StringList, 0, len(l))
	for _, s := range l {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

// Contact represents a CRM contact record.
// Contacts are created by any data-entry path and hard-deleted when absorbed
// as a non-canonical duplicate or when explicitly bulk-deleted.
type Contact struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string     `gorm:"type:varchar(255)" json:"name"`
	Email      string     `gorm:"type:varchar(255);index" json:"email"`
	Phone      string     `gorm:"type:varchar(64);index" json:"phone"`
	Tags       StringList `gorm:"type:jsonb" json:"tags"`
	CustomData JSONB      `gorm:"type:jsonb" json:"custom_data"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeCreate hook assigns the store-side opaque ID
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// SlackSettings stores the optional ops-notification configuration
type SlackSettings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BotToken  string    `gorm:"type:text" json:"bot_token"`
	Channel   string    `gorm:"type:varchar(255)" json:"channel"`
	Enabled   bool      `gorm:"default:false" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsConfigured returns true if the required Slack fields are set
func (s *SlackSettings) IsConfigured() bool {
	return s.BotToken != "" && s.Channel != ""
}

// IsActive returns true if notifications are enabled and configured
func (s *SlackSettings) IsActive() bool {
	return s.Enabled && s.IsConfigured()
}

// TableName overrides for explicit table naming
func (Contact) TableName() string {
	return "contacts"
}

func (SlackSettings) TableName() string {
	return "slack_settings"
}
