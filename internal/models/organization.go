package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	LogoURL     string         `gorm:"type:varchar(512)" json:"logo_url,omitempty"`
	Tags        string         `gorm:"type:varchar(512)" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships []Membership `gorm:"foreignKey:OrganizationID" json:"-"`
	Events      []Event      `gorm:"foreignKey:OrganizationID" json:"-"`
	Tasks       []Task       `gorm:"foreignKey:OrganizationID" json:"-"`
}

// TagList splits the stored comma-joined tag string.
func (o *Organization) TagList() []string {
	if o.Tags == "" {
		return nil
	}
	return strings.Split(o.Tags, ",")
}

// SetTags stores the tag labels as a comma-joined string, dropping blanks.
func (o *Organization) SetTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	o.Tags = strings.Join(cleaned, ",")
}
