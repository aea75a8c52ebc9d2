package models

import (
	"time"

	"gorm.io/gorm"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "Upcoming"
	EventOngoing   EventStatus = "Ongoing"
	EventCompleted EventStatus = "Completed"
)

type Event struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Date           time.Time      `gorm:"not null;index" json:"date"`
	Location       string         `gorm:"type:varchar(255)" json:"location"`
	PriceCents     int64          `gorm:"not null;default:0" json:"price_cents"`
	OpenForAll     bool           `gorm:"not null;default:false" json:"open_for_all"`
	Status         EventStatus    `gorm:"type:varchar(20);not null;default:'Upcoming'" json:"status"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Images       []EventImage `gorm:"foreignKey:EventID" json:"images,omitempty"`
	Reactions    []Reaction   `gorm:"foreignKey:EventID" json:"-"`
}

// IsFree reports whether attendance costs nothing.
func (e *Event) IsFree() bool {
	return e.PriceCents == 0
}

// EffectiveStatus returns the stored status, overridden to Completed once the
// event date has passed. The derived value is never written back; the stored
// field keeps the organizer's intent.
func (e *Event) EffectiveStatus(now time.Time) EventStatus {
	if e.Date.Before(now) {
		return EventCompleted
	}
	return e.Status
}

// EventImage holds an uploaded image reference for an event. The URL is an
// opaque blob-store location.
type EventImage struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	EventID   uint64    `gorm:"not null;index" json:"event_id"`
	URL       string    `gorm:"type:varchar(512);not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
