package models

import "time"

type ReactionKind string

const (
	ReactionLike       ReactionKind = "like"
	ReactionDislike    ReactionKind = "dislike"
	ReactionInterested ReactionKind = "interested"
	// ReactionNone is never stored; setting it clears the row.
	ReactionNone ReactionKind = "none"
)

// ValidReactionKind reports whether kind can be stored.
func ValidReactionKind(kind ReactionKind) bool {
	switch kind {
	case ReactionLike, ReactionDislike, ReactionInterested:
		return true
	}
	return false
}

// Reaction is the single source of truth for a user's marking on an event.
// The composite primary key makes "at most one reaction per (user, event)"
// hold by construction; the per-user and per-event sets are projections.
type Reaction struct {
	UserID    uint64       `gorm:"primarykey" json:"user_id"`
	EventID   uint64       `gorm:"primarykey" json:"event_id"`
	Kind      ReactionKind `gorm:"type:varchar(20);not null" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`

	// Relations
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}
