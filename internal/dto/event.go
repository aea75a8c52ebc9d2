package dto

import (
	"time"

	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
)

// EventDTO represents an event in API responses. Status carries the derived
// effective status; counts come from the reaction projection.
type EventDTO struct {
	ID             uint64                    `json:"id"`
	Name           string                    `json:"name"`
	Description    string                    `json:"description"`
	Date           time.Time                 `json:"date"`
	Location       string                    `json:"location"`
	PriceCents     int64                     `json:"price_cents"`
	Free           bool                      `json:"free"`
	OpenForAll     bool                      `json:"open_for_all"`
	Status         models.EventStatus        `json:"status"`
	OrganizationID uint64                    `json:"organization_id"`
	Images         []string                  `json:"images,omitempty"`
	Reactions      repository.ReactionCounts `json:"reactions"`
	// YourReaction is present only for authenticated listings.
	YourReaction models.ReactionKind `json:"your_reaction,omitempty"`
}

// ToEventDTO converts an event to DTO with derived status and counts.
func ToEventDTO(event models.Event, now time.Time, counts repository.ReactionCounts, yourReaction models.ReactionKind) EventDTO {
	images := make([]string, len(event.Images))
	for i, img := range event.Images {
		images[i] = img.URL
	}

	out := EventDTO{
		ID:             event.ID,
		Name:           event.Name,
		Description:    event.Description,
		Date:           event.Date,
		Location:       event.Location,
		PriceCents:     event.PriceCents,
		Free:           event.IsFree(),
		OpenForAll:     event.OpenForAll,
		Status:         event.EffectiveStatus(now),
		OrganizationID: event.OrganizationID,
		Images:         images,
		Reactions:      counts,
	}
	if yourReaction != models.ReactionNone {
		out.YourReaction = yourReaction
	}
	return out
}
