package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEventNameRequired  = errors.New("event name is required")
	ErrEventDateRequired  = errors.New("event date is required")
	ErrInvalidEventStatus = errors.New("event status must be Upcoming, Ongoing or Completed")
	ErrNegativeEventPrice = errors.New("event price cannot be negative")
	ErrNotEventOrganizer  = errors.New("user is not authorized to manage this event")
)

// EventService handles event creation and listing for organizations.
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
	}
}

// CreateEventInput represents input for creating an event.
type CreateEventInput struct {
	Name        string
	Description string
	Date        time.Time
	Location    string
	PriceCents  int64
	Free        bool
	OpenForAll  bool
}

// CreateEvent creates an event owned by the actor's organization. The actor
// must be an organization-role user.
func (s *EventService) CreateEvent(actor *models.User, input CreateEventInput) (*models.Event, error) {
	if actor.Role != models.RoleOrganization || actor.OrganizationID == nil {
		return nil, ErrNotEventOrganizer
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEventNameRequired
	}
	if input.Date.IsZero() {
		return nil, ErrEventDateRequired
	}

	price := input.PriceCents
	if input.Free {
		price = 0
	}
	if price < 0 {
		return nil, ErrNegativeEventPrice
	}

	event := &models.Event{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Date:           input.Date,
		Location:       input.Location,
		PriceCents:     price,
		OpenForAll:     input.OpenForAll,
		Status:         models.EventUpcoming,
		OrganizationID: *actor.OrganizationID,
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// UpdateEventInput represents input for updating an event. Nil fields are untouched.
type UpdateEventInput struct {
	Name        *string
	Description *string
	Date        *time.Time
	Location    *string
	PriceCents  *int64
	OpenForAll  *bool
	Status      *models.EventStatus
}

// UpdateEvent applies the edits to an event owned by the actor's organization.
func (s *EventService) UpdateEvent(actor *models.User, eventID uint64, input UpdateEventInput) (*models.Event, error) {
	event, err := s.EventForOrganizer(actor, eventID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrEventNameRequired
		}
		event.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, ErrNegativeEventPrice
		}
		event.PriceCents = *input.PriceCents
	}
	if input.OpenForAll != nil {
		event.OpenForAll = *input.OpenForAll
	}
	if input.Status != nil {
		switch *input.Status {
		case models.EventUpcoming, models.EventOngoing, models.EventCompleted:
			event.Status = *input.Status
		default:
			return nil, ErrInvalidEventStatus
		}
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

// EventForOrganizer loads an event and verifies the actor's organization owns
// it. Handlers call it before any side effect, so an upload for an event of
// another organization is refused before anything reaches the blob store.
func (s *EventService) EventForOrganizer(actor *models.User, eventID uint64) (*models.Event, error) {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if !actor.IsOrganizationActor(event.OrganizationID) {
		return nil, ErrNotEventOrganizer
	}
	return event, nil
}

// GetEvent retrieves an event by ID.
func (s *EventService) GetEvent(eventID uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// ListEvents retrieves events matching the filter.
func (s *EventService) ListEvents(filter repository.EventFilter) ([]models.Event, int64, error) {
	events, total, err := s.eventRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	return events, total, nil
}

// AttachImage stores an uploaded image URL on an event owned by the actor's organization.
func (s *EventService) AttachImage(actor *models.User, eventID uint64, url string) (*models.EventImage, error) {
	event, err := s.EventForOrganizer(actor, eventID)
	if err != nil {
		return nil, err
	}

	image := &models.EventImage{
		EventID: event.ID,
		URL:     url,
	}
	if err := s.eventRepo.AddImage(image); err != nil {
		return nil, fmt.Errorf("failed to attach image: %w", err)
	}
	return image, nil
}
