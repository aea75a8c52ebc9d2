package repository

import (
	"github.com/campusorgs/oms-api/internal/database"
	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/utils"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// FindByID finds an event by ID with images preloaded
func (r *GormEventRepository) FindByID(id uint64) (*models.Event, error) {
	var event models.Event
	if err := r.db.Preload("Images").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Update updates an event
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// List retrieves events matching the filter
func (r *GormEventRepository) List(filter EventFilter) ([]models.Event, int64, error) {
	query := r.db.Model(&models.Event{})

	if filter.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.OpenForAllOnly {
		query = query.Where("open_for_all = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}
	if err := query.Preload("Images").Order("date ASC").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// ListRankedByLikes retrieves events ordered by descending like count.
// Ties fall back to event ID, which preserves creation order.
func (r *GormEventRepository) ListRankedByLikes(organizationID *uint64, limit int) ([]models.Event, error) {
	query := r.db.Model(&models.Event{}).
		Select("events.*, COUNT(reactions.user_id) AS like_count").
		Joins("LEFT JOIN reactions ON reactions.event_id = events.id AND reactions.kind = ?", models.ReactionLike).
		Group("events.id").
		Order("like_count DESC, events.id ASC")

	if organizationID != nil {
		query = query.Where("events.organization_id = ?", *organizationID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// AddImage attaches an uploaded image reference to an event
func (r *GormEventRepository) AddImage(image *models.EventImage) error {
	return r.db.Create(image).Error
}
