package repository

import (
	"errors"

	"github.com/campusorgs/oms-api/internal/models"
	"gorm.io/gorm"
)

// GormReactionRepository is a GORM implementation of ReactionRepository
type GormReactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &GormReactionRepository{db: db}
}

// Set applies toggle semantics in one transaction: setting the kind that is
// already stored clears it, a different kind replaces it, ReactionNone
// always clears. Returns the kind stored after the call.
func (r *GormReactionRepository) Set(userID, eventID uint64, kind models.ReactionKind) (models.ReactionKind, error) {
	result := models.ReactionNone

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current models.Reaction
		err := tx.Where("user_id = ? AND event_id = ?", userID, eventID).First(&current).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		clearing := kind == models.ReactionNone || (found && current.Kind == kind)

		if found {
			if err := tx.Where("user_id = ? AND event_id = ?", userID, eventID).
				Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
		}

		if clearing {
			return nil
		}

		reaction := models.Reaction{
			UserID:  userID,
			EventID: eventID,
			Kind:    kind,
		}
		if err := tx.Create(&reaction).Error; err != nil {
			return err
		}
		result = kind
		return nil
	})
	if err != nil {
		return models.ReactionNone, err
	}

	return result, nil
}

// Find returns the current reaction for a (user, event) pair
func (r *GormReactionRepository) Find(userID, eventID uint64) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := r.db.Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

// ListByUser lists all reactions of a user
func (r *GormReactionRepository) ListByUser(userID uint64) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := r.db.Where("user_id = ?", userID).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

// ListUserIDsByEvent lists user IDs with the given reaction on an event
func (r *GormReactionRepository) ListUserIDsByEvent(eventID uint64, kind models.ReactionKind) ([]uint64, error) {
	var userIDs []uint64
	if err := r.db.Model(&models.Reaction{}).
		Where("event_id = ? AND kind = ?", eventID, kind).
		Order("created_at ASC").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

// CountsByEvent aggregates reaction counts for an event
func (r *GormReactionRepository) CountsByEvent(eventID uint64) (ReactionCounts, error) {
	type row struct {
		Kind  models.ReactionKind
		Total int64
	}

	var rows []row
	if err := r.db.Model(&models.Reaction{}).
		Select("kind, COUNT(*) AS total").
		Where("event_id = ?", eventID).
		Group("kind").
		Scan(&rows).Error; err != nil {
		return ReactionCounts{}, err
	}

	var counts ReactionCounts
	for _, rw := range rows {
		switch rw.Kind {
		case models.ReactionLike:
			counts.Likes = rw.Total
		case models.ReactionDislike:
			counts.Dislikes = rw.Total
		case models.ReactionInterested:
			counts.Interested = rw.Total
		}
	}
	return counts, nil
}
