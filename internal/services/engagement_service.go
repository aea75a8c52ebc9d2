package services

import (
	"errors"
	"fmt"

	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidReaction = errors.New("reaction must be like, dislike, interested or none")
)

// UserReactionSets groups a user's event IDs per reaction kind.
type UserReactionSets struct {
	Liked      []uint64
	Disliked   []uint64
	Interested []uint64
}

// Contains reports whether eventID appears in any of the three sets.
func (s UserReactionSets) Contains(eventID uint64) bool {
	for _, set := range [][]uint64{s.Liked, s.Disliked, s.Interested} {
		for _, id := range set {
			if id == eventID {
				return true
			}
		}
	}
	return false
}

// EngagementService maintains the mutually exclusive reaction relationship
// between users and events. A single reaction row per (user, event) is the
// source of truth; the user-side and event-side sets are projections over it.
type EngagementService struct {
	reactionRepo repository.ReactionRepository
	eventRepo    repository.EventRepository
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(reactionRepo repository.ReactionRepository, eventRepo repository.EventRepository) *EngagementService {
	return &EngagementService{
		reactionRepo: reactionRepo,
		eventRepo:    eventRepo,
	}
}

// SetReaction applies toggle semantics: repeating the currently stored kind
// clears it, a different kind switches directly, none always clears. Returns
// the kind stored after the call.
func (s *EngagementService) SetReaction(userID, eventID uint64, kind models.ReactionKind) (models.ReactionKind, error) {
	if kind != models.ReactionNone && !models.ValidReactionKind(kind) {
		return models.ReactionNone, ErrInvalidReaction
	}

	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ReactionNone, ErrEventNotFound
		}
		return models.ReactionNone, fmt.Errorf("failed to find event: %w", err)
	}

	stored, err := s.reactionRepo.Set(userID, eventID, kind)
	if err != nil {
		return models.ReactionNone, fmt.Errorf("failed to set reaction: %w", err)
	}

	return stored, nil
}

// ReactionsForUser projects a user's reactions into the three event ID sets.
func (s *EngagementService) ReactionsForUser(userID uint64) (UserReactionSets, error) {
	reactions, err := s.reactionRepo.ListByUser(userID)
	if err != nil {
		return UserReactionSets{}, fmt.Errorf("failed to list reactions: %w", err)
	}

	var sets UserReactionSets
	for _, reaction := range reactions {
		switch reaction.Kind {
		case models.ReactionLike:
			sets.Liked = append(sets.Liked, reaction.EventID)
		case models.ReactionDislike:
			sets.Disliked = append(sets.Disliked, reaction.EventID)
		case models.ReactionInterested:
			sets.Interested = append(sets.Interested, reaction.EventID)
		}
	}
	return sets, nil
}

// UserReaction returns the kind stored for a (user, event) pair, or none.
func (s *EngagementService) UserReaction(userID, eventID uint64) (models.ReactionKind, error) {
	reaction, err := s.reactionRepo.Find(userID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ReactionNone, nil
		}
		return models.ReactionNone, fmt.Errorf("failed to find reaction: %w", err)
	}
	return reaction.Kind, nil
}

// CountsForEvent returns the aggregate reaction counts of an event.
func (s *EngagementService) CountsForEvent(eventID uint64) (repository.ReactionCounts, error) {
	counts, err := s.reactionRepo.CountsByEvent(eventID)
	if err != nil {
		return repository.ReactionCounts{}, fmt.Errorf("failed to count reactions: %w", err)
	}
	return counts, nil
}

// UsersForEvent returns the user IDs holding the given reaction on an event.
func (s *EngagementService) UsersForEvent(eventID uint64, kind models.ReactionKind) ([]uint64, error) {
	if !models.ValidReactionKind(kind) {
		return nil, ErrInvalidReaction
	}
	userIDs, err := s.reactionRepo.ListUserIDsByEvent(eventID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list reacting users: %w", err)
	}
	return userIDs, nil
}

// RankByLikeCount returns events ordered by descending like count, ties by
// creation order, recomputed from the current reaction rows on every call.
func (s *EngagementService) RankByLikeCount(organizationID *uint64, limit int) ([]models.Event, error) {
	events, err := s.eventRepo.ListRankedByLikes(organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank events: %w", err)
	}
	return events, nil
}
