package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusorgs/oms-api/internal/constants"
	"github.com/campusorgs/oms-api/internal/dto"
	apierrors "github.com/campusorgs/oms-api/internal/errors"
	"github.com/campusorgs/oms-api/internal/middleware"
	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
	"github.com/campusorgs/oms-api/internal/services"
	"github.com/campusorgs/oms-api/internal/storage"
	"github.com/campusorgs/oms-api/internal/utils"
)

// EventHandler exposes events and event engagement over HTTP.
type EventHandler struct {
	eventService      *services.EventService
	engagementService *services.EngagementService
	uploads           *storage.S3
	logger            *zap.Logger
}

// NewEventHandler creates a new EventHandler. uploads may be nil, in which
// case image upload endpoints report the blob store as unavailable.
func NewEventHandler(eventService *services.EventService, engagementService *services.EngagementService, uploads *storage.S3, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService:      eventService,
		engagementService: engagementService,
		uploads:           uploads,
		logger:            logger,
	}
}

// CreateEvent creates an event for the acting organization.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateEventRequest struct {
		Name        string    `json:"name" binding:"required"`
		Description string    `json:"description"`
		Date        time.Time `json:"date" binding:"required"`
		Location    string    `json:"location"`
		PriceCents  int64     `json:"price_cents"`
		Free        bool      `json:"free"`
		OpenForAll  bool      `json:"open_for_all"`
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.CreateEvent(actor, services.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		PriceCents:  req.PriceCents,
		Free:        req.Free,
		OpenForAll:  req.OpenForAll,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}

	response, err := h.eventDTO(c, *event)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UpdateEvent edits an event owned by the acting organization.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateEventRequest struct {
		Name        *string             `json:"name"`
		Description *string             `json:"description"`
		Date        *time.Time          `json:"date"`
		Location    *string             `json:"location"`
		PriceCents  *int64              `json:"price_cents"`
		OpenForAll  *bool               `json:"open_for_all"`
		Status      *models.EventStatus `json:"status"`
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.UpdateEvent(actor, eventID, services.UpdateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		PriceCents:  req.PriceCents,
		OpenForAll:  req.OpenForAll,
		Status:      req.Status,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}

	response, err := h.eventDTO(c, *event)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListEvents returns events. ?org= filters by owning organization, ?open=true
// restricts to open-for-all events, ?top=N returns the like-ranked view
// (?top=true for the default size). Guests only ever see open-for-all events.
func (h *EventHandler) ListEvents(c *gin.Context) {
	if topStr := c.Query("top"); topStr != "" {
		h.listTop(c, topStr)
		return
	}

	filter := repository.EventFilter{}
	if orgStr := c.Query("org"); orgStr != "" {
		orgID, err := strconv.ParseUint(orgStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization filter")
			return
		}
		filter.OrganizationID = &orgID
	}
	filter.OpenForAllOnly = c.Query("open") == "true" || viewerRole(c) == models.RoleGuest

	params := utils.GetPaginationParams(c)
	filter.Page = params.Page
	filter.PageSize = params.Limit

	events, total, err := h.eventService.ListEvents(filter)
	if err != nil {
		respondEventError(c, err)
		return
	}

	dtos := make([]dto.EventDTO, len(events))
	for i, event := range events {
		if dtos[i], err = h.eventDTO(c, event); err != nil {
			respondEventError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"events": dtos,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetEvent returns one event with reaction counts.
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(eventID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	response, err := h.eventDTO(c, *event)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SetReaction applies the authenticated user's reaction to an event.
// Repeating the current reaction toggles it off.
func (h *EventHandler) SetReaction(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type ReactionRequest struct {
		Reaction string `json:"reaction" binding:"required"`
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	stored, err := h.engagementService.SetReaction(userID, eventID, models.ReactionKind(req.Reaction))
	if err != nil {
		respondEventError(c, err)
		return
	}

	counts, err := h.engagementService.CountsForEvent(eventID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reaction":  stored,
		"reactions": counts,
	})
}

// MyReactions returns the authenticated user's three reaction sets.
func (h *EventHandler) MyReactions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	sets, err := h.engagementService.ReactionsForUser(userID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked_events":      emptyIfNil(sets.Liked),
		"disliked_events":   emptyIfNil(sets.Disliked),
		"interested_events": emptyIfNil(sets.Interested),
	})
}

// UploadImage streams an event image to the blob store and records its URL.
func (h *EventHandler) UploadImage(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Ownership is checked before the object is written to the blob store.
	if _, err := h.eventService.EventForOrganizer(actor, eventID); err != nil {
		respondEventError(c, err)
		return
	}

	if h.uploads == nil {
		apierrors.ExternalStoreError(c, "Blob store is not configured")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		apierrors.BadRequest(c, "Missing image file")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxImageSize {
		apierrors.BadRequest(c, "Image too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidImageType(contentType) {
		apierrors.BadRequest(c, "Unsupported image type")
		return
	}

	key := storage.EventImageKey(eventID, contentType)
	url, err := h.uploads.Upload(c.Request.Context(), key, contentType, file)
	if err != nil {
		h.logger.Error("event image upload failed", zap.Uint64("event_id", eventID), zap.Error(err))
		apierrors.ExternalStoreError(c, "")
		return
	}

	image, err := h.eventService.AttachImage(actor, eventID, url)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *EventHandler) listTop(c *gin.Context, topStr string) {
	limit := constants.DefaultTopEvents
	if topStr != "true" {
		var err error
		limit, err = strconv.Atoi(topStr)
		if err != nil || limit < 1 {
			apierrors.BadRequest(c, "Invalid top parameter")
			return
		}
	}

	var orgID *uint64
	if orgStr := c.Query("org"); orgStr != "" {
		id, err := strconv.ParseUint(orgStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization filter")
			return
		}
		orgID = &id
	}

	events, err := h.engagementService.RankByLikeCount(orgID, limit)
	if err != nil {
		respondEventError(c, err)
		return
	}

	dtos := make([]dto.EventDTO, len(events))
	for i, event := range events {
		if dtos[i], err = h.eventDTO(c, event); err != nil {
			respondEventError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"events": dtos})
}

// eventDTO builds the response shape, attaching counts and, when a session
// exists, the caller's own reaction.
func (h *EventHandler) eventDTO(c *gin.Context, event models.Event) (dto.EventDTO, error) {
	counts, err := h.engagementService.CountsForEvent(event.ID)
	if err != nil {
		return dto.EventDTO{}, err
	}

	yourReaction := models.ReactionNone
	if userID, exists := middleware.GetUserID(c); exists {
		yourReaction, err = h.engagementService.UserReaction(userID, event.ID)
		if err != nil {
			return dto.EventDTO{}, err
		}
	}

	return dto.ToEventDTO(event, time.Now(), counts, yourReaction), nil
}

// viewerRole derives the caller's effective role. Callers without a session
// browse as guests.
func viewerRole(c *gin.Context) models.UserRole {
	if user, exists := middleware.GetCurrentUser(c); exists {
		return user.Role
	}
	if _, exists := middleware.GetUserID(c); exists {
		return models.RoleMember
	}
	return models.RoleGuest
}

func emptyIfNil(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}

func respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotEventOrganizer):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrEventNameRequired),
		errors.Is(err, services.ErrEventDateRequired),
		errors.Is(err, services.ErrInvalidEventStatus),
		errors.Is(err, services.ErrNegativeEventPrice),
		errors.Is(err, services.ErrInvalidReaction):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
