package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusorgs/oms-api/internal/dto"
	apierrors "github.com/campusorgs/oms-api/internal/errors"
	"github.com/campusorgs/oms-api/internal/middleware"
	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/services"
)

// MembershipHandler exposes the membership lifecycle over HTTP.
type MembershipHandler struct {
	membershipService *services.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
	}
}

// RequestJoin creates a pending membership request for the authenticated user.
func (h *MembershipHandler) RequestJoin(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	membership, err := h.membershipService.RequestJoin(userID, orgID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMembershipDTO(*membership))
}

// ListPending returns pending requests for the acting organization.
func (h *MembershipHandler) ListPending(c *gin.Context) {
	h.listForOrganization(c, h.membershipService.ListPending)
}

// ListApproved returns approved members of the acting organization.
func (h *MembershipHandler) ListApproved(c *gin.Context) {
	h.listForOrganization(c, h.membershipService.ListApproved)
}

// Approve transitions a pending membership to approved.
func (h *MembershipHandler) Approve(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	membershipID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	membership, err := h.membershipService.Approve(actor, membershipID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMembershipDTO(*membership))
}

// Reject transitions a pending membership to rejected with reason metadata.
func (h *MembershipHandler) Reject(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	membershipID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type RejectRequest struct {
		Reason  string `json:"reason" binding:"required"`
		Details string `json:"details"`
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.membershipService.Reject(actor, membershipID, services.RejectInput{
		Reason:  models.RejectionReason(req.Reason),
		Details: req.Details,
	})
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMembershipDTO(*membership))
}

// Dismiss deletes the caller's rejected membership record, unblocking a new request.
func (h *MembershipHandler) Dismiss(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	membershipID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.membershipService.DismissRejection(userID, membershipID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership record dismissed"})
}

// ListMine returns the memberships of the authenticated user, with the
// organizations and any rejection reasons. ?status= narrows to one state,
// e.g. ?status=rejected for the rejection-reasons view.
func (h *MembershipHandler) ListMine(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var memberships []models.Membership
	var err error
	switch status := models.MembershipStatus(c.Query("status")); status {
	case "":
		memberships, err = h.membershipService.ListForUser(userID)
	case models.MembershipRejected:
		memberships, err = h.membershipService.ListRejected(userID)
	case models.MembershipPending, models.MembershipApproved:
		memberships, err = h.membershipService.ListForUserByStatus(userID, status)
	default:
		apierrors.BadRequest(c, "Invalid status filter")
		return
	}
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"memberships": dto.ToMembershipDTOs(memberships),
	})
}

func (h *MembershipHandler) listForOrganization(c *gin.Context, list func(uint64) ([]models.Membership, error)) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !actor.IsOrganizationActor(orgID) {
		apierrors.Forbidden(c, "")
		return
	}

	memberships, err := list(orgID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"memberships": dto.ToMembershipDTOs(memberships),
	})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid identifier")
		return 0, false
	}
	return id, true
}

func respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAlreadyRequested):
		apierrors.AlreadyRequested(c, "")
	case errors.Is(err, services.ErrMembershipNotFound),
		errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotOrganizationActor),
		errors.Is(err, services.ErrNotMembershipOwner):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrMembershipDecided),
		errors.Is(err, services.ErrMembershipNotRejected):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidRejectionReason),
		errors.Is(err, services.ErrRejectionDetailsNeeded):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
