package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusorgs/oms-api/internal/dto"
	apierrors "github.com/campusorgs/oms-api/internal/errors"
	"github.com/campusorgs/oms-api/internal/middleware"
	"github.com/campusorgs/oms-api/internal/services"
	"github.com/campusorgs/oms-api/internal/storage"
	"github.com/campusorgs/oms-api/internal/utils"
)

// OrganizationHandler exposes the organization directory and profile settings.
type OrganizationHandler struct {
	orgService *services.OrganizationService
	uploads    *storage.S3
	logger     *zap.Logger
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService, uploads *storage.S3, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
		uploads:    uploads,
		logger:     logger,
	}
}

// ListOrganizations returns the paginated organization directory.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orgs, total, err := h.orgService.ListOrganizations(params.Page, params.Limit)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationListResponse(orgs, params.Page, params.Limit, total))
}

// GetOrganization returns one organization profile.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	org, err := h.orgService.GetOrganization(orgID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// UpdateOrganization edits the acting organization's profile.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateOrgRequest struct {
		Description *string  `json:"description"`
		Tags        []string `json:"tags"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.UpdateProfile(actor, orgID, services.UpdateProfileInput{
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// UploadLogo streams the organization logo to the blob store and records its URL.
func (h *OrganizationHandler) UploadLogo(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Ownership is checked before the object is written to the blob store.
	if _, err := h.orgService.OrganizationForActor(actor, orgID); err != nil {
		respondOrganizationError(c, err)
		return
	}

	if h.uploads == nil {
		apierrors.ExternalStoreError(c, "Blob store is not configured")
		return
	}

	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		apierrors.BadRequest(c, "Missing logo file")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxImageSize {
		apierrors.BadRequest(c, "Logo too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidImageType(contentType) {
		apierrors.BadRequest(c, "Unsupported image type")
		return
	}

	key := storage.LogoKey(orgID, contentType)
	url, err := h.uploads.Upload(c.Request.Context(), key, contentType, file)
	if err != nil {
		h.logger.Error("logo upload failed", zap.Uint64("organization_id", orgID), zap.Error(err))
		apierrors.ExternalStoreError(c, "")
		return
	}

	org, err := h.orgService.SetLogo(actor, orgID, url)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotOrganizationActor):
		apierrors.Forbidden(c, "")
	default:
		apierrors.InternalError(c, "")
	}
}
