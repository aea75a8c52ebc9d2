package services

import (
	"errors"
	"fmt"

	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
	"gorm.io/gorm"
)

// OrganizationService provides profile operations on organizations.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// GetOrganization retrieves an organization by ID.
func (s *OrganizationService) GetOrganization(orgID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// ListOrganizations returns the organization directory with pagination.
func (s *OrganizationService) ListOrganizations(page, pageSize int) ([]models.Organization, int64, error) {
	orgs, total, err := s.orgRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, total, nil
}

// OrganizationForActor loads an organization after verifying the actor acts
// for it. Handlers call it before any side effect, so a logo upload for
// another organization is refused before anything reaches the blob store.
func (s *OrganizationService) OrganizationForActor(actor *models.User, orgID uint64) (*models.Organization, error) {
	if !actor.IsOrganizationActor(orgID) {
		return nil, ErrNotOrganizationActor
	}
	return s.GetOrganization(orgID)
}

// UpdateProfileInput represents editable organization profile fields. Nil
// fields are untouched.
type UpdateProfileInput struct {
	Description *string
	Tags        []string
}

// UpdateProfile applies profile edits to the actor's organization.
func (s *OrganizationService) UpdateProfile(actor *models.User, orgID uint64, input UpdateProfileInput) (*models.Organization, error) {
	org, err := s.OrganizationForActor(actor, orgID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		org.Description = *input.Description
	}
	if input.Tags != nil {
		org.SetTags(input.Tags)
	}

	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// SetLogo stores the uploaded logo URL on the actor's organization.
func (s *OrganizationService) SetLogo(actor *models.User, orgID uint64, url string) (*models.Organization, error) {
	org, err := s.OrganizationForActor(actor, orgID)
	if err != nil {
		return nil, err
	}

	org.LogoURL = url
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization logo: %w", err)
	}

	return org, nil
}
