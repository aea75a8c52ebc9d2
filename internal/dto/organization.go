package dto

import (
	"time"

	"github.com/campusorgs/oms-api/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToOrganizationDTO converts an organization to DTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		LogoURL:     org.LogoURL,
		Tags:        org.TagList(),
		CreatedAt:   org.CreatedAt,
	}
}

// OrganizationListResponse represents a paginated organization directory
type OrganizationListResponse struct {
	Organizations []OrganizationDTO `json:"organizations"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalCount    int64             `json:"total_count"`
}

// ToOrganizationListResponse converts organizations to a paginated response
func ToOrganizationListResponse(orgs []models.Organization, page, pageSize int, total int64) OrganizationListResponse {
	dtos := make([]OrganizationDTO, len(orgs))
	for i, org := range orgs {
		dtos[i] = ToOrganizationDTO(org)
	}
	return OrganizationListResponse{
		Organizations: dtos,
		Page:          page,
		PageSize:      pageSize,
		TotalCount:    total,
	}
}
