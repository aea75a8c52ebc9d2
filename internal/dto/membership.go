package dto

import (
	"time"

	"github.com/campusorgs/oms-api/internal/models"
)

// MembershipDTO represents a membership in API responses
type MembershipDTO struct {
	ID               uint64                  `json:"id"`
	UserID           uint64                  `json:"user_id"`
	OrganizationID   uint64                  `json:"organization_id"`
	Status           models.MembershipStatus `json:"status"`
	JoinedAt         time.Time               `json:"joined_at"`
	ApprovalDate     *time.Time              `json:"approval_date,omitempty"`
	RejectionReason  models.RejectionReason  `json:"rejection_reason,omitempty"`
	RejectionDetails string                  `json:"rejection_details,omitempty"`
	User             *UserDTO                `json:"user,omitempty"`
	Organization     *OrganizationDTO        `json:"organization,omitempty"`
}

// ToMembershipDTO converts a membership to DTO. Related records are included
// only when they were preloaded.
func ToMembershipDTO(m models.Membership) MembershipDTO {
	out := MembershipDTO{
		ID:               m.ID,
		UserID:           m.UserID,
		OrganizationID:   m.OrganizationID,
		Status:           m.Status,
		JoinedAt:         m.JoinedAt,
		ApprovalDate:     m.ApprovalDate,
		RejectionReason:  m.RejectionReason,
		RejectionDetails: m.RejectionDetails,
	}
	if m.User.ID != 0 {
		user := ToUserDTO(m.User)
		out.User = &user
	}
	if m.Organization.ID != 0 {
		org := ToOrganizationDTO(m.Organization)
		out.Organization = &org
	}
	return out
}

// ToMembershipDTOs converts a membership slice to DTOs
func ToMembershipDTOs(memberships []models.Membership) []MembershipDTO {
	dtos := make([]MembershipDTO, len(memberships))
	for i, m := range memberships {
		dtos[i] = ToMembershipDTO(m)
	}
	return dtos
}
