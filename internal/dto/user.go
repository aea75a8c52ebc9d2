package dto

import (
	"github.com/campusorgs/oms-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             uint64          `json:"id"`
	Email          string          `json:"email"`
	FullName       string          `json:"full_name"`
	Role           models.UserRole `json:"role"`
	OrganizationID *uint64         `json:"organization_id,omitempty"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	}
}
