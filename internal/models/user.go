package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember       UserRole = "member"
	RoleOrganization UserRole = "organization"
	RoleGuest        UserRole = "guest"
)

type User struct {
	ID           uint64   `gorm:"primarykey" json:"id"`
	Email        string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string   `gorm:"type:varchar(255);not null" json:"full_name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	// Set only for organization-role users, at registration.
	OrganizationID *uint64        `gorm:"index" json:"organization_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Memberships  []Membership  `gorm:"foreignKey:UserID" json:"-"`
	Reactions    []Reaction    `gorm:"foreignKey:UserID" json:"-"`
}

// IsOrganizationActor reports whether the user can act on behalf of the organization.
func (u *User) IsOrganizationActor(organizationID uint64) bool {
	return u.Role == RoleOrganization && u.OrganizationID != nil && *u.OrganizationID == organizationID
}
