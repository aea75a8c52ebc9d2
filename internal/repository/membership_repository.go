package repository

import (
	"errors"

	"github.com/campusorgs/oms-api/internal/models"
	"gorm.io/gorm"
)

// ErrMembershipExists is returned when a membership record already exists for
// the (user, organization) pair.
var ErrMembershipExists = errors.New("membership repository: record already exists for user and organization")

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// CreateIfAbsent creates the membership inside a transaction guarded by the
// existence check. The composite unique index on (user_id, organization_id)
// backs the check, so two concurrent requests cannot both commit; the race
// loser surfaces as ErrMembershipExists too.
func (r *GormMembershipRepository) CreateIfAbsent(membership *models.Membership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Membership
		err := tx.Where("user_id = ? AND organization_id = ?",
			membership.UserID, membership.OrganizationID).
			First(&existing).Error
		if err == nil {
			return ErrMembershipExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(membership).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrMembershipExists
			}
			return err
		}
		return nil
	})
}

// FindByID finds a membership by ID
func (r *GormMembershipRepository) FindByID(id uint64) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.Preload("User").Preload("Organization").First(&membership, id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindByUserAndOrganization finds the membership for a (user, organization) pair
func (r *GormMembershipRepository) FindByUserAndOrganization(userID, organizationID uint64) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// Update updates a membership
func (r *GormMembershipRepository) Update(membership *models.Membership) error {
	return r.db.Save(membership).Error
}

// Delete removes a membership record
func (r *GormMembershipRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Membership{}, id).Error
}

// ListByOrganization lists memberships of an organization with the given status
func (r *GormMembershipRepository) ListByOrganization(organizationID uint64, status models.MembershipStatus) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.Preload("User").
		Where("organization_id = ? AND status = ?", organizationID, status).
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByUser lists all memberships of a user
func (r *GormMembershipRepository) ListByUser(userID uint64) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByUserAndStatus lists a user's memberships with the given status
func (r *GormMembershipRepository) ListByUserAndStatus(userID uint64, status models.MembershipStatus) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.Preload("Organization").
		Where("user_id = ? AND status = ?", userID, status).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
