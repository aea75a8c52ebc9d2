package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAlreadyRequested       = errors.New("a membership request already exists for this organization")
	ErrMembershipNotFound     = errors.New("membership not found")
	ErrOrganizationNotFound   = errors.New("organization not found")
	ErrNotOrganizationActor   = errors.New("user is not authorized to act for this organization")
	ErrMembershipDecided      = errors.New("membership has already been decided")
	ErrInvalidRejectionReason = errors.New("rejection reason is not one of the allowed values")
	ErrRejectionDetailsNeeded = errors.New("rejection details are required when reason is other")
	ErrNotMembershipOwner     = errors.New("membership belongs to a different user")
	ErrMembershipNotRejected  = errors.New("only rejected memberships can be dismissed")
)

// MembershipService enforces the join-request state machine between users
// and organizations: none -> pending -> approved | rejected (terminal).
type MembershipService struct {
	membershipRepo repository.MembershipRepository
	orgRepo        repository.OrganizationRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(membershipRepo repository.MembershipRepository, orgRepo repository.OrganizationRepository) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		orgRepo:        orgRepo,
	}
}

// RequestJoin creates a pending membership for the user. Any existing record
// for the pair, whatever its status, blocks a new request; a rejected record
// must be dismissed first.
func (s *MembershipService) RequestJoin(userID, organizationID uint64) (*models.Membership, error) {
	if _, err := s.orgRepo.FindByID(organizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	membership := &models.Membership{
		UserID:         userID,
		OrganizationID: organizationID,
		Status:         models.MembershipPending,
		JoinedAt:       time.Now(),
	}

	if err := s.membershipRepo.CreateIfAbsent(membership); err != nil {
		if errors.Is(err, repository.ErrMembershipExists) {
			return nil, ErrAlreadyRequested
		}
		return nil, fmt.Errorf("failed to create membership request: %w", err)
	}

	return membership, nil
}

// Approve transitions a pending membership to approved. The acting user must
// be an organization-role account affiliated with the membership's organization.
func (s *MembershipService) Approve(actor *models.User, membershipID uint64) (*models.Membership, error) {
	membership, err := s.loadForDecision(actor, membershipID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	membership.Status = models.MembershipApproved
	membership.ApprovalDate = &now

	if err := s.membershipRepo.Update(membership); err != nil {
		return nil, fmt.Errorf("failed to approve membership: %w", err)
	}

	return membership, nil
}

// RejectInput carries the rejection metadata.
type RejectInput struct {
	Reason  models.RejectionReason
	Details string
}

// Reject transitions a pending membership to rejected with reason metadata.
// Same authorization rule as Approve. Details are mandatory for ReasonOther.
func (s *MembershipService) Reject(actor *models.User, membershipID uint64, input RejectInput) (*models.Membership, error) {
	if !models.ValidRejectionReason(input.Reason) {
		return nil, ErrInvalidRejectionReason
	}
	if input.Reason == models.ReasonOther && strings.TrimSpace(input.Details) == "" {
		return nil, ErrRejectionDetailsNeeded
	}

	membership, err := s.loadForDecision(actor, membershipID)
	if err != nil {
		return nil, err
	}

	membership.Status = models.MembershipRejected
	membership.RejectionReason = input.Reason
	membership.RejectionDetails = strings.TrimSpace(input.Details)

	if err := s.membershipRepo.Update(membership); err != nil {
		return nil, fmt.Errorf("failed to reject membership: %w", err)
	}

	return membership, nil
}

// DismissRejection lets the rejected user delete the historical record,
// unblocking a fresh join request for the same organization.
func (s *MembershipService) DismissRejection(userID, membershipID uint64) error {
	membership, err := s.membershipRepo.FindByID(membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if membership.UserID != userID {
		return ErrNotMembershipOwner
	}
	if membership.Status != models.MembershipRejected {
		return ErrMembershipNotRejected
	}

	if err := s.membershipRepo.Delete(membershipID); err != nil {
		return fmt.Errorf("failed to dismiss membership: %w", err)
	}

	return nil
}

// ListPending returns the pending membership requests of an organization.
func (s *MembershipService) ListPending(organizationID uint64) ([]models.Membership, error) {
	return s.listByStatus(organizationID, models.MembershipPending)
}

// ListApproved returns the approved members of an organization.
func (s *MembershipService) ListApproved(organizationID uint64) ([]models.Membership, error) {
	return s.listByStatus(organizationID, models.MembershipApproved)
}

// ListRejected returns a user's rejected memberships with their reasons.
func (s *MembershipService) ListRejected(userID uint64) ([]models.Membership, error) {
	return s.ListForUserByStatus(userID, models.MembershipRejected)
}

// ListForUserByStatus returns a user's memberships holding the given status.
func (s *MembershipService) ListForUserByStatus(userID uint64, status models.MembershipStatus) ([]models.Membership, error) {
	memberships, err := s.membershipRepo.ListByUserAndStatus(userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships by status: %w", err)
	}
	return memberships, nil
}

// ListForUser returns all memberships of a user across organizations.
func (s *MembershipService) ListForUser(userID uint64) ([]models.Membership, error) {
	memberships, err := s.membershipRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

// IsApprovedMember reports whether the user is an approved member of the organization.
func (s *MembershipService) IsApprovedMember(userID, organizationID uint64) (bool, error) {
	membership, err := s.membershipRepo.FindByUserAndOrganization(userID, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find membership: %w", err)
	}
	return membership.Status == models.MembershipApproved, nil
}

func (s *MembershipService) listByStatus(organizationID uint64, status models.MembershipStatus) ([]models.Membership, error) {
	memberships, err := s.membershipRepo.ListByOrganization(organizationID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

func (s *MembershipService) loadForDecision(actor *models.User, membershipID uint64) (*models.Membership, error) {
	membership, err := s.membershipRepo.FindByID(membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	if !actor.IsOrganizationActor(membership.OrganizationID) {
		return nil, ErrNotOrganizationActor
	}
	if membership.Status.Decided() {
		return nil, ErrMembershipDecided
	}

	return membership, nil
}
