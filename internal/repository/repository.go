package repository

import (
	"github.com/campusorgs/oms-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateOrganizationAccount creates the organization and its
	// organization-role user within a single transaction.
	CreateOrganizationAccount(user *models.User, org *models.Organization) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByName finds an organization by its unique name
	FindByName(name string) (*models.Organization, error)

	// List retrieves organizations with pagination
	List(page, pageSize int) ([]models.Organization, int64, error)

	// Update updates an organization
	Update(org *models.Organization) error
}

// MembershipRepository defines the interface for membership data access
type MembershipRepository interface {
	// CreateIfAbsent creates a membership unless one already exists for the
	// (user, organization) pair; returns ErrMembershipExists if it does.
	CreateIfAbsent(membership *models.Membership) error

	// FindByID finds a membership by ID
	FindByID(id uint64) (*models.Membership, error)

	// FindByUserAndOrganization finds the membership for a (user, organization) pair
	FindByUserAndOrganization(userID, organizationID uint64) (*models.Membership, error)

	// Update updates a membership
	Update(membership *models.Membership) error

	// Delete removes a membership record
	Delete(id uint64) error

	// ListByOrganization lists memberships of an organization with the given status
	ListByOrganization(organizationID uint64, status models.MembershipStatus) ([]models.Membership, error)

	// ListByUser lists all memberships of a user
	ListByUser(userID uint64) ([]models.Membership, error)

	// ListByUserAndStatus lists a user's memberships with the given status
	ListByUserAndStatus(userID uint64, status models.MembershipStatus) ([]models.Membership, error)
}

// EventFilter holds filtering options for listing events
type EventFilter struct {
	OrganizationID *uint64
	OpenForAllOnly bool
	Page           int
	PageSize       int
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(event *models.Event) error

	// FindByID finds an event by ID with images preloaded
	FindByID(id uint64) (*models.Event, error)

	// Update updates an event
	Update(event *models.Event) error

	// List retrieves events matching the filter
	List(filter EventFilter) ([]models.Event, int64, error)

	// ListRankedByLikes retrieves events ordered by descending like count,
	// ties broken by creation order. Recomputed from current reactions.
	ListRankedByLikes(organizationID *uint64, limit int) ([]models.Event, error)

	// AddImage attaches an uploaded image reference to an event
	AddImage(image *models.EventImage) error
}

// ReactionCounts aggregates the per-kind reaction counts of an event
type ReactionCounts struct {
	Likes      int64 `json:"likes"`
	Dislikes   int64 `json:"dislikes"`
	Interested int64 `json:"interested"`
}

// ReactionRepository defines the interface for reaction data access
type ReactionRepository interface {
	// Set applies toggle semantics for the (user, event) reaction in a single
	// transaction and returns the resulting kind (ReactionNone when cleared).
	Set(userID, eventID uint64, kind models.ReactionKind) (models.ReactionKind, error)

	// Find returns the current reaction for a (user, event) pair
	Find(userID, eventID uint64) (*models.Reaction, error)

	// ListByUser lists all reactions of a user
	ListByUser(userID uint64) ([]models.Reaction, error)

	// ListUserIDsByEvent lists user IDs with the given reaction on an event
	ListUserIDsByEvent(eventID uint64, kind models.ReactionKind) ([]uint64, error)

	// CountsByEvent aggregates reaction counts for an event
	CountsByEvent(eventID uint64) (ReactionCounts, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListByOrganization lists tasks owned by an organization
	ListByOrganization(organizationID uint64) ([]models.Task, error)

	// ListByAssignee lists tasks assigned to a user
	ListByAssignee(userID uint64) ([]models.Task, error)
}
