package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campusorgs/oms-api/internal/constants"
	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFullNameRequired     = errors.New("full name is required")
	ErrOrgNameTaken         = errors.New("organization name already exists")
	ErrOrgNameTooShort      = errors.New("organization name too short")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToCreateOrg    = errors.New("failed to create organization")
)

// AuthService handles registration and authentication business logic.
type AuthService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
}

// RegisterMemberInput represents the required information to create a member account.
type RegisterMemberInput struct {
	Email    string
	Password string
	FullName string
}

// RegisterMember creates a new member-role user.
func (s *AuthService) RegisterMember(input RegisterMemberInput) (*models.User, error) {
	user, err := s.buildUser(input.Email, input.Password, input.FullName)
	if err != nil {
		return nil, err
	}
	user.Role = models.RoleMember

	if err := s.userRepo.Create(user); err != nil {
		return nil, ErrFailedToCreateUser
	}

	return user, nil
}

// RegisterOrganizationInput represents the information to register an
// organization and its controlling account together.
type RegisterOrganizationInput struct {
	Email       string
	Password    string
	FullName    string
	OrgName     string
	Description string
	Tags        []string
}

// RegisterOrganization creates the organization and its organization-role
// user in one transaction. The organization name must be globally unique.
func (s *AuthService) RegisterOrganization(input RegisterOrganizationInput) (*models.User, *models.Organization, error) {
	orgName := strings.TrimSpace(input.OrgName)
	if len(orgName) < constants.MinOrganizationNameLength {
		return nil, nil, ErrOrgNameTooShort
	}

	if _, err := s.orgRepo.FindByName(orgName); err == nil {
		return nil, nil, ErrOrgNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check organization name: %w", err)
	}

	user, err := s.buildUser(input.Email, input.Password, input.FullName)
	if err != nil {
		return nil, nil, err
	}

	org := &models.Organization{
		Name:        orgName,
		Description: input.Description,
	}
	org.SetTags(input.Tags)

	if err := s.userRepo.CreateOrganizationAccount(user, org); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateUser):
			return nil, nil, ErrFailedToCreateUser
		case errors.Is(err, repository.ErrCreateOrganization):
			return nil, nil, ErrFailedToCreateOrg
		default:
			return nil, nil, fmt.Errorf("failed to complete registration: %w", err)
		}
	}

	return user, org, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) buildUser(email, password, fullName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, ErrFullNameRequired
	}
	if len(password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	return &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(fullName),
	}, nil
}
