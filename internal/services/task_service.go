package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
)

var (
	ErrTaskNameRequired    = errors.New("task name is required")
	ErrInvalidTaskPriority = errors.New("priority must be low, medium or high")
	ErrAssigneeNotApproved = errors.New("assignee is not an approved member of the organization")
)

// TaskService handles task assignment by organizations to approved members.
type TaskService struct {
	taskRepo          repository.TaskRepository
	membershipService *MembershipService
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, membershipService *MembershipService) *TaskService {
	return &TaskService{
		taskRepo:          taskRepo,
		membershipService: membershipService,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Name        string
	Description string
	DueDate     *time.Time
	Priority    models.TaskPriority
	AssigneeID  uint64
}

// CreateTask creates a task in the actor's organization, targeting an
// approved member. Tasks are read-only after creation.
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if actor.Role != models.RoleOrganization || actor.OrganizationID == nil {
		return nil, ErrNotOrganizationActor
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTaskNameRequired
	}
	if !models.ValidTaskPriority(input.Priority) {
		return nil, ErrInvalidTaskPriority
	}

	approved, err := s.membershipService.IsApprovedMember(input.AssigneeID, *actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, ErrAssigneeNotApproved
	}

	task := &models.Task{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		DueDate:        input.DueDate,
		Priority:       input.Priority,
		AssigneeID:     input.AssigneeID,
		OrganizationID: *actor.OrganizationID,
		CreatorID:      actor.ID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListForOrganization lists the tasks an organization has assigned.
func (s *TaskService) ListForOrganization(organizationID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListForMember lists the tasks assigned to a user.
func (s *TaskService) ListForMember(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByAssignee(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
