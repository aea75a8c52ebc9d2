package dto

import (
	"time"

	"github.com/campusorgs/oms-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	DueDate        *time.Time          `json:"due_date"`
	Priority       models.TaskPriority `json:"priority"`
	AssigneeID     uint64              `json:"assignee_id"`
	OrganizationID uint64              `json:"organization_id"`
	CreatedAt      time.Time           `json:"created_at"`
	Assignee       *UserDTO            `json:"assignee,omitempty"`
	Organization   *OrganizationDTO    `json:"organization,omitempty"`
}

// ToTaskDTO converts a task to DTO
func ToTaskDTO(task models.Task) TaskDTO {
	out := TaskDTO{
		ID:             task.ID,
		Name:           task.Name,
		Description:    task.Description,
		DueDate:        task.DueDate,
		Priority:       task.Priority,
		AssigneeID:     task.AssigneeID,
		OrganizationID: task.OrganizationID,
		CreatedAt:      task.CreatedAt,
	}
	if task.Assignee.ID != 0 {
		assignee := ToUserDTO(task.Assignee)
		out.Assignee = &assignee
	}
	if task.Organization.ID != 0 {
		org := ToOrganizationDTO(task.Organization)
		out.Organization = &org
	}
	return out
}

// ToTaskDTOs converts a task slice to DTOs
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
