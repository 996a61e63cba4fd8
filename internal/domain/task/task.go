package task

import (
	"time"

	"github.com/geocoder89/timetrack/internal/apperror"
	"github.com/google/uuid"
)

type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var (
	ErrNotFound  = apperror.NotFound("task_not_found", "Task not found")
	ErrForbidden = apperror.Permission("forbidden", "You do not have access to this task")
)

// ProjectID comes from the URL on nested routes and from the body on /tasks.
type CreateTaskRequest struct {
	ProjectID   string `json:"projectId" binding:"omitempty,uuid"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

type UpdateTaskRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

func NewFromCreateRequest(req CreateTaskRequest) Task {
	now := time.Now().UTC()

	return Task{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (t Task) Apply(req UpdateTaskRequest) Task {
	t.Name = req.Name
	t.Description = req.Description
	t.UpdatedAt = time.Now().UTC()
	return t
}
