package project

import (
	"time"

	"github.com/geocoder89/timetrack/internal/apperror"
	"github.com/google/uuid"
)

type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var (
	ErrNotFound  = apperror.NotFound("project_not_found", "Project not found")
	ErrForbidden = apperror.Permission("forbidden", "You do not have access to this project")
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// a full update payload; description may be cleared by sending ""
type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

func NewFromCreateRequest(ownerID string, req CreateProjectRequest) Project {
	now := time.Now().UTC()

	return Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p Project) Apply(req UpdateProjectRequest) Project {
	p.Name = req.Name
	p.Description = req.Description
	p.UpdatedAt = time.Now().UTC()
	return p
}
