package user

import (
	"strings"
	"time"

	"github.com/geocoder89/timetrack/internal/apperror"
	"github.com/google/uuid"
)

const RoleUser = "user"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Company      string    `json:"company"`
	Team         string    `json:"team"`
	Position     string    `json:"position"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the editable part of a user.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Team     string `json:"team"`
	Position string `json:"position"`
}

func (u User) Profile() Profile {
	return Profile{
		Name:     u.Name,
		Email:    u.Email,
		Company:  u.Company,
		Team:     u.Team,
		Position: u.Position,
	}
}

// nil fields are left untouched
type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Company  *string `json:"company" binding:"omitempty,max=100"`
	Team     *string `json:"team" binding:"omitempty,max=100"`
	Position *string `json:"position" binding:"omitempty,max=100"`
}

func (req UpdateProfileRequest) Apply(u User) User {
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Company != nil {
		u.Company = *req.Company
	}
	if req.Team != nil {
		u.Team = *req.Team
	}
	if req.Position != nil {
		u.Position = *req.Position
	}
	u.UpdatedAt = time.Now().UTC()
	return u
}

var (
	ErrNotFound         = apperror.NotFound("user_not_found", "user not found")
	ErrEmailAlreadyUsed = apperror.Conflict("email_taken", "Email is already in use.")
)

func New(email, passwordHash, name string) User {
	now := time.Now().UTC()

	return User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
