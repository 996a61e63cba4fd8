package timeentry

import (
	"math"
	"time"

	"github.com/geocoder89/timetrack/internal/apperror"
	"github.com/google/uuid"
)

// MaxHours is the upper bound of a single entry.
const MaxHours = 24.0

type TimeEntry struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Hours     float64   `json:"hours"`
	Comment   string    `json:"comment,omitempty"`
	Date      Date      `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var (
	ErrNotFound      = apperror.NotFound("time_entry_not_found", "Time entry not found")
	ErrForbidden     = apperror.Permission("forbidden", "You do not have access to this time entry")
	ErrInvalidHours  = apperror.Validation("invalid_hours", "hours must be greater than 0 and at most 24")
	ErrMissingHours  = apperror.Validation("missing_hours", "either hours or duration is required")
	ErrAmbiguousTime = apperror.Validation("ambiguous_hours", "send either hours or duration, not both")
)

// Either Hours or Duration must be set. TaskID comes from the URL on nested routes.
type CreateTimeEntryRequest struct {
	TaskID   string   `json:"taskId" binding:"omitempty,uuid"`
	Date     string   `json:"date" binding:"required,datetime=2006-01-02"`
	Hours    *float64 `json:"hours" binding:"omitempty,gt=0,lte=24"`
	Duration string   `json:"duration" binding:"omitempty,max=20"`
	Comment  string   `json:"comment" binding:"omitempty,max=1000"`
}

type UpdateTimeEntryRequest struct {
	Date     string   `json:"date" binding:"required,datetime=2006-01-02"`
	Hours    *float64 `json:"hours" binding:"omitempty,gt=0,lte=24"`
	Duration string   `json:"duration" binding:"omitempty,max=20"`
	Comment  string   `json:"comment" binding:"omitempty,max=1000"`
}

func NewFromCreateRequest(userID string, req CreateTimeEntryRequest) (TimeEntry, error) {
	hours, err := resolveHours(req.Hours, req.Duration)
	if err != nil {
		return TimeEntry{}, err
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return TimeEntry{}, err
	}

	now := time.Now().UTC()

	return TimeEntry{
		ID:        uuid.NewString(),
		TaskID:    req.TaskID,
		UserID:    userID,
		Hours:     hours,
		Comment:   req.Comment,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (e TimeEntry) Apply(req UpdateTimeEntryRequest) (TimeEntry, error) {
	hours, err := resolveHours(req.Hours, req.Duration)
	if err != nil {
		return TimeEntry{}, err
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return TimeEntry{}, err
	}

	e.Hours = hours
	e.Date = date
	e.Comment = req.Comment
	e.UpdatedAt = time.Now().UTC()
	return e, nil
}

func resolveHours(hours *float64, duration string) (float64, error) {
	switch {
	case hours != nil && duration != "":
		return 0, ErrAmbiguousTime
	case hours != nil:
		return NormalizeHours(*hours)
	case duration != "":
		h, err := ParseDuration(duration)
		if err != nil {
			return 0, err
		}
		return NormalizeHours(h)
	default:
		return 0, ErrMissingHours
	}
}

// NormalizeHours rounds to two decimals and checks 0 < h <= MaxHours.
func NormalizeHours(h float64) (float64, error) {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, ErrInvalidHours
	}
	rounded := math.Round(h*100) / 100
	if rounded <= 0 || rounded > MaxHours {
		return 0, ErrInvalidHours
	}
	return rounded, nil
}

// Hundredths is the exact integer form used for summing.
func Hundredths(h float64) int64 {
	return int64(math.Round(h * 100))
}
