package timeentry

import "time"

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ListFilter selects one page of a user's entries, newest first. The After*
// fields come from the previous page's cursor.
type ListFilter struct {
	TaskID *string
	From   *Date // inclusive
	To     *Date // inclusive
	Limit  int

	AfterDate      *Date
	AfterCreatedAt time.Time
	AfterID        string
}

// Before reports whether e sorts before the cursor position, i.e. whether it
// belongs on a later page.
func (f ListFilter) Before(e TimeEntry) bool {
	if f.AfterDate == nil {
		return true
	}
	if !e.Date.Equal(f.AfterDate.Time) {
		return e.Date.Before(f.AfterDate.Time)
	}
	if !e.CreatedAt.Equal(f.AfterCreatedAt) {
		return e.CreatedAt.Before(f.AfterCreatedAt)
	}
	return e.ID < f.AfterID
}

func (f ListFilter) Match(e TimeEntry) bool {
	if f.TaskID != nil && e.TaskID != *f.TaskID {
		return false
	}
	if f.From != nil && e.Date.Before(f.From.Time) {
		return false
	}
	if f.To != nil && e.Date.After(f.To.Time) {
		return false
	}
	return f.Before(e)
}

// SortsBefore is the list order: date desc, created_at desc, id desc.
func SortsBefore(a, b TimeEntry) bool {
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.After(b.Date.Time)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// TotalHours sums entries exactly in hundredths.
func TotalHours(entries []TimeEntry) float64 {
	var sum int64
	for _, e := range entries {
		sum += Hundredths(e.Hours)
	}
	return float64(sum) / 100
}
