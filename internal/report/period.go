package report

import (
	"strings"
	"time"

	"github.com/geocoder89/timetrack/internal/apperror"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
)

type Filter string

const (
	FilterCurrentWeek  Filter = "current_week"
	FilterLastWeek     Filter = "last_week"
	FilterCurrentMonth Filter = "current_month"
	FilterLastMonth    Filter = "last_month"
	FilterAllTime      Filter = "all_time"
	FilterCustom       Filter = "custom"

	DefaultFilter = FilterCurrentWeek
)

var (
	ErrUnknownFilter = apperror.Validation("invalid_filter", "filter must be one of current_week, last_week, current_month, last_month, all_time")
	ErrInvalidRange  = apperror.Validation("invalid_range", "from must not be after to")
)

// Filters lists the named presets in display order.
var Filters = []Filter{FilterCurrentWeek, FilterLastWeek, FilterCurrentMonth, FilterLastMonth, FilterAllTime}

// ParseFilter accepts the query value ("last_week") or the display label
// ("Last Week"), case-insensitively. Empty means DefaultFilter.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFilter, nil
	}

	norm := strings.ToLower(strings.NewReplacer(" ", "_", "-", "_").Replace(s))
	for _, f := range Filters {
		if string(f) == norm {
			return f, nil
		}
	}
	return "", ErrUnknownFilter
}

func (f Filter) Label() string {
	switch f {
	case FilterCurrentWeek:
		return "Current Week"
	case FilterLastWeek:
		return "Last Week"
	case FilterCurrentMonth:
		return "Current Month"
	case FilterLastMonth:
		return "Last Month"
	case FilterAllTime:
		return "All Time"
	default:
		return "Custom"
	}
}

// Range is the half-open day interval [Start, End). Nil bounds are open.
type Range struct {
	Filter Filter          `json:"filter"`
	Start  *timeentry.Date `json:"start,omitempty"`
	End    *timeentry.Date `json:"end,omitempty"`
}

func (r Range) Contains(d timeentry.Date) bool {
	if r.Start != nil && d.Before(r.Start.Time) {
		return false
	}
	if r.End != nil && !d.Before(r.End.Time) {
		return false
	}
	return true
}

// LastDay is the inclusive end of the range, or nil when unbounded.
func (r Range) LastDay() *timeentry.Date {
	if r.End == nil {
		return nil
	}
	d := r.End.AddDays(-1)
	return &d
}

// Label names the range like "Mar 04 - Mar 10", or "All Time".
func (r Range) Label() string {
	if r.Start == nil || r.End == nil {
		return FilterAllTime.Label()
	}
	return r.Start.Format("Jan 02") + " - " + r.LastDay().Format("Jan 02")
}

// Key identifies the range in cache keys. The filter is part of it since
// a custom range may cover the same days as a named one.
func (r Range) Key() string {
	start, end := "-", "-"
	if r.Start != nil {
		start = r.Start.String()
	}
	if r.End != nil {
		end = r.End.String()
	}
	return string(r.Filter) + ":" + start + ".." + end
}

// Resolve maps a named filter to its range relative to now. Weeks are ISO
// weeks starting Monday; months are calendar months. It never reads the clock.
func Resolve(now time.Time, f Filter) (Range, error) {
	today := timeentry.DateOf(now)

	var start, end timeentry.Date
	switch f {
	case FilterCurrentWeek:
		start = mondayOf(today)
		end = start.AddDays(7)
	case FilterLastWeek:
		end = mondayOf(today)
		start = end.AddDays(-7)
	case FilterCurrentMonth:
		start = timeentry.NewDate(today.Year(), today.Month(), 1)
		end = timeentry.Date{Time: start.AddDate(0, 1, 0)}
	case FilterLastMonth:
		end = timeentry.NewDate(today.Year(), today.Month(), 1)
		start = timeentry.Date{Time: end.AddDate(0, -1, 0)}
	case FilterAllTime:
		return Range{Filter: FilterAllTime}, nil
	default:
		return Range{}, ErrUnknownFilter
	}

	return Range{Filter: f, Start: &start, End: &end}, nil
}

// CustomRange builds [from, to+1) from two inclusive days.
func CustomRange(from, to timeentry.Date) (Range, error) {
	if from.After(to.Time) {
		return Range{}, ErrInvalidRange
	}
	end := to.AddDays(1)
	return Range{Filter: FilterCustom, Start: &from, End: &end}, nil
}

func mondayOf(d timeentry.Date) timeentry.Date {
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7 // Sunday closes the ISO week
	}
	return d.AddDays(-(wd - 1))
}
