package report

import (
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/timetrack/internal/domain/timeentry"
)

func day(s string) timeentry.Date {
	d, err := timeentry.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolve(t *testing.T) {
	// Friday 2024-03-15
	now := time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)

	tests := []struct {
		filter    Filter
		start     string
		end       string
		unbounded bool
	}{
		{filter: FilterCurrentWeek, start: "2024-03-11", end: "2024-03-18"},
		{filter: FilterLastWeek, start: "2024-03-04", end: "2024-03-11"},
		{filter: FilterCurrentMonth, start: "2024-03-01", end: "2024-04-01"},
		{filter: FilterLastMonth, start: "2024-02-01", end: "2024-03-01"},
		{filter: FilterAllTime, unbounded: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			r, err := Resolve(now, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Filter != tt.filter {
				t.Fatalf("filter: got %q", r.Filter)
			}
			if tt.unbounded {
				if r.Start != nil || r.End != nil {
					t.Fatalf("expected open range, got %s", r.Key())
				}
				return
			}
			if r.Start.String() != tt.start || r.End.String() != tt.end {
				t.Fatalf("got [%s, %s), want [%s, %s)", r.Start, r.End, tt.start, tt.end)
			}
		})
	}
}

func TestResolveWeekEdges(t *testing.T) {
	tests := []struct {
		now   time.Time
		start string
	}{
		{now: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), start: "2024-03-11"},   // Monday
		{now: time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC), start: "2024-03-11"}, // Sunday
		{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), start: "2024-12-30"},   // year boundary
	}

	for _, tt := range tests {
		r, err := Resolve(tt.now, FilterCurrentWeek)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Start.String() != tt.start {
			t.Fatalf("%v: got start %s, want %s", tt.now, r.Start, tt.start)
		}
	}
}

func TestResolveLastMonthInJanuary(t *testing.T) {
	r, err := Resolve(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), FilterLastMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Start.String() != "2023-12-01" || r.End.String() != "2024-01-01" {
		t.Fatalf("got [%s, %s)", r.Start, r.End)
	}
}

func TestResolveUnknownFilter(t *testing.T) {
	if _, err := Resolve(time.Now(), Filter("fortnight")); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
}

func TestParseFilter(t *testing.T) {
	tests := map[string]Filter{
		"":              FilterCurrentWeek,
		"last_week":     FilterLastWeek,
		"Last Week":     FilterLastWeek,
		"CURRENT-MONTH": FilterCurrentMonth,
		" all time ":    FilterAllTime,
	}
	for in, want := range tests {
		got, err := ParseFilter(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseFilter("yesterday"); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
}

func TestCustomRange(t *testing.T) {
	r, err := CustomRange(day("2024-03-04"), day("2024-03-06"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Contains(day("2024-03-06")) || r.Contains(day("2024-03-07")) || r.Contains(day("2024-03-03")) {
		t.Fatalf("custom range bounds are wrong: %s", r.Key())
	}
	if r.Label() != "Mar 04 - Mar 06" {
		t.Fatalf("label: got %q", r.Label())
	}

	if _, err := CustomRange(day("2024-03-07"), day("2024-03-06")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestRangeLabel(t *testing.T) {
	r, _ := Resolve(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), FilterLastWeek)
	if r.Label() != "Mar 04 - Mar 10" {
		t.Fatalf("got %q", r.Label())
	}

	all, _ := Resolve(time.Now(), FilterAllTime)
	if all.Label() != "All Time" {
		t.Fatalf("got %q", all.Label())
	}
}
