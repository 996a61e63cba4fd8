package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/geocoder89/timetrack/internal/report"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("TIMETRACK_HOME", t.TempDir())

	if _, err := loadToken(); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("expected errNotLoggedIn, got %v", err)
	}
	if err := saveToken("abc.def"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := loadToken()
	if err != nil || got != "abc.def" {
		t.Fatalf("load: %q, %v", got, err)
	}
	if err := removeToken(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := removeToken(); err != nil {
		t.Fatalf("second remove must be a no-op: %v", err)
	}
}

func TestRangeQuery(t *testing.T) {
	tests := []struct {
		name             string
		filter, from, to string
		want             string
		wantErr          bool
	}{
		{name: "label", filter: "Last Week", want: "last_week"},
		{name: "custom", filter: "all_time", from: "2024-03-01", to: "2024-03-10", want: "2024-03-01..2024-03-10"},
		{name: "half_custom", from: "2024-03-01", wantErr: true},
		{name: "unknown", filter: "fortnight", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rangeFilter, rangeFrom, rangeTo = tt.filter, tt.from, tt.to

			q, err := rangeQuery()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", q)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := q.Filter
			if q.From != "" {
				got = q.From + ".." + q.To
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintSummary(t *testing.T) {
	sum := report.Summary{
		Label:      "All Time",
		TotalHours: 2.5,
		Projects: []report.ProjectSummary{
			{Name: "Website", TotalHours: 2.5, Tasks: []report.TaskSummary{{Name: "Design", Hours: 2.5}}},
			{Name: "Empty"},
		},
	}

	var buf bytes.Buffer
	printSummary(&buf, sum)
	out := buf.String()

	for _, want := range []string{"All Time", "Website", "  Design", "2h 30m", "Empty", "0m", "Total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
