package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/timetrack/internal/cache"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/domain/user"
)

type fakeTask struct {
	id, projectID, name string
}

type fakeEntry struct {
	taskID string
	date   string
	hours  float64
}

type fakeStore struct {
	users    map[string]bool
	projects map[string][]string // owner -> project ids
	names    map[string]string
	tasks    []fakeTask
	entries  []fakeEntry
	calls    int
}

func (f *fakeStore) UserExists(_ context.Context, userID string) (bool, error) {
	return f.users[userID], nil
}

func (f *fakeStore) SummaryRows(_ context.Context, userID string, r Range) ([]Row, error) {
	f.calls++
	var rows []Row
	for _, pid := range f.projects[userID] {
		hasTask := false
		for _, tk := range f.tasks {
			if tk.projectID != pid {
				continue
			}
			hasTask = true
			var sum int64
			for _, e := range f.entries {
				if e.taskID == tk.id && r.Contains(day(e.date)) {
					sum += timeentry.Hundredths(e.hours)
				}
			}
			rows = append(rows, Row{ProjectID: pid, ProjectName: f.names[pid], TaskID: tk.id, TaskName: tk.name, Hundredths: sum})
		}
		if !hasTask {
			rows = append(rows, Row{ProjectID: pid, ProjectName: f.names[pid]})
		}
	}
	return rows, nil
}

func newFixture() *fakeStore {
	return &fakeStore{
		users: map[string]bool{"alice": true, "bob": true},
		projects: map[string][]string{
			"alice": {"p1", "p2", "p3"},
			"bob":   {"p9"},
		},
		names: map[string]string{"p1": "Website", "p2": "Backend", "p3": "Empty", "p9": "Bob's"},
		tasks: []fakeTask{
			{id: "t1", projectID: "p1", name: "Design"},
			{id: "t2", projectID: "p1", name: "Build"},
			{id: "t3", projectID: "p2", name: "API"},
			{id: "t9", projectID: "p9", name: "Other"},
		},
		entries: []fakeEntry{
			{taskID: "t1", date: "2024-03-04", hours: 2.5},
			{taskID: "t1", date: "2024-03-12", hours: 0.1},
			{taskID: "t2", date: "2024-03-13", hours: 0.2},
			{taskID: "t2", date: "2024-02-20", hours: 3.33},
			{taskID: "t3", date: "2024-01-02", hours: 8},
			{taskID: "t9", date: "2024-03-12", hours: 5},
		},
	}
}

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func summarize(t *testing.T, svc *Service, userID string, f Filter) Summary {
	t.Helper()
	sum, err := svc.SummarizeFilter(context.Background(), userID, f)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", f, err)
	}
	return sum
}

func TestTaskSubtotalsEqualProjectTotal(t *testing.T) {
	svc := NewService(newFixture(), WithClock(func() time.Time { return fixedNow }))

	for _, f := range Filters {
		sum := summarize(t, svc, "alice", f)

		var grand int64
		for _, p := range sum.Projects {
			var tasks int64
			for _, tk := range p.Tasks {
				tasks += tk.Hundredths
			}
			if tasks != p.Hundredths {
				t.Fatalf("%s/%s: tasks sum to %d, project total %d", f, p.Name, tasks, p.Hundredths)
			}
			grand += p.Hundredths
		}
		if grand != sum.Hundredths {
			t.Fatalf("%s: grand total %d != %d", f, sum.Hundredths, grand)
		}
	}
}

func TestAllTimeIsUpperBound(t *testing.T) {
	svc := NewService(newFixture(), WithClock(func() time.Time { return fixedNow }))

	all := map[string]int64{}
	for _, p := range summarize(t, svc, "alice", FilterAllTime).Projects {
		all[p.ID] = p.Hundredths
	}

	for _, f := range Filters {
		for _, p := range summarize(t, svc, "alice", f).Projects {
			if p.Hundredths > all[p.ID] {
				t.Fatalf("%s: project %s has %d > all_time %d", f, p.ID, p.Hundredths, all[p.ID])
			}
		}
	}
}

func TestEntryOnMarch4InCurrentMonthNotLastMonth(t *testing.T) {
	svc := NewService(newFixture(), WithClock(func() time.Time { return fixedNow }))

	find := func(sum Summary, taskID string) float64 {
		for _, p := range sum.Projects {
			for _, tk := range p.Tasks {
				if tk.ID == taskID {
					return tk.Hours
				}
			}
		}
		t.Fatalf("task %s missing", taskID)
		return 0
	}

	if got := find(summarize(t, svc, "alice", FilterCurrentMonth), "t1"); got != 2.6 {
		t.Fatalf("current_month: got %v, want 2.6", got)
	}
	if got := find(summarize(t, svc, "alice", FilterLastMonth), "t1"); got != 0 {
		t.Fatalf("last_month: got %v, want 0", got)
	}
}

func TestZeroProjectsAndTasksAreKept(t *testing.T) {
	svc := NewService(newFixture(), WithClock(func() time.Time { return fixedNow }))

	sum := summarize(t, svc, "alice", FilterCurrentWeek)
	if len(sum.Projects) != 3 {
		t.Fatalf("expected all 3 projects, got %d", len(sum.Projects))
	}

	// Website 0.30 first, then the two zero projects by name
	want := []string{"Website", "Backend", "Empty"}
	for i, p := range sum.Projects {
		if p.Name != want[i] {
			t.Fatalf("order: got %s at %d, want %s", p.Name, i, want[i])
		}
	}
	if sum.Projects[0].TotalHours != 0.3 {
		t.Fatalf("Website: got %v", sum.Projects[0].TotalHours)
	}
	if len(sum.Projects[1].Tasks) != 1 || sum.Projects[1].Tasks[0].Hours != 0 {
		t.Fatalf("Backend should list API with 0 hours: %+v", sum.Projects[1].Tasks)
	}
	if len(sum.Projects[2].Tasks) != 0 {
		t.Fatalf("Empty should have no tasks")
	}
}

func TestSummaryIsScopedToUser(t *testing.T) {
	svc := NewService(newFixture(), WithClock(func() time.Time { return fixedNow }))

	sum := summarize(t, svc, "bob", FilterAllTime)
	if len(sum.Projects) != 1 || sum.Projects[0].ID != "p9" || sum.TotalHours != 5 {
		t.Fatalf("unexpected bob summary: %+v", sum)
	}
}

func TestSummarizeUnknownUser(t *testing.T) {
	svc := NewService(newFixture())

	_, err := svc.SummarizeFilter(context.Background(), "mallory", FilterAllTime)
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}
}

func TestSummarizeUsesCacheUntilInvalidated(t *testing.T) {
	store := newFixture()
	svc := NewService(store, WithCache(cache.New(time.Minute)), WithClock(func() time.Time { return fixedNow }))

	first := summarize(t, svc, "alice", FilterAllTime)
	second := summarize(t, svc, "alice", FilterAllTime)
	if store.calls != 1 {
		t.Fatalf("expected one store read, got %d", store.calls)
	}
	if second.Hundredths != first.Hundredths || second.Projects[0].Hundredths != first.Projects[0].Hundredths {
		t.Fatalf("cached summary differs: %+v vs %+v", second, first)
	}

	store.entries = append(store.entries, fakeEntry{taskID: "t3", date: "2024-03-14", hours: 1})
	svc.Invalidate(context.Background(), "alice")

	third := summarize(t, svc, "alice", FilterAllTime)
	if store.calls != 2 {
		t.Fatalf("expected a fresh read after invalidate, got %d", store.calls)
	}
	if third.Hundredths != first.Hundredths+100 {
		t.Fatalf("expected +1h after invalidate, got %d vs %d", third.Hundredths, first.Hundredths)
	}
}

func TestBuildMergesDuplicateTaskRows(t *testing.T) {
	r := Range{Filter: FilterAllTime}
	sum := Build(r, []Row{
		{ProjectID: "p", ProjectName: "P", TaskID: "t", TaskName: "T", Hundredths: 150},
		{ProjectID: "p", ProjectName: "P", TaskID: "t", TaskName: "T", Hundredths: 25},
	})
	if len(sum.Projects) != 1 || len(sum.Projects[0].Tasks) != 1 {
		t.Fatalf("unexpected shape: %+v", sum)
	}
	if sum.Projects[0].Tasks[0].Hours != 1.75 || sum.TotalHours != 1.75 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
}

func TestCachedSummaryKeepsRequestedFilter(t *testing.T) {
	store := newFixture()
	svc := NewService(store, WithCache(cache.New(time.Minute)), WithClock(func() time.Time { return fixedNow }))
	ctx := context.Background()

	// same days as current_week around fixedNow
	custom, err := CustomRange(day("2024-03-11"), day("2024-03-17"))
	if err != nil {
		t.Fatalf("custom range: %v", err)
	}
	first, err := svc.Summarize(ctx, "alice", custom)
	if err != nil {
		t.Fatalf("summarize custom: %v", err)
	}
	if first.Range.Filter != FilterCustom {
		t.Fatalf("custom: got filter %q", first.Range.Filter)
	}

	week := summarize(t, svc, "alice", FilterCurrentWeek)
	if week.Range.Filter != FilterCurrentWeek {
		t.Fatalf("current_week: got filter %q", week.Range.Filter)
	}
	if week.Hundredths != first.Hundredths || week.Label != first.Label {
		t.Fatalf("same days must give the same totals: %+v vs %+v", week, first)
	}

	again, _ := svc.Summarize(ctx, "alice", custom)
	if again.Range.Filter != FilterCustom {
		t.Fatalf("custom after current_week: got filter %q", again.Range.Filter)
	}
}

func TestRangeKeyIncludesFilter(t *testing.T) {
	week, _ := Resolve(fixedNow, FilterCurrentWeek)
	custom, _ := CustomRange(day("2024-03-11"), day("2024-03-17"))

	if week.Key() == custom.Key() {
		t.Fatalf("keys collide: %s", week.Key())
	}
}
