package memory

import (
	"context"
	"sort"

	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/report"
)

type TimeEntriesRepo struct {
	s *state
}

func (r *TimeEntriesRepo) Create(_ context.Context, userID string, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.s.ownedTask(userID, e.TaskID); err != nil {
		return timeentry.TimeEntry{}, err
	}
	r.s.entries[e.ID] = e
	return e, nil
}

func (r *TimeEntriesRepo) ListByTask(_ context.Context, userID, taskID string) ([]timeentry.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, err := r.s.ownedTask(userID, taskID); err != nil {
		return nil, err
	}
	out := make([]timeentry.TimeEntry, 0)
	for _, e := range r.s.entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return timeentry.SortsBefore(out[i], out[j]) })
	return out, nil
}

func (r *TimeEntriesRepo) List(_ context.Context, userID string, f timeentry.ListFilter) ([]timeentry.TimeEntry, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]timeentry.TimeEntry, 0)
	for _, e := range r.s.entries {
		if _, err := r.s.ownedTask(userID, e.TaskID); err != nil {
			continue
		}
		if f.Match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return timeentry.SortsBefore(out[i], out[j]) })

	limit := f.Limit
	if limit <= 0 {
		limit = timeentry.DefaultListLimit
	}
	if len(out) > limit {
		return out[:limit], true, nil
	}
	return out, false, nil
}

func (r *TimeEntriesRepo) Get(_ context.Context, userID, id string) (timeentry.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.ownedEntry(userID, id)
}

func (r *TimeEntriesRepo) Update(_ context.Context, userID, id string, req timeentry.UpdateTimeEntryRequest) (timeentry.TimeEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, err := r.s.ownedEntry(userID, id)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	e, err = e.Apply(req)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	r.s.entries[id] = e
	return e, nil
}

func (r *TimeEntriesRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.s.ownedEntry(userID, id); err != nil {
		return err
	}
	delete(r.s.entries, id)
	return nil
}

type SummaryRepo struct {
	s *state
}

func (r *SummaryRepo) UserExists(_ context.Context, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.users[userID]
	return ok, nil
}

func (r *SummaryRepo) SummaryRows(_ context.Context, userID string, rng report.Range) ([]report.Row, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sums := make(map[string]int64)
	for _, e := range r.s.entries {
		if rng.Contains(e.Date) {
			sums[e.TaskID] += timeentry.Hundredths(e.Hours)
		}
	}

	rows := make([]report.Row, 0)
	for _, p := range r.s.projects {
		if p.OwnerID != userID {
			continue
		}
		hasTask := false
		for _, t := range r.s.tasks {
			if t.ProjectID != p.ID {
				continue
			}
			hasTask = true
			rows = append(rows, report.Row{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				TaskID:      t.ID,
				TaskName:    t.Name,
				Hundredths:  sums[t.ID],
			})
		}
		if !hasTask {
			rows = append(rows, report.Row{ProjectID: p.ID, ProjectName: p.Name})
		}
	}
	return rows, nil
}
