package memory

import (
	"sync"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/session"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/domain/user"
)

// state is shared by the repos of one Store; a single lock keeps ownership
// checks and cascades consistent.
type state struct {
	mu       sync.RWMutex
	users    map[string]user.User
	projects map[string]project.Project
	tasks    map[string]task.Task
	entries  map[string]timeentry.TimeEntry
	tokens   map[string]session.RefreshToken
}

// Store bundles repos that mirror the postgres package on top of maps.
type Store struct {
	Users         *UsersRepo
	RefreshTokens *RefreshTokensRepo
	Projects      *ProjectsRepo
	Tasks         *TasksRepo
	TimeEntries   *TimeEntriesRepo
	Summary       *SummaryRepo
}

func New() *Store {
	s := &state{
		users:    make(map[string]user.User),
		projects: make(map[string]project.Project),
		tasks:    make(map[string]task.Task),
		entries:  make(map[string]timeentry.TimeEntry),
		tokens:   make(map[string]session.RefreshToken),
	}

	return &Store{
		Users:         &UsersRepo{s: s},
		RefreshTokens: &RefreshTokensRepo{s: s},
		Projects:      &ProjectsRepo{s: s},
		Tasks:         &TasksRepo{s: s},
		TimeEntries:   &TimeEntriesRepo{s: s},
		Summary:       &SummaryRepo{s: s},
	}
}

// callers hold s.mu

func (s *state) ownedProject(userID, id string) (project.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	if p.OwnerID != userID {
		return project.Project{}, project.ErrForbidden
	}
	return p, nil
}

func (s *state) ownedTask(userID, id string) (task.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	if p, ok := s.projects[t.ProjectID]; !ok || p.OwnerID != userID {
		return task.Task{}, task.ErrForbidden
	}
	return t, nil
}

func (s *state) ownedEntry(userID, id string) (timeentry.TimeEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return timeentry.TimeEntry{}, timeentry.ErrNotFound
	}
	if _, err := s.ownedTask(userID, e.TaskID); err != nil {
		return timeentry.TimeEntry{}, timeentry.ErrForbidden
	}
	return e, nil
}

func (s *state) deleteTask(id string) {
	for eid, e := range s.entries {
		if e.TaskID == id {
			delete(s.entries, eid)
		}
	}
	delete(s.tasks, id)
}
