package memory

import (
	"context"
	"sort"
	"time"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
)

var timeNow = func() time.Time { return time.Now().UTC() }

type ProjectsRepo struct {
	s *state
}

func (r *ProjectsRepo) Create(_ context.Context, p project.Project) (project.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.projects[p.ID] = p
	return p, nil
}

func (r *ProjectsRepo) ListByOwner(_ context.Context, ownerID string) ([]project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]project.Project, 0)
	for _, p := range r.s.projects {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ProjectsRepo) Get(_ context.Context, userID, id string) (project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.ownedProject(userID, id)
}

// Snapshot returns the project with its tasks and entries (oldest first)
// under one read lock.
func (r *ProjectsRepo) Snapshot(_ context.Context, userID, id string) (project.Project, []task.Task, []timeentry.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, err := r.s.ownedProject(userID, id)
	if err != nil {
		return project.Project{}, nil, nil, err
	}

	tasks := make([]task.Task, 0)
	for _, t := range r.s.tasks {
		if t.ProjectID == id {
			tasks = append(tasks, t)
		}
	}
	sortTasks(tasks, nil)

	entries := make([]timeentry.TimeEntry, 0)
	for _, e := range r.s.entries {
		if t, ok := r.s.tasks[e.TaskID]; ok && t.ProjectID == id {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return timeentry.SortsBefore(entries[j], entries[i]) })

	return p, tasks, entries, nil
}

func (r *ProjectsRepo) Update(_ context.Context, userID, id string, req project.UpdateProjectRequest) (project.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, err := r.s.ownedProject(userID, id)
	if err != nil {
		return project.Project{}, err
	}
	p = p.Apply(req)
	r.s.projects[id] = p
	return p, nil
}

func (r *ProjectsRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.s.ownedProject(userID, id); err != nil {
		return err
	}
	for tid, t := range r.s.tasks {
		if t.ProjectID == id {
			r.s.deleteTask(tid)
		}
	}
	delete(r.s.projects, id)
	return nil
}

type TasksRepo struct {
	s *state
}

func (r *TasksRepo) Create(_ context.Context, userID string, t task.Task) (task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.s.ownedProject(userID, t.ProjectID); err != nil {
		return task.Task{}, err
	}
	r.s.tasks[t.ID] = t
	return t, nil
}

func (r *TasksRepo) ListByProject(_ context.Context, userID, projectID string) ([]task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, err := r.s.ownedProject(userID, projectID); err != nil {
		return nil, err
	}
	out := make([]task.Task, 0)
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	sortTasks(out, nil)
	return out, nil
}

func (r *TasksRepo) ListByOwner(_ context.Context, userID string) ([]task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]task.Task, 0)
	projectNames := make(map[string]string)
	for _, t := range r.s.tasks {
		p, ok := r.s.projects[t.ProjectID]
		if ok && p.OwnerID == userID {
			out = append(out, t)
			projectNames[p.ID] = p.Name
		}
	}
	sortTasks(out, projectNames)
	return out, nil
}

func (r *TasksRepo) Get(_ context.Context, userID, id string) (task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.ownedTask(userID, id)
}

func (r *TasksRepo) Update(_ context.Context, userID, id string, req task.UpdateTaskRequest) (task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, err := r.s.ownedTask(userID, id)
	if err != nil {
		return task.Task{}, err
	}
	t = t.Apply(req)
	r.s.tasks[id] = t
	return t, nil
}

func (r *TasksRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.s.ownedTask(userID, id); err != nil {
		return err
	}
	r.s.deleteTask(id)
	return nil
}

// same order as postgres: project name (when given), task name, id
func sortTasks(tasks []task.Task, projectNames map[string]string) {
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if projectNames != nil && projectNames[a.ProjectID] != projectNames[b.ProjectID] {
			return projectNames[a.ProjectID] < projectNames[b.ProjectID]
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
