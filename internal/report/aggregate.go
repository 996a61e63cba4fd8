package report

import (
	"sort"
)

// Row is one (project, task) pair with the hours logged on that task inside
// the queried range, in hundredths of an hour. TaskID is empty for a project
// that has no tasks yet.
type Row struct {
	ProjectID   string
	ProjectName string
	TaskID      string
	TaskName    string
	Hundredths  int64
}

type TaskSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
	Hundredths int64   `json:"-"`
}

type ProjectSummary struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	TotalHours float64       `json:"totalHours"`
	Hundredths int64         `json:"-"`
	Tasks      []TaskSummary `json:"tasks"`
}

type Summary struct {
	Range      Range            `json:"range"`
	Label      string           `json:"label"`
	TotalHours float64          `json:"totalHours"`
	Hundredths int64            `json:"-"`
	Projects   []ProjectSummary `json:"projects"`
}

// Build folds rows into per-project totals. Every project and task in rows
// is kept, with zero hours when nothing was logged in range. Projects and
// tasks are ordered by hours desc, then name, then id.
func Build(r Range, rows []Row) Summary {
	index := make(map[string]int)
	projects := make([]ProjectSummary, 0)

	for _, row := range rows {
		i, ok := index[row.ProjectID]
		if !ok {
			i = len(projects)
			index[row.ProjectID] = i
			projects = append(projects, ProjectSummary{
				ID:    row.ProjectID,
				Name:  row.ProjectName,
				Tasks: make([]TaskSummary, 0),
			})
		}

		p := &projects[i]
		p.Hundredths += row.Hundredths

		if row.TaskID == "" {
			continue
		}
		p.Tasks = mergeTask(p.Tasks, row)
	}

	var total int64
	for i := range projects {
		p := &projects[i]
		p.TotalHours = hoursOf(p.Hundredths)
		for j := range p.Tasks {
			p.Tasks[j].Hours = hoursOf(p.Tasks[j].Hundredths)
		}
		sort.SliceStable(p.Tasks, func(a, b int) bool {
			return less(p.Tasks[a].Hundredths, p.Tasks[b].Hundredths, p.Tasks[a].Name, p.Tasks[b].Name, p.Tasks[a].ID, p.Tasks[b].ID)
		})
		total += p.Hundredths
	}

	sort.SliceStable(projects, func(a, b int) bool {
		return less(projects[a].Hundredths, projects[b].Hundredths, projects[a].Name, projects[b].Name, projects[a].ID, projects[b].ID)
	})

	return Summary{
		Range:      r,
		Label:      r.Label(),
		TotalHours: hoursOf(total),
		Hundredths: total,
		Projects:   projects,
	}
}

// stores may return a task more than once (e.g. split by day); merge by id
func mergeTask(tasks []TaskSummary, row Row) []TaskSummary {
	for i := range tasks {
		if tasks[i].ID == row.TaskID {
			tasks[i].Hundredths += row.Hundredths
			return tasks
		}
	}
	return append(tasks, TaskSummary{ID: row.TaskID, Name: row.TaskName, Hundredths: row.Hundredths})
}

func less(ha, hb int64, na, nb, ia, ib string) bool {
	if ha != hb {
		return ha > hb
	}
	if na != nb {
		return na < nb
	}
	return ia < ib
}

func hoursOf(hundredths int64) float64 {
	return float64(hundredths) / 100
}
