package postgres

import (
	"context"

	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TasksRepo struct {
	base
}

func NewTasksRepo(pool *pgxpool.Pool, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{base{pool: pool, prom: prom}}
}

const taskColumns = `t.id, t.project_id, t.name, t.description, t.created_at, t.updated_at`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func collectTasks(rows pgx.Rows) ([]task.Task, error) {
	defer rows.Close()

	out := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create adds t to its project after checking userID owns that project.
func (r *TasksRepo) Create(ctx context.Context, userID string, t task.Task) (task.Task, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return task.Task{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockProject(ctx, r.base, tx, "tasks.create.lock_project", userID, t.ProjectID, false); err != nil {
		return task.Task{}, err
	}

	err = r.observe("tasks.create", func() error {
		_, err := tx.Exec(ctx,
			`INSERT INTO tasks (id, project_id, name, description, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			t.ID, t.ProjectID, t.Name, t.Description, t.CreatedAt, t.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return task.Task{}, err
	}

	return t, tx.Commit(ctx)
}

func (r *TasksRepo) ListByProject(ctx context.Context, userID, projectID string) ([]task.Task, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockProject(ctx, r.base, tx, "tasks.list_by_project.lock_project", userID, projectID, false); err != nil {
		return nil, err
	}

	var out []task.Task
	err = r.observe("tasks.list_by_project", func() error {
		rows, err := tx.Query(ctx,
			`SELECT `+taskColumns+` FROM tasks t WHERE t.project_id = $1 ORDER BY t.name ASC, t.id ASC`,
			projectID,
		)
		if err != nil {
			return err
		}
		out, err = collectTasks(rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	return out, tx.Commit(ctx)
}

func (r *TasksRepo) ListByOwner(ctx context.Context, userID string) ([]task.Task, error) {
	var out []task.Task
	err := r.observe("tasks.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT `+taskColumns+`
			FROM tasks t
			JOIN projects p ON p.id = t.project_id
			WHERE p.owner_id = $1
			ORDER BY p.name ASC, t.name ASC, t.id ASC`,
			userID,
		)
		if err != nil {
			return err
		}
		out, err = collectTasks(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TasksRepo) Get(ctx context.Context, userID, id string) (task.Task, error) {
	var (
		t     task.Task
		owner string
	)

	err := r.observe("tasks.get", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT `+taskColumns+`, p.owner_id
			FROM tasks t
			JOIN projects p ON p.id = t.project_id
			WHERE t.id = $1`, id,
		).Scan(&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt, &owner)
	})
	if err != nil {
		return task.Task{}, notFoundOr(err, task.ErrNotFound)
	}
	if owner != userID {
		return task.Task{}, task.ErrForbidden
	}
	return t, nil
}

func (r *TasksRepo) Update(ctx context.Context, userID, id string, req task.UpdateTaskRequest) (t task.Task, err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return task.Task{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err = lockTask(ctx, r.base, tx, "tasks.update.lock", userID, id, true); err != nil {
		return task.Task{}, err
	}

	err = r.observe("tasks.update", func() error {
		var err error
		t, err = scanTask(tx.QueryRow(ctx, `
			UPDATE tasks t
			SET name = $2, description = $3, updated_at = NOW()
			WHERE t.id = $1
			RETURNING `+taskColumns,
			id, req.Name, req.Description,
		))
		return err
	})
	if err != nil {
		return task.Task{}, notFoundOr(err, task.ErrNotFound)
	}

	return t, tx.Commit(ctx)
}

// Delete removes the task and its time entries.
func (r *TasksRepo) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockTask(ctx, r.base, tx, "tasks.delete.lock", userID, id, true); err != nil {
		return err
	}

	err = r.observe("tasks.delete", func() error {
		_, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
