package postgres

import (
	"context"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/domain/user"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectsRepo struct {
	base
}

func NewProjectsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProjectsRepo {
	return &ProjectsRepo{base{pool: pool, prom: prom}}
}

const projectColumns = `id, owner_id, name, description, created_at, updated_at`

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// createErr reports a missing owner row as user.ErrNotFound: the token was
// valid but its user is gone.
func createErr(err error) error {
	if IsForeignKeyViolation(err) {
		return user.ErrNotFound
	}
	return err
}

func (r *ProjectsRepo) Create(ctx context.Context, p project.Project) (project.Project, error) {
	err := r.observe("projects.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO projects (`+projectColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
			p.ID, p.OwnerID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return project.Project{}, createErr(err)
	}
	return p, nil
}

func (r *ProjectsRepo) ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error) {
	out := make([]project.Project, 0)

	err := r.observe("projects.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+projectColumns+` FROM projects WHERE owner_id = $1 ORDER BY name ASC, id ASC`,
			ownerID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProject(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns ErrForbidden when the project exists but belongs to someone else.
func (r *ProjectsRepo) Get(ctx context.Context, userID, id string) (project.Project, error) {
	var p project.Project

	err := r.observe("projects.get", func() error {
		var err error
		p, err = scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
		return err
	})
	if err != nil {
		return project.Project{}, notFoundOr(err, project.ErrNotFound)
	}
	if p.OwnerID != userID {
		return project.Project{}, project.ErrForbidden
	}
	return p, nil
}

func (r *ProjectsRepo) Update(ctx context.Context, userID, id string, req project.UpdateProjectRequest) (p project.Project, err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return project.Project{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err = lockProject(ctx, r.base, tx, "projects.update.lock", userID, id, true); err != nil {
		return project.Project{}, err
	}

	err = r.observe("projects.update", func() error {
		var err error
		p, err = scanProject(tx.QueryRow(ctx, `
			UPDATE projects
			SET name = $2, description = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING `+projectColumns,
			id, req.Name, req.Description,
		))
		return err
	})
	if err != nil {
		return project.Project{}, notFoundOr(err, project.ErrNotFound)
	}

	return p, tx.Commit(ctx)
}

// Delete removes the project; tasks and time entries go with it (ON DELETE CASCADE).
func (r *ProjectsRepo) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockProject(ctx, r.base, tx, "projects.delete.lock", userID, id, true); err != nil {
		return err
	}

	err = r.observe("projects.delete", func() error {
		_, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Snapshot reads the project, its tasks and its entries (oldest first) in
// one read-only repeatable read transaction.
func (r *ProjectsRepo) Snapshot(ctx context.Context, userID, id string) (project.Project, []task.Task, []timeentry.TimeEntry, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return project.Project{}, nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var p project.Project
	err = r.observe("projects.snapshot.project", func() error {
		var err error
		p, err = scanProject(tx.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
		return err
	})
	if err != nil {
		return project.Project{}, nil, nil, notFoundOr(err, project.ErrNotFound)
	}
	if p.OwnerID != userID {
		return project.Project{}, nil, nil, project.ErrForbidden
	}

	var tasks []task.Task
	err = r.observe("projects.snapshot.tasks", func() error {
		rows, err := tx.Query(ctx,
			`SELECT `+taskColumns+` FROM tasks t WHERE t.project_id = $1 ORDER BY t.name ASC, t.id ASC`,
			id,
		)
		if err != nil {
			return err
		}
		tasks, err = collectTasks(rows)
		return err
	})
	if err != nil {
		return project.Project{}, nil, nil, err
	}

	var entries []timeentry.TimeEntry
	err = r.observe("projects.snapshot.entries", func() error {
		rows, err := tx.Query(ctx, `
			SELECT `+entryColumns+`
			FROM time_entries e
			JOIN tasks t ON t.id = e.task_id
			WHERE t.project_id = $1
			ORDER BY e.date ASC, e.created_at ASC, e.id ASC`, id)
		if err != nil {
			return err
		}
		entries, err = collectEntries(rows, 64)
		return err
	})
	if err != nil {
		return project.Project{}, nil, nil, err
	}

	return p, tasks, entries, tx.Commit(ctx)
}
