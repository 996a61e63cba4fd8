package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TimeEntriesRepo struct {
	base
}

func NewTimeEntriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *TimeEntriesRepo {
	return &TimeEntriesRepo{base{pool: pool, prom: prom}}
}

const entryColumns = `e.id, e.task_id, e.user_id, e.hours, e.comment, e.date, e.created_at, e.updated_at`

func scanEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry
	err := row.Scan(&e.ID, &e.TaskID, &e.UserID, &e.Hours, &e.Comment, &e.Date.Time, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func collectEntries(rows pgx.Rows, capHint int) ([]timeentry.TimeEntry, error) {
	defer rows.Close()

	out := make([]timeentry.TimeEntry, 0, capHint)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create logs e against its task after checking userID owns the task's project.
func (r *TimeEntriesRepo) Create(ctx context.Context, userID string, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockTask(ctx, r.base, tx, "time_entries.create.lock_task", userID, e.TaskID, false); err != nil {
		return timeentry.TimeEntry{}, err
	}

	err = r.observe("time_entries.create", func() error {
		_, err := tx.Exec(ctx,
			`INSERT INTO time_entries (id, task_id, user_id, hours, comment, date, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			e.ID, e.TaskID, e.UserID, e.Hours, e.Comment, e.Date.Time, e.CreatedAt, e.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return timeentry.TimeEntry{}, err
	}

	return e, tx.Commit(ctx)
}

func (r *TimeEntriesRepo) ListByTask(ctx context.Context, userID, taskID string) ([]timeentry.TimeEntry, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockTask(ctx, r.base, tx, "time_entries.list_by_task.lock_task", userID, taskID, false); err != nil {
		return nil, err
	}

	var out []timeentry.TimeEntry
	err = r.observe("time_entries.list_by_task", func() error {
		rows, err := tx.Query(ctx, `
			SELECT `+entryColumns+`
			FROM time_entries e
			WHERE e.task_id = $1
			ORDER BY e.date DESC, e.created_at DESC, e.id DESC`, taskID)
		if err != nil {
			return err
		}
		out, err = collectEntries(rows, 16)
		return err
	})
	if err != nil {
		return nil, err
	}

	return out, tx.Commit(ctx)
}

// List pages through the user's entries with keyset pagination. hasMore
// reports whether another page follows the returned one.
func (r *TimeEntriesRepo) List(ctx context.Context, userID string, f timeentry.ListFilter) (items []timeentry.TimeEntry, hasMore bool, err error) {
	conds := []string{"p.owner_id = $1"}
	args := []any{userID}
	pos := 2

	if f.TaskID != nil {
		conds = append(conds, fmt.Sprintf("e.task_id = $%d", pos))
		args = append(args, *f.TaskID)
		pos++
	}
	if f.From != nil {
		conds = append(conds, fmt.Sprintf("e.date >= $%d", pos))
		args = append(args, f.From.Time)
		pos++
	}
	if f.To != nil {
		conds = append(conds, fmt.Sprintf("e.date <= $%d", pos))
		args = append(args, f.To.Time)
		pos++
	}
	if f.AfterDate != nil {
		conds = append(conds, fmt.Sprintf("(e.date, e.created_at, e.id) < ($%d, $%d, $%d)", pos, pos+1, pos+2))
		args = append(args, f.AfterDate.Time, f.AfterCreatedAt, f.AfterID)
		pos += 3
	}

	limit := f.Limit
	if limit <= 0 {
		limit = timeentry.DefaultListLimit
	}

	query := `
		SELECT ` + entryColumns + `
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		JOIN projects p ON p.id = t.project_id
		WHERE ` + strings.Join(conds, " AND ") + fmt.Sprintf(`
		ORDER BY e.date DESC, e.created_at DESC, e.id DESC
		LIMIT $%d`, pos)
	// one extra row tells us whether there is a next page
	args = append(args, limit+1)

	err = r.observe("time_entries.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		items, err = collectEntries(rows, limit+1)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if len(items) > limit {
		return items[:limit], true, nil
	}
	return items, false, nil
}

func (r *TimeEntriesRepo) Get(ctx context.Context, userID, id string) (timeentry.TimeEntry, error) {
	var (
		e     timeentry.TimeEntry
		owner string
	)

	err := r.observe("time_entries.get", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT `+entryColumns+`, p.owner_id
			FROM time_entries e
			JOIN tasks t ON t.id = e.task_id
			JOIN projects p ON p.id = t.project_id
			WHERE e.id = $1`, id,
		).Scan(&e.ID, &e.TaskID, &e.UserID, &e.Hours, &e.Comment, &e.Date.Time, &e.CreatedAt, &e.UpdatedAt, &owner)
	})
	if err != nil {
		return timeentry.TimeEntry{}, notFoundOr(err, timeentry.ErrNotFound)
	}
	if owner != userID {
		return timeentry.TimeEntry{}, timeentry.ErrForbidden
	}
	return e, nil
}

// Update applies req to the entry. Hours/duration validation happens in
// TimeEntry.Apply, between the ownership lock and the write.
func (r *TimeEntriesRepo) Update(ctx context.Context, userID, id string, req timeentry.UpdateTimeEntryRequest) (e timeentry.TimeEntry, err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err = lockEntry(ctx, r.base, tx, "time_entries.update.lock", userID, id); err != nil {
		return timeentry.TimeEntry{}, err
	}

	err = r.observe("time_entries.update.load", func() error {
		var err error
		e, err = scanEntry(tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM time_entries e WHERE e.id = $1`, id))
		return err
	})
	if err != nil {
		return timeentry.TimeEntry{}, notFoundOr(err, timeentry.ErrNotFound)
	}

	e, err = e.Apply(req)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}

	err = r.observe("time_entries.update", func() error {
		_, err := tx.Exec(ctx, `
			UPDATE time_entries
			SET hours = $2, comment = $3, date = $4, updated_at = $5
			WHERE id = $1`,
			e.ID, e.Hours, e.Comment, e.Date.Time, e.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return timeentry.TimeEntry{}, err
	}

	return e, tx.Commit(ctx)
}

func (r *TimeEntriesRepo) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockEntry(ctx, r.base, tx, "time_entries.delete.lock", userID, id); err != nil {
		return err
	}

	err = r.observe("time_entries.delete", func() error {
		_, err := tx.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
