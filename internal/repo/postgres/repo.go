package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// base is embedded by every repo: the pool plus optional query metrics.
type base struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func (b base) observe(op string, fn func() error) error {
	return b.prom.ObserveDB(op, fn)
}

func (b base) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return b.pool.BeginTx(ctx, pgx.TxOptions{})
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// The lock helpers below resolve the owner of a row inside tx and lock it,
// so the ownership check and the write that follows see the same state.

func lockProject(ctx context.Context, b base, tx pgx.Tx, op, userID, projectID string, forUpdate bool) error {
	lock := "FOR SHARE"
	if forUpdate {
		lock = "FOR UPDATE"
	}

	var owner string
	err := b.observe(op, func() error {
		return tx.QueryRow(ctx, `SELECT owner_id FROM projects WHERE id = $1 `+lock, projectID).Scan(&owner)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.ErrNotFound
		}
		return err
	}
	if owner != userID {
		return project.ErrForbidden
	}
	return nil
}

func lockTask(ctx context.Context, b base, tx pgx.Tx, op, userID, taskID string, forUpdate bool) error {
	lock := "FOR SHARE OF t"
	if forUpdate {
		lock = "FOR UPDATE OF t"
	}

	var owner string
	err := b.observe(op, func() error {
		return tx.QueryRow(ctx, `
			SELECT p.owner_id
			FROM tasks t
			JOIN projects p ON p.id = t.project_id
			WHERE t.id = $1 `+lock, taskID).Scan(&owner)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.ErrNotFound
		}
		return err
	}
	if owner != userID {
		return task.ErrForbidden
	}
	return nil
}

func lockEntry(ctx context.Context, b base, tx pgx.Tx, op, userID, entryID string) error {
	var owner string
	err := b.observe(op, func() error {
		return tx.QueryRow(ctx, `
			SELECT p.owner_id
			FROM time_entries e
			JOIN tasks t ON t.id = e.task_id
			JOIN projects p ON p.id = t.project_id
			WHERE e.id = $1
			FOR UPDATE OF e`, entryID).Scan(&owner)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.ErrNotFound
		}
		return err
	}
	if owner != userID {
		return timeentry.ErrForbidden
	}
	return nil
}

func notFoundOr(err error, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}
