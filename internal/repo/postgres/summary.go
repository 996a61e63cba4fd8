package postgres

import (
	"context"

	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/geocoder89/timetrack/internal/report"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SummaryRepo feeds report.Service.
type SummaryRepo struct {
	base
	users *UsersRepo
}

func NewSummaryRepo(pool *pgxpool.Pool, prom *observability.Prom) *SummaryRepo {
	return &SummaryRepo{base: base{pool: pool, prom: prom}, users: NewUsersRepo(pool, prom)}
}

func (r *SummaryRepo) UserExists(ctx context.Context, userID string) (bool, error) {
	return r.users.Exists(ctx, userID)
}

// SummaryRows sums hours per task. The range filter sits in the entries
// join so tasks and projects without entries in range still get a row.
// hours is NUMERIC(5,2), so hours*100 is an exact integer.
func (r *SummaryRepo) SummaryRows(ctx context.Context, userID string, rng report.Range) ([]report.Row, error) {
	var start, end any
	if rng.Start != nil {
		start = rng.Start.Time
	}
	if rng.End != nil {
		end = rng.End.Time
	}

	out := make([]report.Row, 0)
	err := r.observe("summary.rows", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT p.id, p.name,
				COALESCE(t.id::text, ''), COALESCE(t.name, ''),
				COALESCE(SUM(e.hours * 100), 0)::bigint
			FROM projects p
			LEFT JOIN tasks t ON t.project_id = p.id
			LEFT JOIN time_entries e ON e.task_id = t.id
				AND ($2::date IS NULL OR e.date >= $2::date)
				AND ($3::date IS NULL OR e.date < $3::date)
			WHERE p.owner_id = $1
			GROUP BY p.id, p.name, t.id, t.name`,
			userID, start, end,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var row report.Row
			if err := rows.Scan(&row.ProjectID, &row.ProjectName, &row.TaskID, &row.TaskName, &row.Hundredths); err != nil {
				return err
			}
			out = append(out, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
