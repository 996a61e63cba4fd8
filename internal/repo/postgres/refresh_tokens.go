package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/timetrack/internal/domain/session"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RefreshTokensRepo struct {
	base
}

func NewRefreshTokensRepo(pool *pgxpool.Pool, prom *observability.Prom) *RefreshTokensRepo {
	return &RefreshTokensRepo{base{pool: pool, prom: prom}}
}

func (r *RefreshTokensRepo) Create(ctx context.Context, row session.RefreshToken) error {
	return r.observe("refresh_tokens.create", func() error {
		return insertRefreshToken(ctx, r.pool, row)
	})
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertRefreshToken(ctx context.Context, db execer, row session.RefreshToken) error {
	_, err := db.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked_at, replaced_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		row.ID, row.UserID, row.TokenHash, row.ExpiresAt, row.RevokedAt, row.ReplacedBy, row.CreatedAt,
	)
	return err
}

// Rotate revokes the presented token and stores next in its place. The old
// row is locked so two concurrent refreshes cannot both succeed.
func (r *RefreshTokensRepo) Rotate(ctx context.Context, oldID, presentedHash string, next session.RefreshToken) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var row session.RefreshToken
	err = r.observe("refresh_tokens.rotate.lock", func() error {
		return tx.QueryRow(ctx, `
			SELECT id, user_id, token_hash, expires_at, revoked_at, replaced_by, created_at
			FROM refresh_tokens
			WHERE id = $1
			FOR UPDATE
		`, oldID).Scan(
			&row.ID,
			&row.UserID,
			&row.TokenHash,
			&row.ExpiresAt,
			&row.RevokedAt,
			&row.ReplacedBy,
			&row.CreatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.ErrInvalidRefresh
		}
		return err
	}

	if row.UserID != next.UserID {
		return session.ErrInvalidRefresh
	}
	if err := row.CheckPresented(presentedHash, time.Now().UTC()); err != nil {
		return err
	}

	err = r.observe("refresh_tokens.rotate.revoke", func() error {
		_, err := tx.Exec(ctx, `
			UPDATE refresh_tokens
			SET revoked_at = NOW(), replaced_by = $2
			WHERE id = $1
		`, row.ID, next.ID)
		return err
	})
	if err != nil {
		return err
	}

	err = r.observe("refresh_tokens.rotate.insert", func() error {
		return insertRefreshToken(ctx, tx, next)
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Revoke is idempotent.
func (r *RefreshTokensRepo) Revoke(ctx context.Context, id string) error {
	return r.observe("refresh_tokens.revoke", func() error {
		_, err := r.pool.Exec(ctx, `
			UPDATE refresh_tokens
			SET revoked_at = NOW()
			WHERE id = $1 AND revoked_at IS NULL
		`, id)
		return err
	})
}
