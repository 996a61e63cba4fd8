package db

import (
	"context"
	"errors"

	"github.com/geocoder89/timetrack/internal/config"
	"github.com/geocoder89/timetrack/internal/domain/user"
	"github.com/geocoder89/timetrack/internal/security"
)

type SeedUserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

// EnsureSeedUser creates the SEED_USER_* account once. It is a no-op when
// either the email or the password is unset.
func EnsureSeedUser(ctx context.Context, users SeedUserStore, cfg config.Config) error {
	if cfg.SeedUserEmail == "" || cfg.SeedUserPassword == "" {
		return nil
	}

	seed := user.New(cfg.SeedUserEmail, "", cfg.SeedUserName)

	_, err := users.GetByEmail(ctx, seed.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	seed.PasswordHash, err = security.HashPassword(cfg.SeedUserPassword)
	if err != nil {
		return err
	}

	_, err = users.Create(ctx, seed)
	if errors.Is(err, user.ErrEmailAlreadyUsed) {
		return nil
	}
	return err
}
