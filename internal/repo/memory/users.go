package memory

import (
	"context"
	"strings"

	"github.com/geocoder89/timetrack/internal/domain/session"
	"github.com/geocoder89/timetrack/internal/domain/user"
)

type UsersRepo struct {
	s *state
}

func (r *UsersRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrEmailAlreadyUsed
		}
	}
	r.s.users[u.ID] = u
	return u, nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) UpdateProfile(_ context.Context, id string, req user.UpdateProfileRequest) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	u = req.Apply(u)
	r.s.users[id] = u
	return u, nil
}

func (r *UsersRepo) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.users[id]
	return ok, nil
}

type RefreshTokensRepo struct {
	s *state
}

func (r *RefreshTokensRepo) Create(_ context.Context, row session.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tokens[row.ID] = row
	return nil
}

func (r *RefreshTokensRepo) Rotate(_ context.Context, oldID, presentedHash string, next session.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.tokens[oldID]
	if !ok || row.UserID != next.UserID {
		return session.ErrInvalidRefresh
	}
	now := next.CreatedAt
	if err := row.CheckPresented(presentedHash, now); err != nil {
		return err
	}

	row.RevokedAt = &now
	row.ReplacedBy = &next.ID
	r.s.tokens[oldID] = row
	r.s.tokens[next.ID] = next
	return nil
}

func (r *RefreshTokensRepo) Revoke(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.tokens[id]
	if !ok || row.RevokedAt != nil {
		return nil
	}
	now := timeNow()
	row.RevokedAt = &now
	r.s.tokens[id] = row
	return nil
}
