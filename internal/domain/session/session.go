package session

import (
	"time"

	"github.com/geocoder89/timetrack/internal/apperror"
)

// RefreshToken is the stored side of a refresh JWT. ID is the token's jti.
type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *string
	CreatedAt  time.Time
}

var (
	ErrInvalidRefresh = apperror.Auth("invalid_refresh", "Invalid refresh token.")
	ErrExpiredRefresh = apperror.Auth("expired_refresh", "Refresh token expired.")
)

// CheckPresented validates a stored row against the hash of the token the
// client presented.
func (t RefreshToken) CheckPresented(hash string, now time.Time) error {
	if t.RevokedAt != nil || t.TokenHash != hash {
		return ErrInvalidRefresh
	}
	if now.After(t.ExpiresAt) {
		return ErrExpiredRefresh
	}
	return nil
}
