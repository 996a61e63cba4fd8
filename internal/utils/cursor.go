package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// EntryCursor points at the last time entry of a page. Entries are listed
// by date desc, created_at desc, id desc.
type EntryCursor struct {
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

func EncodeEntryCursor(date string, createdAt time.Time, id string) (string, error) {
	b, err := json.Marshal(EntryCursor{Date: date, CreatedAt: createdAt, ID: id})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeEntryCursor(cursor string) (EntryCursor, error) {
	if cursor == "" {
		return EntryCursor{}, errors.New("empty cursor")
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return EntryCursor{}, err
	}

	var c EntryCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return EntryCursor{}, err
	}
	if c.ID == "" || c.Date == "" || c.CreatedAt.IsZero() {
		return EntryCursor{}, errors.New("invalid cursor payload")
	}
	if _, err := time.Parse("2006-01-02", c.Date); err != nil {
		return EntryCursor{}, errors.New("invalid cursor date")
	}
	return c, nil
}
