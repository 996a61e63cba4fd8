package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var errNotLoggedIn = errors.New(`not logged in: run "timetrack login" first`)

// tokenPath honours TIMETRACK_HOME so tests and multiple accounts can use
// a different directory than ~/.timetrack.
func tokenPath() (string, error) {
	if dir := os.Getenv("TIMETRACK_HOME"); dir != "" {
		return filepath.Join(dir, "token"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".timetrack", "token"), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", errNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", errNotLoggedIn
	}
	return token, nil
}

func removeToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
