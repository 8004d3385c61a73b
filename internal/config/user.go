package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const userFile = "user.json"

type userRecord struct {
	UserID string `json:"user_id"`
}

// UserID returns the local user id stored in dir/user.json, creating the
// file with a new random id on first use.
func UserID(dir string) (string, error) {
	path := filepath.Join(dir, userFile)

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		var rec userRecord
		if err := json.Unmarshal(b, &rec); err != nil {
			return "", fmt.Errorf("parse %s: %w", path, err)
		}
		if rec.UserID != "" {
			return rec.UserID, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	rec := userRecord{UserID: uuid.New().String()}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	out, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return rec.UserID, nil
}
