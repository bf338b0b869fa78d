package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abbasia-institute/portal-api/internal/models"
)

// FileSnapshotStore keeps the session snapshot as one JSON file on disk, the
// durable-storage equivalent of the browser portal's single storage key.
type FileSnapshotStore struct {
	path string
}

// NewFileSnapshotStore ensures the parent directory exists.
func NewFileSnapshotStore(path string) (*FileSnapshotStore, error) {
	if path == "" {
		path = "./data/session.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &FileSnapshotStore{path: path}, nil
}

// Save serializes the student record to disk.
func (s *FileSnapshotStore) Save(_ context.Context, student *models.Student) error {
	payload, err := json.Marshal(student)
	if err != nil {
		return fmt.Errorf("marshal session snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write session snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing file maps to ErrNoSnapshot; a file that
// does not parse is reported as an error so the caller can fail closed.
func (s *FileSnapshotStore) Load(_ context.Context) (*models.Student, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read session snapshot: %w", err)
	}

	var student models.Student
	if err := json.Unmarshal(raw, &student); err != nil {
		return nil, fmt.Errorf("parse session snapshot: %w", err)
	}
	if student.ID == "" {
		return nil, fmt.Errorf("session snapshot missing student id")
	}
	return &student, nil
}

// Clear removes the snapshot file if present.
func (s *FileSnapshotStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session snapshot: %w", err)
	}
	return nil
}
