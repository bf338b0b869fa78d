package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
)

// ErrNoSnapshot is returned by snapshot stores when nothing is persisted.
var ErrNoSnapshot = errors.New("no session snapshot")

// SnapshotStore persists the signed-in student record across restarts.
type SnapshotStore interface {
	Save(ctx context.Context, student *models.Student) error
	Load(ctx context.Context) (*models.Student, error)
	Clear(ctx context.Context) error
}

// Store holds the currently authenticated student. It is the only shared
// mutable resource across views: every page reads it, and only Login, Update
// and Logout write it.
type Store struct {
	mu        sync.RWMutex
	current   *models.Student
	snapshots SnapshotStore
	logger    *zap.Logger
}

// NewStore constructs a session store backed by the given snapshot store.
func NewStore(snapshots SnapshotStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{snapshots: snapshots, logger: logger}
}

// Login installs the student as the live session subject and persists a
// serialized copy.
func (s *Store) Login(ctx context.Context, student *models.Student) error {
	if student == nil {
		return errors.New("nil student")
	}

	s.mu.Lock()
	copied := *student
	s.current = &copied
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, student); err != nil {
		s.logger.Warn("session snapshot save failed", zap.Error(err))
	}
	return nil
}

// Logout clears the live session and removes the persisted copy, so a later
// Restore yields unauthenticated.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.snapshots.Clear(ctx); err != nil {
		s.logger.Warn("session snapshot clear failed", zap.Error(err))
		return err
	}
	return nil
}

// Restore hydrates the session from the persisted snapshot at process start.
// The record is trusted without re-validating against the row backend. A
// corrupt snapshot fails closed: it is discarded and the session stays
// unauthenticated.
func (s *Store) Restore(ctx context.Context) bool {
	student, err := s.snapshots.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			s.logger.Warn("session snapshot unreadable, forcing re-login", zap.Error(err))
			_ = s.snapshots.Clear(ctx)
		}
		return false
	}

	s.mu.Lock()
	s.current = student
	s.mu.Unlock()
	return true
}

// Update replaces the in-memory student after a successful profile edit and
// re-persists the snapshot so a reload sees the edited record.
func (s *Store) Update(ctx context.Context, student *models.Student) error {
	if student == nil {
		return errors.New("nil student")
	}

	s.mu.Lock()
	copied := *student
	s.current = &copied
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, student); err != nil {
		s.logger.Warn("session snapshot save failed", zap.Error(err))
	}
	return nil
}

// Current returns a copy of the live student record, if any. A Student is
// present exactly when the session is authenticated.
func (s *Store) Current() (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Student{}, false
	}
	return *s.current, true
}

// Authenticated reports whether a student is live.
func (s *Store) Authenticated() bool {
	_, ok := s.Current()
	return ok
}
