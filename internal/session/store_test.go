package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
)

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	snapshots, err := NewFileSnapshotStore(path)
	require.NoError(t, err)
	return NewStore(snapshots, zap.NewNop()), path
}

func sampleStudent() *models.Student {
	return &models.Student{
		ID:         "stu-1",
		NationalID: "30101011234567",
		FullName:   "أحمد محمد علي",
		Department: models.DepartmentBIS,
		Level:      2,
		GPA:        3.2,
	}
}

func TestStoreLoginRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, path := newFileStore(t)

	require.NoError(t, store.Login(ctx, sampleStudent()))
	require.True(t, store.Authenticated())

	// Fresh store over the same file simulates a process restart.
	snapshots, err := NewFileSnapshotStore(path)
	require.NoError(t, err)
	restored := NewStore(snapshots, zap.NewNop())

	require.True(t, restored.Restore(ctx))
	current, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "stu-1", current.ID)
	assert.Equal(t, "أحمد محمد علي", current.FullName)
}

func TestStoreRestoreWithoutSnapshot(t *testing.T) {
	store, _ := newFileStore(t)
	assert.False(t, store.Restore(context.Background()))
	assert.False(t, store.Authenticated())
}

func TestStoreCorruptSnapshotFailsClosed(t *testing.T) {
	ctx := context.Background()
	store, path := newFileStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	assert.False(t, store.Restore(ctx))
	assert.False(t, store.Authenticated())

	// The broken snapshot must be gone so the next start is clean.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStoreSnapshotMissingIDFailsClosed(t *testing.T) {
	ctx := context.Background()
	store, path := newFileStore(t)

	require.NoError(t, os.WriteFile(path, []byte(`{"full_name":"x"}`), 0o600))

	assert.False(t, store.Restore(ctx))
	assert.False(t, store.Authenticated())
}

func TestStoreLogoutClearsSnapshot(t *testing.T) {
	ctx := context.Background()
	store, path := newFileStore(t)

	require.NoError(t, store.Login(ctx, sampleStudent()))
	require.NoError(t, store.Logout(ctx))
	assert.False(t, store.Authenticated())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.False(t, store.Restore(ctx))
}

func TestStoreUpdateRePersists(t *testing.T) {
	ctx := context.Background()
	store, path := newFileStore(t)

	require.NoError(t, store.Login(ctx, sampleStudent()))

	edited := sampleStudent()
	edited.FullName = "أحمد محمود علي"
	require.NoError(t, store.Update(ctx, edited))

	snapshots, err := NewFileSnapshotStore(path)
	require.NoError(t, err)
	restored := NewStore(snapshots, zap.NewNop())
	require.True(t, restored.Restore(ctx))

	current, _ := restored.Current()
	assert.Equal(t, "أحمد محمود علي", current.FullName)
}

func TestStoreCurrentReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store, _ := newFileStore(t)
	require.NoError(t, store.Login(ctx, sampleStudent()))

	first, _ := store.Current()
	first.FullName = "mutated"

	second, _ := store.Current()
	assert.Equal(t, "أحمد محمد علي", second.FullName)
}
