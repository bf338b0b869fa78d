package view

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateReplacesValueOnSuccess(t *testing.T) {
	var s State[string, []string]

	ticket := s.Begin("stu-1")
	require.True(t, s.Loading())
	require.True(t, s.Complete(ticket, []string{"a", "b"}, nil))

	assert.Equal(t, []string{"a", "b"}, s.Value())
	assert.False(t, s.Loading())

	// A later fetch replaces the value wholesale, it never merges.
	ticket = s.Begin("stu-1")
	require.True(t, s.Complete(ticket, []string{"c"}, nil))
	assert.Equal(t, []string{"c"}, s.Value())
}

func TestStateKeepsValueOnFailure(t *testing.T) {
	var s State[string, []string]

	ticket := s.Begin("stu-1")
	require.True(t, s.Complete(ticket, []string{"held"}, nil))

	ticket = s.Begin("stu-1")
	applied := s.Complete(ticket, nil, errors.New("backend down"))

	require.True(t, applied)
	assert.Equal(t, []string{"held"}, s.Value(), "failed fetch must not clear the held value")
	assert.False(t, s.Loading())
}

func TestStateDiscardsStaleCompletion(t *testing.T) {
	var s State[AudienceKey, []string]

	stale := s.Begin(AudienceKey{Department: "BIS", Level: 1})
	fresh := s.Begin(AudienceKey{Department: "BIS", Level: 2})

	// The level-1 fetch finishes after the key moved to level 2.
	assert.False(t, s.Complete(stale, []string{"old"}, nil))
	assert.Empty(t, s.Value())
	assert.True(t, s.Loading(), "the in-flight fetch for the new key is still pending")

	require.True(t, s.Complete(fresh, []string{"new"}, nil))
	assert.Equal(t, []string{"new"}, s.Value())
}

func TestStateStaleFailureDoesNotClearLoading(t *testing.T) {
	var s State[string, int]

	stale := s.Begin("a")
	_ = s.Begin("b")

	assert.False(t, s.Complete(stale, 0, errors.New("late failure")))
	assert.True(t, s.Loading())
}

func TestStateReset(t *testing.T) {
	var s State[string, []string]

	ticket := s.Begin("stu-1")
	require.True(t, s.Complete(ticket, []string{"x"}, nil))

	s.Reset()
	assert.Empty(t, s.Value())
	assert.False(t, s.Loading())

	// A completion for the pre-reset key must not land.
	assert.False(t, s.Complete(ticket, []string{"ghost"}, nil))
	assert.Empty(t, s.Value())
}
