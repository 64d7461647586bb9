// Package mutation_test tests the mutation lifecycle tracker.
package mutation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/book-expert/voice-studio/internal/mutation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMockRemote = errors.New("mock remote error")

func TestTracker_SuccessLifecycle(t *testing.T) {
	t.Parallel()

	var tracker mutation.Tracker

	assert.Equal(t, mutation.StatusIdle, tracker.Snapshot().Status)

	token, callCtx, err := tracker.Begin(context.Background())
	require.NoError(t, err)
	assert.True(t, tracker.Snapshot().Pending())

	applied := false
	err = tracker.Commit(token, func() { applied = true })
	require.NoError(t, err)

	assert.True(t, applied)
	assert.Equal(t, mutation.StatusSuccess, tracker.Snapshot().Status)
	require.ErrorIs(t, callCtx.Err(), context.Canceled, "settled calls release their context")
}

func TestTracker_ErrorLifecycle(t *testing.T) {
	t.Parallel()

	var tracker mutation.Tracker

	token, _, err := tracker.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, tracker.Finish(token, errMockRemote))

	snapshot := tracker.Snapshot()
	assert.Equal(t, mutation.StatusError, snapshot.Status)
	require.ErrorIs(t, snapshot.Err, errMockRemote)
	assert.False(t, snapshot.Pending())

	_, _, err = tracker.Begin(context.Background())
	require.NoError(t, err, "a failed mutation can be retried")
}

func TestTracker_RejectsReentryWhilePending(t *testing.T) {
	t.Parallel()

	var tracker mutation.Tracker

	_, _, err := tracker.Begin(context.Background())
	require.NoError(t, err)

	_, _, err = tracker.Begin(context.Background())
	require.ErrorIs(t, err, mutation.ErrPending)
}

func TestTracker_CancelDiscardsLateResult(t *testing.T) {
	t.Parallel()

	var tracker mutation.Tracker

	token, callCtx, err := tracker.Begin(context.Background())
	require.NoError(t, err)

	tracker.Cancel()

	require.ErrorIs(t, callCtx.Err(), context.Canceled)
	assert.Equal(t, mutation.StatusIdle, tracker.Snapshot().Status)

	applied := false
	err = tracker.Commit(token, func() { applied = true })
	require.ErrorIs(t, err, mutation.ErrStale)
	assert.False(t, applied)

	require.ErrorIs(t, tracker.Finish(token, nil), mutation.ErrStale)
}

func TestTracker_SupersededTokenIsStale(t *testing.T) {
	t.Parallel()

	var tracker mutation.Tracker

	first, _, err := tracker.Begin(context.Background())
	require.NoError(t, err)

	tracker.Cancel()

	second, _, err := tracker.Begin(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.ErrorIs(t, tracker.Finish(first, nil), mutation.ErrStale)
	assert.True(t, tracker.Snapshot().Pending(), "stale finish leaves the new call pending")

	require.NoError(t, tracker.Finish(second, nil))
	assert.Equal(t, mutation.StatusSuccess, tracker.Snapshot().Status)
}

func TestTracker_Reset(t *testing.T) {
	t.Parallel()

	var tracker mutation.Tracker

	token, _, err := tracker.Begin(context.Background())
	require.NoError(t, err)

	tracker.Reset()
	assert.True(t, tracker.Snapshot().Pending(), "reset leaves pending calls alone")

	require.NoError(t, tracker.Finish(token, errMockRemote))

	tracker.Reset()
	assert.Equal(t, mutation.Snapshot{Status: mutation.StatusIdle, Err: nil}, tracker.Snapshot())
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", mutation.StatusIdle.String())
	assert.Equal(t, "pending", mutation.StatusPending.String())
	assert.Equal(t, "success", mutation.StatusSuccess.String())
	assert.Equal(t, "error", mutation.StatusError.String())
	assert.Equal(t, "unknown", mutation.Status(42).String())
}
