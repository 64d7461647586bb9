// Package mutation tracks the lifecycle of a remote mutation: idle, pending,
// then success or error. A tracker refuses re-entry while a call is pending
// and discards results of calls that were cancelled or superseded.
package mutation

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrPending is returned by Begin while a call is already in flight.
	ErrPending = errors.New("mutation already pending")
	// ErrStale is returned by Finish for a token that is no longer current.
	ErrStale = errors.New("mutation result is stale")
)

// Status is the lifecycle stage of a mutation.
type Status int

// Mutation statuses.
const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time view of a tracker.
type Snapshot struct {
	Status Status
	Err    error
}

// Pending reports whether a call is in flight.
func (s Snapshot) Pending() bool {
	return s.Status == StatusPending
}

// Token identifies one call started by Begin.
type Token uint64

// Tracker is a tri-state mutation machine. It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	status  Status
	err     error
	current Token
	cancel  context.CancelFunc
}

// Begin moves the tracker to pending and returns the call's token and a
// context derived from ctx that Cancel aborts.
func (t *Tracker) Begin(ctx context.Context) (Token, context.Context, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == StatusPending {
		return 0, nil, ErrPending
	}

	callCtx, cancel := context.WithCancel(ctx)

	t.current++
	t.status = StatusPending
	t.err = nil
	t.cancel = cancel

	return t.current, callCtx, nil
}

// Finish records the outcome of the call identified by token. It returns
// ErrStale, leaving the tracker untouched, when the call was cancelled or
// superseded; the caller must then drop the result.
func (t *Tracker) Finish(token Token, callErr error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if token != t.current || t.status != StatusPending {
		return ErrStale
	}

	t.release()

	if callErr != nil {
		t.status = StatusError
		t.err = callErr

		return nil
	}

	t.status = StatusSuccess
	t.err = nil

	return nil
}

// Commit runs apply while holding the tracker lock, then marks the call
// successful. Late results of cancelled calls are not applied.
func (t *Tracker) Commit(token Token, apply func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if token != t.current || t.status != StatusPending {
		return ErrStale
	}

	apply()
	t.release()

	t.status = StatusSuccess
	t.err = nil

	return nil
}

// Cancel aborts the pending call, if any, and returns the tracker to idle.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != StatusPending {
		return
	}

	t.release()
	t.current++
	t.status = StatusIdle
	t.err = nil
}

// Reset returns a settled tracker to idle. A pending call is not affected.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == StatusPending {
		return
	}

	t.status = StatusIdle
	t.err = nil
}

// Snapshot returns the current status and error.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{Status: t.status, Err: t.err}
}

func (t *Tracker) release() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
