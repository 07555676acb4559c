package bootstrap

import (
	"sync"
	"sync/atomic"
	"time"
)

// Status is the coordinator's view of the store.
type Status int32

const (
	StatusUninitialized Status = iota
	StatusInProgress
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// State holds the bootstrap status of one Coordinator. Status is atomic so
// the fast path can read it without the guard; startedAt and the last report
// sit behind a small mutex.
type State struct {
	status    atomic.Int32
	attempted atomic.Bool

	mu        sync.RWMutex
	startedAt time.Time
	report    *Report
}

// Status returns the current status.
func (s *State) Status() Status {
	return Status(s.status.Load())
}

// StartedAt returns when the current or last attempt started, or the zero
// time if no attempt has run.
func (s *State) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

// begin moves to InProgress. Callers hold the guard.
func (s *State) begin(at time.Time) {
	s.mu.Lock()
	s.startedAt = at
	s.mu.Unlock()
	s.attempted.Store(true)
	s.status.Store(int32(StatusInProgress))
}

// hasAttempted reports whether this process has started a seed pass. Data
// left behind by a rolled-back pass must not pass for legacy data.
func (s *State) hasAttempted() bool {
	return s.attempted.Load()
}

func (s *State) complete() {
	s.status.Store(int32(StatusCompleted))
}

// rollback returns to Uninitialized after a fatal failure.
func (s *State) rollback() {
	s.status.Store(int32(StatusUninitialized))
}

// observeCompleted records that the store was found initialized. It only
// moves from Uninitialized, so it never clobbers a running attempt, and
// reports whether this call made the transition.
func (s *State) observeCompleted() bool {
	return s.status.CompareAndSwap(int32(StatusUninitialized), int32(StatusCompleted))
}

func (s *State) setReport(r *Report) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}

func (s *State) lastReport() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}
