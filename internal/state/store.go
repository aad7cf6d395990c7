// Package state holds the current snapshot shown to readers.
package state

import (
	"sync/atomic"
	"time"

	"electwatch/internal"
)

// Store keeps exactly one current snapshot. It is empty until the first
// successful refresh and is only ever replaced as a whole, so readers never
// observe a partial update. Callers must not modify returned records.
type Store struct {
	current   atomic.Pointer[internal.Snapshot]
	attempted atomic.Bool
}

func New() *Store {
	return &Store{}
}

func (s *Store) Current() internal.Snapshot {
	if snap := s.current.Load(); snap != nil {
		return *snap
	}
	return internal.Snapshot{}
}

// LastUpdated is the fetch time of the current snapshot.
func (s *Store) LastUpdated() (time.Time, bool) {
	snap := s.current.Load()
	if snap == nil {
		return time.Time{}, false
	}
	return snap.FetchedAt, true
}

// Replace swaps in snap. An empty snapshot is refused and leaves the current
// one in place.
func (s *Store) Replace(snap internal.Snapshot) bool {
	if snap.Empty() {
		return false
	}
	s.current.Store(&snap)
	return true
}

// Restore seeds the store from persisted data at startup. It does not count
// as a refresh attempt.
func (s *Store) Restore(snap internal.Snapshot) bool {
	return s.Replace(snap)
}

// MarkAttempt records that a refresh was tried.
func (s *Store) MarkAttempt() {
	s.attempted.Store(true)
}

// NoData reports that a refresh was attempted but none has ever succeeded.
func (s *Store) NoData() bool {
	return s.attempted.Load() && s.current.Load() == nil
}
