package fetch

import (
	"sync/atomic"
	"time"
)

// State is the fetch state shared by every load that goes through one Coordinator.
// Flags only move from false to true unless Reset is called.
type State struct {
	initialized atomic.Bool
	fetchedOnce atomic.Bool
	lastFetch   atomic.Int64
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Initialized reports whether the source was configured.
func (s *State) Initialized() bool {
	return s.initialized.Load()
}

// FetchedOnce reports whether a fetch-and-activate succeeded.
func (s *State) FetchedOnce() bool {
	return s.fetchedOnce.Load()
}

// LastFetch returns when the last successful fetch completed, or the zero time.
func (s *State) LastFetch() time.Time {
	nanos := s.lastFetch.Load()
	if nanos == 0 {
		return time.Time{}
	}

	return time.Unix(0, nanos)
}

// Reset clears every flag.
func (s *State) Reset() {
	s.initialized.Store(false)
	s.fetchedOnce.Store(false)
	s.lastFetch.Store(0)
}

func (s *State) markFetched(at time.Time) {
	s.lastFetch.Store(at.UnixNano())
	s.fetchedOnce.Store(true)
}
