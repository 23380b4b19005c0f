package source

import (
	"context"
	"maps"
	"sync"
)

// Static is an in-memory Source. Values passed to New become active on the first
// FetchAndActivate; Set stages new values for the next one.
type Static struct {
	mu       sync.RWMutex
	pending  map[string]string
	active   map[string]string
	settings FetchSettings
	fetches  int
	notReady bool
}

// NewStatic creates a ready Static source staging values.
func NewStatic(values map[string]string) *Static {
	return &Static{pending: maps.Clone(values)}
}

// SetReady toggles readiness, for exercising the not-ready path.
func (s *Static) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notReady = !ready
}

// Set stages values for the next FetchAndActivate.
func (s *Static) Set(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = maps.Clone(values)
}

// Ready implements Source.
func (s *Static) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return !s.notReady
}

// Configure implements Source.
func (s *Static) Configure(settings FetchSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
}

// Settings returns the last applied fetch settings.
func (s *Static) Settings() FetchSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// FetchAndActivate implements Source.
func (s *Static) FetchAndActivate(ctx context.Context) (bool, error) {
	err := ctx.Err()
	if err != nil {
		return false, err //nolint:wrapcheck // context errors are returned as is
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.fetches++

	if s.pending == nil {
		return false, nil
	}

	changed := !maps.Equal(s.active, s.pending) || s.active == nil
	s.active = s.pending
	s.pending = nil

	return changed, nil
}

// Fetches returns how many times FetchAndActivate ran.
func (s *Static) Fetches() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.fetches
}

// Value implements Source.
func (s *Static) Value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.active[key]

	return value, ok
}

// All implements Source.
func (s *Static) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.active)
}
