package source

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by sources when the parameter set does not exist remotely.
var ErrNotFound = errors.New("parameters not found")

// FetchSettings is applied to a source before its first fetch.
type FetchSettings struct {
	// FetchTimeout bounds a single FetchAndActivate call.
	FetchTimeout time.Duration
	// MinimumFetchInterval is the minimum age of the active snapshot before a refresh contacts
	// the backend again.
	MinimumFetchInterval time.Duration
}

// Source is the remote source adapter.
type Source interface {
	// Ready reports whether the adapter finished its own bootstrap.
	Ready() bool
	// Configure applies fetch settings.
	Configure(settings FetchSettings)
	// FetchAndActivate fetches the latest values and activates them.
	// The boolean reports whether the active snapshot changed.
	FetchAndActivate(ctx context.Context) (bool, error)
	// Value returns the active value for key.
	Value(key string) (string, bool)
	// All returns a copy of the active snapshot. It returns nil before the first activation.
	All() map[string]string
}
