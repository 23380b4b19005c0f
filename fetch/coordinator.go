package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/0xalexb/hjarta-rc/configerror"
	"github.com/0xalexb/hjarta-rc/settings"
	"github.com/0xalexb/hjarta-rc/source"

	"golang.org/x/sync/singleflight"
)

const flightKey = "fetch-and-activate"

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithState injects the State, for sharing it or inspecting it in tests.
func WithState(state *State) Option {
	return func(c *Coordinator) {
		c.state = state
	}
}

// WithMetrics records fetch outcomes.
func WithMetrics(metrics *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = metrics
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// Coordinator serializes fetch-and-activate calls against one source.
type Coordinator struct {
	source  source.Source
	state   *State
	metrics *Metrics
	now     func() time.Time
	group   singleflight.Group

	mu       sync.RWMutex
	settings source.FetchSettings
}

// NewCoordinator creates a Coordinator for src.
func NewCoordinator(src source.Source, opts ...Option) *Coordinator {
	coordinator := &Coordinator{
		source: src,
		state:  NewState(),
		now:    time.Now,
	}

	for _, apply := range opts {
		apply(coordinator)
	}

	return coordinator
}

// Source returns the coordinated source.
func (c *Coordinator) Source() source.Source {
	return c.source
}

// State returns the fetch state.
func (c *Coordinator) State() *State {
	return c.state
}

// FetchSettings returns the settings applied by the last Initialize.
func (c *Coordinator) FetchSettings() source.FetchSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.settings
}

// Initialize applies fetch timeout and interval to the source.
// It fails with AdapterNotReady when the source has not finished its own setup.
func (c *Coordinator) Initialize(s settings.Settings) error {
	if c.source == nil || !c.source.Ready() {
		return configerror.Newf(configerror.AdapterNotReady, "remote source adapter isn't initialized")
	}

	fetchSettings := source.FetchSettings{
		FetchTimeout:         s.FetchTimeout(),
		MinimumFetchInterval: s.MinimumFetchInterval(),
	}

	c.mu.Lock()
	c.settings = fetchSettings
	c.mu.Unlock()

	c.source.Configure(fetchSettings)
	c.state.initialized.Store(true)

	slog.Debug("remote source configured",
		"fetch_timeout", fetchSettings.FetchTimeout,
		"minimum_fetch_interval", fetchSettings.MinimumFetchInterval)

	return nil
}

// FetchAndActivate fetches and activates remote values unless a previous call succeeded.
func (c *Coordinator) FetchAndActivate(ctx context.Context) error {
	if !c.state.Initialized() {
		return configerror.Newf(configerror.AdapterNotReady, "fetch requested before initialize")
	}

	if c.state.FetchedOnce() {
		c.metrics.record(ResultCached)
		slog.Debug("remote config already fetched")

		return nil
	}

	return c.fetch(ctx, false)
}

// Refresh fetches again even after a successful fetch, unless the active snapshot is younger
// than the minimum fetch interval.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if !c.state.Initialized() {
		return configerror.Newf(configerror.AdapterNotReady, "refresh requested before initialize")
	}

	if c.state.FetchedOnce() {
		age := c.now().Sub(c.state.LastFetch())
		if age < c.FetchSettings().MinimumFetchInterval {
			c.metrics.record(ResultThrottled)
			slog.Debug("remote config refresh throttled", "age", age)

			return nil
		}
	}

	return c.fetch(ctx, true)
}

// Reset clears the fetch state. The next load initializes and fetches again.
func (c *Coordinator) Reset() {
	c.state.Reset()
}

func (c *Coordinator) fetch(ctx context.Context, force bool) error {
	results := c.group.DoChan(flightKey, func() (any, error) {
		return nil, c.fetchOnce(ctx, force)
	})

	select {
	case result := <-results:
		return result.Err //nolint:wrapcheck // already a *configerror.Error
	case <-ctx.Done():
		return configerror.New(configerror.ConfigResourceNotFound, "waiting for fetch", ctx.Err())
	}
}

func (c *Coordinator) fetchOnce(ctx context.Context, force bool) (err error) {
	if !force && c.state.FetchedOnce() {
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			c.metrics.record(ResultError)

			err = configerror.New(configerror.Unknown, fmt.Sprintf("remote source panicked: %v", rec), nil)
		}
	}()

	timeout := c.FetchSettings().FetchTimeout
	if timeout <= 0 {
		timeout = settings.DefaultFetchTimeout
	}

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	start := c.now()

	updated, fetchErr := c.source.FetchAndActivate(fetchCtx)
	elapsed := c.now().Sub(start)

	if fetchErr != nil {
		c.metrics.observe(ResultError, elapsed)
		slog.Warn("remote config fetch failed", "error", fetchErr, "duration", elapsed)

		return configerror.FromSource(fetchErr, configerror.ConfigResourceNotFound, fetchErr.Error())
	}

	c.state.markFetched(c.now())
	c.metrics.observe(ResultSuccess, elapsed)
	slog.Info("remote config fetched", "updated", updated, "duration", elapsed)

	return nil
}

// Watch calls Refresh every interval until ctx is done. A failed refresh is logged and retried
// on the next tick; the active snapshot stays in place.
func (c *Coordinator) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := c.Refresh(ctx)
			if err != nil {
				slog.Warn("remote config refresh failed", "error", err)
			}
		}
	}
}
