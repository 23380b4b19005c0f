package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0xalexb/hjarta-rc/configerror"
	"github.com/0xalexb/hjarta-rc/settings"
	"github.com/0xalexb/hjarta-rc/source"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	ready     bool
	calls     atomic.Int32
	fetchFunc func(ctx context.Context) (bool, error)

	mu       sync.Mutex
	settings source.FetchSettings
}

func newMockSource(fetchFunc func(ctx context.Context) (bool, error)) *mockSource {
	return &mockSource{ready: true, fetchFunc: fetchFunc}
}

func (m *mockSource) Ready() bool { return m.ready }

func (m *mockSource) Configure(settings source.FetchSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = settings
}

func (m *mockSource) FetchAndActivate(ctx context.Context) (bool, error) {
	m.calls.Add(1)

	return m.fetchFunc(ctx)
}

func (m *mockSource) Value(_ string) (string, bool) { return "", false }
func (m *mockSource) All() map[string]string        { return nil }

func succeed(_ context.Context) (bool, error) { return true, nil }

type backendError struct{}

func (backendError) Error() string  { return "quota exceeded" }
func (backendError) ErrorCode() int { return 8 }

func initialized(t *testing.T, src source.Source, opts ...Option) *Coordinator {
	t.Helper()

	coordinator := NewCoordinator(src, opts...)
	require.NoError(t, coordinator.Initialize(settings.Settings{Mode: settings.Decomposed}))

	return coordinator
}

func TestInitialize_AdapterNotReady(t *testing.T) {
	t.Parallel()

	src := newMockSource(succeed)
	src.ready = false

	coordinator := NewCoordinator(src)

	err := coordinator.Initialize(settings.Settings{})

	require.ErrorIs(t, err, configerror.ErrAdapterNotReady)
	assert.False(t, coordinator.State().Initialized())
}

func TestInitialize_NilSource(t *testing.T) {
	t.Parallel()

	err := NewCoordinator(nil).Initialize(settings.Settings{})

	require.ErrorIs(t, err, configerror.ErrAdapterNotReady)
}

func TestInitialize_AppliesFetchSettings(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		settings settings.Settings
		expected source.FetchSettings
	}{
		{
			name:     "release defaults",
			settings: settings.Settings{},
			expected: source.FetchSettings{FetchTimeout: 60 * time.Second, MinimumFetchInterval: 5 * time.Minute},
		},
		{
			name:     "debug with fallback timeout",
			settings: settings.Settings{Debug: true, FallbackEnabled: true, FallbackTimeoutMillis: 3000},
			expected: source.FetchSettings{FetchTimeout: 3 * time.Second},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			src := newMockSource(succeed)
			coordinator := NewCoordinator(src)

			require.NoError(t, coordinator.Initialize(testCase.settings))
			assert.Equal(t, testCase.expected, src.settings)
			assert.Equal(t, testCase.expected, coordinator.FetchSettings())
			assert.True(t, coordinator.State().Initialized())
		})
	}
}

func TestFetchAndActivate_BeforeInitialize(t *testing.T) {
	t.Parallel()

	src := newMockSource(succeed)

	err := NewCoordinator(src).FetchAndActivate(context.Background())

	require.ErrorIs(t, err, configerror.ErrAdapterNotReady)
	assert.Zero(t, src.calls.Load())
}

func TestFetchAndActivate_SecondCallIsCached(t *testing.T) {
	t.Parallel()

	src := newMockSource(succeed)
	coordinator := initialized(t, src)

	require.NoError(t, coordinator.FetchAndActivate(context.Background()))
	require.NoError(t, coordinator.FetchAndActivate(context.Background()))

	assert.Equal(t, int32(1), src.calls.Load())
	assert.True(t, coordinator.State().FetchedOnce())
}

func TestFetchAndActivate_NoUpdateStillCountsAsFetched(t *testing.T) {
	t.Parallel()

	src := newMockSource(func(_ context.Context) (bool, error) { return false, nil })
	coordinator := initialized(t, src)

	require.NoError(t, coordinator.FetchAndActivate(context.Background()))
	require.NoError(t, coordinator.FetchAndActivate(context.Background()))

	assert.Equal(t, int32(1), src.calls.Load())
	assert.True(t, coordinator.State().FetchedOnce())
}

func TestFetchAndActivate_FailureAllowsRetry(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool

	fail.Store(true)

	cause := errors.New("network unreachable")
	src := newMockSource(func(_ context.Context) (bool, error) {
		if fail.Load() {
			return false, cause
		}

		return true, nil
	})
	coordinator := initialized(t, src)

	err := coordinator.FetchAndActivate(context.Background())
	require.ErrorIs(t, err, configerror.ErrNotFound)
	require.ErrorIs(t, err, cause)
	assert.False(t, coordinator.State().FetchedOnce())

	fail.Store(false)

	require.NoError(t, coordinator.FetchAndActivate(context.Background()))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestFetchAndActivate_BackendCodePassesThrough(t *testing.T) {
	t.Parallel()

	src := newMockSource(func(_ context.Context) (bool, error) { return false, backendError{} })

	err := initialized(t, src).FetchAndActivate(context.Background())

	assert.Equal(t, configerror.Code(8), configerror.CodeOf(err))
}

func TestFetchAndActivate_PanicIsUnknown(t *testing.T) {
	t.Parallel()

	src := newMockSource(func(_ context.Context) (bool, error) { panic("adapter bug") })
	coordinator := initialized(t, src)

	err := coordinator.FetchAndActivate(context.Background())

	require.ErrorIs(t, err, configerror.ErrUnknown)
	assert.Contains(t, err.Error(), "adapter bug")
	assert.False(t, coordinator.State().FetchedOnce())
}

func TestFetchAndActivate_TimeoutFromSettings(t *testing.T) {
	t.Parallel()

	src := newMockSource(func(ctx context.Context) (bool, error) {
		<-ctx.Done()

		return false, ctx.Err()
	})

	coordinator := NewCoordinator(src)
	require.NoError(t, coordinator.Initialize(settings.Settings{FallbackEnabled: true, FallbackTimeoutMillis: 20}))

	err := coordinator.FetchAndActivate(context.Background())

	require.ErrorIs(t, err, configerror.ErrNotFound)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchAndActivate_ConcurrentCallersShareOneFetch(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)

	src := newMockSource(func(_ context.Context) (bool, error) {
		select {
		case started <- struct{}{}:
		default:
		}

		<-release

		return true, nil
	})
	coordinator := initialized(t, src)

	const callers = 16

	var wg sync.WaitGroup

	errs := make(chan error, callers)

	for range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs <- coordinator.FetchAndActivate(context.Background())
		}()
	}

	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestFetchAndActivate_AbandonedWaitDoesNotCancelFetch(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	src := newMockSource(func(ctx context.Context) (bool, error) {
		select {
		case <-release:
			return true, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	})
	coordinator := initialized(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := coordinator.FetchAndActivate(ctx)
	require.ErrorIs(t, err, configerror.ErrNotFound)

	close(release)

	require.Eventually(t, coordinator.State().FetchedOnce, time.Second, 5*time.Millisecond)
}

func TestRefresh_HonoursMinimumInterval(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var clockMu sync.Mutex

	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()

		return now
	}
	advance := func(d time.Duration) {
		clockMu.Lock()
		defer clockMu.Unlock()

		now = now.Add(d)
	}

	src := newMockSource(succeed)
	coordinator := initialized(t, src, WithClock(clock))

	require.NoError(t, coordinator.FetchAndActivate(context.Background()))

	require.NoError(t, coordinator.Refresh(context.Background()))
	assert.Equal(t, int32(1), src.calls.Load(), "refresh inside the interval is throttled")

	advance(settings.ReleaseMinimumFetchInterval)

	require.NoError(t, coordinator.Refresh(context.Background()))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestRefresh_DebugAlwaysFetches(t *testing.T) {
	t.Parallel()

	src := newMockSource(succeed)
	coordinator := NewCoordinator(src)
	require.NoError(t, coordinator.Initialize(settings.Settings{Debug: true}))

	require.NoError(t, coordinator.FetchAndActivate(context.Background()))
	require.NoError(t, coordinator.Refresh(context.Background()))
	require.NoError(t, coordinator.Refresh(context.Background()))

	assert.Equal(t, int32(3), src.calls.Load())
}

func TestRefresh_BeforeInitialize(t *testing.T) {
	t.Parallel()

	err := NewCoordinator(newMockSource(succeed)).Refresh(context.Background())

	require.ErrorIs(t, err, configerror.ErrAdapterNotReady)
}

func TestReset(t *testing.T) {
	t.Parallel()

	state := NewState()
	src := newMockSource(succeed)
	coordinator := initialized(t, src, WithState(state))

	require.NoError(t, coordinator.FetchAndActivate(context.Background()))
	require.False(t, state.LastFetch().IsZero())

	coordinator.Reset()

	assert.False(t, state.Initialized())
	assert.False(t, state.FetchedOnce())
	assert.True(t, state.LastFetch().IsZero())

	require.NoError(t, coordinator.Initialize(settings.Settings{}))
	require.NoError(t, coordinator.FetchAndActivate(context.Background()))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestMetrics_RecordsResults(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	src := newMockSource(succeed)
	coordinator := initialized(t, src, WithMetrics(metrics))

	require.NoError(t, coordinator.FetchAndActivate(context.Background()))
	require.NoError(t, coordinator.FetchAndActivate(context.Background()))
	require.NoError(t, coordinator.Refresh(context.Background()))

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Fetches(ResultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Fetches(ResultCached)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Fetches(ResultThrottled)), 0)
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	first, err := NewMetrics(reg)
	require.NoError(t, err)

	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.record(ResultError)

	assert.InDelta(t, 1, testutil.ToFloat64(second.Fetches(ResultError)), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var metrics *Metrics

	assert.NotPanics(t, func() {
		metrics.record(ResultCached)
		metrics.observe(ResultSuccess, time.Second)
	})
}

func TestWatch_RefreshesUntilCanceled(t *testing.T) {
	t.Parallel()

	src := newMockSource(succeed)
	coordinator := NewCoordinator(src)
	require.NoError(t, coordinator.Initialize(settings.Settings{Debug: true}))
	require.NoError(t, coordinator.FetchAndActivate(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		coordinator.Watch(ctx, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return src.calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not return after cancel")
	}
}

func TestWatch_NonPositiveIntervalReturns(t *testing.T) {
	t.Parallel()

	src := newMockSource(succeed)

	NewCoordinator(src).Watch(context.Background(), 0)

	assert.Zero(t, src.calls.Load())
}
