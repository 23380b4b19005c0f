package rc_test

import (
	"context"
	"log/slog"
	"testing"

	rc "github.com/0xalexb/hjarta-rc"
	"github.com/0xalexb/hjarta-rc/configerror"
	"github.com/0xalexb/hjarta-rc/fetch"
	"github.com/0xalexb/hjarta-rc/logging"
	"github.com/0xalexb/hjarta-rc/materialize"
	"github.com/0xalexb/hjarta-rc/resolver"
	"github.com/0xalexb/hjarta-rc/settings"
	"github.com/0xalexb/hjarta-rc/source"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

type flags struct {
	Count int64
	Name  string
}

//nolint:gochecknoglobals // test schema.
var flagsSchema = materialize.MustSchema(
	materialize.Int("count", func(f *flags) *int64 { return &f.Count }),
	materialize.String("name", func(f *flags) *string { return &f.Name }),
)

func staticSource(values map[string]string) func() (*source.Static, error) {
	return func() (*source.Static, error) {
		return source.NewStatic(values), nil
	}
}

func TestNewApp_CreatesAppWithDefaultLogLevel(t *testing.T) {
	t.Parallel()

	app := rc.NewApp()
	require.NotNil(t, app)
}

func TestNewApp_WithModules(t *testing.T) {
	t.Parallel()

	var invoked bool

	module := fx.Module("test",
		fx.Invoke(func() {
			invoked = true
		}),
	)

	app := rc.NewApp(rc.WithModules(module))

	require.NoError(t, app.Start())
	t.Cleanup(func() { _ = app.Stop() })
	require.True(t, invoked)
}

func TestNewApp_LoggerIsAvailableInFxContainer(t *testing.T) {
	t.Parallel()

	var (
		capturedLogger *slog.Logger
		capturedConfig logging.LoggerConfig
	)

	module := fx.Invoke(func(logger *slog.Logger, config logging.LoggerConfig) {
		capturedLogger = logger
		capturedConfig = config
	})

	app := rc.NewApp(
		rc.WithLogLevel("warn"),
		rc.WithLogFormat("text"),
		rc.WithModules(module),
	)

	require.NoError(t, app.Start())
	t.Cleanup(func() { _ = app.Stop() })
	require.NotNil(t, capturedLogger)
	require.Equal(t, logging.LoggerConfig{Level: "warn", Format: "text"}, capturedConfig)
}

func TestNewApp_ProvidesResolverStack(t *testing.T) {
	t.Parallel()

	var (
		res      *resolver.Resolver
		metrics  *fetch.Metrics
		registry *prometheus.Registry
	)

	app := rc.NewApp(
		rc.WithSource(staticSource(map[string]string{"count": "1"})),
		rc.WithModules(fx.Invoke(func(r *resolver.Resolver, m *fetch.Metrics, reg *prometheus.Registry) {
			res, metrics, registry = r, m, reg
		})),
	)

	require.NoError(t, app.Start())
	t.Cleanup(func() { _ = app.Stop() })

	require.NotNil(t, res)
	require.NotNil(t, metrics)
	require.NotNil(t, registry)
	require.NotNil(t, res.Coordinator().Source())
}

func TestProvideConfig_Decomposed(t *testing.T) {
	t.Parallel()

	var cfg *flags

	app := rc.NewApp(
		rc.WithLogLevel("error"),
		rc.WithSource(staticSource(map[string]string{"count": "5", "name": "abc"})),
		rc.WithSettings(settings.Settings{Mode: settings.Decomposed}),
		rc.WithModules(
			rc.ProvideConfig(flagsSchema),
			fx.Invoke(func(f *flags) { cfg = f }),
		),
	)

	require.NoError(t, app.Start())
	t.Cleanup(func() { _ = app.Stop() })

	require.Equal(t, &flags{Count: 5, Name: "abc"}, cfg)
}

func TestProvideConfig_FailureStopsStartup(t *testing.T) {
	t.Parallel()

	app := rc.NewApp(
		rc.WithLogLevel("error"),
		rc.WithSource(staticSource(nil)),
		rc.WithSettings(settings.Settings{Mode: settings.Decomposed}),
		rc.WithModules(
			rc.ProvideConfig(flagsSchema),
			fx.Invoke(func(*flags) {}),
		),
	)

	err := app.Err()
	require.Error(t, err)
	require.ErrorContains(t, err, configerror.FieldNotFound.String())
}

func TestWithSettingsFile(t *testing.T) {
	t.Parallel()

	var loaded settings.Settings

	app := rc.NewApp(
		rc.WithLogLevel("error"),
		rc.WithSettingsFile("testdata/rc.yaml", "rc"),
		rc.WithModules(fx.Invoke(func(s settings.Settings) { loaded = s })),
	)

	require.NoError(t, app.Start())
	t.Cleanup(func() { _ = app.Stop() })

	require.Equal(t, settings.Decomposed, loaded.Mode)
	require.True(t, loaded.Debug)
}

func TestApp_Stop(t *testing.T) {
	t.Parallel()

	var stopCalled bool

	module := fx.Invoke(func(lc fx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				stopCalled = true

				return nil
			},
		})
	})

	app := rc.NewApp(rc.WithModules(module))

	require.NoError(t, app.Start())
	require.NoError(t, app.Stop())
	require.True(t, stopCalled, "OnStop hook should be called")
}

func TestApp_NilApp(t *testing.T) {
	t.Parallel()

	var app *rc.App

	require.Error(t, app.Start())
	require.Error(t, app.Stop())
	require.Error(t, app.Err())
	require.NotPanics(t, app.Run)
}
