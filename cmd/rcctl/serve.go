package main

import (
	"context"
	"time"

	rc "github.com/0xalexb/hjarta-rc"
	"github.com/0xalexb/hjarta-rc/fetch"
	"github.com/0xalexb/hjarta-rc/serve"
	"github.com/0xalexb/hjarta-rc/settings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type serveFlags struct {
	src     sourceFlags
	addr    string
	gzip    bool
	refresh time.Duration
}

func newServeCmd(global *globalFlags) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a parameter snapshot over HTTP",
		Long: `serve activates the selected source and publishes it on /v1/parameters for
clients using the HTTP source. With --refresh the source is re-fetched
periodically and clients pick up changes through ETag revalidation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newServeApp(cmd.Context(), global, &flags)
			if err != nil {
				return err
			}

			app.Run()

			return nil
		},
	}

	flags.src.register(cmd)
	cmd.Flags().StringVar(&flags.addr, "addr", serve.DefaultAddress, "Listen address")
	cmd.Flags().BoolVar(&flags.gzip, "gzip", false, "Compress responses")
	cmd.Flags().DurationVar(&flags.refresh, "refresh", 0, "Re-fetch interval, 0 disables")

	return cmd
}

func newServeApp(ctx context.Context, global *globalFlags, flags *serveFlags) (*rc.App, error) {
	constructor, err := flags.src.constructor(ctx)
	if err != nil {
		return nil, err
	}

	serveOpts := []serve.Option{serve.WithAddress(flags.addr)}
	if flags.gzip {
		serveOpts = append(serveOpts, serve.WithGzip())
	}

	return rc.NewApp(
		rc.WithLogLevel(global.logLevel),
		rc.WithLogFormat(global.logFormat),
		rc.WithSource(constructor),
		// The refresh flag paces fetches, so the release minimum interval is disabled.
		rc.WithSettings(settings.Settings{Mode: settings.Decomposed, Debug: true}),
		rc.WithModules(fx.Invoke(activateOnStart(flags.refresh))),
		rc.WithParameterServer(serveOpts...),
	), nil
}

// activateOnStart fetches the snapshot before the server starts listening.
func activateOnStart(refresh time.Duration) func(fx.Lifecycle, *fetch.Coordinator, settings.Settings) {
	return func(lc fx.Lifecycle, coordinator *fetch.Coordinator, s settings.Settings) {
		watchCtx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				err := coordinator.Initialize(s)
				if err != nil {
					return err //nolint:wrapcheck // *configerror.Error
				}

				err = coordinator.FetchAndActivate(ctx)
				if err != nil {
					return err //nolint:wrapcheck // *configerror.Error
				}

				go func() {
					defer close(done)

					coordinator.Watch(watchCtx, refresh)
				}()

				return nil
			},
			OnStop: func(ctx context.Context) error {
				cancel()

				select {
				case <-done:
				case <-ctx.Done():
				}

				return nil
			},
		})
	}
}
