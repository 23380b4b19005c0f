package serve

import (
	"log/slog"

	"github.com/0xalexb/hjarta-rc/source"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// ModuleName is the name of the Fx module created by NewModule.
const ModuleName = "parameter-server"

// Params are the dependencies of the parameter server module.
type Params struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Source     source.Source
	Config     Config               `optional:"true"`
	Registry   *prometheus.Registry `optional:"true"`
}

// NewModule creates an Fx module serving the source.Source from the graph.
// Options, when given, take precedence over a Config provided to the graph.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(opts ...Option) fx.Option {
	return fx.Module(ModuleName, fx.Invoke(func(params Params) error {
		cfg := params.Config
		for _, apply := range opts {
			apply(&cfg)
		}

		var handlerOpts []HandlerOption

		if params.Registry != nil {
			handlerOpts = append(handlerOpts, WithRegistry(params.Registry))
		}

		if cfg.Gzip {
			handlerOpts = append(handlerOpts, WithCompression())
		}

		handler, err := NewHandler(params.Source, handlerOpts...)
		if err != nil {
			return err
		}

		srv, err := NewServer(handler, cfg, func(error) {
			shutdownErr := params.Shutdowner.Shutdown(fx.ExitCode(1))
			if shutdownErr != nil {
				slog.Error("failed to trigger shutdown", "error", shutdownErr)
			}
		})
		if err != nil {
			return err
		}

		params.Lifecycle.Append(fx.Hook{
			OnStart: srv.Start,
			OnStop:  srv.Stop,
		})

		return nil
	}))
}
