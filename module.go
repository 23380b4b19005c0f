package rc

import (
	"context"

	"github.com/0xalexb/hjarta-rc/compress"
	"github.com/0xalexb/hjarta-rc/fetch"
	"github.com/0xalexb/hjarta-rc/materialize"
	"github.com/0xalexb/hjarta-rc/resolver"
	"github.com/0xalexb/hjarta-rc/settings"
	"github.com/0xalexb/hjarta-rc/source"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// ModuleName is the name of the Fx module returned by Module.
const ModuleName = "rc"

type resolverParams struct {
	fx.In

	Coordinator  *fetch.Coordinator
	Decompressor compress.Decompressor `optional:"true"`
}

// Module provides *prometheus.Registry, *fetch.Metrics, *fetch.Coordinator and
// *resolver.Resolver. The graph must provide a source.Source. A compress.Decompressor in the
// graph replaces the default codec.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module() fx.Option {
	return fx.Module(ModuleName,
		fx.Provide(
			newRegistry,
			newMetrics,
			newCoordinator,
			newResolver,
		),
	)
}

// ProvideConfig provides *T, resolved once when first requested. The schema is only used in
// Decomposed mode and may be nil for Single mode.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func ProvideConfig[T any](schema *materialize.Schema[T]) fx.Option {
	return fx.Provide(func(res *resolver.Resolver, s settings.Settings) (*T, error) {
		return resolver.Resolve(context.Background(), res, s, schema)
	})
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	return reg
}

func newMetrics(reg *prometheus.Registry) (*fetch.Metrics, error) {
	return fetch.NewMetrics(reg) //nolint:wrapcheck // already wrapped
}

func newCoordinator(src source.Source, metrics *fetch.Metrics) *fetch.Coordinator {
	return fetch.NewCoordinator(src, fetch.WithMetrics(metrics))
}

func newResolver(params resolverParams) (*resolver.Resolver, error) {
	var opts []resolver.Option

	if params.Decompressor != nil {
		opts = append(opts, resolver.WithDecompressor(params.Decompressor))
	}

	return resolver.New(params.Coordinator, opts...) //nolint:wrapcheck // fx reports the constructor
}
