package rc

import (
	"github.com/0xalexb/hjarta-rc/serve"
	"github.com/0xalexb/hjarta-rc/settings"
	"github.com/0xalexb/hjarta-rc/settings/yaml"
	"github.com/0xalexb/hjarta-rc/source"
	"github.com/0xalexb/hjarta-rc/source/file"

	"go.uber.org/fx"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules   []fx.Option
	LogLevel  string
	LogFormat string
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithLogLevel sets the log level: "debug", "info", "warn" or "error". Defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFormat selects "json" (default) or "text" log output.
func WithLogFormat(format string) Option {
	return func(opts *Options) {
		opts.LogFormat = format
	}
}

// WithSource provides the remote source adapter built by constructor, e.g. file.New(path).
func WithSource[S source.Source](constructor func() (S, error)) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, fx.Provide(func() (source.Source, error) {
			src, err := constructor()
			if err != nil {
				return nil, err
			}

			return src, nil
		}))
	}
}

// WithSettings supplies resolver settings directly.
func WithSettings(s settings.Settings) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, fx.Supply(s))
	}
}

// WithSettingsFile loads resolver settings from the mapping at path (colon separated, empty for
// the root) of a YAML file.
func WithSettingsFile(fpath, path string) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, fx.Module("settings",
			fx.Provide(
				fx.Annotate(yaml.NewParser, fx.As(new(settings.Parser))),
				fx.Annotate(file.NewFetcher(fpath), fx.As(new(settings.DataFetcher))),
				settings.Provider(path),
			),
		))
	}
}

// WithParameterServer serves the source over HTTP, see package serve.
func WithParameterServer(serveOpts ...serve.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, serve.NewModule(serveOpts...))
	}
}
