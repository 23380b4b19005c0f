package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/0xalexb/hjarta-rc/classify"
	"github.com/0xalexb/hjarta-rc/compress"
	"github.com/0xalexb/hjarta-rc/configerror"
	"github.com/0xalexb/hjarta-rc/fetch"
	"github.com/0xalexb/hjarta-rc/materialize"
	"github.com/0xalexb/hjarta-rc/settings"
)

// ErrNilCoordinator is returned by New when no coordinator is given.
var ErrNilCoordinator = errors.New("fetch coordinator must not be nil")

// Option configures a Resolver.
type Option func(*Resolver)

// WithDecompressor replaces the default compress.Auto codec.
func WithDecompressor(decompressor compress.Decompressor) Option {
	return func(r *Resolver) {
		r.decompressor = decompressor
	}
}

// Resolver ties a fetch coordinator to classification and materialization.
// It is safe for concurrent use; every load shares the coordinator's fetch state.
type Resolver struct {
	coordinator  *fetch.Coordinator
	decompressor compress.Decompressor
	classifier   *classify.Classifier
}

// New creates a Resolver.
func New(coordinator *fetch.Coordinator, opts ...Option) (*Resolver, error) {
	if coordinator == nil {
		return nil, ErrNilCoordinator
	}

	res := &Resolver{coordinator: coordinator}

	for _, apply := range opts {
		apply(res)
	}

	if res.decompressor == nil {
		codec, err := compress.New(compress.Auto)
		if err != nil {
			return nil, fmt.Errorf("creating decompressor: %w", err)
		}

		res.decompressor = codec
	}

	res.classifier = classify.New(res.decompressor)

	return res, nil
}

// Coordinator returns the fetch coordinator.
func (r *Resolver) Coordinator() *fetch.Coordinator {
	return r.coordinator
}

// Refresh re-fetches remote values, honouring the minimum fetch interval.
func (r *Resolver) Refresh(ctx context.Context) error {
	return r.coordinator.Refresh(ctx) //nolint:wrapcheck // *configerror.Error
}

// Reset clears the fetch state.
func (r *Resolver) Reset() {
	r.coordinator.Reset()
}

// Resolve runs the whole pipeline and returns the materialized config.
// The schema is only used in Decomposed mode and may be nil for Single mode.
func Resolve[T any](ctx context.Context, r *Resolver, s settings.Settings, schema *materialize.Schema[T]) (cfg *T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			cfg = nil
			err = configerror.New(configerror.Unknown, fmt.Sprintf("resolving config panicked: %v", rec), nil)
		}
	}()

	s.SetDefaults()

	err = s.Validate()
	if err != nil {
		return nil, configerror.New(configerror.Unknown, "invalid settings", err)
	}

	err = r.coordinator.Initialize(s)
	if err != nil {
		return nil, err //nolint:wrapcheck // *configerror.Error
	}

	err = r.coordinator.FetchAndActivate(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // *configerror.Error
	}

	switch s.Mode {
	case settings.Single:
		cfg, err = resolveSingle[T](r, s.ParameterName)
	case settings.Decomposed:
		cfg, err = resolveDecomposed(r, schema)
	}

	if err != nil {
		slog.Warn("config resolution failed", "mode", s.Mode, "error", err)

		return nil, err
	}

	slog.Info("config resolved", "mode", s.Mode)

	return cfg, nil
}

// Load runs Resolve in a new goroutine. Exactly one callback is called, once.
// A nil callback is skipped.
func Load[T any](
	ctx context.Context,
	r *Resolver,
	s settings.Settings,
	schema *materialize.Schema[T],
	onSuccess func(*T),
	onError func(*configerror.Error),
) {
	go func() {
		cfg, err := Resolve(ctx, r, s, schema)
		if err != nil {
			if onError != nil {
				onError(AsConfigError(err))
			}

			return
		}

		if onSuccess != nil {
			onSuccess(cfg)
		}
	}()
}

// AsConfigError returns err as a *configerror.Error, wrapping it as Unknown when needed.
func AsConfigError(err error) *configerror.Error {
	if err == nil {
		return nil
	}

	var cfgErr *configerror.Error
	if errors.As(err, &cfgErr) {
		return cfgErr
	}

	return configerror.New(configerror.Unknown, "", err)
}

func resolveSingle[T any](r *Resolver, parameter string) (*T, error) {
	raw, ok := r.coordinator.Source().Value(parameter)
	if !ok || raw == "" {
		return nil, configerror.Newf(configerror.FieldNotFound, "parameter %q is empty or absent", parameter)
	}

	text := raw

	if classify.Length(raw) >= classify.CompressedThreshold && !isDelimited(raw) {
		expanded, err := r.decompressor.Decompress(raw)
		if err != nil {
			return nil, configerror.New(configerror.ParsingError, fmt.Sprintf("decompressing parameter %q", parameter), err)
		}

		text = expanded
	}

	cfg, err := materialize.DecodeJSON[T](text)
	if err != nil {
		return nil, configerror.New(configerror.ParsingError, fmt.Sprintf("decoding parameter %q", parameter), err)
	}

	return cfg, nil
}

func resolveDecomposed[T any](r *Resolver, schema *materialize.Schema[T]) (*T, error) {
	if schema == nil {
		return nil, configerror.Newf(configerror.Unknown, "decomposed mode requires a schema")
	}

	entries := r.coordinator.Source().All()
	if len(entries) == 0 {
		return nil, configerror.Newf(configerror.FieldNotFound, "remote parameter map is empty")
	}

	values, err := r.classifier.ClassifyAll(entries)
	if err != nil {
		return nil, configerror.New(configerror.ParsingError, "classifying parameters", err)
	}

	slog.Debug("parameters classified", "keys", len(values), "dropped", len(entries)-len(values))

	cfg, err := schema.Materialize(values)
	if err != nil {
		return nil, configerror.New(configerror.ParsingError, "materializing config", err)
	}

	return cfg, nil
}

func isDelimited(raw string) bool {
	return (strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}")) ||
		(strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]"))
}
