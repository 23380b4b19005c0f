package serve

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/0xalexb/hjarta-rc/serve/middleware"
	"github.com/0xalexb/hjarta-rc/source"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	gatherer   prometheus.Gatherer
	registerer prometheus.Registerer
	gzip       bool
}

// WithRegistry serves /metrics from reg and registers request metrics with it.
func WithRegistry(reg *prometheus.Registry) HandlerOption {
	return func(c *handlerConfig) {
		c.gatherer = reg
		c.registerer = reg
	}
}

// WithCompression compresses responses with gzip.
func WithCompression() HandlerOption {
	return func(c *handlerConfig) {
		c.gzip = true
	}
}

// NewHandler returns the parameter server handler for src, middleware included.
func NewHandler(src source.Source, opts ...HandlerOption) (http.Handler, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	cfg := handlerConfig{
		gatherer:   prometheus.DefaultGatherer,
		registerer: prometheus.DefaultRegisterer,
	}

	for _, apply := range opts {
		apply(&cfg)
	}

	params := &parameters{src: src}

	mux := http.NewServeMux()
	mux.Handle("GET /v1/parameters", middleware.Metrics(cfg.registerer, "parameters")(http.HandlerFunc(params.snapshot)))
	mux.Handle("GET /v1/parameters/{key}", middleware.Metrics(cfg.registerer, "parameter")(http.HandlerFunc(params.value)))
	mux.HandleFunc("GET /healthz", params.health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.Logging(middleware.SkipPaths("/healthz", "/metrics")),
		middleware.Recovery(),
	}

	if cfg.gzip {
		gz, err := middleware.Gzip()
		if err != nil {
			return nil, err //nolint:wrapcheck // already wrapped
		}

		chain = append(chain, gz)
	}

	return middleware.Chain(mux, chain...), nil
}

type parameters struct {
	src source.Source
}

func (p *parameters) snapshot(w http.ResponseWriter, r *http.Request) {
	values := p.src.All()
	if values == nil {
		http.Error(w, "no active snapshot", http.StatusServiceUnavailable)

		return
	}

	body, err := source.EncodeDocument(values)
	if err != nil {
		slog.Error("encoding parameter snapshot", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

func (p *parameters) value(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, ok := p.src.Value(key)
	if !ok {
		http.Error(w, "parameter not found", http.StatusNotFound)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(value))
}

func (p *parameters) health(w http.ResponseWriter, _ *http.Request) {
	if !p.src.Ready() || p.src.All() == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)

		return
	}

	_, _ = w.Write([]byte("ok"))
}

// etagMatches implements the weak comparison of If-None-Match against one strong ETag.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}

	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}

	return false
}
