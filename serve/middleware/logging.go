package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingOption configures Logging.
type LoggingOption func(*loggingConfig)

type loggingConfig struct {
	skip map[string]struct{}
}

// SkipPaths disables logging for requests to the given paths, e.g. probes.
func SkipPaths(paths ...string) LoggingOption {
	return func(c *loggingConfig) {
		for _, path := range paths {
			c.skip[path] = struct{}{}
		}
	}
}

// responseRecorder captures the status and size of a response.
type responseRecorder struct {
	http.ResponseWriter

	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}

	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}

	n, err := r.ResponseWriter.Write(b)
	r.bytes += n

	return n, err //nolint:wrapcheck
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Logging logs one line per request through the global slog logger: Info below 400, Warn for
// 4xx and Error for 5xx.
func Logging(opts ...LoggingOption) func(http.Handler) http.Handler {
	cfg := loggingConfig{skip: map[string]struct{}{}}

	for _, apply := range opts {
		apply(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := cfg.skip[r.URL.Path]; skip {
				next.ServeHTTP(w, r)

				return
			}

			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int("bytes", rec.bytes),
				slog.Duration("duration", time.Since(start)),
			}

			if id := RequestIDFromContext(r.Context()); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}

			switch {
			case rec.status >= http.StatusInternalServerError:
				slog.Error("http request", attrs...)
			case rec.status >= http.StatusBadRequest:
				slog.Warn("http request", attrs...)
			default:
				slog.Info("http request", attrs...)
			}
		})
	}
}
