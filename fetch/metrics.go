package fetch

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch results recorded by Metrics.
const (
	ResultSuccess   = "success"
	ResultCached    = "cached"
	ResultThrottled = "throttled"
	ResultError     = "error"
)

// Metrics records fetch outcomes. A nil *Metrics records nothing.
type Metrics struct {
	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates fetch metrics and registers them with reg when reg is not nil.
// Already registered collectors are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hjarta_rc",
			Subsystem: "fetch",
			Name:      "total",
			Help:      "Fetch-and-activate requests by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hjarta_rc",
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Duration of fetch-and-activate calls that reached the remote source.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg == nil {
		return metrics, nil
	}

	fetches, err := register(reg, metrics.fetches)
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, metrics.duration)
	if err != nil {
		return nil, err
	}

	metrics.fetches = fetches
	metrics.duration = duration

	return metrics, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return collector, fmt.Errorf("registering fetch metrics: %w", err)
}

// Fetches returns the counter for one result, for tests and dashboards.
func (m *Metrics) Fetches(result string) prometheus.Counter {
	return m.fetches.WithLabelValues(result)
}

func (m *Metrics) record(result string) {
	if m == nil {
		return
	}

	m.fetches.WithLabelValues(result).Inc()
}

func (m *Metrics) observe(result string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.fetches.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}
