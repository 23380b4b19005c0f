package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts requests by code and method and observes their latency, labelled with handler.
func Metrics(reg prometheus.Registerer, handler string) func(http.Handler) http.Handler {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "hjarta_rc",
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "HTTP requests served by the parameter server.",
		ConstLabels: prometheus.Labels{"handler": handler},
	}, []string{"code", "method"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "hjarta_rc",
		Subsystem:   "http",
		Name:        "request_duration_seconds",
		Help:        "Latency of HTTP requests served by the parameter server.",
		ConstLabels: prometheus.Labels{"handler": handler},
		Buckets:     prometheus.DefBuckets,
	}, []string{"code", "method"})

	if reg != nil {
		reg.MustRegister(requests, duration)
	}

	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerDuration(duration, promhttp.InstrumentHandlerCounter(requests, next))
	}
}
