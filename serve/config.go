// Package serve publishes a source snapshot over HTTP in the format read by source/httpsource.
//
// Endpoints:
//   - GET /v1/parameters: the whole snapshot as a source.Document, with an ETag; If-None-Match
//     answers 304
//   - GET /v1/parameters/{key}: one raw value as text, 404 when absent
//   - GET /healthz: 200 once a snapshot is active, 503 before
//   - GET /metrics: Prometheus metrics
//
// NewModule wires the server into an Fx application and starts it with the lifecycle.
package serve

import (
	"errors"
	"time"
)

// DefaultAddress is the default listen address.
const DefaultAddress = ":8080"

// DefaultShutdownTimeout bounds graceful shutdown when no deadline is given.
const DefaultShutdownTimeout = 10 * time.Second

// ErrEmptyAddress is returned when the address is empty after defaults.
var ErrEmptyAddress = errors.New("address must not be empty")

// ErrListenFailed is returned when the server cannot listen on its address.
var ErrListenFailed = errors.New("failed to listen")

// ErrShutdownFailed is returned when the server does not shut down gracefully.
var ErrShutdownFailed = errors.New("shutdown failed")

// ErrNilHandler is returned when a nil http.Handler is given.
var ErrNilHandler = errors.New("handler must not be nil")

// ErrNilSource is returned when no source is given to the handler.
var ErrNilSource = errors.New("source must not be nil")

// Config configures the parameter server.
type Config struct {
	Address string `json:"address" yaml:"address"`
	// Gzip compresses responses for clients that accept it.
	Gzip bool `json:"gzip" yaml:"gzip"`
}

// SetDefaults fills in the address.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}

	return nil
}
