package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultFetchTimeout applies when no positive fallback timeout is configured.
const DefaultFetchTimeout = 60 * time.Second

// ReleaseMinimumFetchInterval throttles remote fetches outside debug builds.
const ReleaseMinimumFetchInterval = 5 * time.Minute

// DefaultParameterName is used in Single mode when no parameter name is configured.
const DefaultParameterName = "config"

// ErrInvalidMode is returned when the mode is not one of the known modes.
var ErrInvalidMode = errors.New("invalid mode")

// ErrEmptyParameterName is returned when Single mode has no parameter name.
var ErrEmptyParameterName = errors.New("parameter name must not be empty in single mode")

// ErrNegativeTimeout is returned when the fallback timeout is negative.
var ErrNegativeTimeout = errors.New("fallback timeout must not be negative")

// Mode selects how the remote payload is delivered.
type Mode string

const (
	// Single reads one parameter holding the whole serialized object.
	Single Mode = "single"
	// Decomposed reads every parameter as an independently typed field.
	Decomposed Mode = "decomposed"
)

// ParseMode parses a mode name case-insensitively.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case Single:
		return Single, nil
	case Decomposed:
		return Decomposed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, name)
	}
}

// Settings configures one load.
type Settings struct {
	Mode                  Mode   `json:"mode"                  yaml:"mode"`
	ParameterName         string `json:"parameter_name"        yaml:"parameter_name"`
	FallbackEnabled       bool   `json:"fallback_enabled"      yaml:"fallback_enabled"`
	FallbackTimeoutMillis int64  `json:"fallback_timeout_ms"   yaml:"fallback_timeout_ms"`
	Debug                 bool   `json:"debug"                 yaml:"debug"`
}

// SetDefaults fills in the mode and, for Single mode, the parameter name.
func (s *Settings) SetDefaults() bool {
	changed := false

	if s.Mode == "" {
		s.Mode = Single
		changed = true
	}

	if mode, err := ParseMode(string(s.Mode)); err == nil && mode != s.Mode {
		s.Mode = mode
		changed = true
	}

	if s.Mode == Single && s.ParameterName == "" {
		s.ParameterName = DefaultParameterName
		changed = true
	}

	return changed
}

// Validate checks the settings after defaults were applied.
func (s *Settings) Validate() error {
	_, err := ParseMode(string(s.Mode))
	if err != nil {
		return err
	}

	if s.Mode == Single && s.ParameterName == "" {
		return ErrEmptyParameterName
	}

	if s.FallbackTimeoutMillis < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeTimeout, s.FallbackTimeoutMillis)
	}

	return nil
}

// FallbackTimeout returns the configured fallback timeout, or zero when fallback is disabled.
func (s Settings) FallbackTimeout() time.Duration {
	if !s.FallbackEnabled || s.FallbackTimeoutMillis <= 0 {
		return 0
	}

	return time.Duration(s.FallbackTimeoutMillis) * time.Millisecond
}

// FetchTimeout is the fallback timeout when one is set, else DefaultFetchTimeout.
func (s Settings) FetchTimeout() time.Duration {
	if timeout := s.FallbackTimeout(); timeout > 0 {
		return timeout
	}

	return DefaultFetchTimeout
}

// MinimumFetchInterval is zero in debug builds and ReleaseMinimumFetchInterval otherwise.
func (s Settings) MinimumFetchInterval() time.Duration {
	if s.Debug {
		return 0
	}

	return ReleaseMinimumFetchInterval
}

// LogValue implements slog.LogValuer.
func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", string(s.Mode)),
		slog.String("parameter", s.ParameterName),
		slog.Duration("fetch_timeout", s.FetchTimeout()),
		slog.Bool("debug", s.Debug),
	)
}
