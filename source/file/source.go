package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"sync"

	"github.com/0xalexb/hjarta-rc/settings/yaml"
	"github.com/0xalexb/hjarta-rc/source"

	"github.com/cespare/xxhash/v2"
)

// Option configures a Source.
type Option func(*Source)

// WithPath selects the mapping at a colon separated path instead of the document root.
func WithPath(path string) Option {
	return func(s *Source) {
		s.path = path
	}
}

// Source is a source.Source backed by a parameter file.
type Source struct {
	fetcher *Fetcher
	parser  *yaml.Parser
	path    string

	mu          sync.RWMutex
	active      map[string]string
	fingerprint uint64
	settings    source.FetchSettings
}

var _ source.Source = (*Source)(nil)

// New returns a constructor for a Source reading fpath.
func New(fpath string, opts ...Option) func() (*Source, error) {
	return func() (*Source, error) {
		fetcher, err := NewFetcher(fpath)()
		if err != nil {
			return nil, err
		}

		src := &Source{
			fetcher: fetcher,
			parser:  yaml.NewParser(),
		}

		for _, apply := range opts {
			apply(src)
		}

		return src, nil
	}
}

// Ready implements source.Source. A constructed Source is always ready.
func (s *Source) Ready() bool {
	return s != nil && s.fetcher != nil
}

// Configure implements source.Source.
func (s *Source) Configure(settings source.FetchSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
}

// FetchAndActivate re-reads the file and activates its parameters.
func (s *Source) FetchAndActivate(ctx context.Context) (bool, error) {
	err := ctx.Err()
	if err != nil {
		return false, err //nolint:wrapcheck // context errors are returned as is
	}

	data, err := s.fetcher.Fetch()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %w", source.ErrNotFound, err)
		}

		return false, err
	}

	fingerprint := xxhash.Sum64(data)

	s.mu.RLock()
	unchanged := s.active != nil && fingerprint == s.fingerprint
	s.mu.RUnlock()

	if unchanged {
		return false, nil
	}

	params, err := s.parser.Strings(data, s.path)
	if err != nil {
		return false, fmt.Errorf("parsing parameter file %q: %w", s.fetcher.Path(), err)
	}

	s.mu.Lock()
	s.active = params
	s.fingerprint = fingerprint
	s.mu.Unlock()

	slog.Debug("parameter file activated", "path", s.fetcher.Path(), "keys", len(params))

	return true, nil
}

// Value implements source.Source.
func (s *Source) Value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.active[key]

	return value, ok
}

// All implements source.Source.
func (s *Source) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.active)
}
