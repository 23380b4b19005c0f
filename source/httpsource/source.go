package httpsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/0xalexb/hjarta-rc/source"
)

// ParametersPath is the path of the snapshot endpoint, relative to the base URL.
const ParametersPath = "/v1/parameters"

// MaxDocumentSize caps the size of a snapshot response body.
const MaxDocumentSize = 16 << 20

// ErrInvalidURL is returned when the base URL is not an absolute http or https URL.
var ErrInvalidURL = errors.New("invalid parameter server URL")

// ErrUnexpectedStatus is returned for responses other than 200, 304 and 404.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// ErrDocumentTooLarge is returned when the response body exceeds MaxDocumentSize.
var ErrDocumentTooLarge = errors.New("parameter document too large")

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		s.client = client
	}
}

// WithHeader adds a header to every request, e.g. for authentication.
func WithHeader(key, value string) Option {
	return func(s *Source) {
		s.header.Add(key, value)
	}
}

// Source is a source.Source backed by a parameter server.
type Source struct {
	endpoint string
	client   *http.Client
	header   http.Header

	mu       sync.RWMutex
	active   map[string]string
	etag     string
	settings source.FetchSettings
}

var _ source.Source = (*Source)(nil)

// New returns a constructor for a Source reading from baseURL.
func New(baseURL string, opts ...Option) func() (*Source, error) {
	return func() (*Source, error) {
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}

		if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
		}

		src := &Source{
			endpoint: strings.TrimSuffix(parsed.String(), "/") + ParametersPath,
			client:   http.DefaultClient,
			header:   http.Header{},
		}

		for _, apply := range opts {
			apply(src)
		}

		return src, nil
	}
}

// Endpoint returns the snapshot URL.
func (s *Source) Endpoint() string {
	return s.endpoint
}

// Ready implements source.Source.
func (s *Source) Ready() bool {
	return s != nil && s.client != nil && s.endpoint != ""
}

// Configure implements source.Source.
func (s *Source) Configure(settings source.FetchSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
}

// FetchAndActivate requests the snapshot and activates it when it changed.
func (s *Source) FetchAndActivate(ctx context.Context) (bool, error) {
	s.mu.RLock()
	timeout := s.settings.FetchTimeout
	etag := s.etag
	s.mu.RUnlock()

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range s.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	req.Header.Set("Accept", "application/json")

	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("requesting %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotModified:
		slog.Debug("parameter snapshot not modified", "endpoint", s.endpoint)

		return false, nil
	case http.StatusNotFound:
		return false, fmt.Errorf("%w: %s", source.ErrNotFound, s.endpoint)
	default:
		return false, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status, s.endpoint)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", s.endpoint, err)
	}

	if len(data) > MaxDocumentSize {
		return false, ErrDocumentTooLarge
	}

	params, err := source.DecodeDocument(data)
	if err != nil {
		return false, err //nolint:wrapcheck // already describes the document
	}

	s.mu.Lock()
	changed := s.active == nil || !maps.Equal(s.active, params)
	s.active = params
	s.etag = resp.Header.Get("ETag")
	s.mu.Unlock()

	slog.Debug("parameter snapshot activated", "endpoint", s.endpoint, "keys", len(params), "changed", changed)

	return changed, nil
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
