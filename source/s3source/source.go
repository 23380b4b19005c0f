package s3source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"sync"

	"github.com/0xalexb/hjarta-rc/source"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// MaxObjectSize caps the size of the parameter object.
const MaxObjectSize = 16 << 20

// ErrMissingLocation is returned when bucket or key is empty.
var ErrMissingLocation = errors.New("bucket and key must not be empty")

// ErrNilClient is returned when no S3 client is given.
var ErrNilClient = errors.New("s3 client must not be nil")

// ErrObjectTooLarge is returned when the object exceeds MaxObjectSize.
var ErrObjectTooLarge = errors.New("parameter object too large")

// GetObjectAPI is the subset of *s3.Client used by Source.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Option configures the S3 client built by NewFromConfig.
type Option func(*clientOptions)

type clientOptions struct {
	region    string
	endpoint  string
	pathStyle bool
}

// WithRegion overrides the region from the default AWS config chain.
func WithRegion(region string) Option {
	return func(o *clientOptions) {
		o.region = region
	}
}

// WithEndpoint points the client at an S3-compatible endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithPathStyle enables path-style addressing.
func WithPathStyle() Option {
	return func(o *clientOptions) {
		o.pathStyle = true
	}
}

// Source is a source.Source backed by one S3 object.
type Source struct {
	client GetObjectAPI
	bucket string
	key    string

	mu       sync.RWMutex
	active   map[string]string
	etag     string
	settings source.FetchSettings
}

var _ source.Source = (*Source)(nil)

// New creates a Source reading bucket/key through client.
func New(client GetObjectAPI, bucket, key string) (*Source, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	if bucket == "" || key == "" {
		return nil, ErrMissingLocation
	}

	return &Source{client: client, bucket: bucket, key: key}, nil
}

// NewFromConfig creates a Source with an S3 client from the default AWS config chain.
func NewFromConfig(ctx context.Context, bucket, key string, opts ...Option) (*Source, error) {
	var options clientOptions

	for _, apply := range opts {
		apply(&options)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	if options.region != "" {
		cfg.Region = options.region
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if options.endpoint != "" {
			o.BaseEndpoint = aws.String(options.endpoint)
		}

		o.UsePathStyle = options.pathStyle
	})

	return New(client, bucket, key)
}

// Location returns the bucket and key.
func (s *Source) Location() (string, string) {
	return s.bucket, s.key
}

// Ready implements source.Source.
func (s *Source) Ready() bool {
	return s != nil && s.client != nil
}

// Configure implements source.Source.
func (s *Source) Configure(settings source.FetchSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
}

// FetchAndActivate downloads the object unless its ETag is unchanged.
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

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	}

	if etag != "" {
		input.IfNoneMatch = aws.String(etag)
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		if isNotModified(err) {
			slog.Debug("parameter object not modified", "bucket", s.bucket, "key", s.key)

			return false, nil
		}

		if isNotFound(err) {
			return false, fmt.Errorf("%w: s3://%s/%s", source.ErrNotFound, s.bucket, s.key)
		}

		return false, fmt.Errorf("getting s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close() //nolint:errcheck // read-only body

	data, err := io.ReadAll(io.LimitReader(out.Body, MaxObjectSize+1))
	if err != nil {
		return false, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, s.key, err)
	}

	if len(data) > MaxObjectSize {
		return false, ErrObjectTooLarge
	}

	params, err := source.DecodeDocument(data)
	if err != nil {
		return false, err //nolint:wrapcheck // already describes the document
	}

	s.mu.Lock()
	changed := s.active == nil || !maps.Equal(s.active, params)
	s.active = params
	s.etag = aws.ToString(out.ETag)
	s.mu.Unlock()

	slog.Debug("parameter object activated", "bucket", s.bucket, "key", s.key, "keys", len(params))

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

func isNotModified(err error) bool {
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotModified {
		return true
	}

	var apiErr smithy.APIError

	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotModified"
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}

	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}

	var respErr *smithyhttp.ResponseError

	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
