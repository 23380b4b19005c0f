package compress

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// MaxDecompressedSize caps the output of a single Decompress call.
const MaxDecompressedSize = 8 << 20

// ErrInvalidEncoding is returned when a value is not valid base64.
var ErrInvalidEncoding = errors.New("value is not base64 encoded")

// ErrUnknownFormat is returned by Auto when no known frame magic matches.
var ErrUnknownFormat = errors.New("unknown compression format")

// ErrTooLarge is returned when decompressed output exceeds MaxDecompressedSize.
var ErrTooLarge = errors.New("decompressed value too large")

// ErrUnsupportedAlgorithm is returned for an unknown Algorithm.
var ErrUnsupportedAlgorithm = errors.New("unsupported compression algorithm")

// Decompressor expands a compressed wire value into its JSON text.
type Decompressor interface {
	Decompress(value string) (string, error)
}

// Compressor produces a compressed wire value.
type Compressor interface {
	Compress(value string) (string, error)
}

// DecompressorFunc adapts a function to Decompressor.
type DecompressorFunc func(value string) (string, error)

// Decompress implements Decompressor.
func (f DecompressorFunc) Decompress(value string) (string, error) {
	return f(value)
}

// Algorithm names a compression frame format.
type Algorithm string

const (
	// Auto detects the frame format when decompressing and uses gzip when compressing.
	Auto Algorithm = "auto"
	// Gzip is the gzip frame format.
	Gzip Algorithm = "gzip"
	// Zstd is the zstandard frame format.
	Zstd Algorithm = "zstd"
	// LZ4 is the lz4 frame format.
	LZ4 Algorithm = "lz4"
)

//nolint:gochecknoglobals // frame signatures.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Codec compresses and decompresses wire values. It is safe for concurrent use.
type Codec struct {
	algorithm Algorithm
	zstdDec   *zstd.Decoder
	zstdEnc   *zstd.Encoder
}

var (
	_ Decompressor = (*Codec)(nil)
	_ Compressor   = (*Codec)(nil)
)

// New creates a Codec for the given algorithm. An empty algorithm means Auto.
func New(algorithm Algorithm) (*Codec, error) {
	if algorithm == "" {
		algorithm = Auto
	}

	switch algorithm {
	case Auto, Gzip, Zstd, LZ4:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(MaxDecompressedSize),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}

	return &Codec{algorithm: algorithm, zstdDec: dec, zstdEnc: enc}, nil
}

// Algorithm returns the configured algorithm.
func (c *Codec) Algorithm() Algorithm {
	return c.algorithm
}

// Decompress decodes the base64 envelope and expands the frame.
func (c *Codec) Decompress(value string) (string, error) {
	raw, err := decodeBase64(value)
	if err != nil {
		return "", err
	}

	algorithm := c.algorithm
	if algorithm == Auto {
		algorithm, err = detect(raw)
		if err != nil {
			return "", err
		}
	}

	var out []byte

	switch algorithm {
	case Gzip:
		out, err = gunzip(raw)
	case Zstd:
		out, err = c.zstdDec.DecodeAll(raw, nil)
		if err != nil {
			err = fmt.Errorf("zstd: %w", err)
		}
	case LZ4:
		out, err = readLimited(lz4.NewReader(bytes.NewReader(raw)))
		if err != nil {
			err = fmt.Errorf("lz4: %w", err)
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	if err != nil {
		return "", err
	}

	if len(out) > MaxDecompressedSize {
		return "", ErrTooLarge
	}

	return string(out), nil
}

// Compress compresses value and returns standard base64 text.
func (c *Codec) Compress(value string) (string, error) {
	var (
		out []byte
		err error
	)

	switch c.algorithm {
	case Auto, Gzip:
		out, err = gzipBytes([]byte(value))
	case Zstd:
		out = c.zstdEnc.EncodeAll([]byte(value), nil)
	case LZ4:
		out, err = lz4Bytes([]byte(value))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, c.algorithm)
	}

	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

func detect(raw []byte) (Algorithm, error) {
	switch {
	case bytes.HasPrefix(raw, gzipMagic):
		return Gzip, nil
	case bytes.HasPrefix(raw, zstdMagic):
		return Zstd, nil
	case bytes.HasPrefix(raw, lz4Magic):
		return LZ4, nil
	default:
		return "", ErrUnknownFormat
	}
}

func decodeBase64(value string) ([]byte, error) {
	trimmed := strings.TrimSpace(value)

	for _, encoding := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		raw, err := encoding.DecodeString(trimmed)
		if err == nil {
			return raw, nil
		}
	}

	return nil, ErrInvalidEncoding
}

func gunzip(raw []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	defer func() { _ = reader.Close() }()

	out, err := readLimited(reader)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	return out, nil
}

func readLimited(reader io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(reader, MaxDecompressedSize+1))
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the caller with the frame name
	}

	if len(out) > MaxDecompressedSize {
		return nil, ErrTooLarge
	}

	return out, nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	_, err = writer.Write(data)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	return buf.Bytes(), nil
}

func lz4Bytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer := lz4.NewWriter(&buf)

	_, err := writer.Write(data)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}

	return buf.Bytes(), nil
}
