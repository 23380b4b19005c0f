// Package classify turns opaque remote string values into typed values.
//
// Classification is per value and never looks at other entries. First match wins:
//  1. empty string: dropped
//  2. at least CompressedThreshold characters, not wrapped in braces: decompressed, then structured
//  3. at least CompressedThreshold characters, wrapped in braces: structured as is
//  4. shorter values, case-insensitive: 1/true/t/yes/y/on and 0/false/f/no/n/off are booleans,
//     then base-10 int64, then float64, else plain string
//
// The length threshold is a heuristic, not a format signature: a short compressed value or a long
// plain string is misclassified. It is kept for compatibility with payloads already published.
package classify

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/0xalexb/hjarta-rc/compress"
)

// CompressedThreshold is the length, as measured by Length, from which a value is treated as a
// serialized payload.
const CompressedThreshold = 24

// ErrDecompress wraps decompressor failures.
var ErrDecompress = errors.New("decompressing value")

// ErrNoDecompressor is returned when a value needs decompression and none is configured.
var ErrNoDecompressor = errors.New("no decompressor configured")

// Classifier classifies raw values and routes long values through a decompressor.
type Classifier struct {
	decompressor compress.Decompressor
}

// New creates a Classifier. A nil decompressor makes compressed-looking values fail with
// ErrNoDecompressor.
func New(decompressor compress.Decompressor) *Classifier {
	return &Classifier{decompressor: decompressor}
}

// Classify classifies one raw value. The boolean is false when the value is dropped.
func (c *Classifier) Classify(raw string) (Value, bool, error) {
	if raw == "" {
		return Value{}, false, nil
	}

	if Length(raw) >= CompressedThreshold {
		if isBraceDelimited(raw) {
			return Structured(raw), true, nil
		}

		if c.decompressor == nil {
			return Value{}, false, ErrNoDecompressor
		}

		text, err := c.decompressor.Decompress(raw)
		if err != nil {
			return Value{}, false, fmt.Errorf("%w: %w", ErrDecompress, err)
		}

		return Structured(text), true, nil
	}

	return classifyScalar(raw), true, nil
}

// ClassifyAll classifies every entry. Dropped entries are absent from the result.
func (c *Classifier) ClassifyAll(entries map[string]string) (map[string]Value, error) {
	out := make(map[string]Value, len(entries))

	for key, raw := range entries {
		value, ok, err := c.Classify(raw)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		if ok {
			out[key] = value
		}
	}

	return out, nil
}

func classifyScalar(raw string) Value {
	switch strings.ToLower(raw) {
	case "1", "true", "t", "yes", "y", "on":
		return Value{kind: KindBool, raw: raw, boolean: true}
	case "0", "false", "f", "no", "n", "off":
		return Value{kind: KindBool, raw: raw, boolean: false}
	}

	integer, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		return Value{kind: KindInt, raw: raw, integer: integer}
	}

	// ParseFloat also takes hex mantissas and digit separators; those stay strings.
	if strings.ContainsAny(raw, "xX_") {
		return String(raw)
	}

	float, err := strconv.ParseFloat(raw, 64)
	if err == nil && !math.IsNaN(float) && !math.IsInf(float, 0) {
		return Value{kind: KindFloat, raw: raw, float: float}
	}

	return String(raw)
}

// Length returns the length of raw in UTF-16 code units, the unit CompressedThreshold counts.
func Length(raw string) int {
	n := 0

	for _, r := range raw {
		width := utf16.RuneLen(r)
		if width < 1 {
			width = 1
		}

		n += width
	}

	return n
}

func isBraceDelimited(raw string) bool {
	return strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}")
}
