package materialize

import (
	"errors"
	"fmt"

	"github.com/0xalexb/hjarta-rc/classify"

	gojson "github.com/goccy/go-json"
)

// ErrEmptyKey is returned when a field is bound to an empty key.
var ErrEmptyKey = errors.New("field key must not be empty")

// ErrDuplicateKey is returned when two fields share a key.
var ErrDuplicateKey = errors.New("duplicate field key")

// ErrNilAccessor is returned when a field binder was given a nil accessor.
var ErrNilAccessor = errors.New("field accessor must not be nil")

// ErrTypeMismatch is returned when a scalar does not fit the field type.
var ErrTypeMismatch = errors.New("value does not match field type")

// ErrScalarIntoStructured is returned when a scalar targets a structured field.
var ErrScalarIntoStructured = errors.New("scalar value for structured field")

// ErrOverflow is returned when a number does not fit the field type.
var ErrOverflow = errors.New("value out of range for field type")

// ErrDecode wraps structured decode failures.
var ErrDecode = errors.New("decoding structured value")

// ErrHook wraps errors returned by Hook.OnMaterialized.
var ErrHook = errors.New("post-materialization hook failed")

// Hook is implemented by *T to derive, validate or normalize fields after materialization.
type Hook interface {
	OnMaterialized() error
}

// Schema binds wire keys to the fields of T.
type Schema[T any] struct {
	fields []Field[T]
}

// NewSchema validates the field table: keys must be non-empty and unique, accessors non-nil.
func NewSchema[T any](fields ...Field[T]) (*Schema[T], error) {
	seen := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		if field.err != nil {
			return nil, field.err
		}

		if field.key == "" {
			return nil, ErrEmptyKey
		}

		if _, dup := seen[field.key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, field.key)
		}

		seen[field.key] = struct{}{}
	}

	return &Schema[T]{fields: append([]Field[T](nil), fields...)}, nil
}

// MustSchema is NewSchema for package level schema variables. It panics on an invalid table.
func MustSchema[T any](fields ...Field[T]) *Schema[T] {
	schema, err := NewSchema(fields...)
	if err != nil {
		panic(fmt.Sprintf("materialize: %v", err))
	}

	return schema
}

// Keys returns the bound keys in declaration order.
func (s *Schema[T]) Keys() []string {
	keys := make([]string, 0, len(s.fields))

	for _, field := range s.fields {
		keys = append(keys, field.key)
	}

	return keys
}

// Materialize builds a T from classified values. Missing keys are skipped. Any assignment
// failure aborts the whole materialization.
func (s *Schema[T]) Materialize(values map[string]classify.Value) (*T, error) {
	target := new(T)

	for _, field := range s.fields {
		value, ok := values[field.key]
		if !ok {
			continue
		}

		err := field.assign(target, value)
		if err != nil {
			return nil, err
		}
	}

	err := runHook(target)
	if err != nil {
		return nil, err
	}

	return target, nil
}

// DecodeJSON decodes a whole serialized T and runs its Hook. It serves Single mode.
func DecodeJSON[T any](text string) (*T, error) {
	target := new(T)

	err := gojson.Unmarshal([]byte(text), target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	err = runHook(target)
	if err != nil {
		return nil, err
	}

	return target, nil
}

func runHook[T any](target *T) error {
	hook, ok := any(target).(Hook)
	if !ok {
		return nil
	}

	err := hook.OnMaterialized()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHook, err)
	}

	return nil
}
