package materialize

import (
	"fmt"
	"math"

	"github.com/0xalexb/hjarta-rc/classify"

	gojson "github.com/goccy/go-json"
	"golang.org/x/exp/constraints"
)

// Field binds one wire key to a field of T.
type Field[T any] struct {
	key        string
	structured bool
	assign     func(target *T, value classify.Value) error
	err        error
}

// Key returns the wire key.
func (f Field[T]) Key() string {
	return f.key
}

// Structured reports whether the field expects a structured value.
func (f Field[T]) Structured() bool {
	return f.structured
}

func invalid[T any](key string) Field[T] {
	return Field[T]{key: key, err: fmt.Errorf("%w: %q", ErrNilAccessor, key)}
}

// Bool binds key to a bool field.
func Bool[T any](key string, ref func(*T) *bool) Field[T] {
	if ref == nil {
		return invalid[T](key)
	}

	return Field[T]{
		key: key,
		assign: func(target *T, value classify.Value) error {
			boolean, ok := value.Bool()
			if !ok {
				return mismatch(key, "bool", value)
			}

			*ref(target) = boolean

			return nil
		},
	}
}

// Int binds key to a signed integer field. Values outside the range of I fail with ErrOverflow.
func Int[T any, I constraints.Signed](key string, ref func(*T) *I) Field[T] {
	if ref == nil {
		return invalid[T](key)
	}

	return Field[T]{
		key: key,
		assign: func(target *T, value classify.Value) error {
			integer, ok := asInt(value)
			if !ok {
				return mismatch(key, "integer", value)
			}

			converted := I(integer)
			if int64(converted) != integer {
				return fmt.Errorf("%w: key %q: %d", ErrOverflow, key, integer)
			}

			*ref(target) = converted

			return nil
		},
	}
}

// Float binds key to a floating point field.
func Float[T any, F constraints.Float](key string, ref func(*T) *F) Field[T] {
	if ref == nil {
		return invalid[T](key)
	}

	return Field[T]{
		key: key,
		assign: func(target *T, value classify.Value) error {
			float, ok := asFloat(value)
			if !ok {
				return mismatch(key, "float", value)
			}

			converted := F(float)
			if math.IsInf(float64(converted), 0) {
				return fmt.Errorf("%w: key %q: %g", ErrOverflow, key, float)
			}

			*ref(target) = converted

			return nil
		},
	}
}

// String binds key to a string field.
func String[T any](key string, ref func(*T) *string) Field[T] {
	if ref == nil {
		return invalid[T](key)
	}

	return Field[T]{
		key: key,
		assign: func(target *T, value classify.Value) error {
			if value.Kind() == classify.KindInvalid {
				return mismatch(key, "string", value)
			}

			*ref(target) = value.Raw()

			return nil
		},
	}
}

// Struct binds key to a structured field decoded from JSON. F may be a struct, slice or map.
// The field is only assigned when decoding succeeds.
func Struct[T, F any](key string, ref func(*T) *F) Field[T] {
	if ref == nil {
		return invalid[T](key)
	}

	return Field[T]{
		key:        key,
		structured: true,
		assign: func(target *T, value classify.Value) error {
			text, ok := value.JSON()
			if !ok {
				return fmt.Errorf("%w: key %q holds %s", ErrScalarIntoStructured, key, value.Kind())
			}

			var decoded F

			err := gojson.Unmarshal([]byte(text), &decoded)
			if err != nil {
				return fmt.Errorf("%w: key %q: %w", ErrDecode, key, err)
			}

			*ref(target) = decoded

			return nil
		},
	}
}

// Func binds key to a custom assignment, for field types the typed binders do not cover.
func Func[T any](key string, structured bool, assign func(target *T, value classify.Value) error) Field[T] {
	if assign == nil {
		return invalid[T](key)
	}

	return Field[T]{key: key, structured: structured, assign: assign}
}

func asInt(value classify.Value) (int64, bool) {
	if integer, ok := value.Int(); ok {
		return integer, true
	}

	if boolean, ok := value.Bool(); ok && isBinaryDigit(value.Raw()) {
		if boolean {
			return 1, true
		}

		return 0, true
	}

	return 0, false
}

func asFloat(value classify.Value) (float64, bool) {
	if float, ok := value.Float(); ok {
		return float, true
	}

	integer, ok := asInt(value)

	return float64(integer), ok
}

func isBinaryDigit(raw string) bool {
	return raw == "0" || raw == "1"
}

func mismatch(key, want string, value classify.Value) error {
	return fmt.Errorf("%w: key %q wants %s, got %s", ErrTypeMismatch, key, want, value.Kind())
}
