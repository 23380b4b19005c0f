package classify

import (
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindInvalid is the zero Kind.
	KindInvalid Kind = iota
	// KindBool holds a boolean.
	KindBool
	// KindInt holds a signed 64-bit integer.
	KindInt
	// KindFloat holds a float64.
	KindFloat
	// KindString holds plain text.
	KindString
	// KindStructured holds JSON text, decompressed when the wire value was compressed.
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStructured:
		return "structured"
	case KindInvalid:
		return "invalid"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one classified remote value.
type Value struct {
	kind    Kind
	raw     string
	boolean bool
	integer int64
	float   float64
}

// Bool returns a boolean Value.
func Bool(v bool) Value {
	return Value{kind: KindBool, raw: strconv.FormatBool(v), boolean: v}
}

// Int returns an integer Value.
func Int(v int64) Value {
	return Value{kind: KindInt, raw: strconv.FormatInt(v, 10), integer: v}
}

// Float returns a float Value.
func Float(v float64) Value {
	return Value{kind: KindFloat, raw: strconv.FormatFloat(v, 'g', -1, 64), float: v}
}

// String returns a plain text Value.
func String(v string) Value {
	return Value{kind: KindString, raw: v}
}

// Structured returns a Value holding JSON text.
func Structured(json string) Value {
	return Value{kind: KindStructured, raw: json}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// Raw returns the wire text the value was classified from. For structured values this is the
// JSON text after decompression.
func (v Value) Raw() string {
	return v.raw
}

// Bool returns the boolean and whether the value is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// Int returns the integer and whether the value is an integer.
func (v Value) Int() (int64, bool) {
	return v.integer, v.kind == KindInt
}

// Float returns the float and whether the value is a float.
func (v Value) Float() (float64, bool) {
	return v.float, v.kind == KindFloat
}

// JSON returns the JSON text and whether the value is structured.
func (v Value) JSON() (string, bool) {
	return v.raw, v.kind == KindStructured
}

// IsScalar reports whether the value is a boolean, integer, float or plain string.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindBool, KindInt, KindFloat, KindString:
		return true
	case KindInvalid, KindStructured:
		return false
	default:
		return false
	}
}

func (v Value) String() string {
	return v.kind.String() + "(" + v.raw + ")"
}
