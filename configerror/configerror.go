package configerror

import (
	"errors"
	"fmt"
	"strconv"
)

// Code identifies the class of a configuration failure.
type Code int

const (
	// Unknown is used when a failure cannot be classified.
	Unknown Code = iota
	// ConfigResourceNotFound reports a failed fetch. Retrying is safe.
	ConfigResourceNotFound
	// ParsingError reports a classification, decompression or decode failure.
	ParsingError
	// FieldNotFound reports an empty or absent parameter map (or Single-mode parameter).
	FieldNotFound
	// AdapterNotReady reports that the remote source was used before it was ready.
	AdapterNotReady
)

//nolint:gochecknoglobals // read-only lookup table.
var codeNames = map[Code]string{
	Unknown:                "Unknown",
	ConfigResourceNotFound: "ConfigResourceNotFound",
	ParsingError:           "ParsingError",
	FieldNotFound:          "FieldNotFound",
	AdapterNotReady:        "AdapterNotReady",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Sentinels for errors.Is matching by code.
//
//nolint:gochecknoglobals // sentinel errors.
var (
	ErrUnknown         = &Error{Code: Unknown}
	ErrNotFound        = &Error{Code: ConfigResourceNotFound}
	ErrParsing         = &Error{Code: ParsingError}
	ErrFieldNotFound   = &Error{Code: FieldNotFound}
	ErrAdapterNotReady = &Error{Code: AdapterNotReady}
)

// Error is the single failure type surfaced by the resolver.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New creates an Error with the given code and cause. The message defaults to the cause's text.
func New(code Code, message string, cause error) *Error {
	if message == "" && cause != nil {
		message = cause.Error()
	}

	return &Error{Code: code, Message: message, Err: cause}
}

// Newf creates an Error without a cause.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}

	return e.Code.String() + ". " + e.Message
}

// Unwrap returns the original failure.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}

	return other.Code == e.Code
}

type coder interface {
	ErrorCode() int
}

// FromSource converts a remote source failure into an *Error.
// An error that is already an *Error is returned unchanged. Errors carrying a backend code
// (ErrorCode() int) keep that code verbatim, in the same number space as the built-in codes;
// everything else gets the fallback code.
func FromSource(err error, fallback Code, message string) *Error {
	if err == nil {
		return nil
	}

	var cfgErr *Error
	if errors.As(err, &cfgErr) {
		return cfgErr
	}

	code := fallback

	var backend coder
	if errors.As(err, &backend) {
		code = Code(backend.ErrorCode())
	}

	return New(code, message, err)
}

// CodeOf returns the code of the first *Error in err's chain, or Unknown.
func CodeOf(err error) Code {
	var cfgErr *Error
	if errors.As(err, &cfgErr) {
		return cfgErr.Code
	}

	return Unknown
}
