// Package configerror defines the error taxonomy reported to callers of the resolver.
//
// Every failure that leaves the resolution pipeline is an *Error carrying one Code and the
// original failure as its cause:
//
//	var cfgErr *configerror.Error
//	if errors.As(err, &cfgErr) && cfgErr.Code == configerror.ConfigResourceNotFound {
//	    // transient, safe to retry
//	}
//
// The package-level sentinels (ErrParsing, ErrFieldNotFound, ...) match any *Error with the same
// code, so errors.Is works without inspecting the message:
//
//	if errors.Is(err, configerror.ErrParsing) { ... }
//
// Backend errors that implement ErrorCode() int keep their code verbatim (see FromSource).
// Backend codes share the number space of the built-in codes: a backend code of 2 is
// ParsingError and matches ErrParsing. Callers that need to tell them apart check the cause
// with errors.As for their backend error type.
package configerror
