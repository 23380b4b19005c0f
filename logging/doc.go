// Package logging builds the process logger on top of log/slog.
//
// JSON is the default output format; "text" selects the human readable handler, which rcctl uses
// on terminals. Library packages of this module log through the global slog functions, so the
// logger built here is installed with slog.SetDefault by the application.
package logging
