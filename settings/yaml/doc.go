// Package yaml provides the YAML parser used for settings files and YAML parameter files.
//
// This package uses github.com/goccy/go-yaml with native PathString support for path
// navigation. Colon separated paths (e.g., "app:rc") are converted to YAML path format
// (e.g., "$.app.rc") internally.
//
// Usage:
//
//	parser := yaml.NewParser()
//	var s settings.Settings
//	err := parser.Parse(data, &s, "app:rc")
//
//	params, err := parser.Strings(data, "remote_config")
//
// Strings flattens one mapping into the key->string form a remote source exposes: scalars
// are formatted the way they would be typed in a remote console, nested mappings and
// sequences are encoded as JSON text.
package yaml
