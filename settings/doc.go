// Package settings holds the caller-facing settings of a configuration load and the
// Provider that reads them from a YAML document.
//
// The package uses the same extension points as any other locally loaded configuration:
//   - Parser: deserializes raw data into Settings, with path navigation support
//   - DataFetcher: retrieves raw settings data (file, embedded bytes, etc.)
//
// After parsing, Settings.SetDefaults and Settings.Validate are applied in that order.
//
// # Example
//
//	rc:
//	  mode: decomposed
//	  fallback_enabled: true
//	  fallback_timeout_ms: 5000
//
//	provider := settings.Provider("rc")
//	s, err := provider(yamlparser.NewParser(), file.NewFetcher("app.yaml"))
package settings
