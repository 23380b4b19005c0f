package settings

import (
	"fmt"
	"log/slog"
)

// Parser parses raw data into a target, navigating to a colon separated path first.
// See settings/yaml for the YAML implementation.
type Parser interface {
	Parse(data []byte, target any, path string) error
}

// DataFetcher reads raw settings data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Provider returns a function that reads, parses, defaults and validates Settings.
// The returned function is Fx-friendly: fx.Provide(settings.Provider("rc")).
func Provider(path string) func(Parser, DataFetcher) (Settings, error) {
	return func(parser Parser, fetcher DataFetcher) (Settings, error) {
		var loaded Settings

		data, err := fetcher.Fetch()
		if err != nil {
			return Settings{}, fmt.Errorf("reading settings: %w", err)
		}

		err = parser.Parse(data, &loaded, path)
		if err != nil {
			return Settings{}, fmt.Errorf("parsing settings: %w", err)
		}

		if loaded.SetDefaults() {
			slog.Info("settings defaults applied", slog.String("path", path))
		}

		err = loaded.Validate()
		if err != nil {
			return Settings{}, fmt.Errorf("validating settings: %w", err)
		}

		return loaded, nil
	}
}
