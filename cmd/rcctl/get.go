package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/0xalexb/hjarta-rc/classify"
	"github.com/0xalexb/hjarta-rc/compress"
	"github.com/0xalexb/hjarta-rc/fetch"
	"github.com/0xalexb/hjarta-rc/settings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

type classifiedEntry struct {
	Kind  string `yaml:"kind"`
	Value any    `yaml:"value"`
}

func newGetCmd() *cobra.Command {
	var (
		src     sourceFlags
		raw     bool
		timeout int64
	)

	cmd := &cobra.Command{
		Use:   "get [keys...]",
		Short: "Fetch a snapshot and print how each value is classified",
		Long: `get fetches the parameter snapshot once and prints every entry with the kind it
classifies to. Compressed values are printed decompressed. With --raw the wire
values are printed unchanged. Keys restrict the output to the named parameters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := src.open(cmd.Context())
			if err != nil {
				return err
			}

			coordinator := fetch.NewCoordinator(remote)

			err = coordinator.Initialize(settings.Settings{
				Debug:                 true,
				FallbackEnabled:       timeout > 0,
				FallbackTimeoutMillis: timeout,
			})
			if err != nil {
				return err //nolint:wrapcheck // *configerror.Error
			}

			err = coordinator.FetchAndActivate(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // *configerror.Error
			}

			entries := selectKeys(remote.All(), args)

			if raw {
				return writeYAML(cmd.OutOrStdout(), entries)
			}

			codec, err := compress.New(compress.Auto)
			if err != nil {
				return err //nolint:wrapcheck // already wrapped
			}

			values, err := classify.New(codec).ClassifyAll(entries)
			if err != nil {
				return fmt.Errorf("classifying parameters: %w", err)
			}

			return writeYAML(cmd.OutOrStdout(), describe(values))
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "Print wire values without classification")
	cmd.Flags().Int64Var(&timeout, "timeout-ms", 0, "Fetch timeout in milliseconds (default 60000)")

	return cmd
}

func selectKeys(entries map[string]string, keys []string) map[string]string {
	if len(keys) == 0 {
		return entries
	}

	selected := make(map[string]string, len(keys))

	for _, key := range keys {
		if value, ok := entries[key]; ok {
			selected[key] = value
		}
	}

	return selected
}

func describe(values map[string]classify.Value) map[string]classifiedEntry {
	out := make(map[string]classifiedEntry, len(values))

	for key, value := range values {
		entry := classifiedEntry{Kind: value.Kind().String()}

		switch value.Kind() {
		case classify.KindBool:
			entry.Value, _ = value.Bool()
		case classify.KindInt:
			entry.Value, _ = value.Int()
		case classify.KindFloat:
			entry.Value, _ = value.Float()
		case classify.KindStructured:
			entry.Value, _ = value.JSON()
		default:
			entry.Value = value.Raw()
		}

		out[key] = entry
	}

	return out
}

func writeYAML[V any](w io.Writer, entries map[string]V) error {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	ordered := make(yaml.MapSlice, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, yaml.MapItem{Key: key, Value: entries[key]})
	}

	data, err := yaml.Marshal(ordered)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	_, err = w.Write(data)

	return err //nolint:wrapcheck // writer errors are reported as is
}
