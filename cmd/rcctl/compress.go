package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xalexb/hjarta-rc/classify"
	"github.com/0xalexb/hjarta-rc/compress"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newCompressCmd() *cobra.Command {
	var (
		algorithm  string
		decompress bool
		noValidate bool
	)

	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Compress JSON from stdin into a parameter value",
		Long: `compress reads a JSON document from stdin and prints the base64 wire value to
store in a remote parameter. The output is always long enough to be routed
through decompression by the resolver. With --decompress the direction is
reversed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}

			codec, err := compress.New(compress.Algorithm(algorithm))
			if err != nil {
				return err //nolint:wrapcheck // already wrapped
			}

			text := strings.TrimSpace(string(input))

			var out string

			if decompress {
				out, err = codec.Decompress(text)
			} else {
				if !noValidate && !gojson.Valid([]byte(text)) {
					return fmt.Errorf("%w: stdin is not valid JSON", classify.ErrDecompress)
				}

				out, err = codec.Compress(text)
			}

			if err != nil {
				return err //nolint:wrapcheck // already wrapped
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err //nolint:wrapcheck // writer errors are reported as is
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", string(compress.Gzip), "Frame format (gzip, zstd, lz4)")
	cmd.Flags().BoolVarP(&decompress, "decompress", "d", false, "Decompress a wire value instead")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip JSON validation of the input")

	return cmd
}
