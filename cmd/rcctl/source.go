package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/0xalexb/hjarta-rc/source"
	"github.com/0xalexb/hjarta-rc/source/file"
	"github.com/0xalexb/hjarta-rc/source/httpsource"
	"github.com/0xalexb/hjarta-rc/source/s3source"

	"github.com/spf13/cobra"
)

var errSourceFlags = errors.New("exactly one of --file, --url or --s3 is required")

var errS3Location = errors.New("--s3 must look like s3://bucket/key")

type sourceFlags struct {
	file      string
	filePath  string
	url       string
	s3        string
	region    string
	endpoint  string
	pathStyle bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.file, "file", "", "YAML or JSON parameter file")
	flags.StringVar(&f.filePath, "file-path", "", "Colon separated path of the parameter mapping inside --file")
	flags.StringVar(&f.url, "url", "", "Base URL of a parameter server")
	flags.StringVar(&f.s3, "s3", "", "Parameter object location, s3://bucket/key")
	flags.StringVar(&f.region, "region", "", "AWS region for --s3")
	flags.StringVar(&f.endpoint, "endpoint", "", "S3-compatible endpoint for --s3")
	flags.BoolVar(&f.pathStyle, "path-style", false, "Use path-style addressing for --s3")
}

// constructor returns an Fx-friendly constructor for the selected source.
func (f *sourceFlags) constructor(ctx context.Context) (func() (source.Source, error), error) {
	selected := 0

	for _, value := range []string{f.file, f.url, f.s3} {
		if value != "" {
			selected++
		}
	}

	if selected != 1 {
		return nil, errSourceFlags
	}

	switch {
	case f.file != "":
		var opts []file.Option
		if f.filePath != "" {
			opts = append(opts, file.WithPath(f.filePath))
		}

		return upcast(file.New(f.file, opts...)), nil
	case f.url != "":
		return upcast(httpsource.New(f.url)), nil
	default:
		bucket, key, err := parseS3Location(f.s3)
		if err != nil {
			return nil, err
		}

		var opts []s3source.Option
		if f.region != "" {
			opts = append(opts, s3source.WithRegion(f.region))
		}

		if f.endpoint != "" {
			opts = append(opts, s3source.WithEndpoint(f.endpoint))
		}

		if f.pathStyle {
			opts = append(opts, s3source.WithPathStyle())
		}

		return upcast(func() (*s3source.Source, error) {
			return s3source.NewFromConfig(ctx, bucket, key, opts...)
		}), nil
	}
}

func (f *sourceFlags) open(ctx context.Context) (source.Source, error) {
	constructor, err := f.constructor(ctx)
	if err != nil {
		return nil, err
	}

	return constructor()
}

func upcast[S source.Source](constructor func() (S, error)) func() (source.Source, error) {
	return func() (source.Source, error) {
		src, err := constructor()
		if err != nil {
			return nil, err
		}

		return src, nil
	}
}

func parseS3Location(location string) (string, string, error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", errS3Location, location)
	}

	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", errS3Location, location)
	}

	return bucket, key, nil
}
