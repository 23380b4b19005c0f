// Package file provides a file-backed remote source and the DataFetcher used for settings files.
//
// Fetcher reads a file on every Fetch call; the path is cleaned and validated at construction
// time. Source wraps a Fetcher and exposes one mapping of the file (optionally selected with a
// colon separated path) as the key->string snapshot of a remote source. JSON files are accepted
// too, since JSON documents parse as YAML.
//
// Usage:
//
//	src, err := file.New("params.yaml", file.WithPath("remote_config"))()
//	if err != nil {
//	    // stat failure, path is a directory, ...
//	}
//	changed, err := src.FetchAndActivate(ctx)
//
// The file is re-read on every FetchAndActivate. The snapshot only counts as changed when the
// xxhash fingerprint of the file contents differs from the active one.
package file
