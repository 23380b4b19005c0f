// Package source defines the remote source adapter contract consumed by the fetch coordinator.
//
// A Source exposes a flat key->string snapshot. FetchAndActivate retrieves the latest values and
// makes them the active snapshot; Value and All read the active snapshot without blocking.
//
// Implementations:
//   - Static (this package): in-memory values, for tests and embedded defaults
//   - source/file: YAML or JSON parameter file on disk
//   - source/httpsource: parameter server over HTTP (see package serve)
//   - source/s3source: JSON parameter object in S3
package source
