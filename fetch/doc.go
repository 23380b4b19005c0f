// Package fetch coordinates fetch-and-activate calls against a remote source.
//
// A Coordinator owns a State and guarantees:
//   - Initialize fails with AdapterNotReady unless the source reports Ready
//   - FetchAndActivate contacts the source at most once per State: after a successful fetch
//     every later call returns immediately from cache
//   - at most one fetch is in flight; concurrent callers wait for the running one
//     (golang.org/x/sync/singleflight)
//   - a failed fetch leaves the State untouched, so a later call retries
//
// Refresh re-fetches explicitly, honouring the minimum fetch interval. Reset clears the State.
//
// Fetch outcomes are exported through Metrics when one is configured:
//
//	metrics, err := fetch.NewMetrics(prometheus.DefaultRegisterer)
//	coordinator := fetch.NewCoordinator(src, fetch.WithMetrics(metrics))
package fetch
