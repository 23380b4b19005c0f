// Package httpsource reads parameter snapshots from a parameter server over HTTP.
//
// The server is expected to answer GET {base}/v1/parameters with a source.Document, the way
// package serve does. The ETag of the active snapshot is sent back as If-None-Match, so an
// unchanged snapshot costs a 304 and no body.
//
//	src, err := httpsource.New("http://config.internal:8080")()
//	changed, err := src.FetchAndActivate(ctx)
//
// Each request is bounded by the FetchTimeout applied through Configure.
package httpsource
