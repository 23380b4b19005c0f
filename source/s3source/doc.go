// Package s3source reads a parameter snapshot stored as a JSON object in S3.
//
// The object holds a source.Document. The ETag of the active object is sent as IfNoneMatch, so
// an unchanged object answers 304 Not Modified and is not downloaded again.
//
//	src, err := s3source.NewFromConfig(ctx, "configs", "game/params.json", s3source.WithRegion("eu-west-1"))
//	changed, err := src.FetchAndActivate(ctx)
//
// S3-compatible stores are supported through WithEndpoint and WithPathStyle.
package s3source
