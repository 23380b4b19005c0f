package middleware

import (
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// GzipMinSize is the smallest response body that gets compressed.
const GzipMinSize = 512

// Gzip compresses responses for clients that accept gzip.
func Gzip() (func(http.Handler) http.Handler, error) {
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(GzipMinSize))
	if err != nil {
		return nil, fmt.Errorf("creating gzip wrapper: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return wrap(next)
	}, nil
}
