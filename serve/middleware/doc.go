// Package middleware provides the HTTP middleware stack of the parameter server.
//
// Middlewares have the func(http.Handler) http.Handler shape and are composed with Chain, the
// first one listed being the outermost:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID(),
//	    middleware.Logging(middleware.SkipPaths("/healthz")),
//	    middleware.Recovery(),
//	    middleware.Gzip(),
//	)
package middleware

import "net/http"

// Chain wraps handler with middlewares. The first middleware is the outermost.
func Chain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}
