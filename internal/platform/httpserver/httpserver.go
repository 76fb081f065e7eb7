// Package httpserver constructs the API server with timeouts suited to
// short admin requests and check-in scan bursts.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server for the given handler. Per-request deadlines are
// enforced by the router's timeout middleware; these bound the connection
// itself.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
