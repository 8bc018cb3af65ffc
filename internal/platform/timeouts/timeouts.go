// Package timeouts defines shared timeout constants for the site server.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// WatchDebounce coalesces bursts of content file events into one reload.
const WatchDebounce = 250 * time.Millisecond
