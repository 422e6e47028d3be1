// Package upstream holds the failure type shared by the GTFS-Realtime and
// SIRI clients. Both talk to independent agency services with their own auth
// and shapes, but surface errors the same way so the cache layer can apply a
// single serve-stale-or-propagate policy.
package upstream

import (
	"fmt"
	"net/http"
	"time"
)

// Error reports a failed upstream call: a non-2xx HTTP response, a decode
// failure, or a timeout. Status is zero when no HTTP response was received.
type Error struct {
	Status   int
	Resource string // feed path or stop ID
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: HTTP %d", e.Resource, e.Status)
	}
	return fmt.Sprintf("upstream %s: %v", e.Resource, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewHTTPClient returns an http.Client with the per-fetch timeout that
// converts a hung upstream into an error instead of a blocked cache slot.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
