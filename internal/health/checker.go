// Package health reports whether the engine's optional auxiliary
// services (snapshot cache, tick broadcast) are reachable, for the
// adapter's /healthz endpoint (spec §6).
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nats-io/nats.go"
)

// Pinger is satisfied by anything that can report liveness, such as a
// Redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NATSStatus is satisfied by a NATS connection.
type NATSStatus interface {
	Status() nats.Status
}

// Checker reports the health of the engine's optional dependencies.
// Cache and broadcaster are both nilable — the core runs in-memory and
// functions correctly with either or both absent (spec §6, "no
// persisted state layout").
type Checker struct {
	cache      Pinger
	broadcaster NATSStatus
}

// NewHealthChecker builds a Checker. Either argument may be nil.
func NewHealthChecker(cache Pinger, broadcaster NATSStatus) *Checker {
	return &Checker{cache: cache, broadcaster: broadcaster}
}

// Check returns a status map suitable for JSON encoding: "status" is
// "ok" when every configured dependency is healthy, "degraded"
// otherwise. Dependencies left nil are omitted rather than reported
// unhealthy.
func (c *Checker) Check(ctx context.Context) map[string]string {
	status := map[string]string{"status": "ok"}

	if c.cache != nil {
		if err := c.cache.Ping(ctx); err != nil {
			status["cache"] = "unhealthy"
			status["status"] = "degraded"
		} else {
			status["cache"] = "healthy"
		}
	}

	if c.broadcaster != nil {
		if c.broadcaster.Status() == nats.CONNECTED {
			status["broadcast"] = "healthy"
		} else {
			status["broadcast"] = "unhealthy"
			status["status"] = "degraded"
		}
	}

	return status
}

// Handler serves the status map as JSON, always with a 200 so load
// balancers distinguish "process is up" from "dependency is degraded"
// by inspecting the body rather than the status code.
func (c *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := c.Check(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	})
}
