package handler

import (
	"context"
	"net/http"
	"time"
)

// Checker reports whether a dependency is reachable.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	checkers []Checker
	timeout  time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checkers ...Checker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		timeout:  5 * time.Second,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if every dependency answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	body := map[string]string{"status": "ready"}

	for _, c := range h.checkers {
		if err := c.Check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unavailable"
			body[c.Name()] = err.Error()
			continue
		}
		body[c.Name()] = "ok"
	}

	writeJSON(w, status, body)
}

// PingChecker adapts a ping function to Checker.
type PingChecker struct {
	name string
	ping func(ctx context.Context) error
}

// NewPingChecker creates a Checker named name that calls ping.
func NewPingChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping}
}

// Name returns the dependency name.
func (c *PingChecker) Name() string { return c.name }

// Check pings the dependency.
func (c *PingChecker) Check(ctx context.Context) error { return c.ping(ctx) }
