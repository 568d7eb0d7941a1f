// Package health exposes liveness and readiness endpoints backed by
// named dependency probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker probes one dependency. A nil error means the dependency is
// reachable.
type Checker func(ctx context.Context) error

// Status of the process or one of its dependencies.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// DefaultCheckTimeout bounds a full readiness sweep.
const DefaultCheckTimeout = 5 * time.Second

// CheckResult reports one dependency probe, including how long it took.
type CheckResult struct {
	Status   Status `json:"status"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// Response is the body served by both endpoints. Liveness carries no
// per-dependency checks.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Handler runs registered probes and serves the health endpoints.
type Handler struct {
	timeout time.Duration

	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewHandler creates a handler with the default sweep timeout.
func NewHandler() *Handler {
	return &Handler{
		timeout:  DefaultCheckTimeout,
		checkers: make(map[string]Checker),
	}
}

// Register adds a named probe. Re-registering a name replaces the
// previous probe.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Check runs every registered probe and aggregates the results. The
// overall status is down if any probe fails.
func (h *Handler) Check(ctx context.Context) Response {
	h.mu.RLock()
	checkers := make(map[string]Checker, len(h.checkers))
	for name, c := range h.checkers {
		checkers[name] = c
	}
	h.mu.RUnlock()

	resp := Response{
		Status:    StatusUp,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]CheckResult, len(checkers)),
	}
	for name, checker := range checkers {
		started := time.Now()
		err := checker(ctx)
		result := CheckResult{
			Status:   StatusUp,
			Duration: time.Since(started).Round(time.Microsecond).String(),
		}
		if err != nil {
			result.Status = StatusDown
			result.Error = err.Error()
			resp.Status = StatusDown
		}
		resp.Checks[name] = result
	}
	return resp
}

// LivenessHandler answers 200 whenever the process can serve requests.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler runs all probes and answers 200 or 503.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		resp := h.Check(ctx)
		code := http.StatusOK
		if resp.Status == StatusDown {
			code = http.StatusServiceUnavailable
		}
		writeResponse(w, code, resp)
	}
}

func writeResponse(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
