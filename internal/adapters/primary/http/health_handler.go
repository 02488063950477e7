package http

import (
	"context"
	"net/http"
	"runtime"
	"time"
)

const healthCheckTimeout = 5 * time.Second

// HealthChecker is the readiness contract for an external collaborator.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service and its two upstreams, the
// document store and the helpdesk API, can serve traffic.
type HealthHandler struct {
	deps      []dependency
	startTime time.Time
	version   string
}

type dependency struct {
	name    string
	checker HealthChecker
}

// NewHealthHandler creates the handler. A nil checker reports its dependency
// as not configured rather than panicking the probe.
func NewHealthHandler(db, helpdesk HealthChecker, version string) *HealthHandler {
	return &HealthHandler{
		deps: []dependency{
			{name: "database", checker: db},
			{name: "helpdesk", checker: helpdesk},
		},
		startTime: time.Now(),
		version:   version,
	}
}

// DependencyStatus is one collaborator's probe result.
type DependencyStatus struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// HealthReport is the data payload of the readiness and health responses.
type HealthReport struct {
	Healthy      bool                        `json:"healthy"`
	Version      string                      `json:"version,omitempty"`
	Uptime       string                      `json:"uptime"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// HandleLiveness answers the restart probe. It only proves the process is
// serving; upstream health is the readiness probe's concern.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]string{
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HandleReadiness answers the traffic probe: every dependency must respond.
// An aggregation cannot produce anything useful with either upstream down, so
// a single failing dependency takes the pod out of rotation.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	report := h.probe(ctx)
	if !report.Healthy {
		WriteJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Status:  "error",
			Message: "One or more dependencies are unavailable",
			Code:    "NOT_READY",
			Details: map[string]interface{}{"dependencies": report.Dependencies},
		})
		return
	}
	WriteSuccess(w, report)
}

// HandleHealth serves the diagnostic view: the readiness report plus runtime
// numbers. Always 200 so dashboards can read the body of a degraded service.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	WriteSuccess(w, struct {
		HealthReport
		Goroutines  int    `json:"goroutines"`
		HeapBytes   uint64 `json:"heap_bytes"`
		SysBytes    uint64 `json:"sys_bytes"`
		GCCompleted uint32 `json:"gc_completed"`
	}{
		HealthReport: h.probe(ctx),
		Goroutines:   runtime.NumGoroutine(),
		HeapBytes:    memStats.HeapAlloc,
		SysBytes:     memStats.Sys,
		GCCompleted:  memStats.NumGC,
	})
}

// probe pings every dependency and folds the results into one report.
func (h *HealthHandler) probe(ctx context.Context) HealthReport {
	report := HealthReport{
		Healthy:      true,
		Version:      h.version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Dependencies: make(map[string]DependencyStatus, len(h.deps)),
	}

	for _, dep := range h.deps {
		status := h.check(ctx, dep.checker)
		report.Dependencies[dep.name] = status
		if !status.Healthy {
			report.Healthy = false
		}
	}
	return report
}

func (h *HealthHandler) check(ctx context.Context, checker HealthChecker) DependencyStatus {
	if checker == nil {
		return DependencyStatus{Healthy: false, Error: "not configured"}
	}

	start := time.Now()
	err := checker.Ping(ctx)
	latency := time.Since(start).String()

	if err != nil {
		return DependencyStatus{Healthy: false, Error: err.Error(), Latency: latency}
	}
	return DependencyStatus{Healthy: true, Latency: latency}
}
