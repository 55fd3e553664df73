// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/postdoc-portal/internal/auth"
	"github.com/olegiv/postdoc-portal/internal/cache"
	"github.com/olegiv/postdoc-portal/internal/middleware"
	"github.com/olegiv/postdoc-portal/internal/version"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	healthCheckTimeout = 3 * time.Second
	cacheProbeKey      = "health:probe"
)

// Pinger is implemented by the API client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	api       Pinger
	cache     cache.Cacher
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler. c may be nil when no
// cache is configured.
func NewHealthHandler(api Pinger, c cache.Cacher, info version.Info) *HealthHandler {
	return &HealthHandler{
		api:       api,
		cache:     c,
		version:   info,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatusPublic is the minimal health response for anonymous callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus represents the overall health status (staff only).
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health requests.
// Returns minimal status for anonymous callers, full details for staff.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	apiCheck := h.checkAPI(r.Context())
	cacheCheck := h.checkCache(r.Context())

	overallStatus := statusHealthy
	if apiCheck.Status != statusHealthy || cacheCheck.Status != statusHealthy {
		overallStatus = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	if overallStatus != statusHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if !isStaff(r) {
		_ = json.NewEncoder(w).Encode(HealthStatusPublic{Status: overallStatus})
		return
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Short(),
		Checks: map[string]Check{
			"api":   apiCheck,
			"cache": cacheCheck,
		},
	}
	if h.cache != nil {
		stats := h.cache.Stats()
		status.Cache = &stats
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = getSystemInfo()
	}

	_ = json.NewEncoder(w).Encode(status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// Readiness handles GET /health/ready - checks that the API can be reached.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	apiCheck := h.checkAPI(r.Context())

	w.Header().Set("Content-Type", "application/json")

	if apiCheck.Status == statusHealthy {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "ready",
		})
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	resp := map[string]string{
		"status": "not_ready",
	}
	// Only include error details for staff
	if isStaff(r) {
		resp["message"] = apiCheck.Message
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// isStaff reports whether the request carries a staff session.
func isStaff(r *http.Request) bool {
	store := middleware.GetSession(r)
	return store != nil && auth.IsAuthenticated(store) && auth.CheckAdminAccess(store)
}

func (h *HealthHandler) checkAPI(ctx context.Context) Check {
	if h.api == nil {
		return Check{Status: statusUnhealthy, Message: "API client not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.api.Ping(ctx); err != nil {
		return Check{
			Status:  statusUnhealthy,
			Message: err.Error(),
			Latency: time.Since(start).String(),
		}
	}
	return Check{Status: statusHealthy, Latency: time.Since(start).String()}
}

// checkCache writes and reads back a probe entry.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cache == nil {
		return Check{Status: statusHealthy, Message: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.cache.Set(ctx, cacheProbeKey, []byte("ok"), 10*time.Second); err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error()}
	}
	if _, err := h.cache.Get(ctx, cacheProbeKey); err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error()}
	}
	return Check{Status: statusHealthy, Message: h.cache.Stats().Backend, Latency: time.Since(start).String()}
}

func getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes formats bytes into a human-readable string.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
