package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"salespulse/pkg/contracts"
)

// Health status values
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// HealthChecker reports whether a dependency can serve requests
type HealthChecker func(ctx context.Context) ServiceHealth

// HealthService provides health check functionality
type HealthService struct {
	version   string
	checks    map[string]HealthChecker
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a new health service. checks are run by
// ReadinessCheck; each must report StatusReady for the service to be ready.
func NewHealthService(version string, checks map[string]HealthChecker, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = contracts.Version
	}
	if checks == nil {
		checks = map[string]HealthChecker{}
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.Int("checks", len(checks)))

	return &HealthService{
		version:   version,
		checks:    checks,
		startTime: time.Now(),
		logger:    logger,
	}
}

// ReportServiceCheck reports ready when the report pipeline is wired
func ReportServiceCheck(svc *ReportService) HealthChecker {
	return func(ctx context.Context) ServiceHealth {
		if svc == nil || svc.processor == nil || svc.exporter == nil {
			return ServiceHealth{Status: StatusNotReady, Message: "report pipeline not initialized"}
		}
		return ServiceHealth{Status: StatusReady, Message: "report pipeline is healthy"}
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return status
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(hs.checks)),
	}

	for name, check := range hs.checks {
		sh := check(ctx)
		if sh.Status == StatusReady {
			sh.Uptime = time.Since(hs.startTime).String()
		} else {
			status.Status = StatusNotReady
		}
		status.Services[name] = sh
	}

	if status.Status != StatusReady {
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready", slog.Any("services", status.Services))
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	result := map[string]interface{}{
		"version":       hs.version,
		"product":       contracts.ProductName,
		"api_version":   info.APIVersion,
		"report_format": info.ReportFormat,
		"go_version":    info.GoVersion,
		"os":            info.OS,
		"arch":          info.Architecture,
		"uptime":        time.Since(hs.startTime).Seconds(),
		"start_time":    hs.startTime.Format(time.RFC3339),
		"current_time":  time.Now().Format(time.RFC3339),
	}

	// Include build info if available
	if info.BuildTime != "" && info.BuildTime != "unknown" {
		result["build_time"] = info.BuildTime
	}
	if info.GitCommit != "" && info.GitCommit != "unknown" {
		result["git_commit"] = info.GitCommit
	}

	return result
}
