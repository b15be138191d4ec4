package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"bikeshare/internal/files"
	"bikeshare/internal/validation"
)

// Health status values
const (
	StatusOK       = "ok"
	StatusAlive    = "alive"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	gitCommit string
	dataDir   string
	discovery *files.Discovery
	validator *validation.FileValidator
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

// Ready reports whether the status is a successful readiness result.
func (s HealthStatus) Ready() bool {
	return s.Status == StatusReady
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a new health service for the given data directory
func NewHealthService(version, dataDir string, logger *slog.Logger) *HealthService {
	return NewHealthServiceWithBuildInfo(version, "", "", dataDir, logger)
}

// NewHealthServiceWithBuildInfo creates a new health service with build information
func NewHealthServiceWithBuildInfo(version, buildTime, gitCommit, dataDir string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("git_commit", gitCommit),
		slog.String("data_dir", dataDir))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		gitCommit: gitCommit,
		dataDir:   dataDir,
		discovery: files.NewDiscovery(dataDir),
		validator: validation.NewFileValidator(logger),
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
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

// ReadinessCheck reports ready when the data directory exists and at least
// one city has a dataset in it.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"data_dir": hs.checkDataDirectory(),
			"datasets": hs.checkDatasets(),
		},
	}

	for _, service := range status.Services {
		if service.Status != StatusReady {
			status.Status = StatusNotReady
			break
		}
	}

	if !status.Ready() {
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready",
			slog.String("data_dir", hs.dataDir))
	}
	return status
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.gitCommit != "" {
		result["git_commit"] = hs.gitCommit
	}
	return result
}

// Datasets lists every supported city and the file that backs it, if any.
func (hs *HealthService) Datasets() []files.DatasetInfo {
	return hs.discovery.Datasets()
}

func (hs *HealthService) checkDataDirectory() ServiceHealth {
	found, err := hs.validator.ValidateDataDirectory(hs.dataDir)
	if err != nil {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: err.Error(),
		}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d dataset files in %s", len(found), hs.dataDir),
		Uptime:  time.Since(hs.startTime).String(),
	}
}

func (hs *HealthService) checkDatasets() ServiceHealth {
	datasets := hs.Datasets()
	available := files.AvailableCount(datasets)
	if available == 0 {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: "no city dataset found",
		}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d of %d cities available", available, len(datasets)),
	}
}
