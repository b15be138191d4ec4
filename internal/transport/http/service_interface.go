package http

import (
	"context"

	"bikeshare/internal/files"
	"bikeshare/internal/services"
	"bikeshare/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the query operations used by the handlers
type AnalysisServiceInterface interface {
	Query(ctx context.Context, criteria domain.FilterCriteria) (*services.QueryCycle, error)
	Analyze(ctx context.Context, criteria domain.FilterCriteria) (*domain.Report, error)
}

// HealthServiceInterface defines the health and discovery operations
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
	Datasets() []files.DatasetInfo
}
