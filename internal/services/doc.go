// Package services implements the query cycle and health logic shared by the
// console, the exporter and the HTTP server.
//
// AnalysisService runs one query cycle per call:
//
//	load -> enrich -> filter
//
// Each stage runs inside an OpenTelemetry span created by PipelineTracer and
// its duration is recorded on the query_stage_duration_seconds histogram. The
// number of cycles loading at the same time is bounded by a weighted
// semaphore; every cycle owns the table it loaded.
//
// The resulting QueryCycle computes the four statistic groups, pages through
// the raw trips and assembles a domain.Report with per-group timings.
//
// HealthService answers liveness, readiness and version probes. Readiness
// requires the data directory to exist and hold at least one city dataset.
//
// Example:
//
//	svc := services.NewAnalysisService(loader, services.NewPipelineTracer(providers.Tracer, metrics),
//		services.AnalysisOptionsFrom(cfg.Data), logger)
//	cycle, err := svc.Query(ctx, criteria)
//	if err != nil {
//		return err
//	}
//	report, err := cycle.Report()
package services
