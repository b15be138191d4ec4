package services

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"golang.org/x/sync/semaphore"

	"bikeshare/internal/config"
	"bikeshare/internal/dataprocessing"
	apierrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// TableLoader loads a city's full trip table.
type TableLoader interface {
	LoadWithStats(ctx context.Context, city domain.City) (*dataprocessing.Table, dataprocessing.LoadStats, error)
}

// AnalysisOptions bounds the work the service accepts.
type AnalysisOptions struct {
	MaxConcurrentQueries int64
	DefaultPageSize      int
	MaxPageSize          int
}

// AnalysisOptionsFrom reads the options from the data configuration.
func AnalysisOptionsFrom(cfg config.DataConfig) AnalysisOptions {
	return AnalysisOptions{
		MaxConcurrentQueries: cfg.MaxConcurrentQueries,
		DefaultPageSize:      cfg.DefaultPageSize,
		MaxPageSize:          cfg.MaxPageSize,
	}
}

func (o AnalysisOptions) withDefaults() AnalysisOptions {
	if o.MaxConcurrentQueries <= 0 {
		o.MaxConcurrentQueries = 1
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = dataprocessing.DefaultPageSize
	}
	if o.MaxPageSize < o.DefaultPageSize {
		o.MaxPageSize = o.DefaultPageSize
	}
	return o
}

// AnalysisService runs query cycles: load, enrich and filter one city's
// dataset, then hand the filtered table to the statistics engine.
type AnalysisService struct {
	loader TableLoader
	tracer *PipelineTracer
	sem    *semaphore.Weighted
	opts   AnalysisOptions
	logger *slog.Logger
}

// NewAnalysisService creates the service. A nil tracer records nothing.
func NewAnalysisService(loader TableLoader, tracer *PipelineTracer, opts AnalysisOptions, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = NewPipelineTracer(nil, nil)
	}
	opts = opts.withDefaults()

	logger.Info("AnalysisService initialized",
		slog.Int64("max_concurrent_queries", opts.MaxConcurrentQueries),
		slog.Int("default_page_size", opts.DefaultPageSize),
		slog.Int("max_page_size", opts.MaxPageSize))

	return &AnalysisService{
		loader: loader,
		tracer: tracer,
		sem:    semaphore.NewWeighted(opts.MaxConcurrentQueries),
		opts:   opts,
		logger: logger.With(slog.String("component", "analysis_service")),
	}
}

// Query runs one query cycle and returns the filtered table wrapped in a
// QueryCycle. Each call loads its own table; nothing is shared between
// cycles. Query blocks while MaxConcurrentQueries cycles are loading.
func (s *AnalysisService) Query(ctx context.Context, criteria domain.FilterCriteria) (*QueryCycle, error) {
	if !criteria.City.Valid() {
		return nil, apierrors.NewAppValidationError(fmt.Sprintf("%v: %q", ErrInvalidCity, criteria.City),
			apierrors.ValidationError{Field: "city", Value: string(criteria.City), Message: "unsupported city"})
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	ctx, span := s.tracer.TraceQuery(ctx, criteria)
	defer span.End()

	start := time.Now()
	cycle, err := s.run(ctx, criteria)
	s.tracer.RecordCompletion(ctx, span, criteria, cycle.Len(), err)

	if err != nil {
		s.logger.WarnContext(ctx, "Query cycle failed",
			slog.String("criteria", criteria.String()),
			slog.String("outcome", Outcome(err)),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Query cycle completed",
		slog.String("criteria", criteria.String()),
		slog.Int("trips", cycle.Len()),
		slog.Duration("duration", time.Since(start)))
	return cycle, nil
}

func (s *AnalysisService) run(ctx context.Context, criteria domain.FilterCriteria) (*QueryCycle, error) {
	stages := make(map[string]time.Duration, 3)

	var (
		table *dataprocessing.Table
		load  dataprocessing.LoadStats
	)
	d, err := s.tracer.TraceStage(ctx, StageLoad, func(ctx context.Context) error {
		var err error
		table, load, err = s.loader.LoadWithStats(ctx, criteria.City)
		if err == nil {
			s.tracer.RecordTripsLoaded(ctx, criteria.City, load.Loaded, load.Skipped)
		}
		return err
	})
	stages[StageLoad] = d
	if err != nil {
		return nil, err
	}

	stages[StageEnrich], _ = s.tracer.TraceStage(ctx, StageEnrich, func(context.Context) error {
		dataprocessing.Enrich(table)
		return nil
	})

	var filtered *dataprocessing.Table
	d, err = s.tracer.TraceStage(ctx, StageFilter, func(context.Context) error {
		var err error
		filtered, err = dataprocessing.Filter(table, criteria)
		return err
	})
	stages[StageFilter] = d
	if err != nil {
		return nil, err
	}

	return &QueryCycle{
		criteria: criteria,
		table:    filtered,
		load:     load,
		stages:   stages,
		opts:     s.opts,
	}, nil
}

// Analyze runs a query cycle and computes its full report.
func (s *AnalysisService) Analyze(ctx context.Context, criteria domain.FilterCriteria) (*domain.Report, error) {
	cycle, err := s.Query(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return cycle.Report()
}

// QueryCycle is the result of one query: the filtered table and the
// operations available on it. It is not safe for concurrent mutation, but
// its statistics and pages may be read from several goroutines.
type QueryCycle struct {
	criteria domain.FilterCriteria
	table    *dataprocessing.Table
	load     dataprocessing.LoadStats
	stages   map[string]time.Duration
	opts     AnalysisOptions
}

// NewQueryCycle wraps an already filtered table.
func NewQueryCycle(criteria domain.FilterCriteria, table *dataprocessing.Table, opts AnalysisOptions) *QueryCycle {
	return &QueryCycle{
		criteria: criteria,
		table:    table,
		stages:   map[string]time.Duration{},
		opts:     opts.withDefaults(),
	}
}

// Criteria returns the selection this cycle was run with.
func (q *QueryCycle) Criteria() domain.FilterCriteria { return q.criteria }

// Len returns the number of trips after filtering. Nil-safe.
func (q *QueryCycle) Len() int {
	if q == nil {
		return 0
	}
	return q.table.Len()
}

// Table returns the filtered table.
func (q *QueryCycle) Table() *dataprocessing.Table { return q.table }

// LoadStats returns the loader's row counts.
func (q *QueryCycle) LoadStats() dataprocessing.LoadStats { return q.load }

// StageTimings returns the duration of the load, enrich and filter stages.
func (q *QueryCycle) StageTimings() map[string]time.Duration { return maps.Clone(q.stages) }

func (q *QueryCycle) TimeStats() (domain.TimeStats, error) {
	return dataprocessing.ComputeTimeStats(q.table)
}

func (q *QueryCycle) StationStats() (domain.StationStats, error) {
	return dataprocessing.ComputeStationStats(q.table)
}

func (q *QueryCycle) DurationStats() (domain.DurationStats, error) {
	return dataprocessing.ComputeDurationStats(q.table)
}

func (q *QueryCycle) UserStats() (domain.UserStats, error) {
	return dataprocessing.ComputeUserStats(q.table)
}

// Group computes one statistic group by name.
func (q *QueryCycle) Group(name string) (any, error) {
	switch name {
	case domain.GroupTime:
		return q.TimeStats()
	case domain.GroupStations:
		return q.StationStats()
	case domain.GroupDurations:
		return q.DurationStats()
	case domain.GroupUsers:
		return q.UserStats()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
}

// Page returns one window of display rows. size <= 0 uses the configured
// default and sizes above the configured maximum are clamped.
func (q *QueryCycle) Page(offset, size int) domain.Page {
	if size <= 0 {
		size = q.opts.DefaultPageSize
	}
	if size > q.opts.MaxPageSize {
		size = q.opts.MaxPageSize
	}
	return dataprocessing.Paginate(q.table, offset, size)
}

// Rows projects every trip of the cycle for display or export.
func (q *QueryCycle) Rows() []domain.DisplayRow {
	rows := make([]domain.DisplayRow, 0, q.Len())
	for _, trip := range q.table.Trips {
		rows = append(rows, dataprocessing.Project(trip, q.table.Schema))
	}
	return rows
}

// Report computes all four groups and how long each took. A group whose
// columns are missing from the dataset is listed in Report.Unavailable
// instead of failing the whole report.
func (q *QueryCycle) Report() (*domain.Report, error) {
	report := &domain.Report{
		Criteria:  q.criteria,
		TripCount: q.Len(),
		Timings:   make(map[string]time.Duration, len(domain.Groups)),
	}

	for _, group := range domain.Groups {
		start := time.Now()
		var err error
		switch group {
		case domain.GroupTime:
			report.Time, err = q.TimeStats()
		case domain.GroupStations:
			report.Stations, err = q.StationStats()
		case domain.GroupDurations:
			report.Durations, err = q.DurationStats()
		case domain.GroupUsers:
			report.Users, err = q.UserStats()
		}
		report.Timings[group] = time.Since(start)

		if apierrors.TypeOf(err) == apierrors.ErrTypeSchemaMismatch {
			report.Unavailable = append(report.Unavailable, group)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s statistics: %w", group, err)
		}
	}

	report.GeneratedAt = time.Now()
	return report, nil
}
