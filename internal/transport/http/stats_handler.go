package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bikeshare/internal/config"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/exporter"
	"bikeshare/internal/validation"
	"bikeshare/pkg/contracts/domain"
)

// StatsHandler serves statistics, trip pages and report downloads for one
// filter selection per request.
type StatsHandler struct {
	service      AnalysisServiceInterface
	validator    *validation.CriteriaValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewStatsHandler creates a new stats handler with RFC 7807 error handling
func NewStatsHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *StatsHandler {
	return &StatsHandler{
		service:      service,
		validator:    validation.NewCriteriaValidator(),
		logger:       logger.With(slog.String("component", "stats_handler")),
		errorHandler: errorHandler,
		now:          time.Now,
	}
}

// Routes returns the query routes. Every route takes city, month and day
// query parameters.
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/stats", h.GetReport)
		r.Get("/stats/{group}", h.GetGroup)
		r.Get("/trips", h.GetTrips)
	})
	r.Get("/report.{format}", h.DownloadReport)

	return r
}

// ParseCriteria reads city, month and day from the query string.
func (h *StatsHandler) ParseCriteria(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()
	return h.validator.ValidateValues(q.Get("city"), q.Get("month"), q.Get("day"))
}

// GetReport handles GET /api/v1/stats
func (h *StatsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.ParseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Analyze(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "report served",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("criteria", criteria.String()),
		slog.Int("trips", report.TripCount),
	)
	render.JSON(w, r, report)
}

// GroupResponse carries one statistic group.
type GroupResponse struct {
	Criteria  domain.FilterCriteria `json:"criteria"`
	Group     string                `json:"group"`
	TripCount int                   `json:"trip_count"`
	Stats     any                   `json:"stats"`
	Seconds   float64               `json:"seconds"`
}

// GetGroup handles GET /api/v1/stats/{group}
func (h *StatsHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	if !slices.Contains(domain.Groups, group) {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError(
			fmt.Sprintf("statistic group %q", group), domain.Groups))
		return
	}

	criteria, err := h.ParseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cycle, err := h.service.Query(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	start := time.Now()
	stats, err := cycle.Group(group)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, GroupResponse{
		Criteria:  criteria,
		Group:     group,
		TripCount: cycle.Len(),
		Stats:     stats,
		Seconds:   time.Since(start).Seconds(),
	})
}

// GetTrips handles GET /api/v1/trips with offset and size paging
func (h *StatsHandler) GetTrips(w http.ResponseWriter, r *http.Request) {
	offset, err := intParam(r, "offset")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	size, err := intParam(r, "size")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	criteria, err := h.ParseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cycle, err := h.service.Query(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, cycle.Page(offset, size))
}

// DownloadReport handles GET /api/v1/report.{format}. With trips=true the
// filtered trips are included after the summary.
func (h *StatsHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("format", err))
		return
	}

	withTrips := false
	if v := r.URL.Query().Get("trips"); v != "" {
		if withTrips, err = strconv.ParseBool(v); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("trips", err))
			return
		}
	}

	criteria, err := h.ParseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cycle, err := h.service.Query(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	report, err := cycle.Report()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	doc := exporter.Document{Report: report}
	if withTrips {
		doc.Trips = cycle.Rows()
	}

	// Render fully before writing so a failure can still become a problem response.
	var buf bytes.Buffer
	if err := exporter.Export(&buf, format, doc); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("export %s: %w", format, err))
		return
	}

	filename := filepath.Base((&config.Paths{}).GetReportPath(criteria, string(format), h.now()))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "report download interrupted",
			slog.String("file", filename),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "report downloaded",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("file", filename),
		slog.Bool("trips", withTrips),
	)
}

// intParam reads an optional non-negative integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err == nil && n < 0 {
		err = errors.New("must not be negative")
	}
	if err != nil {
		return 0, apierrors.InvalidParameter(name, err)
	}
	return n, nil
}
