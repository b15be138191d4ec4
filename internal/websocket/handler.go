package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/services"
	"bikeshare/internal/validation"
	"bikeshare/pkg/contracts/domain"
)

// QueryService runs the query cycle a session pages through.
type QueryService interface {
	Query(ctx context.Context, criteria domain.FilterCriteria) (*services.QueryCycle, error)
}

// TripHandler serves GET /ws/trips. The query runs before the upgrade, so
// invalid criteria and missing data are answered with a problem response.
type TripHandler struct {
	service      QueryService
	validator    *validation.CriteriaValidator
	upgrader     websocket.Upgrader
	opts         SessionOptions
	metrics      *infrastructure.BusinessMetrics
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// HandlerConfig configures the upgrade and the sessions it starts.
type HandlerConfig struct {
	Session         SessionOptions
	ReadBufferSize  int
	WriteBufferSize int
	// AllowedOrigins lists accepted Origin headers; empty or "*" accepts all.
	AllowedOrigins []string
}

// NewTripHandler creates the websocket trip paging handler. metrics may be nil.
func NewTripHandler(service QueryService, cfg HandlerConfig, metrics *infrastructure.BusinessMetrics,
	errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *TripHandler {
	h := &TripHandler{
		service:      service,
		validator:    validation.NewCriteriaValidator(),
		opts:         cfg.Session,
		metrics:      metrics,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "websocket.handler")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.errorHandler.HandleError(w, r, apierrors.ErrWebSocketUpgrade.
				WithStatus(status).WithDetails(reason.Error()))
		},
	}
	return h
}

func (h *TripHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	criteria, err := h.validator.ValidateValues(q.Get("city"), q.Get("month"), q.Get("day"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cycle, err := h.service.Query(ctx, criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied
		h.logger.WarnContext(ctx, "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	session := NewSession(NewConnectionWrapper(conn), cycle, h.opts, h.metrics, h.logger)
	h.logger.InfoContext(ctx, "trip session opened",
		slog.String("session_id", session.ID()),
		slog.String("criteria", criteria.String()),
		slog.Int("trips", cycle.Len()))
	session.Run(ctx)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}
