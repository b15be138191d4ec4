package http

import (
	"net/http"

	apierrors "bikeshare/internal/errors"
)

// MetricsHandler serves the Prometheus exposition of the OpenTelemetry
// metrics. With the metric exporter disabled it answers 503.
type MetricsHandler struct {
	exporter     http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler. exporter may be nil.
func NewMetricsHandler(exporter http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrServiceUnavailable.
			WithDetails("metric exporter is disabled"))
		return
	}
	h.exporter.ServeHTTP(w, r)
}
