package infrastructure

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeOTel_Prometheus(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "bikeshare-test",
		ServiceVersion: "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		SampleRatio:    1,
	}, NewDiscardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.PrometheusHTTP)
	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordQueryCycle(ctx, "chicago", "success")
	metrics.RecordStage(ctx, "load", 120*time.Millisecond)
	metrics.RecordTripsLoaded(ctx, "chicago", 300)
	metrics.RecordQueryError(ctx, "NO_DATA_FOR_FILTER")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "query_cycles_total")
	assert.Contains(t, body, "query_stage_duration_seconds")
	assert.Contains(t, body, "trips_loaded_total")
	assert.Contains(t, body, "query_errors_total")
	assert.Contains(t, body, `city="chicago"`)
}

func TestInitializeOTel_StdoutTraces(t *testing.T) {
	var out bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "bikeshare-test",
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    1,
		TraceOutput:    &out,
	}, NewDiscardLogger())
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "query.load")
	assert.NotEmpty(t, GetTraceID(ctx))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, out.String(), "query.load")
	assert.Nil(t, providers.PrometheusHTTP)
}

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{TraceExporter: "none", MetricExporter: "none"}, NewDiscardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Tracer)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordQueryCycle(context.Background(), "washington", "error")
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger"}, NewDiscardLogger())
	assert.Error(t, err)
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordQueryCycle(context.Background(), "chicago", "success")
		m.RecordStage(context.Background(), "filter", time.Second)
	})
}
