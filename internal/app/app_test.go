package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/config"
	apierrors "bikeshare/internal/errors"
	ws "bikeshare/internal/websocket"
)

const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1,2017-03-06 08:00:00,2017-03-06 08:10:00,600,Canal St,Clinton St,Subscriber,Male,1990
2,2017-03-07 17:00:00,2017-03-07 17:20:00,1200,Streeter Dr,Lake Shore Dr,Customer,,
3,2017-03-08 17:30:00,2017-03-08 17:40:00,600,Canal St,Clinton St,Subscriber,Female,1985
4,2017-04-05 09:00:00,2017-04-05 09:05:00,300,Canal St,Clinton St,Subscriber,Male,1992
5,2017-04-12 17:15:00,2017-04-12 17:30:00,900,Clinton St,Canal St,Subscriber,Male,1990
6,2017-05-03 18:00:00,2017-05-03 18:10:00,600,Canal St,Clinton St,Customer,Female,1988
7,2017-06-07 07:45:00,2017-06-07 08:00:00,900,Canal St,Streeter Dr,Subscriber,Male,1990
`

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "chicago.csv"), []byte(chicagoCSV), 0644))

	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Data.Dir = dataDir
	cfg.Data.ReportsDir = filepath.Join(root, "reports")
	cfg.Logging.FilePath = filepath.Join(root, "logs", "bikeshare.log")
	cfg.Security.RateLimit.Enabled = false
	cfg.Telemetry.TraceExporter = "none"
	return cfg
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	app, err := NewApplication(cfg, createTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.OTelProviders.Shutdown(context.Background()) })
	return app
}

func TestNewApplication(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApplication(t, cfg)

	require.NotNil(t, app.Services)
	assert.NotNil(t, app.Services.Analysis)
	assert.NotNil(t, app.Services.Health)
	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Metrics)
	assert.Equal(t, "127.0.0.1:0", app.Server.Addr)
	assert.Equal(t, cfg.Server.ReadTimeout, app.Server.ReadTimeout)

	assert.DirExists(t, app.Paths.ReportsDir)
	assert.DirExists(t, app.Paths.LogsDir)
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApplication(t, testConfig(t))

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedType   string
		contains       string
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", expectedStatus: http.StatusOK, contains: `"status":"ok"`},
		{name: "liveness", method: http.MethodGet, path: "/api/health/live", expectedStatus: http.StatusOK, contains: `"alive"`},
		{name: "readiness", method: http.MethodGet, path: "/api/health/ready", expectedStatus: http.StatusOK, contains: `"ready"`},
		{name: "version", method: http.MethodGet, path: "/api/version", expectedStatus: http.StatusOK, contains: config.AppVersion},
		{name: "cities", method: http.MethodGet, path: "/api/v1/cities", expectedStatus: http.StatusOK, contains: `"available":1`},
		{name: "report", method: http.MethodGet, path: "/api/v1/stats?city=chicago&month=march", expectedStatus: http.StatusOK, contains: `"trip_count":3`},
		{name: "single group", method: http.MethodGet, path: "/api/v1/stats/time?city=chicago", expectedStatus: http.StatusOK, contains: `"group":"time"`},
		{name: "trips page", method: http.MethodGet, path: "/api/v1/trips?city=chicago&size=2", expectedStatus: http.StatusOK, contains: `"has_more":true`},
		{name: "trips past the end", method: http.MethodGet, path: "/api/v1/trips?city=chicago&offset=9223372036854775807", expectedStatus: http.StatusOK, contains: `"has_more":false`},
		{
			name: "invalid city", method: http.MethodGet, path: "/api/v1/stats?city=boston",
			expectedStatus: http.StatusBadRequest, expectedType: apierrors.TypeValidation,
		},
		{
			name: "missing dataset", method: http.MethodGet, path: "/api/v1/stats?city=washington",
			expectedStatus: http.StatusServiceUnavailable, expectedType: apierrors.TypeDataUnavailable,
		},
		{
			name: "no data for filter", method: http.MethodGet, path: "/api/v1/stats?city=chicago&month=january",
			expectedStatus: http.StatusNotFound, expectedType: apierrors.TypeNoDataForFilter,
		},
		{
			name: "unknown route", method: http.MethodGet, path: "/nope",
			expectedStatus: http.StatusNotFound, expectedType: apierrors.TypeNotFound,
		},
		{
			name: "wrong method", method: http.MethodPost, path: "/api/v1/stats?city=chicago",
			expectedStatus: http.StatusMethodNotAllowed, expectedType: apierrors.TypeMethodNotAllowed,
		},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
			if tt.expectedType != "" {
				var problem map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
				assert.Equal(t, tt.expectedType, problem["type"])
			}
		})
	}
}

func TestApplication_SecurityHeaders(t *testing.T) {
	app := newTestApplication(t, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	app := newTestApplication(t, cfg)

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes[i] = rec.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	// scrapes are outside the limited chain
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApplication_DownloadReport(t *testing.T) {
	app := newTestApplication(t, testConfig(t))

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/report.csv?city=chicago&trips=true", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "chicago_all_all_")
	assert.Contains(t, rec.Body.String(), "Canal St")
}

func TestApplication_TripSession(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.DefaultPageSize = 5
	app := newTestApplication(t, cfg)

	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/trips?city=chicago"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() ws.Message {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg ws.Message
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	hello := read()
	assert.Equal(t, ws.TypeSession, hello.Type)
	assert.Equal(t, 7, hello.Total)

	require.NoError(t, conn.WriteJSON(ws.Request{Action: ws.ActionNext}))
	page := read()
	require.NotNil(t, page.Page)
	assert.Len(t, page.Page.Rows, 5)
	assert.True(t, page.Page.HasMore)
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApplication(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	require.NoError(t, app.Stop(context.Background()))
	assert.NoError(t, ctx.Err(), "a clean shutdown does not cancel the run context")
}
