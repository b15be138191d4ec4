package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/dataprocessing"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/files"
	"bikeshare/internal/services"
	"bikeshare/pkg/contracts/domain"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Query(ctx context.Context, criteria domain.FilterCriteria) (*services.QueryCycle, error) {
	args := m.Called(criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QueryCycle), args.Error(1)
}

func (m *MockAnalysisService) Analyze(ctx context.Context, criteria domain.FilterCriteria) (*domain.Report, error) {
	args := m.Called(criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func (m *MockHealthService) Datasets() []files.DatasetInfo {
	return m.Called().Get(0).([]files.DatasetInfo)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(quietLogger(), false)
}

func trip(index int, start string, duration float64, from, to, userType, gender string, birthYear int) domain.Trip {
	ts, _ := time.Parse("2006-01-02 15:04:05", start)
	return domain.Trip{
		Index:        index,
		StartTime:    ts,
		EndTime:      ts.Add(time.Duration(duration) * time.Second),
		Duration:     duration,
		HasDuration:  true,
		StartStation: from,
		EndStation:   to,
		UserType:     userType,
		Gender:       gender,
		BirthYear:    birthYear,
		Month:        ts.Month(),
		Weekday:      domain.WeekdayOf(ts),
		Hour:         ts.Hour(),
	}
}

// marchCycle holds seven March trips: Mon, Mon, Tue, Wed, Wed, Wed, Fri.
func marchCycle(criteria domain.FilterCriteria) *services.QueryCycle {
	table := &dataprocessing.Table{
		City: domain.CityChicago,
		Schema: dataprocessing.Schema{
			HasEndTime: true, HasDuration: true, HasStartStation: true, HasEndStation: true,
			HasUserType: true, HasGender: true, HasBirthYear: true,
		},
		Trips: []domain.Trip{
			trip(1, "2017-03-06 08:00:00", 600, "Canal St", "Clinton St", "Subscriber", "Male", 1990),
			trip(2, "2017-03-13 09:00:00", 300, "Canal St", "Clinton St", "Subscriber", "Female", 1985),
			trip(3, "2017-03-07 17:00:00", 1200, "Streeter Dr", "Lake Shore Dr", "Customer", "", 0),
			trip(4, "2017-03-08 17:30:00", 600, "Canal St", "Clinton St", "Subscriber", "Male", 1990),
			trip(5, "2017-03-15 17:45:00", 900, "Canal St", "Clinton St", "Subscriber", "Male", 1988),
			trip(6, "2017-03-22 08:15:00", 300, "Streeter Dr", "Clinton St", "Customer", "Female", 1992),
			trip(7, "2017-03-10 17:05:00", 600, "Canal St", "Lake Shore Dr", "Subscriber", "Male", 1990),
		},
	}
	return services.NewQueryCycle(criteria, table, services.AnalysisOptions{DefaultPageSize: 5, MaxPageSize: 100})
}

// washingtonCycle has no gender or birth year columns.
func washingtonCycle(criteria domain.FilterCriteria) *services.QueryCycle {
	table := &dataprocessing.Table{
		City:   domain.CityWashington,
		Schema: dataprocessing.Schema{HasEndTime: true, HasDuration: true},
		Trips: []domain.Trip{
			trip(1, "2017-03-06 08:00:00", 600, "", "", "", "", 0),
		},
	}
	return services.NewQueryCycle(criteria, table, services.AnalysisOptions{})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func serve(router chi.Router, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func problemOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var problem map[string]any
	decode(t, rec, &problem)
	return problem
}

var (
	chicagoAll   = domain.NewFilterCriteria(domain.CityChicago, domain.AnyMonth, domain.AnyDay)
	chicagoMarch = domain.NewFilterCriteria(domain.CityChicago, domain.Month(time.March), domain.AnyDay)
)

var _ http.Handler = (*MetricsHandler)(nil)
