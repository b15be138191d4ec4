package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"bikeshare/internal/dataprocessing"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/services"
	"bikeshare/pkg/contracts/domain"
)

// fakeConn feeds queued client messages to the session and records what it
// writes. Closing it unblocks a pending read.
type fakeConn struct {
	in chan []byte

	mu          sync.Mutex
	written     [][]byte
	closeFrames int

	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn(requests ...string) *fakeConn {
	c := &fakeConn{in: make(chan []byte, len(requests)+1), closed: make(chan struct{})}
	for _, r := range requests {
		c.in <- []byte(r)
	}
	return c
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data, ok := <-c.in:
		if !ok {
			return 0, nil, &websocket.CloseError{Code: websocket.CloseGoingAway}
		}
		return websocket.TextMessage, data, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-c.closed:
		return errors.New("use of closed connection")
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch messageType {
	case websocket.TextMessage:
		c.written = append(c.written, data)
	case websocket.CloseMessage:
		c.closeFrames++
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (c *fakeConn) SetReadLimit(int64)               {}
func (c *fakeConn) SetPongHandler(func(string) error) {}
func (c *fakeConn) RemoteAddr() string                { return "127.0.0.1:50000" }

func (c *fakeConn) messages(t *testing.T) []Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.written))
	for i, data := range c.written {
		require.NoError(t, json.Unmarshal(data, &out[i]))
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sevenTrips returns a cycle over seven trips with indices 1..7.
func sevenTrips() *services.QueryCycle {
	trips := make([]domain.Trip, 7)
	start := time.Date(2017, 3, 6, 8, 0, 0, 0, time.UTC)
	for i := range trips {
		ts := start.Add(time.Duration(i) * time.Hour)
		trips[i] = domain.Trip{
			Index:       i + 1,
			StartTime:   ts,
			EndTime:     ts.Add(10 * time.Minute),
			Duration:    600,
			HasDuration: true,
			UserType:    "Subscriber",
			Month:       ts.Month(),
			Weekday:     domain.WeekdayOf(ts),
			Hour:        ts.Hour(),
		}
	}
	table := &dataprocessing.Table{
		City:   domain.CityChicago,
		Schema: dataprocessing.Schema{HasEndTime: true, HasDuration: true, HasUserType: true},
		Trips:  trips,
	}
	criteria := domain.NewFilterCriteria(domain.CityChicago, domain.Month(time.March), domain.AnyDay)
	return services.NewQueryCycle(criteria, table, services.AnalysisOptions{})
}

func runSession(t *testing.T, conn *fakeConn, metrics *infrastructure.BusinessMetrics) *Session {
	t.Helper()
	session := NewSession(conn, sevenTrips(), SessionOptions{PageSize: 5}, metrics, quietLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		session.Run(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish")
	}
	return session
}

func pageIndexes(p *domain.Page) []int {
	idx := make([]int, len(p.Rows))
	for i, r := range p.Rows {
		idx[i] = r.Index
	}
	return idx
}

func TestSession_PagesUntilExhausted(t *testing.T) {
	conn := newFakeConn(`{"action":"next"}`, `{"action":"next"}`)
	session := runSession(t, conn, nil)

	msgs := conn.messages(t)
	require.Len(t, msgs, 3)

	assert.Equal(t, TypeSession, msgs[0].Type)
	assert.Equal(t, 7, msgs[0].Total)
	require.NotNil(t, msgs[0].Criteria)
	assert.Equal(t, domain.CityChicago, msgs[0].Criteria.City)

	assert.Equal(t, TypePage, msgs[1].Type)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pageIndexes(msgs[1].Page))
	assert.True(t, msgs[1].Page.HasMore)

	assert.Equal(t, []int{6, 7}, pageIndexes(msgs[2].Page))
	assert.False(t, msgs[2].Page.HasMore)

	for _, m := range msgs {
		assert.Equal(t, session.ID(), m.SessionID)
	}
	assert.Equal(t, 1, conn.closeFrames, "stream ends with a close frame")
}

func TestSession_Reset(t *testing.T) {
	conn := newFakeConn(`{"action":"next"}`, `{"action":"reset"}`, `{"action":"NEXT"}`)
	runSession(t, conn, nil)

	msgs := conn.messages(t)
	require.Len(t, msgs, 4)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pageIndexes(msgs[1].Page))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pageIndexes(msgs[2].Page), "reset rewinds to the first page")
	assert.Equal(t, []int{6, 7}, pageIndexes(msgs[3].Page))
}

func TestSession_InvalidRequests(t *testing.T) {
	conn := newFakeConn(`{"action":"jump"}`, `not json`)
	close(conn.in)
	runSession(t, conn, nil)

	msgs := conn.messages(t)
	require.Len(t, msgs, 3)
	assert.Equal(t, TypeError, msgs[1].Type)
	assert.Contains(t, msgs[1].Error, `"jump"`)
	assert.Equal(t, TypeError, msgs[2].Type)
}

func TestSession_ContextCancel(t *testing.T) {
	conn := newFakeConn()
	session := NewSession(conn, sevenTrips(), SessionOptions{}, nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		session.Run(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session ignored cancellation")
	}
}

func TestSession_ActiveGauge(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := infrastructure.CreateBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	runSession(t, newFakeConn(`{"action":"next"}`, `{"action":"next"}`), metrics)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "trip_sessions_active" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			assert.Equal(t, int64(0), sum.DataPoints[0].Value)
			found = true
		}
	}
	assert.True(t, found, "trip_sessions_active recorded")
}

func TestSessionOptions_Defaults(t *testing.T) {
	opts := SessionOptions{PongWait: 10 * time.Second, PingPeriod: time.Minute}.withDefaults()
	assert.Equal(t, 9*time.Second, opts.PingPeriod)
	assert.Equal(t, int64(defaultMaxMessageSize), opts.MaxMessageSize)

	opts = SessionOptions{}.withDefaults()
	assert.Equal(t, defaultPongWait, opts.PongWait)
}
