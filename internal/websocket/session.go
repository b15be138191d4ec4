package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bikeshare/internal/config"
	"bikeshare/internal/infrastructure"
	"bikeshare/pkg/contracts/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	defaultPongWait       = 60 * time.Second
	defaultMaxMessageSize = 512
)

// Pager is the filtered trip table a session walks through.
type Pager interface {
	Criteria() domain.FilterCriteria
	Len() int
	Page(offset, size int) domain.Page
}

// SessionOptions tunes a paging session.
type SessionOptions struct {
	PageSize       int
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

// SessionOptionsFrom reads the session options from the configuration.
func SessionOptionsFrom(ws config.WebSocketConfig, pageSize int) SessionOptions {
	return SessionOptions{
		PageSize:       pageSize,
		PongWait:       ws.PongWait,
		PingPeriod:     ws.PingPeriod,
		MaxMessageSize: ws.MaxMessageSize,
	}
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.PongWait <= 0 {
		o.PongWait = defaultPongWait
	}
	// Pings must go out before the peer's pong deadline.
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = (o.PongWait * 9) / 10
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = defaultMaxMessageSize
	}
	return o
}

// Session streams one filtered table to one websocket client, a page per
// request. The table is loaded once, before the session starts.
type Session struct {
	id     string
	conn   Connection
	pager  Pager
	opts   SessionOptions
	offset int

	// Buffered channel of outbound messages; closed by the read pump
	send    chan []byte
	stopped chan struct{}

	metrics     *infrastructure.BusinessMetrics
	logger      *slog.Logger
	connectedAt time.Time
	pagesSent   int
}

// NewSession creates a session over conn. metrics may be nil.
func NewSession(conn Connection, pager Pager, opts SessionOptions, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	return &Session{
		id:      id,
		conn:    conn,
		pager:   pager,
		opts:    opts.withDefaults(),
		send:    make(chan []byte, 16),
		stopped: make(chan struct{}),
		metrics: metrics,
		logger: logger.With(
			slog.String("component", "websocket.session"),
			slog.String("session_id", id),
			slog.String("remote_addr", conn.RemoteAddr()),
		),
		connectedAt: time.Now(),
	}
}

// ID returns the session identifier sent in every message.
func (s *Session) ID() string { return s.id }

// Run serves the session until the last page was sent, the client goes away
// or ctx is done. It closes the connection before returning.
func (s *Session) Run(ctx context.Context) {
	city := string(s.pager.Criteria().City)
	metricsCtx := context.WithoutCancel(ctx)
	s.metrics.RecordTripSession(metricsCtx, city, 1)
	defer s.metrics.RecordTripSession(metricsCtx, city, -1)

	stop := context.AfterFunc(ctx, func() { s.conn.Close() })
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writePump()
	}()
	s.readPump(ctx)
	<-done

	s.logger.InfoContext(ctx, "trip session closed",
		slog.Duration("connection_duration", time.Since(s.connectedAt)),
		slog.Int("pages_sent", s.pagesSent),
		slog.Int("offset", s.offset))
}

// readPump handles client requests. Every page is produced here so the
// offset is owned by a single goroutine.
func (s *Session) readPump(ctx context.Context) {
	defer close(s.send)

	s.conn.SetReadLimit(s.opts.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	})

	criteria := s.pager.Criteria()
	s.enqueue(Message{Type: TypeSession, Criteria: &criteria, Total: s.pager.Len()})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				s.logger.WarnContext(ctx, "unexpected websocket close", slog.String("error", err.Error()))
			}
			return
		}

		var req Request
		if err := json.Unmarshal(bytes.TrimSpace(data), &req); err != nil {
			s.enqueue(Message{Type: TypeError, Error: "message must be a JSON object with an action"})
			continue
		}

		switch strings.ToLower(strings.TrimSpace(req.Action)) {
		case ActionReset:
			s.offset = 0
			fallthrough
		case ActionNext:
			page := s.pager.Page(s.offset, s.opts.PageSize)
			s.offset = page.NextOffset
			s.pagesSent++
			s.enqueue(Message{Type: TypePage, Page: &page})
			if !page.HasMore {
				return
			}
		default:
			s.enqueue(Message{
				Type:  TypeError,
				Error: fmt.Sprintf("unknown action %q, expected %q or %q", req.Action, ActionNext, ActionReset),
			})
		}
	}
}

// writePump writes queued messages and keeps the connection alive with
// pings. A closed send channel ends the stream with a normal close frame.
func (s *Session) writePump() {
	ticker := time.NewTicker(s.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		close(s.stopped)
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "no more trips"))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Debug("failed to write websocket message", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("failed to send ping", slog.String("error", err.Error()))
				return
			}
		}
	}
}

func (s *Session) enqueue(msg Message) {
	msg.SessionID = s.id
	msg.Timestamp = time.Now()
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to encode websocket message", slog.String("error", err.Error()))
		return
	}
	select {
	case s.send <- data:
	case <-s.stopped:
	}
}
