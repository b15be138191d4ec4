package websocket

import (
	"time"

	"bikeshare/pkg/contracts/domain"
)

// Client actions
const (
	ActionNext  = "next"
	ActionReset = "reset"
)

// Server message types
const (
	TypeSession = "session"
	TypePage    = "page"
	TypeError   = "error"
)

// Request is a message sent by the client.
type Request struct {
	Action string `json:"action"`
}

// Message is a message sent by the server. A session message opens the
// stream, page messages answer next and reset, and an error message answers
// a request the session could not understand.
type Message struct {
	Type      string                 `json:"type"`
	SessionID string                 `json:"session_id"`
	Criteria  *domain.FilterCriteria `json:"criteria,omitempty"`
	Total     int                    `json:"total,omitempty"`
	Page      *domain.Page           `json:"page,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}
