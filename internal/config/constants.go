package config

import "time"

// Application constants
const (
	AppName    = "bikeshare"
	AppVersion = "1.0.0"

	// Raw trip inspection
	ConsolePageSize = 5

	// Network timeouts
	DefaultHTTPTimeout = 30 * time.Second
	WebSocketWriteWait = 10 * time.Second
)

// Build information, overridden with -ldflags at release time.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
