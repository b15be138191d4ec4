// Package app wires the HTTP server: configuration, logging, OpenTelemetry,
// the analysis and health services, the chi router and graceful shutdown.
//
// # Initialization Flow
//
//	1. Resolve paths and create the reports and logs directories
//	2. Initialize OpenTelemetry and the business metrics
//	3. Build the dataset loader, pipeline tracer and services
//	4. Set up middleware, routes and the websocket trip handler
//	5. Create the HTTP server
//
// # Middleware
//
// Every route except /metrics runs through
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer →
//	SecurityHeaders → CORS → RateLimiter
//
// and /api additionally through Timeout. /ws/trips is left without a
// timeout because a paging session outlives a single request.
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run serves until SIGINT or SIGTERM and then shuts down within
// Server.ShutdownTimeout. Errors are returned to the caller; the package never
// calls os.Exit.
package app
