// Package http implements the HTTP handlers of the bikeshare server. Handlers
// stay thin: they parse the query string, call a service and render the result
// with go-chi/render.
//
// # Routes
//
//	GET /api/v1/cities                   configured cities and dataset state
//	GET /api/v1/stats                    full report for city, month, day
//	GET /api/v1/stats/{group}            one of time, stations, durations, users
//	GET /api/v1/trips                    one page of raw trips (offset, size)
//	GET /api/v1/report.{format}          csv, xlsx, pdf or json download
//	GET /api/health[/live|/ready]        health probes
//	GET /api/version                     build information
//	GET /metrics                         Prometheus exposition
//
// Filter parameters go through validation.CriteriaValidator, so "all", "none"
// or an omitted value disable month and day narrowing.
//
// # Error Handling
//
// Every failure is rendered by errors.ErrorHandler as RFC 7807 Problem
// Details:
//
//	{
//	    "type": "/errors/data/no-data-for-filter",
//	    "title": "No Data For Filter",
//	    "status": 404,
//	    "detail": "no trips for city=chicago month=june day=sunday",
//	    "instance": "/api/v1/stats",
//	    "trace_id": "0f6c..."
//	}
package http
