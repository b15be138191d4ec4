// Package websocket serves trip paging sessions over gorilla/websocket.
//
// A client connects to /ws/trips with city, month and day query parameters.
// The server runs the query once, sends a "session" message with the trip
// total, and then answers each {"action":"next"} with the next page and each
// {"action":"reset"} with the first page again. The page with has_more=false
// is the last one: the server follows it with a normal close frame.
//
// Each session runs a read pump, which owns the paging offset, and a write
// pump, which serializes writes and sends pings.
package websocket
