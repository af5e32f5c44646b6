// Package server provides the HTTP server for the discoveryboard dashboard.
//
// This package is internal to discoveryboard and handles all HTTP concerns:
//
//   - Dashboard page at "/", rendered from the current view state
//   - Molecule viewer at "/molecule"
//   - JSON snapshot at "/api/state"
//   - Live updates over Server-Sent Events ("/api/sse") and WebSocket ("/api/ws")
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// The server is started by [discoveryboard.Dashboard.Start].
package server
