// Package websocket provides WebSocket transport for Simon Says.
//
// The websocket package implements:
//   - Real-time run updates pushed to connected clients
//   - Session-aware WebSocket connections
//   - Connection lifecycle management
//   - Message routing and handling
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Outgoing messages are JSON-encoded run snapshots: after every fired
// action (including the server's periodic simulation ticks) the current
// RunResult is broadcast as a "run_update" event. Clients do not send
// commands over the socket; run control goes through the REST API.
//
// Session Integration:
//
// WebSocket connections are session-aware. Clients specify their session
// ID via query parameter (?session=abc1) when establishing the
// connection. Updates are broadcast only to clients connected to the
// same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// after a run operation
//	hub.BroadcastToSession(sessionID, runResult)
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive updates
// simultaneously without blocking each other.
package websocket
