// Package api provides the HTTP REST surface for the Simon Says service.
//
// The api package implements:
//   - RESTful endpoints for sessions, plans, and run control
//   - Exhaustive solver endpoint per session
//   - Configuration listing, loading, and creation
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (optional config_id in body)
//   - GET /api/sessions - List sessions (sort, order, limit query params)
//   - GET /api/sessions/unified - Combined view across sessions
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Plan Authoring:
//   - GET /api/sessions/{id}/plan - Current plan and its canonical form
//   - POST /api/sessions/{id}/plan - Append an action ({"action": "forward"})
//   - DELETE /api/sessions/{id}/plan/{index} - Remove the action at index
//   - DELETE /api/sessions/{id}/plan - Clear the plan
//
// Run Control:
//   - GET /api/sessions/{id}/state - Current run snapshot
//   - POST /api/sessions/{id}/run/start - Respawn players and fire plan[0]
//   - POST /api/sessions/{id}/run/tick - Fire the next action
//   - POST /api/sessions/{id}/run/pause - Pause without losing position
//   - POST /api/sessions/{id}/run/resume - Resume a paused run
//   - POST /api/sessions/{id}/run/stop - Stop and reset the step counter
//
// Solving:
//   - POST /api/sessions/{id}/solve - Enumerate all solving plans
//
// Configuration:
//   - GET /api/configs - List available level configurations
//   - GET /api/configs/{name} - Get a configuration by ID
//   - POST /api/configs - Save a new configuration
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Errors are returned as JSON with
// appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Run-control responses carry the full RunResult, including the per-player
// step trace of the fired action, the ASCII board view, and (on a finished
// run) the challenge evaluation. The same snapshot is broadcast to
// WebSocket clients subscribed to the session.
package api
