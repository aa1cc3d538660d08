// Package mcp provides the Model Context Protocol surface for Simon Says.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for plan authoring and run control
//   - Session-aware command execution
//   - Thin proxying to the REST API
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create new game session with config selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - run_state: Get the current run snapshot with board visualization
//   - add_action: Append an action to the plan
//   - remove_action: Remove the action at an index
//   - clear_plan: Empty the plan
//   - start_run, tick_run, pause_run, resume_run, stop_run: Run control
//   - solve_level: Exhaustively enumerate every solving plan
//   - list_configs: List available level configurations
//   - game_instructions: Comprehensive rules and strategy notes
//
// Architecture:
//
// The client holds no game state of its own. Every tool call is proxied to
// the REST API, so the MCP surface and the HTTP surface always agree on
// what a session looks like. Responses are formatted as plain text with
// the ASCII board view, since MCP consumers read rather than parse them.
//
// Session Management:
//
// Tools take an explicit session_id parameter. AI agents can manage
// multiple concurrent sessions independently; each has its own plan and
// run state.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Author and refine cyclic plans
//   - Watch runs tick by tick
//   - Compare their plans against the exhaustive solver
//   - Manage multiple sessions in parallel
package mcp
