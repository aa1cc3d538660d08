package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DylanRJohnston/simon-says/game/engine"
	"github.com/DylanRJohnston/simon-says/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Simon Says",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Simon Says - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Author a short plan of actions (forward/right/backward/left/nothing), then
run it. The plan repeats from the top until every player reaches a finish
tile. Players slide on ice, stop at walls, die off the edge, and get turned
by rotators.

AVAILABLE TOOLS:
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- run_state: Get the current run snapshot for a session
- add_action: Append an action to the plan - requires intent explanation
- remove_action: Remove the action at an index
- clear_plan: Empty the plan
- start_run: Respawn players and fire the plan's first action
- tick_run: Fire the next action of a running plan
- pause_run / resume_run / stop_run: Run control
- solve_level: Exhaustively enumerate every solving plan
- list_configs: List available level configurations
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on add_action serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the level config to use (optional, defaults to first-steps)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_state",
		Description: "Get the current run snapshot (state, program counter, step count, board view)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRunState)

	// Plan authoring
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_action",
		Description: "Append an action to the session's plan",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"forward", "right", "backward", "left", "nothing"},
					"description": "Action to append (must be in the level's vocabulary)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this action (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "action"},
		},
	}, c.handleAddAction)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_action",
		Description: "Remove the action at a zero-based index from the plan",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based index of the action to remove",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleRemoveAction)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "clear_plan",
		Description: "Remove every action from the session's plan",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleClearPlan)

	// Run control
	for _, op := range []struct {
		name, path, desc string
	}{
		{"start_run", "start", "Respawn players at their start tiles and fire the plan's first action"},
		{"tick_run", "tick", "Fire the next action of a running plan (wraps to the top at the end)"},
		{"pause_run", "pause", "Pause a running plan without losing position"},
		{"resume_run", "resume", "Resume a paused plan"},
		{"stop_run", "stop", "Stop the run and reset the step counter"},
	} {
		path := op.path
		c.mcpServer.AddTool(mcp.Tool{
			Name:        op.name,
			Description: op.desc,
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"session_id": map[string]interface{}{
						"type":        "string",
						"description": "Session ID",
					},
				},
				Required: []string{"session_id"},
			},
		}, c.runOpHandler(path))
	}

	// Solver
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_level",
		Description: "Exhaustively enumerate every plan that solves the session's level, with smallest/fastest/slowest extremes and challenge attainability",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available level configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nAction limit: %d\n\n%s",
		session.ID, session.ConfigName, session.ActionLimit, strings.Join(session.View, "\n"))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, State: %s, Plan: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.RunState, formatPlan(s.Plan), s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRunState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var run service.RunResult
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &run)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatRunResult(&run)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleAddAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	action, _ := args["action"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]string{"action": action}

	var result service.PlanResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/plan", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlanResult(&result)), nil
}

func (c *Client) handleRemoveAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	indexRaw, ok := args["index"].(float64)
	if !ok {
		return mcp.NewToolResultError("index must be an integer"), nil
	}
	index := int(indexRaw)

	var result service.PlanResult
	err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s/plan/%d", sessionID, index), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlanResult(&result)), nil
}

func (c *Client) handleClearPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.PlanResult
	err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s/plan", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlanResult(&result)), nil
}

// runOpHandler builds a tool handler for one run-control endpoint
func (c *Client) runOpHandler(op string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.Params.Arguments.(map[string]interface{})
		sessionID, _ := args["session_id"].(string)

		var result service.RunResult
		err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/run/%s", sessionID, op), nil, &result)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatRunResult(&result)), nil
	}
}

func (c *Client) handleSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.SolveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/solve", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolveResult(&result)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (id: %s)\n  %s\n  Tiles: %d, Starts: %d, Action limit: %d\n\n",
			config.Name, config.ConfigID, config.Description, config.Tiles, config.Starts, config.ActionLimit)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎮 Simon Says - Complete Instructions

GAME OBJECTIVE:
Author a plan of actions, then run it. The plan repeats from the top until
every player stands on a finish tile. The shorter the plan and the fewer
the steps, the better.

ACTIONS:
• forward - step in the direction the player faces
• backward - step against it
• right / left - step sideways without turning
• nothing - skip a beat (players never turn from moving; only rotators turn them)

The level restricts which actions the plan may use and how many actions it
may hold (the action limit).

TILES:
• . - Basic: the player stops here
• I - Ice: the player keeps sliding in the same direction until the slide
  is stopped by a non-ice tile, a wall, or the edge
• # - Wall: entering is a no-op, the player stays put (a wall mid-slide
  stops the slide on the ice tile before it)
• R / L - Rotator: turns the player 90° clockwise (R) or counterclockwise
  (L), but only when the player entered the tile during the current action
• E - Start tile (players spawn here facing the tile's direction)
• S / W / N - Start tiles facing other directions
• F - Finish: the player locks in place; when all players are finished,
  the run is complete
• (space) - Void: stepping or sliding off the layout kills the player and
  stops the run

RUN MODEL:
The plan is cyclic. start_run respawns every player and fires plan[0];
each tick_run fires the next action, wrapping to the top after the last
one. The step counter counts fired actions across wraps. pause_run and
resume_run suspend and continue without losing position; stop_run resets
the step counter (the plan itself is kept).

The server also drives running sessions automatically on a fixed beat, so
after start_run you can simply watch run_state (or the WebSocket feed)
instead of ticking by hand.

CHALLENGES:
Levels may carry optional challenges, evaluated when a run finishes:
• commands: plan uses at most N actions
• steps: run finishes in at most N steps
• waste: run takes at least N steps

STRATEGY NOTES:
- Think in the player's local frame: forward depends on which way the
  player faces, and only rotators change that.
- A plan shorter than the route can still solve the level because it
  repeats. [forward] alone walks any straight corridor.
- Multiple players run the same plan in lockstep from different starts;
  the plan must work for all of them at once.
- Use solve_level to see every solving plan with step counts before
  committing to one.

SESSION MANAGEMENT:
- Multiple sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent plans and run state

Good luck, and listen to Simon! 🎵`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatPlan(plan engine.Plan) string {
	if len(plan) == 0 {
		return "(empty)"
	}
	names := make([]string, len(plan))
	for i, a := range plan {
		names[i] = a.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Plan: %s (%d/%d)\n", formatPlan(session.Plan), len(session.Plan), session.ActionLimit))
	b.WriteString(fmt.Sprintf("Run: %s | Steps: %d\n\n", session.RunState, session.StepCount))
	b.WriteString(strings.Join(session.View, "\n"))
	return b.String()
}

func formatRunResult(run *service.RunResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("State: %s | PC: %d | Steps: %d\n", run.State, run.PC, run.StepCount))
	b.WriteString(fmt.Sprintf("Plan: %s\n", formatPlan(run.Plan)))

	if len(run.Steps) > 0 {
		b.WriteString("\nFired:\n")
		for _, s := range run.Steps {
			line := fmt.Sprintf("- player %d: %s (%d,%d)→(%d,%d)",
				s.Player, s.Action, s.From.X, s.From.Y, s.To.X, s.To.Y)
			if s.Event != "" {
				line += fmt.Sprintf(" [%s]", s.Event)
			}
			b.WriteString(line + "\n")
		}
	}

	switch {
	case run.Finished:
		b.WriteString("\n🎉 FINISHED!\n")
	case run.Died:
		b.WriteString("\n💀 DIED\n")
	}

	if run.Challenges != nil {
		b.WriteString("\nChallenges:\n")
		b.WriteString(formatChallenges(run.Challenges))
	}

	if run.Message != "" {
		b.WriteString(fmt.Sprintf("\nMessage: %s\n", run.Message))
	}

	b.WriteString("\n")
	b.WriteString(strings.Join(run.View, "\n"))
	return b.String()
}

func formatPlanResult(result *service.PlanResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Plan: %s (%d/%d)\n",
		formatPlan(result.Plan), result.PlanSize, result.ActionLimit))
	if len(result.Canonical) > 0 {
		b.WriteString(fmt.Sprintf("Canonical form: %s\n", formatPlan(result.Canonical)))
	}
	if result.Message != "" {
		b.WriteString(fmt.Sprintf("Message: %s\n", result.Message))
	}
	return b.String()
}

func formatSolveResult(result *service.SolveResult) string {
	var b strings.Builder

	if !result.Solvable {
		b.WriteString("This level has no solving plan within its action limit.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Solvable: %d plan(s) solve this level\n\n", result.Total))

	writeGroup := func(label string, solutions []engine.Solution) {
		if len(solutions) == 0 {
			return
		}
		b.WriteString(label + ":\n")
		for _, s := range solutions {
			b.WriteString(fmt.Sprintf("- %s (size %d, %d steps)\n", formatPlan(s.Plan), s.Size, s.Steps))
		}
		b.WriteString("\n")
	}

	writeGroup("Smallest plans", result.Smallest)
	writeGroup("Fastest plans", result.Fastest)
	writeGroup("Slowest plans", result.Slowest)

	if result.Challenges != nil {
		b.WriteString("Challenge attainability:\n")
		b.WriteString(formatChallenges(result.Challenges))
	}

	return b.String()
}

func formatChallenges(record *service.ChallengeRecord) string {
	var b strings.Builder
	write := func(name string, c *service.ChallengeResult) {
		if c == nil {
			return
		}
		status := "✗"
		if c.Achieved {
			status = "✓"
		}
		b.WriteString(fmt.Sprintf("- %s (threshold %d): %s\n", name, c.Threshold, status))
	}
	write("commands", record.Commands)
	write("steps", record.Steps)
	write("waste", record.Waste)
	return b.String()
}
