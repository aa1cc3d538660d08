package service

import (
	"time"

	"github.com/DylanRJohnston/simon-says/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string          `json:"id"`
	ConfigName     string          `json:"config_name"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	Plan           engine.Plan     `json:"plan"`
	ActionLimit    int             `json:"action_limit"`
	RunState       engine.RunState `json:"run_state"`
	StepCount      int             `json:"step_count"`
	Players        []engine.Player `json:"players"`
	View           []string        `json:"view"`
}

// PlanResult is the plan after an authoring operation
type PlanResult struct {
	SessionID   string      `json:"session_id"`
	Plan        engine.Plan `json:"plan"`
	PlanSize    int         `json:"plan_size"`
	ActionLimit int         `json:"action_limit"`
	Canonical   engine.Plan `json:"canonical"`
	Message     string      `json:"message,omitempty"`
}

// StepInfo records one player's outcome for a single fired action
type StepInfo struct {
	Player int             `json:"player"`
	Action string          `json:"action"`
	From   engine.Position `json:"from"`
	To     engine.Position `json:"to"`
	Event  engine.Event    `json:"event,omitempty"`
}

// ChallengeResult reports one challenge threshold against a run or a
// solution set.
type ChallengeResult struct {
	Threshold int  `json:"threshold"`
	Achieved  bool `json:"achieved"`
}

// ChallengeRecord groups the optional per-level challenges. A nil field
// means the level does not carry that challenge.
type ChallengeRecord struct {
	Commands *ChallengeResult `json:"commands,omitempty"`
	Steps    *ChallengeResult `json:"steps,omitempty"`
	Waste    *ChallengeResult `json:"waste,omitempty"`
}

// RunResult is a snapshot of a session's run after a control operation
type RunResult struct {
	SessionID  string           `json:"session_id"`
	State      engine.RunState  `json:"state"`
	PC         int              `json:"pc"`
	StepCount  int              `json:"step_count"`
	Plan       engine.Plan      `json:"plan"`
	Players    []engine.Player  `json:"players"`
	Steps      []StepInfo       `json:"steps,omitempty"`
	Finished   bool             `json:"finished"`
	Died       bool             `json:"died"`
	View       []string         `json:"view"`
	Message    string           `json:"message,omitempty"`
	Challenges *ChallengeRecord `json:"challenges,omitempty"`
}

// SolveResult is the exhaustive solver's output for a session's level
type SolveResult struct {
	SessionID  string            `json:"session_id"`
	Solvable   bool              `json:"solvable"`
	Total      int               `json:"total"`
	Solutions  []engine.Solution `json:"solutions"`
	Smallest   []engine.Solution `json:"smallest,omitempty"`
	Fastest    []engine.Solution `json:"fastest,omitempty"`
	Slowest    []engine.Solution `json:"slowest,omitempty"`
	Challenges *ChallengeRecord  `json:"challenges,omitempty"`
}

// ConfigInfo provides information about a level configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Tiles       int    `json:"tiles"`
	Starts      int    `json:"starts"`
	ActionLimit int    `json:"action_limit"`
}
