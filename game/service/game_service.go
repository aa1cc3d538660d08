package service

import (
	"context"
	"time"

	"github.com/DylanRJohnston/simon-says/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Plan Authoring
	AppendAction(ctx context.Context, sessionID, action string) (*PlanResult, error)
	RemoveAction(ctx context.Context, sessionID string, index int) (*PlanResult, error)
	ClearPlan(ctx context.Context, sessionID string) (*PlanResult, error)
	GetPlan(ctx context.Context, sessionID string) (*PlanResult, error)

	// Run Control
	StartRun(ctx context.Context, sessionID string) (*RunResult, error)
	TickRun(ctx context.Context, sessionID string) (*RunResult, error)
	PauseRun(ctx context.Context, sessionID string) (*RunResult, error)
	ResumeRun(ctx context.Context, sessionID string) (*RunResult, error)
	StopRun(ctx context.Context, sessionID string) (*RunResult, error)
	TickAll(ctx context.Context) []*RunResult

	// Run State
	GetRunState(ctx context.Context, sessionID string) (*RunResult, error)

	// Solving
	Solve(ctx context.Context, sessionID string) (*SolveResult, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.LevelConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.LevelConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.LevelConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.LevelConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles level configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.LevelConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.LevelConfig
	SaveConfig(name string, config *engine.LevelConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Exec           *engine.Executor
	Config         *engine.LevelConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
