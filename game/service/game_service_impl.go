package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/DylanRJohnston/simon-says/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.LevelConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// AppendAction adds an action to the end of a session's plan
func (s *gameServiceImpl) AppendAction(ctx context.Context, sessionID, actionName string) (*PlanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	action, err := engine.ParseAction(actionName)
	if err != nil {
		return nil, err
	}

	level := sess.Exec.Level()
	allowed := false
	for _, a := range level.Actions() {
		if a == action {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("action %q is not in this level's vocabulary %v", actionName, level.Actions())
	}

	plan := sess.Exec.Plan()
	if len(plan) >= level.ActionLimit() {
		return nil, fmt.Errorf("plan is full: action limit is %d", level.ActionLimit())
	}

	sess.Exec.SetPlan(plan.Append(action))
	s.saveSession(sessionID)

	return s.planResult(sess, fmt.Sprintf("Appended %s", action)), nil
}

// RemoveAction removes the action at the given index from a session's
// plan. Out-of-range indexes leave the plan unchanged.
func (s *gameServiceImpl) RemoveAction(ctx context.Context, sessionID string, index int) (*PlanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	plan := sess.Exec.Plan()
	updated := plan.RemoveAt(index)
	message := fmt.Sprintf("Removed action at index %d", index)
	if updated.Equal(plan) {
		message = fmt.Sprintf("Index %d is out of range, plan unchanged", index)
	}
	sess.Exec.SetPlan(updated)
	s.saveSession(sessionID)

	return s.planResult(sess, message), nil
}

// ClearPlan removes all actions from a session's plan
func (s *gameServiceImpl) ClearPlan(ctx context.Context, sessionID string) (*PlanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Exec.SetPlan(engine.Plan{})
	s.saveSession(sessionID)

	return s.planResult(sess, "Plan cleared"), nil
}

// GetPlan returns a session's current plan
func (s *gameServiceImpl) GetPlan(ctx context.Context, sessionID string) (*PlanResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.planResult(sess, ""), nil
}

// StartRun starts a session's run and fires the first action
func (s *gameServiceImpl) StartRun(ctx context.Context, sessionID string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.fire(sess, true)
}

// TickRun fires the next action of a running session
func (s *gameServiceImpl) TickRun(ctx context.Context, sessionID string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.fire(sess, false)
}

// PauseRun pauses a running session
func (s *gameServiceImpl) PauseRun(ctx context.Context, sessionID string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Exec.Pause(); err != nil {
		return nil, err
	}
	s.saveSession(sessionID)

	return s.runResult(sess, nil, "Run paused"), nil
}

// ResumeRun resumes a paused session
func (s *gameServiceImpl) ResumeRun(ctx context.Context, sessionID string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Exec.Resume(); err != nil {
		return nil, err
	}
	s.saveSession(sessionID)

	return s.runResult(sess, nil, "Run resumed"), nil
}

// StopRun stops a session's run. The step count resets; players and the
// program counter stay put for inspection.
func (s *gameServiceImpl) StopRun(ctx context.Context, sessionID string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Exec.Stop()
	s.saveSession(sessionID)

	return s.runResult(sess, nil, "Run stopped"), nil
}

// TickAll advances every running session by one action. It is the
// server's periodic simulation tick; sessions that error are skipped.
func (s *gameServiceImpl) TickAll(ctx context.Context) []*RunResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []*RunResult
	for _, sess := range s.sessions.List() {
		if sess.Exec.State() != engine.Running {
			continue
		}
		result, err := s.fire(sess, false)
		if err != nil {
			log.Printf("Warning: tick failed for session %s: %v", sess.ID, err)
			continue
		}
		results = append(results, result)
	}
	return results
}

// GetRunState returns a session's current run snapshot
func (s *gameServiceImpl) GetRunState(ctx context.Context, sessionID string) (*RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.runResult(sess, nil, ""), nil
}

// Solve runs the exhaustive solver over a session's level
func (s *gameServiceImpl) Solve(ctx context.Context, sessionID string) (*SolveResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	level := sess.Exec.Level()
	solutions := level.Solve()

	result := &SolveResult{
		SessionID: sess.ID,
		Solvable:  len(solutions) > 0,
		Total:     len(solutions),
		Solutions: solutions,
		Smallest:  engine.Smallest(solutions),
		Fastest:   engine.Fastest(solutions),
		Slowest:   engine.Slowest(solutions),
	}

	// Challenge attainability: a threshold is achievable when at least
	// one solution meets it.
	record := &ChallengeRecord{}
	if level.CommandChallenge > 0 {
		achieved := false
		for _, sol := range solutions {
			if sol.Size <= level.CommandChallenge {
				achieved = true
				break
			}
		}
		record.Commands = &ChallengeResult{Threshold: level.CommandChallenge, Achieved: achieved}
	}
	if level.StepChallenge > 0 {
		achieved := false
		for _, sol := range solutions {
			if sol.Steps <= level.StepChallenge {
				achieved = true
				break
			}
		}
		record.Steps = &ChallengeResult{Threshold: level.StepChallenge, Achieved: achieved}
	}
	if level.WasteChallenge > 0 {
		achieved := false
		for _, sol := range solutions {
			if sol.Steps >= level.WasteChallenge {
				achieved = true
				break
			}
		}
		record.Waste = &ChallengeResult{Threshold: level.WasteChallenge, Achieved: achieved}
	}
	if record.Commands != nil || record.Steps != nil || record.Waste != nil {
		result.Challenges = record
	}

	return result, nil
}

// ListConfigs returns available level configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific level configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.LevelConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a level configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.LevelConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// fire runs one executor operation that fires an action (Start or Tick)
// and converts its step results. A run that finishes or dies is stopped
// here; the executor itself never self-terminates.
func (s *gameServiceImpl) fire(sess *Session, start bool) (*RunResult, error) {
	// Start respawns the players before firing, so the recorded origins
	// are the start tiles rather than wherever the last run ended.
	var before []engine.Player
	var results []engine.StepResult
	var err error
	if start {
		before = sess.Exec.Level().Starts()
		results, err = sess.Exec.Start()
	} else {
		before = sess.Exec.Players()
		results, err = sess.Exec.Tick()
	}
	if err != nil {
		return nil, err
	}

	action := sess.Exec.Plan()[sess.Exec.PC()]

	steps := make([]StepInfo, 0, len(results))
	finished := len(results) > 0
	died := false
	for i, r := range results {
		steps = append(steps, StepInfo{
			Player: i,
			Action: action.String(),
			From:   before[i].Position,
			To:     r.Player.Position,
			Event:  r.Event,
		})
		switch r.Event {
		case engine.EventDied:
			died = true
			finished = false
		case engine.EventFinished:
		default:
			finished = false
		}
	}

	message := ""
	var challenges *ChallengeRecord
	stepCount := sess.Exec.StepCount()
	switch {
	case died:
		message = "A player fell off the level, run stopped"
		sess.Exec.Stop()
	case finished:
		message = fmt.Sprintf("All players finished in %d steps", stepCount)
		challenges = evaluateChallenges(sess.Exec.Level(), len(sess.Exec.Plan()), stepCount)
		sess.Exec.Stop()
	}

	result := s.runResult(sess, steps, message)
	result.StepCount = stepCount
	result.Finished = finished
	result.Died = died
	result.Challenges = challenges

	s.saveSession(sess.ID)
	return result, nil
}

// evaluateChallenges scores a finished run against the level's optional
// thresholds.
func evaluateChallenges(level *engine.Level, planSize, steps int) *ChallengeRecord {
	record := &ChallengeRecord{}
	any := false
	if level.CommandChallenge > 0 {
		record.Commands = &ChallengeResult{
			Threshold: level.CommandChallenge,
			Achieved:  planSize <= level.CommandChallenge,
		}
		any = true
	}
	if level.StepChallenge > 0 {
		record.Steps = &ChallengeResult{
			Threshold: level.StepChallenge,
			Achieved:  steps <= level.StepChallenge,
		}
		any = true
	}
	if level.WasteChallenge > 0 {
		record.Waste = &ChallengeResult{
			Threshold: level.WasteChallenge,
			Achieved:  steps >= level.WasteChallenge,
		}
		any = true
	}
	if !any {
		return nil
	}
	return record
}

// sessionInfo builds the session summary returned by session operations
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	players := sess.Exec.Players()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Plan:           sess.Exec.Plan(),
		ActionLimit:    sess.Exec.Level().ActionLimit(),
		RunState:       sess.Exec.State(),
		StepCount:      sess.Exec.StepCount(),
		Players:        players,
		View:           sess.Exec.Level().RenderWithPlayers(players),
	}
}

// planResult builds the plan snapshot returned by authoring operations
func (s *gameServiceImpl) planResult(sess *Session, message string) *PlanResult {
	plan := sess.Exec.Plan()
	return &PlanResult{
		SessionID:   sess.ID,
		Plan:        plan,
		PlanSize:    len(plan),
		ActionLimit: sess.Exec.Level().ActionLimit(),
		Canonical:   plan.Canonicalize(),
		Message:     message,
	}
}

// runResult builds the run snapshot returned by run operations
func (s *gameServiceImpl) runResult(sess *Session, steps []StepInfo, message string) *RunResult {
	players := sess.Exec.Players()
	return &RunResult{
		SessionID: sess.ID,
		State:     sess.Exec.State(),
		PC:        sess.Exec.PC(),
		StepCount: sess.Exec.StepCount(),
		Plan:      sess.Exec.Plan(),
		Players:   players,
		Steps:     steps,
		View:      sess.Exec.Level().RenderWithPlayers(players),
		Message:   message,
	}
}

// saveSession persists a session, logging instead of failing the caller
func (s *gameServiceImpl) saveSession(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to persist session %s: %v", sessionID, err)
	}
}
