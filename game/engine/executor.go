package engine

import "errors"

var (
	ErrNotStopped = errors.New("simulation can only start from the stopped state")
	ErrNotRunning = errors.New("simulation is not running")
	ErrNotPaused  = errors.New("simulation is not paused")
	ErrEmptyPlan  = errors.New("cannot run an empty plan")
)

// RunState is the executor's lifecycle state
type RunState string

const (
	Stopped RunState = "stopped"
	Running RunState = "running"
	Paused  RunState = "paused"
)

// Executor drives a stored plan through the step simulator one action at
// a time, indexing into the plan modulo its length. It has no notion of
// completion: an external tick source advances it until the caller reacts
// to a Finished or Died event and stops it.
type Executor struct {
	level     *Level
	plan      Plan
	state     RunState
	pc        int
	players   []Player
	stepCount int
}

// NewExecutor creates a stopped executor with freshly spawned players
func NewExecutor(level *Level) *Executor {
	return &Executor{
		level:   level,
		state:   Stopped,
		players: level.Starts(),
	}
}

// Level returns the level being executed
func (e *Executor) Level() *Level {
	return e.level
}

// Plan returns a copy of the current plan
func (e *Executor) Plan() Plan {
	return e.plan.Clone()
}

// SetPlan replaces the stored plan. Mutating the plan while running is
// permitted; the next tick simply reads the new plan.
func (e *Executor) SetPlan(plan Plan) {
	e.plan = plan.Clone()
	if len(e.plan) > 0 {
		e.pc %= len(e.plan)
	} else {
		e.pc = 0
	}
}

// State returns the executor's lifecycle state
func (e *Executor) State() RunState {
	return e.state
}

// PC returns the zero-based program counter
func (e *Executor) PC() int {
	return e.pc
}

// Players returns a copy of the current player states
func (e *Executor) Players() []Player {
	out := make([]Player, len(e.players))
	copy(out, e.players)
	return out
}

// SetPlayers overwrites the player states, used when restoring a
// persisted run.
func (e *Executor) SetPlayers(players []Player) {
	e.players = make([]Player, len(players))
	copy(e.players, players)
}

// StepCount returns the number of actions fired since the last Start
func (e *Executor) StepCount() int {
	return e.stepCount
}

// Restore forces the executor into a previously captured state without
// firing any action.
func (e *Executor) Restore(state RunState, pc, stepCount int) {
	e.state = state
	e.pc = pc
	e.stepCount = stepCount
}

// Start begins a run: respawns the players, resets the program counter,
// and fires the plan's first action. Only valid from Stopped.
func (e *Executor) Start() ([]StepResult, error) {
	if e.state != Stopped {
		return nil, ErrNotStopped
	}
	if len(e.plan) == 0 {
		return nil, ErrEmptyPlan
	}

	e.players = e.level.Starts()
	e.pc = 0
	e.stepCount = 0
	e.state = Running

	return e.fire(), nil
}

// Tick advances the program counter modulo the plan length and fires the
// next action. Only valid while Running.
func (e *Executor) Tick() ([]StepResult, error) {
	if e.state != Running {
		return nil, ErrNotRunning
	}
	if len(e.plan) == 0 {
		return nil, ErrEmptyPlan
	}

	e.pc = (e.pc + 1) % len(e.plan)
	return e.fire(), nil
}

// Pause halts ticking, retaining the program counter and player states
func (e *Executor) Pause() error {
	if e.state != Running {
		return ErrNotRunning
	}
	e.state = Paused
	return nil
}

// Resume continues ticking from where Pause left off
func (e *Executor) Resume() error {
	if e.state != Paused {
		return ErrNotPaused
	}
	e.state = Running
	return nil
}

// Stop halts the run and resets the step count. Player states and the
// program counter are retained for inspection; the next Start
// re-initializes both.
func (e *Executor) Stop() {
	e.state = Stopped
	e.stepCount = 0
}

// fire applies plan[pc] to every player and records the new states
func (e *Executor) fire() []StepResult {
	results := e.level.Step(e.players, e.plan[e.pc])
	for i, r := range results {
		e.players[i] = r.Player
	}
	e.stepCount++
	return results
}
