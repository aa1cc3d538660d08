package engine

import "fmt"

// TileKind identifies what a grid tile does to a player entering it
type TileKind string

const (
	TileStart     TileKind = "start"
	TileBasic     TileKind = "basic"
	TileIce       TileKind = "ice"
	TileWall      TileKind = "wall"
	TileRotateCW  TileKind = "rotate_cw"
	TileRotateCCW TileKind = "rotate_ccw"
	TileFinish    TileKind = "finish"

	// Validation constants
	MinActionLimit = 1
	MaxActionLimit = 12
	MaxLayoutSize  = 64
)

// Tile is a single grid cell. Facing is only meaningful on Start tiles,
// where it records the player's initial rotation.
type Tile struct {
	Kind   TileKind `json:"kind"`
	Facing Rotation `json:"facing,omitempty"`
}

// Position is an x,y grid coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Player is the simulated character: a position plus an absolute facing.
// It is pure data; two players with the same fields are the same state.
type Player struct {
	Position Position `json:"position"`
	Rotation Rotation `json:"rotation"`
}

// Event signals a terminal outcome of a single simulated action
type Event string

const (
	// EventNone means the action resolved to an ordinary move
	EventNone Event = ""
	// EventFinished means the player entered a finish tile
	EventFinished Event = "finished"
	// EventDied means the player moved onto a coordinate with no tile
	EventDied Event = "died"
)

// StepResult pairs a player's next state with its terminal event, if any
type StepResult struct {
	Player Player `json:"player"`
	Event  Event  `json:"event,omitempty"`
}
