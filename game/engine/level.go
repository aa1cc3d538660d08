package engine

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNoStartTile  = errors.New("level has no start tile")
	ErrNoFinishTile = errors.New("level has no finish tile")
	ErrNoVocabulary = errors.New("level has an empty action vocabulary")
	ErrBadLimit     = errors.New("level action limit must be positive")
)

// Level is a sparse grid of tiles plus the planning rules for it: which
// actions the player may use and how long a plan may grow. Challenge
// thresholds are scoring metadata only; they never affect simulation.
// A Level is immutable once built.
type Level struct {
	tiles       map[Position]Tile
	actions     []Action
	actionLimit int

	// Challenge thresholds; zero means the challenge is absent.
	CommandChallenge int
	StepChallenge    int
	WasteChallenge   int
}

// At returns the tile at pos. The second return is false for void
// coordinates, where no tile exists.
func (l *Level) At(pos Position) (Tile, bool) {
	tile, ok := l.tiles[pos]
	return tile, ok
}

// Actions returns the level's allowed action vocabulary
func (l *Level) Actions() []Action {
	out := make([]Action, len(l.actions))
	copy(out, l.actions)
	return out
}

// ActionLimit returns the maximum plan length for this level
func (l *Level) ActionLimit() int {
	return l.actionLimit
}

// Size returns the number of tiles in the level
func (l *Level) Size() int {
	return len(l.tiles)
}

// Starts returns one freshly spawned player per start tile, ordered by
// Y then X so callers get a deterministic player vector.
func (l *Level) Starts() []Player {
	var players []Player
	for pos, tile := range l.tiles {
		if tile.Kind == TileStart {
			players = append(players, Player{Position: pos, Rotation: tile.Facing})
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Position.Y != players[j].Position.Y {
			return players[i].Position.Y < players[j].Position.Y
		}
		return players[i].Position.X < players[j].Position.X
	})
	return players
}

// CountKind counts the tiles of a given kind
func (l *Level) CountKind(kind TileKind) int {
	count := 0
	for _, tile := range l.tiles {
		if tile.Kind == kind {
			count++
		}
	}
	return count
}

// Builder assembles a Level tile by tile. It is plain data assembly; all
// rule enforcement happens in Build.
type Builder struct {
	tiles       map[Position]Tile
	actions     []Action
	actionLimit int

	commandChallenge int
	stepChallenge    int
	wasteChallenge   int
}

// NewBuilder creates an empty level builder with the full four-direction
// vocabulary and the given action limit.
func NewBuilder(actionLimit int) *Builder {
	return &Builder{
		tiles:       make(map[Position]Tile),
		actions:     []Action{Forward, Right, Backward, Left},
		actionLimit: actionLimit,
	}
}

// Set places a tile at a coordinate, replacing any existing tile
func (b *Builder) Set(pos Position, kind TileKind) *Builder {
	b.tiles[pos] = Tile{Kind: kind}
	return b
}

// SetStart places a start tile with the given initial facing
func (b *Builder) SetStart(pos Position, facing Rotation) *Builder {
	b.tiles[pos] = Tile{Kind: TileStart, Facing: facing}
	return b
}

// Fill block-fills the inclusive rectangle [x0,x1]×[y0,y1] with a kind
func (b *Builder) Fill(x0, y0, x1, y1 int, kind TileKind) *Builder {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			b.tiles[Position{X: x, Y: y}] = Tile{Kind: kind}
		}
	}
	return b
}

// Remove deletes the tile at a coordinate, leaving void
func (b *Builder) Remove(pos Position) *Builder {
	delete(b.tiles, pos)
	return b
}

// Actions overrides the allowed action vocabulary
func (b *Builder) Actions(actions ...Action) *Builder {
	b.actions = actions
	return b
}

// Challenges sets the optional scoring thresholds; zero disables one
func (b *Builder) Challenges(commands, steps, waste int) *Builder {
	b.commandChallenge = commands
	b.stepChallenge = steps
	b.wasteChallenge = waste
	return b
}

// Rotate rotates the whole template clockwise around the origin by r,
// including start facings. Used to derive level variants from one layout.
func (b *Builder) Rotate(r Rotation) *Builder {
	rotated := make(map[Position]Tile, len(b.tiles))
	for pos, tile := range b.tiles {
		p := pos
		for i := Rotation(0); i < r; i++ {
			// One clockwise quarter turn: +x becomes +y.
			p = Position{X: -p.Y, Y: p.X}
		}
		if tile.Kind == TileStart {
			tile.Facing = tile.Facing.Compose(r)
		}
		rotated[p] = tile
	}
	b.tiles = rotated
	return b
}

// Build validates and freezes the level. A level with no start tile is a
// configuration error: the solver and executor both need at least one
// player, so this fails fast rather than producing a trivially "solved"
// empty simulation.
func (b *Builder) Build() (*Level, error) {
	if b.actionLimit < MinActionLimit {
		return nil, fmt.Errorf("%w: got %d", ErrBadLimit, b.actionLimit)
	}
	if len(b.actions) == 0 {
		return nil, ErrNoVocabulary
	}

	hasStart, hasFinish := false, false
	for _, tile := range b.tiles {
		switch tile.Kind {
		case TileStart:
			hasStart = true
		case TileFinish:
			hasFinish = true
		}
	}
	if !hasStart {
		return nil, ErrNoStartTile
	}
	if !hasFinish {
		return nil, ErrNoFinishTile
	}

	tiles := make(map[Position]Tile, len(b.tiles))
	for pos, tile := range b.tiles {
		tiles[pos] = tile
	}
	actions := make([]Action, len(b.actions))
	copy(actions, b.actions)

	return &Level{
		tiles:            tiles,
		actions:          actions,
		actionLimit:      b.actionLimit,
		CommandChallenge: b.commandChallenge,
		StepChallenge:    b.stepChallenge,
		WasteChallenge:   b.wasteChallenge,
	}, nil
}
