package engine

import (
	"fmt"
	"strings"
)

// Action is one movement command in the player's local reference frame.
// The integer values define the total order used for lexicographic plan
// comparison; the four directions are arranged so that rotating an action
// one step clockwise is +1 mod 4.
type Action int

const (
	Forward Action = iota
	Right
	Backward
	Left
	Nothing
)

// directionCount covers the four rotatable actions; Nothing sits outside
// the rotation group.
const directionCount = 4

var actionNames = map[Action]string{
	Forward:  "forward",
	Right:    "right",
	Backward: "backward",
	Left:     "left",
	Nothing:  "nothing",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction converts a string into an Action, case-insensitively
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "forward":
		return Forward, nil
	case "right":
		return Right, nil
	case "backward":
		return Backward, nil
	case "left":
		return Left, nil
	case "nothing":
		return Nothing, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// MarshalJSON encodes the action as its lowercase name
func (a Action) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON decodes an action from its lowercase name
func (a *Action) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("action must be a JSON string, got %s", data)
	}
	parsed, err := ParseAction(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Mirror swaps Left and Right; Forward, Backward and Nothing are fixed
func (a Action) Mirror() Action {
	switch a {
	case Left:
		return Right
	case Right:
		return Left
	default:
		return a
	}
}

// Rotation is one of the four clockwise facings a player can hold.
// It forms a cyclic group of order 4.
type Rotation int

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

var rotationNames = map[Rotation]string{
	Rot0:   "0",
	Rot90:  "90",
	Rot180: "180",
	Rot270: "270",
}

func (r Rotation) String() string {
	if name, ok := rotationNames[r]; ok {
		return name + "°"
	}
	return fmt.Sprintf("rotation(%d)", int(r))
}

// CW returns the rotation one step clockwise
func (r Rotation) CW() Rotation {
	return (r + 1) % directionCount
}

// CCW returns the rotation one step counter-clockwise
func (r Rotation) CCW() Rotation {
	return (r + directionCount - 1) % directionCount
}

// Compose returns the rotation equivalent to applying r then other
func (r Rotation) Compose(other Rotation) Rotation {
	return (r + other) % directionCount
}

// Inverse returns the rotation that undoes r
func (r Rotation) Inverse() Rotation {
	return (directionCount - r) % directionCount
}

// Apply rotates an action by r. Nothing always maps to itself; the four
// directional actions cycle Forward → Right → Backward → Left under a
// single clockwise step.
func (r Rotation) Apply(a Action) Action {
	if a == Nothing {
		return Nothing
	}
	return Action((int(a) + int(r)) % directionCount)
}

// RotationBetween returns the unique rotation R with R.Apply(from) == to.
// Pairs involving Nothing have no rotation relating them; those return
// Rot0 explicitly.
func RotationBetween(from, to Action) Rotation {
	if from == Nothing || to == Nothing {
		return Rot0
	}
	return Rotation((int(to) - int(from) + directionCount) % directionCount)
}
