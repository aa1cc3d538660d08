package engine

// delta returns the world-coordinate offset for an action already
// expressed in the world frame. Forward advances +x, Right +y.
func delta(a Action) (dx, dy int) {
	switch a {
	case Forward:
		return 1, 0
	case Backward:
		return -1, 0
	case Right:
		return 0, 1
	case Left:
		return 0, -1
	default:
		return 0, 0
	}
}

// Step resolves one action for every player independently and returns
// the next states in input order. There is no collision handling between
// players; two players may occupy the same tile.
func (l *Level) Step(players []Player, action Action) []StepResult {
	results := make([]StepResult, len(players))
	for i, player := range players {
		results[i] = l.stepOne(player, action)
	}
	return results
}

// stepOne advances a single player by one action:
//
//  1. Reinterpret the action in the player's local frame, so "forward"
//     follows the facing the player has accumulated from rotator tiles.
//  2. Slide: keep stepping in that direction while landing on ice. A wall
//     blocks entry and ends the slide; every other tile, including void,
//     is landed on and ends the slide.
//  3. The tile finally entered this action, and only that tile, may turn
//     the player's facing.
func (l *Level) stepOne(player Player, action Action) StepResult {
	local := player.Rotation.Apply(action)
	if local == Nothing {
		return StepResult{Player: player}
	}

	dx, dy := delta(local)

	pos := player.Position
	moved := false
	for {
		candidate := Position{X: pos.X + dx, Y: pos.Y + dy}
		tile, ok := l.At(candidate)
		if ok && tile.Kind == TileWall {
			break
		}
		pos = candidate
		moved = true
		if !ok || tile.Kind != TileIce {
			break
		}
	}

	next := Player{Position: pos, Rotation: player.Rotation}
	if !moved {
		// Blocked on the first step: full no-op, facing included.
		return StepResult{Player: next}
	}

	tile, ok := l.At(pos)
	if !ok {
		return StepResult{Player: next, Event: EventDied}
	}

	switch tile.Kind {
	case TileRotateCW:
		next.Rotation = next.Rotation.CW()
	case TileRotateCCW:
		next.Rotation = next.Rotation.CCW()
	case TileFinish:
		return StepResult{Player: next, Event: EventFinished}
	}

	return StepResult{Player: next}
}
