// Package engine provides the deterministic core of the Simon Says
// puzzle game.
//
// The engine package implements the game rules including:
//   - The action algebra: four directional actions closed under 90°
//     rotation and left/right mirroring
//   - The sparse tile grid with ice sliding, walls, rotators, and finish
//     tiles
//   - The step simulator that resolves one action per player
//   - Plan canonicalization, reducing an action sequence to the unique
//     representative of its symmetry class
//   - The cyclic executor that replays a plan forever, one action per
//     tick
//   - The exhaustive solver that proves which plans solve a level and
//     classifies them by size and speed
//
// Core Types:
//
// Level is an immutable sparse grid built either from a Builder or from
// a JSON LevelConfig. Player is a plain value of position and facing.
// Plan is an ordered action sequence. Executor owns a running plan's
// program counter and player states.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("first-steps")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := engine.BuildLevel(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	exec := engine.NewExecutor(level)
//	exec.SetPlan(engine.Plan{engine.Forward, engine.Forward})
//	results, err := exec.Start()
//
// Game Rules:
//
// Players program a movement plan, then run it. The plan repeats
// cyclically until every player reaches a finish tile (success) or any
// player slides off the grid (failure). Actions are interpreted in each
// player's local frame: rotator tiles permanently change what "forward"
// means for that player. Ice tiles continue movement in a straight line
// until any other tile, or the void, ends the slide.
package engine
