package engine

import (
	"fmt"
	"strings"
)

// Solution is a plan that completes the level when executed cyclically,
// together with its size and how many steps the run took to finish.
type Solution struct {
	Plan  Plan `json:"plan"`
	Size  int  `json:"size"`
	Steps int  `json:"steps"`
}

// Solve enumerates every plan of length 1 up to the level's action limit
// drawn from the level's vocabulary, and returns all plans that finish
// the level. Candidates are generated per length in lexicographic order,
// lengths ascending, so the result order is deterministic.
func (l *Level) Solve() []Solution {
	var solutions []Solution
	l.enumerate(func(plan Plan) {
		if steps, ok := l.simulatePlan(plan); ok {
			solutions = append(solutions, Solution{
				Plan:  plan.Clone(),
				Size:  len(plan),
				Steps: steps,
			})
		}
	})
	return solutions
}

// SolveCanonical is Solve restricted to one candidate per symmetry
// class: a plan is only simulated if it is its own canonical form.
// This prunes the candidate space by up to a factor of 8×len, at the
// cost of missing solutions whose canonical sibling does not solve the
// level; it is meant for symmetry-heavy authoring analysis, not as a
// replacement for Solve.
func (l *Level) SolveCanonical() []Solution {
	var solutions []Solution
	l.enumerate(func(plan Plan) {
		if !plan.Equal(plan.Canonicalize()) {
			return
		}
		if steps, ok := l.simulatePlan(plan); ok {
			solutions = append(solutions, Solution{
				Plan:  plan.Clone(),
				Size:  len(plan),
				Steps: steps,
			})
		}
	})
	return solutions
}

// enumerate walks the full cartesian product of the vocabulary for each
// plan length, odometer style, invoking visit for every candidate.
func (l *Level) enumerate(visit func(Plan)) {
	vocabulary := l.actions
	for length := 1; length <= l.actionLimit; length++ {
		indices := make([]int, length)
		plan := make(Plan, length)
		for {
			for i, idx := range indices {
				plan[i] = vocabulary[idx]
			}
			visit(plan)

			pos := length - 1
			for pos >= 0 {
				indices[pos]++
				if indices[pos] < len(vocabulary) {
					break
				}
				indices[pos] = 0
				pos--
			}
			if pos < 0 {
				break
			}
		}
	}
}

// simulatePlan runs one candidate under cyclic-executor semantics and
// reports the 1-based step at which every player finished, or false if
// the run dies or cycles without progress.
//
// The visited set is keyed on (phase, player vector), not player vector
// alone: the same player configuration reached at two different points
// in the plan cycle is a different search state, because the next action
// to fire differs.
func (l *Level) simulatePlan(plan Plan) (int, bool) {
	players := l.Starts()
	visited := make(map[string]struct{})

	for step := 0; ; step++ {
		phase := step % len(plan)

		key := stateKey(phase, players)
		if _, seen := visited[key]; seen {
			// Cycled back to a known state: the plan loops forever
			// without finishing.
			return 0, false
		}
		visited[key] = struct{}{}

		results := l.Step(players, plan[phase])

		finished := true
		for i, r := range results {
			players[i] = r.Player
			switch r.Event {
			case EventDied:
				return 0, false
			case EventFinished:
			default:
				finished = false
			}
		}

		if finished {
			return step + 1, true
		}
	}
}

// stateKey encodes a (phase, player vector) pair for the visited set
func stateKey(phase int, players []Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", phase)
	for _, p := range players {
		fmt.Fprintf(&b, "|%d,%d,%d", p.Position.X, p.Position.Y, p.Rotation)
	}
	return b.String()
}

// Smallest returns the solutions with minimal plan size, ties included
func Smallest(solutions []Solution) []Solution {
	return selectBy(solutions, func(s Solution) int { return s.Size }, true)
}

// Fastest returns the solutions finishing in the fewest steps, ties
// included.
func Fastest(solutions []Solution) []Solution {
	return selectBy(solutions, func(s Solution) int { return s.Steps }, true)
}

// Slowest returns the valid solutions taking the most steps, ties
// included.
func Slowest(solutions []Solution) []Solution {
	return selectBy(solutions, func(s Solution) int { return s.Steps }, false)
}

func selectBy(solutions []Solution, metric func(Solution) int, min bool) []Solution {
	if len(solutions) == 0 {
		return nil
	}

	best := metric(solutions[0])
	for _, s := range solutions[1:] {
		m := metric(s)
		if (min && m < best) || (!min && m > best) {
			best = m
		}
	}

	var out []Solution
	for _, s := range solutions {
		if metric(s) == best {
			out = append(out, s)
		}
	}
	return out
}
