package engine

import "log"

// Plan is an ordered sequence of actions. A plan is executed as an
// infinitely repeating cycle, so three incidental choices carry no
// meaning: which facing the author called "forward", whether the plan is
// left/right mirrored, and which action the cycle starts on.
// Canonicalize collapses all three.
type Plan []Action

// Clone returns an independent copy of the plan
func (p Plan) Clone() Plan {
	out := make(Plan, len(p))
	copy(out, p)
	return out
}

// Equal reports structural equality
func (p Plan) Equal(q Plan) bool {
	return p.Compare(q) == 0
}

// Compare orders plans lexicographically by action, then by length
func (p Plan) Compare(q Plan) int {
	n := len(p)
	if len(q) < n {
		n = len(q)
	}
	for i := 0; i < n; i++ {
		if p[i] != q[i] {
			if p[i] < q[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(q):
		return -1
	case len(p) > len(q):
		return 1
	default:
		return 0
	}
}

// Strings renders the plan as action names, for JSON payloads and logs
func (p Plan) Strings() []string {
	out := make([]string, len(p))
	for i, a := range p {
		out[i] = a.String()
	}
	return out
}

// Append returns the plan with an action added at the end
func (p Plan) Append(a Action) Plan {
	return append(p.Clone(), a)
}

// RemoveAt returns the plan with the action at index i removed. An
// out-of-range index is a caller error: it is logged and the plan is
// returned unchanged.
func (p Plan) RemoveAt(i int) Plan {
	if i < 0 || i >= len(p) {
		log.Printf("attempted to remove action at invalid index %d, bounds [0, %d)", i, len(p))
		return p
	}
	out := make(Plan, 0, len(p)-1)
	out = append(out, p[:i]...)
	return append(out, p[i+1:]...)
}

// Mirror swaps Left and Right throughout the plan
func (p Plan) Mirror() Plan {
	out := make(Plan, len(p))
	for i, a := range p {
		out[i] = a.Mirror()
	}
	return out
}

// Rotate applies a rotation to every action in the plan
func (p Plan) Rotate(r Rotation) Plan {
	out := make(Plan, len(p))
	for i, a := range p {
		out[i] = r.Apply(a)
	}
	return out
}

// CyclicShift rotates the plan right by n positions
func (p Plan) CyclicShift(n int) Plan {
	if len(p) == 0 {
		return Plan{}
	}
	n = ((n % len(p)) + len(p)) % len(p)
	out := make(Plan, 0, len(p))
	out = append(out, p[len(p)-n:]...)
	return append(out, p[:len(p)-n]...)
}

// Canonicalize reduces the plan to the unique representative of its
// symmetry class: the lexicographically smallest member of the plan's
// orbit under mirroring and cyclic phase shifts, with every candidate
// first re-expressed so its opening action is Forward. Rotating the
// candidate before comparing is what cancels the arbitrary choice of
// which direction the author called "forward"; taking the minimum over
// mirror and every shift cancels the other two symmetries.
//
// Plans containing Nothing normalize only partially: Nothing has no
// rotation relating it to Forward, so a candidate opening with Nothing
// keeps its actions as-is.
func (p Plan) Canonicalize() Plan {
	if len(p) == 0 {
		return Plan{}
	}

	var best Plan
	for _, q := range []Plan{p, p.Mirror()} {
		for n := 1; n <= len(q); n++ {
			candidate := q.CyclicShift(n)
			candidate = candidate.Rotate(RotationBetween(candidate[0], Forward))
			if best == nil || candidate.Compare(best) < 0 {
				best = candidate
			}
		}
	}

	return best
}
