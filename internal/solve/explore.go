package solve

// RateFunc scores a candidate position for a drone. Must return a value >= 0;
// zero means "worthless, keep looking". The search divides the rate by plan
// length, so rate magnitudes trade off directly against detour length.
type RateFunc func(lv *Level, d *Drone, pos Point) float64

// planNode is a frontier entry: the action sequence so far and the state it
// leads to. Speculatively drilled cells stay on the node and are never
// applied to the level.
type planNode struct {
	plan    []Action
	pos     Point
	wheels  int
	drill   int
	drilled map[Point]struct{}
}

// explore runs a breadth-expanding frontier search from the drone's current
// state and returns the best cost-normalized plan, or nil when the reachable
// space is exhausted without any position scoring above zero.
//
// The depth cap starts at one DepthStep and extends by another step whenever
// it is hit with no candidate recorded yet: iterative deepening that only
// pays for deep search when shallow search found nothing. A global visited
// set (positions, not branches) bounds the frontier.
func explore(lv *Level, d *Drone, tn *Tuning, rate RateFunc) []Action {
	plan, _, ok := exploreBest(lv, d, tn, rate)
	if !ok {
		return nil
	}
	return plan
}

// exploreBest is explore plus the winning position, for callers that need to
// know where the plan ends up (zone adoption).
func exploreBest(lv *Level, d *Drone, tn *Tuning, rate RateFunc) ([]Action, Point, bool) {
	seen := map[Point]struct{}{}
	queue := make([]planNode, 0, 64)
	queue = append(queue, planNode{
		pos:     d.Pos,
		wheels:  d.Wheels,
		drill:   d.Drill,
		drilled: map[Point]struct{}{},
	})

	var (
		bestPlan  []Action
		bestPos   Point
		bestScore float64
		haveBest  bool
	)
	maxLen := tn.DepthStep

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if len(node.plan) >= maxLen {
			if haveBest {
				return bestPlan, bestPos, true
			}
			maxLen += tn.DepthStep
		}

		if n := len(node.plan); n > 0 {
			score := rate(lv, d, node.pos) / float64(n)
			if (haveBest && score > bestScore) || (!haveBest && score > 0) {
				bestPlan = node.plan
				bestPos = node.pos
				bestScore = score
				haveBest = true
			}
		}

		for _, a := range allActions {
			out, ok := step(lv, d.Hands, node.pos, a, node.wheels > 0, node.drill > 0, node.drilled)
			if !ok {
				continue
			}
			if _, dup := seen[out.to]; dup {
				continue
			}
			seen[out.to] = struct{}{}

			next := planNode{
				plan:    append(append(make([]Action, 0, len(node.plan)+1), node.plan...), a),
				pos:     out.to,
				drilled: node.drilled,
			}
			if node.wheels > 1 {
				next.wheels = node.wheels - 1
			}
			if node.drill > 1 {
				next.drill = node.drill - 1
			}
			if len(out.drilled) > 0 {
				next.drilled = make(map[Point]struct{}, len(node.drilled)+len(out.drilled))
				for p := range node.drilled {
					next.drilled[p] = struct{}{}
				}
				for p := range out.drilled {
					next.drilled[p] = struct{}{}
				}
			}
			queue = append(queue, next)
		}
	}
	return bestPlan, bestPos, haveBest
}

// --- rate functions ---

// maxWrapping is the workhorse scorer: the summed obstacle weight of every
// cell that would be wrapped from pos, bonus cells dominating, positions
// outside the drone's zone worth nothing.
func maxWrapping(tn *Tuning) RateFunc {
	return func(lv *Level, d *Drone, pos Point) float64 {
		if lv.ZoneAt(pos) != d.Zone {
			return 0
		}
		if _, ok := lv.Bonuses[pos]; ok {
			return tn.BonusRate
		}
		wrapped := map[Point]struct{}{}
		wouldWrap(lv, d.Hands, pos, wrapped)
		sum := 0.0
		for p := range wrapped {
			w := float64(lv.WeightAt(p))
			if w < 1 {
				w = 1
			}
			sum += w
		}
		return sum
	}
}

// cloneRate scores Clone pickup cells.
func cloneRate(lv *Level, _ *Drone, pos Point) float64 {
	if b, ok := lv.Bonuses[pos]; ok && b == BonusClone {
		return 1
	}
	return 0
}

// spawnRate scores spawn pads, where a held Clone can be redeemed.
func spawnRate(lv *Level, _ *Drone, pos Point) float64 {
	if _, ok := lv.Spawns[pos]; ok {
		return 1
	}
	return 0
}

// zoneRate scores Empty cells inside any of the given zones.
func zoneRate(viable []ZoneID) RateFunc {
	return func(lv *Level, _ *Drone, pos Point) float64 {
		if lv.CellAt(pos) != CellEmpty {
			return 0
		}
		z := lv.ZoneAt(pos)
		for _, v := range viable {
			if z == v {
				return 1
			}
		}
		return 0
	}
}
