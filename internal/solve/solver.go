package solve

import (
	"fmt"
	"strings"
)

// Solver drives the round-robin turn scheduler over all active drones until
// every empty cell is wrapped. One Solver owns one Level; nothing inside a
// solve runs concurrently, so drones observe each other's pool debits and
// wraps within the same round.
type Solver struct {
	Level  *Level
	Drones []*Drone
	Tuning *Tuning
	Log    *SolveLog

	turn     int
	next     int // index of the drone that takes the next turn
	roundEnd int // drones cloned mid-round wait for the next round
}

// NewSolver prepares a solve of lv with one starting drone. The starting
// cell's reach is wrapped immediately, before any turn is taken. A nil
// tuning means defaults; a nil log disables logging.
func NewSolver(lv *Level, start *Drone, tn *Tuning, log *SolveLog) *Solver {
	if tn == nil {
		tn = DefaultTuning()
	}
	s := &Solver{
		Level:  lv,
		Drones: []*Drone{start},
		Tuning: tn,
		Log:    log,
	}
	start.wrapHere(lv)
	return s
}

// Done reports whether every empty cell has been wrapped.
func (s *Solver) Done() bool { return s.Level.EmptyCount() == 0 }

// Turn returns the number of completed scheduling turns.
func (s *Solver) Turn() int { return s.turn }

// Solution joins the per-drone paths in drone order.
func (s *Solver) Solution() string {
	paths := make([]string, len(s.Drones))
	for i, d := range s.Drones {
		paths[i] = d.Path()
	}
	return strings.Join(paths, "#")
}

// Solve runs scheduling turns until the level is fully wrapped and returns
// the joined solution string.
func (s *Solver) Solve() string {
	for s.Step() {
	}
	return s.Solution()
}

// Step runs one drone's scheduling turn and returns false once the level is
// fully wrapped. Viewers call this directly to watch a solve unfold.
func (s *Solver) Step() bool {
	if s.Done() {
		return false
	}
	if s.next >= s.roundEnd {
		s.next = 0
		s.roundEnd = len(s.Drones)
	}
	idx := s.next
	s.next++
	s.turn++
	s.droneTurn(idx)
	return !s.Done()
}

// droneTurn is one scheduling turn for one drone, in strict priority order:
// collect, decay, zone upkeep, then either an instant action (clone or a
// bonus activation), or plan acquisition and execution.
func (s *Solver) droneTurn(idx int) {
	lv := s.Level
	d := s.Drones[idx]
	label := fmt.Sprintf("D%d", idx)

	if b, ok := d.collect(lv); ok {
		s.Log.Add(s.turn, label, "bonus", "collect", fmt.Sprintf("%s at %v", b, d.Pos), 0)
	}
	d.wearOff()

	taken := make([]ZoneID, len(s.Drones))
	for i, dr := range s.Drones {
		taken[i] = dr.Zone
	}
	if d.chooseZone(lv, s.Tuning, taken) {
		s.Log.Add(s.turn, label, "zone", "adopt", fmt.Sprintf("zone %d", d.Zone), float64(d.Zone))
	}

	if len(d.plan) == 0 {
		if clone := d.tryClone(lv); clone != nil {
			s.Drones = append(s.Drones, clone)
			s.Log.Add(s.turn, label, "clone", "spawn", fmt.Sprintf("D%d at %v", len(s.Drones)-1, d.Pos), 0)
			return
		}
		if d.activateWheels(lv, s.Tuning) {
			s.Log.Add(s.turn, label, "effect", "wheels_on", fmt.Sprintf("%d turns", d.Wheels), float64(d.Wheels))
			return
		}
		if d.activateDrill(lv, s.Tuning) {
			s.Log.Add(s.turn, label, "effect", "drill_on", fmt.Sprintf("%d turns", d.Drill), float64(d.Drill))
			return
		}
		if d.extendHand(lv) {
			s.Log.Add(s.turn, label, "effect", "hand", fmt.Sprintf("%d hands", len(d.Hands)), float64(len(d.Hands)))
			return
		}
		if d.placeBeacon(lv, s.Tuning) {
			s.Log.Add(s.turn, label, "effect", "beacon", fmt.Sprintf("at %v", d.Pos), 0)
			return
		}

		if plan := s.exploreClone(d, idx); plan != nil {
			d.plan = plan
			s.Log.AddVerbose(s.turn, label, "plan", "clone_seek", fmt.Sprintf("%d steps", len(plan)), float64(len(plan)))
		} else if plan := s.exploreSpawn(d, idx); plan != nil {
			d.plan = plan
			s.Log.AddVerbose(s.turn, label, "plan", "spawn_seek", fmt.Sprintf("%d steps", len(plan)), float64(len(plan)))
		} else if plan := explore(lv, d, s.Tuning, maxWrapping(s.Tuning)); plan != nil {
			d.plan = plan
			s.Log.AddVerbose(s.turn, label, "plan", "wrap_seek", fmt.Sprintf("%d steps", len(plan)), float64(len(plan)))
		}
	}

	if len(d.plan) > 0 {
		a := d.plan[0]
		d.plan = d.plan[1:]
		d.act(lv, a)
		s.Log.AddVerbose(s.turn, label, "move", "act", fmt.Sprintf("%v to %v", a, d.Pos), 0)
	} else if d.Wheels > 0 {
		// Wheels still spinning but nothing worth reaching: coast.
		d.path.WriteByte('Z')
		s.Log.AddVerbose(s.turn, label, "move", "coast", "", 0)
	} else {
		panic(fmt.Sprintf("solve: drone %d has nothing to do at %v with %d empty cells left",
			idx, d.Pos, lv.EmptyCount()))
	}
}

// exploreClone sends the lead drone after an uncollected Clone bonus while
// none are pooled. Follower drones never chase clones.
func (s *Solver) exploreClone(d *Drone, idx int) []Action {
	if idx != 0 || !s.Level.uncollectedClones() || s.Level.CollectedCount(BonusClone) > 0 {
		return nil
	}
	return explore(s.Level, d, s.Tuning, cloneRate)
}

// exploreSpawn sends the lead drone back to a spawn pad once it holds a
// Clone unit to redeem.
func (s *Solver) exploreSpawn(d *Drone, idx int) []Action {
	if idx != 0 || s.Level.CollectedCount(BonusClone) == 0 {
		return nil
	}
	return explore(s.Level, d, s.Tuning, spawnRate)
}

// Score is the reported cost of a solution: the count of uppercase command
// letters in the longest single drone path.
func Score(solution string) int {
	best := 0
	for _, path := range strings.Split(solution, "#") {
		n := 0
		for i := 0; i < len(path); i++ {
			if path[i] >= 'A' && path[i] <= 'Z' {
				n++
			}
		}
		if n > best {
			best = n
		}
	}
	return best
}
