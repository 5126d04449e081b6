package solve

import (
	"fmt"
	"strings"
)

// startingHands is the reach every drone is born with: its own cell plus the
// three cells of the column to its right.
func startingHands() []Point {
	return []Point{Pt(0, 0), Pt(1, -1), Pt(1, 0), Pt(1, 1)}
}

// Drone is one mobile agent. Drones are created at level start (or by the
// Clone mechanic) and live until the solve loop terminates.
type Drone struct {
	Pos    Point
	Hands  []Point // wrapping reach offsets, grown by Hand bonuses
	Wheels int     // remaining boosted turns, 0 = inactive
	Drill  int     // remaining tunneling turns, 0 = inactive
	Zone   ZoneID  // assigned territory, ZoneNone until chosen

	plan []Action        // pending actions, consumed one per turn
	path strings.Builder // emitted solution path
}

// NewDrone creates a drone at pos with the default hand set and no zone.
func NewDrone(pos Point) *Drone {
	return &Drone{
		Pos:   pos,
		Hands: startingHands(),
		Zone:  ZoneNone,
	}
}

// Path returns the solution string emitted so far.
func (d *Drone) Path() string { return d.path.String() }

// PlanLen returns the number of queued actions.
func (d *Drone) PlanLen() int { return len(d.plan) }

// wrapHere wraps everything the drone's hands reach from its current cell.
// Used once for the starting drone before the solve loop begins.
func (d *Drone) wrapHere(lv *Level) {
	wrapped := map[Point]struct{}{}
	wouldWrap(lv, d.Hands, d.Pos, wrapped)
	for p := range wrapped {
		lv.Wrap(p)
	}
}

// collect moves a bonus under the drone into the shared pool.
func (d *Drone) collect(lv *Level) (Bonus, bool) {
	b, ok := lv.Bonuses[d.Pos]
	if !ok {
		return 0, false
	}
	lv.Collected[b]++
	delete(lv.Bonuses, d.Pos)
	return b, true
}

// wearOff decays the timed effects by one turn.
func (d *Drone) wearOff() {
	if d.Wheels > 0 {
		d.Wheels--
	}
	if d.Drill > 0 {
		d.Drill--
	}
}

// chooseZone re-runs zone selection when the drone has no zone or its zone
// is fully wrapped. Prefers zones no other drone has taken; when every
// non-empty zone is taken it competes for one anyway. Panics when no zone
// has empty cells left — the solve loop should have terminated first.
// Returns true when a new zone (and the plan leading into it) was adopted.
func (d *Drone) chooseZone(lv *Level, tn *Tuning, taken []ZoneID) bool {
	if d.Zone != ZoneNone && lv.ZoneEmpty(d.Zone) > 0 {
		return false
	}
	var notEmpty []ZoneID
	for z := 0; z < lv.ZoneCount(); z++ {
		if lv.ZoneEmpty(ZoneID(z)) > 0 {
			notEmpty = append(notEmpty, ZoneID(z))
		}
	}
	var notTaken []ZoneID
	for _, z := range notEmpty {
		free := true
		for _, t := range taken {
			if t == z {
				free = false
				break
			}
		}
		if free {
			notTaken = append(notTaken, z)
		}
	}
	lookingIn := notTaken
	if len(lookingIn) == 0 {
		lookingIn = notEmpty
	}

	plan, pos, ok := exploreBest(lv, d, tn, zoneRate(lookingIn))
	if !ok {
		panic("solve: no zone left to choose")
	}
	d.Zone = lv.ZoneAt(pos)
	d.plan = plan
	return true
}

// hasRunway reports whether some direction offers a clear straight run long
// enough to make wheels worth burning.
func (d *Drone) hasRunway(lv *Level, tn *Tuning) bool {
	for _, dir := range [4]Point{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
		clear := true
		for i := 1; i <= tn.RunwayLen; i++ {
			p := Pt(d.Pos.X+dir.X*i, d.Pos.Y+dir.Y*i)
			if !lv.Walkable(p) {
				clear = false
				break
			}
		}
		if clear {
			return true
		}
	}
	return false
}

// activateWheels burns a Wheels unit when one is pooled, none are active,
// and there is runway to use them on.
func (d *Drone) activateWheels(lv *Level, tn *Tuning) bool {
	if lv.CollectedCount(BonusWheels) == 0 || d.Wheels > 0 || !d.hasRunway(lv, tn) {
		return false
	}
	lv.takeCollected(BonusWheels)
	d.Wheels = tn.WheelsTurns
	d.path.WriteByte('F')
	return true
}

// activateDrill burns a Drill unit when one is pooled and none is active.
func (d *Drone) activateDrill(lv *Level, tn *Tuning) bool {
	if lv.CollectedCount(BonusDrill) == 0 || d.Drill > 0 {
		return false
	}
	lv.takeCollected(BonusDrill)
	d.Drill = tn.DrillTurns
	d.path.WriteByte('L')
	return true
}

// extendHand burns a Hand unit unconditionally, growing the reach column by
// one cell.
func (d *Drone) extendHand(lv *Level) bool {
	if lv.CollectedCount(BonusHand) == 0 {
		return false
	}
	lv.takeCollected(BonusHand)
	h := Pt(1, d.Hands[len(d.Hands)-1].Y+1)
	d.Hands = append(d.Hands, h)
	fmt.Fprintf(&d.path, "B(%d,%d)", h.X, h.Y)
	return true
}

// placeBeacon drops a teleport anchor here when one is pooled and every
// existing beacon is far enough away to be worth a third anchor.
func (d *Drone) placeBeacon(lv *Level, tn *Tuning) bool {
	if lv.CollectedCount(BonusTeleport) == 0 {
		return false
	}
	for _, b := range lv.Beacons {
		if b.Manhattan(d.Pos) < tn.BeaconSpacing {
			return false
		}
	}
	lv.takeCollected(BonusTeleport)
	lv.Beacons = append(lv.Beacons, d.Pos)
	d.path.WriteByte('R')
	return true
}

// tryClone spawns a new drone on this cell when the drone stands on a spawn
// pad with a Clone unit pooled.
func (d *Drone) tryClone(lv *Level) *Drone {
	if lv.CollectedCount(BonusClone) == 0 {
		return nil
	}
	if _, ok := lv.Spawns[d.Pos]; !ok {
		return nil
	}
	lv.takeCollected(BonusClone)
	d.path.WriteByte('C')
	return NewDrone(d.Pos)
}

// act applies one action for real: moves the drone, emits the path command,
// and commits the resulting wraps and tunnels to the level. An invalid
// action here means the planner handed out an unreachable plan; that is an
// engine bug and aborts the solve.
func (d *Drone) act(lv *Level, a Action) {
	out, ok := step(lv, d.Hands, d.Pos, a, d.Wheels > 0, d.Drill > 0, nil)
	if !ok {
		panic(fmt.Sprintf("solve: invalid action %v from %v", a, d.Pos))
	}
	d.Pos = out.to
	switch a {
	case ActionUp:
		d.path.WriteByte('W')
	case ActionDown:
		d.path.WriteByte('S')
	case ActionLeft:
		d.path.WriteByte('A')
	case ActionRight:
		d.path.WriteByte('D')
	case ActionJump0, ActionJump1, ActionJump2:
		b := lv.Beacons[int(a-ActionJump0)]
		fmt.Fprintf(&d.path, "T(%d,%d)", b.X, b.Y)
	}
	for p := range out.wrapped {
		lv.Wrap(p)
	}
	for p := range out.drilled {
		lv.Drill(p)
	}
}
