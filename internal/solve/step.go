package solve

import "fmt"

// Action is one planned drone move.
type Action uint8

const (
	ActionUp Action = iota
	ActionRight
	ActionDown
	ActionLeft
	ActionJump0 // teleport to beacon 0
	ActionJump1
	ActionJump2
)

// allActions is the expansion order of the exploration search. The order is
// part of the engine's determinism contract; do not reorder.
var allActions = [7]Action{
	ActionLeft, ActionRight, ActionUp, ActionDown,
	ActionJump0, ActionJump1, ActionJump2,
}

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionRight:
		return "right"
	case ActionDown:
		return "down"
	case ActionLeft:
		return "left"
	case ActionJump0, ActionJump1, ActionJump2:
		return fmt.Sprintf("jump%d", int(a-ActionJump0))
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

func (a Action) delta() (dx, dy int) {
	switch a {
	case ActionUp:
		return 0, 1
	case ActionDown:
		return 0, -1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	default:
		panic(fmt.Sprintf("solve: delta of %v", a))
	}
}

// stepOutcome is the non-mutating result of applying one action: the final
// position, the cells that would become wrapped at every visited position,
// and the cells that would be newly tunneled on this branch.
type stepOutcome struct {
	to      Point
	wrapped map[Point]struct{}
	drilled map[Point]struct{}
}

// step simulates one action from the given position without touching the
// level. drilled carries cells already speculatively tunneled on this search
// branch, so a branch can walk back through its own tunnels. Returns ok=false
// when the action is not valid from here (wall without drill, jump to an
// unplaced beacon) — fatal during execution, a dead branch during search.
func step(lv *Level, hands []Point, from Point, a Action, wheels, drill bool, drilled map[Point]struct{}) (stepOutcome, bool) {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		dx, dy := a.delta()
		return stepMove(lv, hands, from, dx, dy, wheels, drill, drilled)
	case ActionJump0, ActionJump1, ActionJump2:
		return stepJump(lv, hands, int(a-ActionJump0))
	default:
		panic(fmt.Sprintf("solve: step of %v", a))
	}
}

// enterable reports whether to is a valid destination on this branch:
// already tunneled here, tunnelable now (drill active and in bounds), or
// plain walkable.
func enterable(lv *Level, to Point, drill bool, drilled map[Point]struct{}) bool {
	if _, ok := drilled[to]; ok {
		return true
	}
	return (drill && lv.InBounds(to)) || lv.Walkable(to)
}

func stepMove(lv *Level, hands []Point, from Point, dx, dy int, wheels, drill bool, drilled map[Point]struct{}) (stepOutcome, bool) {
	to := Pt(from.X+dx, from.Y+dy)
	if !enterable(lv, to, drill, drilled) {
		return stepOutcome{}, false
	}
	out := stepOutcome{
		to:      to,
		wrapped: map[Point]struct{}{},
		drilled: map[Point]struct{}{},
	}
	wouldWrap(lv, hands, to, out.wrapped)
	if _, done := drilled[to]; drill && !done && !lv.Walkable(to) {
		out.drilled[to] = struct{}{}
	}
	if wheels {
		// Second step only applies when it is independently valid;
		// wheels never strand the drone short of the first cell.
		to2 := Pt(to.X+dx, to.Y+dy)
		if enterable(lv, to2, drill, drilled) {
			wouldWrap(lv, hands, to2, out.wrapped)
			if _, done := drilled[to2]; drill && !done && lv.InBounds(to2) && !lv.Walkable(to2) {
				out.drilled[to2] = struct{}{}
			}
			out.to = to2
		}
	}
	return out, true
}

func stepJump(lv *Level, hands []Point, beacon int) (stepOutcome, bool) {
	if beacon >= len(lv.Beacons) {
		return stepOutcome{}, false
	}
	out := stepOutcome{
		to:      lv.Beacons[beacon],
		wrapped: map[Point]struct{}{},
		drilled: map[Point]struct{}{},
	}
	wouldWrap(lv, hands, out.to, out.wrapped)
	return out, true
}
