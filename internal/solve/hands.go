package solve

import (
	"fmt"
	"sync"
)

// Hand reachability. A hand at offset h wraps the cell pos+h only when every
// cell in its blocker set (relative to pos) is walkable. The four starting
// hands block only on themselves; extended hands (1,n) cast a triangular
// line-of-sight cone back toward the drone so they cannot wrap through thin
// walls.
//
// For (1,n) with n >= 2 the cone splits at the hand's midpoint:
//
//	x=0 column: y in [1, n/2+1]
//	x=1 column: y in [(n+1)/2, n+1]
//
// (integer division). This generates, for arbitrary n, the exact sets the
// engine has always used for hand lengths 2..19.

var (
	handBlockerMu    sync.Mutex
	handBlockerCache = map[Point][]Point{}
)

// handBlockers returns the blocker set for a hand offset. The result is
// cached; multiple solver instances run in parallel, hence the lock.
func handBlockers(h Point) []Point {
	handBlockerMu.Lock()
	defer handBlockerMu.Unlock()
	if set, ok := handBlockerCache[h]; ok {
		return set
	}
	set := genHandBlockers(h)
	handBlockerCache[h] = set
	return set
}

func genHandBlockers(h Point) []Point {
	switch h {
	case Pt(0, 0), Pt(1, -1), Pt(1, 0), Pt(1, 1):
		return []Point{h}
	}
	if h.X != 1 || h.Y < 2 {
		panic(fmt.Sprintf("solve: no blocker rule for hand offset %v", h))
	}
	n := h.Y
	set := make([]Point, 0, n+3)
	for y := 1; y <= n/2+1; y++ {
		set = append(set, Pt(0, y))
	}
	for y := (n + 1) / 2; y <= n+1; y++ {
		set = append(set, Pt(1, y))
	}
	return set
}

// reaches reports whether a hand at offset h can wrap from pos, i.e. every
// blocker cell is walkable.
func reaches(lv *Level, pos Point, h Point) bool {
	for _, b := range handBlockers(h) {
		if !lv.Walkable(pos.Add(b)) {
			return false
		}
	}
	return true
}

// ReachingCells returns every cell the drone's hands currently reach from
// its position, wrapped or not. Renderers use this to highlight coverage.
func ReachingCells(lv *Level, d *Drone) []Point {
	var out []Point
	for _, h := range d.Hands {
		if reaches(lv, d.Pos, h) {
			out = append(out, d.Pos.Add(h))
		}
	}
	return out
}

// wouldWrap adds to the set every currently-Empty cell the drone's hands
// reach from pos. It never mutates the level.
func wouldWrap(lv *Level, hands []Point, pos Point, into map[Point]struct{}) {
	for _, h := range hands {
		if !reaches(lv, pos, h) {
			continue
		}
		target := pos.Add(h)
		if lv.CellAt(target) == CellEmpty {
			into[target] = struct{}{}
		}
	}
}
