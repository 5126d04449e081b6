package solve

import (
	"fmt"
	"math/rand"
)

// Cell is the state of one grid cell. Wrapped is terminal: a cell never
// returns to Empty or Blocked once wrapped (or drilled).
type Cell uint8

const (
	CellEmpty Cell = iota
	CellBlocked
	CellWrapped
)

func (c Cell) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellBlocked:
		return "blocked"
	case CellWrapped:
		return "wrapped"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// ZoneID tags an empty cell with the territory it belongs to.
// ZoneNone marks blocked cells and cells not yet assigned.
type ZoneID uint8

const ZoneNone ZoneID = 0xFF

// Bonus identifies a single-use pickup kind.
type Bonus uint8

const (
	BonusHand Bonus = iota
	BonusWheels
	BonusDrill
	BonusTeleport
	BonusClone
)

// Code returns the one-letter code used by both the .desc level format and
// the solution path encoding.
func (b Bonus) Code() byte {
	switch b {
	case BonusHand:
		return 'B'
	case BonusWheels:
		return 'F'
	case BonusDrill:
		return 'L'
	case BonusTeleport:
		return 'R'
	case BonusClone:
		return 'C'
	default:
		return '?'
	}
}

func (b Bonus) String() string {
	switch b {
	case BonusHand:
		return "hand"
	case BonusWheels:
		return "wheels"
	case BonusDrill:
		return "drill"
	case BonusTeleport:
		return "teleport"
	case BonusClone:
		return "clone"
	default:
		return fmt.Sprintf("bonus(%d)", uint8(b))
	}
}

// Level is the shared mutable world: the cell matrix plus everything the
// drones contend for. All wrapping/drilling mutation is funneled through
// Wrap and Drill so the empty-count invariant cannot drift.
type Level struct {
	Width  int
	Height int

	grid    []Cell   // row-major: index = y*Width + x
	weights []uint8  // count of 4-adjacent blocked cells, fixed at build time
	zones   []ZoneID // fixed at build time, ZoneNone on blocked cells

	empty     int   // number of cells currently CellEmpty
	zoneEmpty []int // remaining empty cells per zone
	finalized bool  // weights and zones built; the wall set is frozen

	Spawns    map[Point]struct{}
	Beacons   []Point // placed teleport anchors, in placement order
	Bonuses   map[Point]Bonus
	Collected map[Bonus]int // shared pool, debited on activation
}

// NewLevel creates an all-empty level of the given size. Callers block out
// cells with SetBlocked and then call Finalize before solving.
func NewLevel(width, height int) *Level {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("solve: invalid level size %dx%d", width, height))
	}
	lv := &Level{
		Width:     width,
		Height:    height,
		grid:      make([]Cell, width*height),
		weights:   make([]uint8, width*height),
		zones:     make([]ZoneID, width*height),
		empty:     width * height,
		Spawns:    map[Point]struct{}{},
		Bonuses:   map[Point]Bonus{},
		Collected: map[Bonus]int{},
	}
	for i := range lv.zones {
		lv.zones[i] = ZoneNone
	}
	return lv
}

func (lv *Level) idx(p Point) int { return p.Y*lv.Width + p.X }

// InBounds reports whether p lies inside the grid.
func (lv *Level) InBounds(p Point) bool {
	return p.X >= 0 && p.X < lv.Width && p.Y >= 0 && p.Y < lv.Height
}

// CellAt returns the cell state at p. Panics when p is out of bounds;
// callers are expected to check InBounds or Walkable first.
func (lv *Level) CellAt(p Point) Cell {
	if !lv.InBounds(p) {
		panic(fmt.Sprintf("solve: cell access out of bounds %v on %dx%d", p, lv.Width, lv.Height))
	}
	return lv.grid[lv.idx(p)]
}

// Walkable reports whether a drone may stand on p.
func (lv *Level) Walkable(p Point) bool {
	return lv.InBounds(p) && lv.grid[lv.idx(p)] != CellBlocked
}

// ZoneAt returns the zone tag at p, or ZoneNone out of bounds.
func (lv *Level) ZoneAt(p Point) ZoneID {
	if !lv.InBounds(p) {
		return ZoneNone
	}
	return lv.zones[lv.idx(p)]
}

// WeightAt returns the obstacle weight at p (0 out of bounds).
func (lv *Level) WeightAt(p Point) uint8 {
	if !lv.InBounds(p) {
		return 0
	}
	return lv.weights[lv.idx(p)]
}

// EmptyCount returns the number of cells still Empty.
func (lv *Level) EmptyCount() int { return lv.empty }

// ZoneCount returns the number of zones assigned at Finalize time.
func (lv *Level) ZoneCount() int { return len(lv.zoneEmpty) }

// ZoneEmpty returns the remaining empty-cell count for a zone.
func (lv *Level) ZoneEmpty(z ZoneID) int {
	if int(z) >= len(lv.zoneEmpty) {
		return 0
	}
	return lv.zoneEmpty[z]
}

// SetBlocked marks a cell as a wall. Panics after Finalize: the weight and
// zone layers (and their counters) are built from the wall set and would
// silently desync.
func (lv *Level) SetBlocked(p Point) {
	if lv.finalized {
		panic(fmt.Sprintf("solve: wall added at %v after finalize", p))
	}
	if lv.CellAt(p) == CellBlocked {
		return
	}
	lv.grid[lv.idx(p)] = CellBlocked
	lv.empty--
}

// Wrap transitions an Empty cell to Wrapped and decrements the global and
// per-zone empty counters in lockstep. Panics if the cell is not Empty:
// a double wrap is a planning bug, not a recoverable condition.
func (lv *Level) Wrap(p Point) {
	if c := lv.CellAt(p); c != CellEmpty {
		panic(fmt.Sprintf("solve: wrap of %s cell at %v", c, p))
	}
	i := lv.idx(p)
	lv.empty--
	if z := lv.zones[i]; z != ZoneNone && int(z) < len(lv.zoneEmpty) {
		lv.zoneEmpty[z]--
	}
	lv.grid[i] = CellWrapped
}

// Drill converts a Blocked cell directly to Wrapped. Tunneled cells never
// counted toward the empty total, so no counter moves.
func (lv *Level) Drill(p Point) {
	if c := lv.CellAt(p); c != CellBlocked {
		panic(fmt.Sprintf("solve: drill of %s cell at %v", c, p))
	}
	lv.grid[lv.idx(p)] = CellWrapped
}

// CollectedCount returns how many units of a bonus sit in the shared pool.
func (lv *Level) CollectedCount(b Bonus) int { return lv.Collected[b] }

// takeCollected debits one unit of b from the shared pool.
func (lv *Level) takeCollected(b Bonus) {
	n := lv.Collected[b]
	if n <= 0 {
		panic(fmt.Sprintf("solve: activating %s with empty pool", b))
	}
	if n == 1 {
		delete(lv.Collected, b)
	} else {
		lv.Collected[b] = n - 1
	}
}

// uncollectedClones reports whether any Clone bonus is still on the grid.
func (lv *Level) uncollectedClones() bool {
	for _, b := range lv.Bonuses {
		if b == BonusClone {
			return true
		}
	}
	return false
}

// Finalize computes the obstacle weights and partitions the empty cells into
// zones (one per Clone bonus on the map, plus one). The rng seed makes runs
// reproducible; identical seeds give byte-identical solutions.
func (lv *Level) Finalize(seed int64) {
	lv.computeWeights()
	clones := 0
	for _, b := range lv.Bonuses {
		if b == BonusClone {
			clones++
		}
	}
	n := clones + 1
	if n > int(ZoneNone)-1 {
		n = int(ZoneNone) - 1
	}
	lv.partitionZones(n, rand.New(rand.NewSource(seed))) // #nosec G404 -- reproducibility, not security
	lv.finalized = true
}

// computeWeights counts, for every cell, the 4-adjacent cells that are
// blocked (out-of-bounds counts as blocked). The weight is the wrapping
// value bonus for cells hugging walls.
func (lv *Level) computeWeights() {
	for y := 0; y < lv.Height; y++ {
		for x := 0; x < lv.Width; x++ {
			p := Pt(x, y)
			var w uint8
			for _, d := range [4]Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				if !lv.Walkable(p.Add(d)) {
					w++
				}
			}
			lv.weights[lv.idx(p)] = w
		}
	}
}
