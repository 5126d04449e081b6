package solve

import "testing"

// runPlan replays a plan through step from the drone's position and returns
// the final cell, failing the test on any invalid action.
func runPlan(t *testing.T, lv *Level, d *Drone, plan []Action) Point {
	t.Helper()
	pos := d.Pos
	drilled := map[Point]struct{}{}
	wheels, drill := d.Wheels, d.Drill
	for i, a := range plan {
		out, ok := step(lv, d.Hands, pos, a, wheels > 0, drill > 0, drilled)
		if !ok {
			t.Fatalf("plan step %d (%v) invalid from %v", i, a, pos)
		}
		pos = out.to
		for p := range out.drilled {
			drilled[p] = struct{}{}
		}
		if wheels > 0 {
			wheels--
		}
		if drill > 0 {
			drill--
		}
	}
	return pos
}

// --- Frontier search ---

func TestExplore_FindsNearestWrappableCell(t *testing.T) {
	lv := NewLevel(8, 8)
	lv.Finalize(1)
	d := NewDrone(Pt(0, 0))
	d.Zone = lv.ZoneAt(d.Pos)
	d.wrapHere(lv)

	plan := explore(lv, d, DefaultTuning(), maxWrapping(DefaultTuning()))
	if plan == nil {
		t.Fatal("open level with empty cells should always yield a plan")
	}
	end := runPlan(t, lv, d, plan)
	into := map[Point]struct{}{}
	wouldWrap(lv, d.Hands, end, into)
	if len(into) == 0 {
		t.Fatalf("plan ends at %v where nothing new would wrap", end)
	}
}

func TestExplore_NilWhenNothingScores(t *testing.T) {
	lv := NewLevel(4, 4)
	lv.Finalize(1)
	d := NewDrone(Pt(0, 0))

	zero := func(*Level, *Drone, Point) float64 { return 0 }
	if plan := explore(lv, d, DefaultTuning(), zero); plan != nil {
		t.Fatalf("all-zero rate should exhaust the frontier and return nil, got %v", plan)
	}
}

func TestExplore_DeepeningReachesDistantTargets(t *testing.T) {
	// The only clone bonus sits well beyond the first depth cap; the
	// search must extend its horizon rather than give up.
	lv := NewLevel(20, 3)
	lv.Bonuses[Pt(17, 1)] = BonusClone
	lv.Finalize(1)
	d := NewDrone(Pt(0, 1))

	plan := explore(lv, d, DefaultTuning(), cloneRate)
	if plan == nil {
		t.Fatal("deepening search should reach the distant clone bonus")
	}
	if end := runPlan(t, lv, d, plan); end != Pt(17, 1) {
		t.Fatalf("clone-seek plan should end on the bonus, ended at %v", end)
	}
}

func TestExplore_PrefersCloserOfEqualTargets(t *testing.T) {
	// Two spawn pads, one 2 steps away and one 6 steps away. Rate is
	// identical, so cost normalization must pick the near one.
	lv := NewLevel(10, 3)
	lv.Spawns[Pt(3, 1)] = struct{}{}
	lv.Spawns[Pt(7, 1)] = struct{}{}
	lv.Finalize(1)
	d := NewDrone(Pt(1, 1))

	plan := explore(lv, d, DefaultTuning(), spawnRate)
	if plan == nil {
		t.Fatal("spawn-seek should find a pad")
	}
	if end := runPlan(t, lv, d, plan); end != Pt(3, 1) {
		t.Fatalf("want the nearer pad (3,1), plan ended at %v", end)
	}
}

func TestExplore_RoutesAroundWalls(t *testing.T) {
	// A full-height wall with a single gap at the top row.
	lv := NewLevel(9, 5)
	for y := 0; y < 4; y++ {
		lv.SetBlocked(Pt(4, y))
	}
	lv.Bonuses[Pt(7, 2)] = BonusClone
	lv.Finalize(1)
	d := NewDrone(Pt(1, 2))

	plan := explore(lv, d, DefaultTuning(), cloneRate)
	if plan == nil {
		t.Fatal("search should route through the gap")
	}
	if end := runPlan(t, lv, d, plan); end != Pt(7, 2) {
		t.Fatalf("want plan ending on (7,2), ended at %v", end)
	}
}

// --- Rate functions ---

func TestExplore_MaxWrappingRespectsZones(t *testing.T) {
	lv := NewLevel(6, 6)
	lv.Finalize(1)
	d := NewDrone(Pt(0, 0))
	d.Zone = ZoneNone // no zone adopted

	rate := maxWrapping(DefaultTuning())
	if r := rate(lv, d, Pt(3, 3)); r != 0 {
		t.Fatalf("positions outside the drone's zone must rate 0, got %.1f", r)
	}
	d.Zone = lv.ZoneAt(Pt(3, 3))
	if r := rate(lv, d, Pt(3, 3)); r <= 0 {
		t.Fatalf("in-zone wrappable position must rate > 0, got %.1f", r)
	}
}

func TestExplore_BonusCellsDominate(t *testing.T) {
	tn := DefaultTuning()
	lv := NewLevel(6, 6)
	lv.Bonuses[Pt(2, 2)] = BonusWheels
	lv.Finalize(1)
	d := NewDrone(Pt(0, 0))
	d.Zone = lv.ZoneAt(Pt(2, 2))

	rate := maxWrapping(tn)
	if r := rate(lv, d, Pt(2, 2)); r != tn.BonusRate {
		t.Fatalf("bonus cell should rate the full bonus rate %.0f, got %.1f", tn.BonusRate, r)
	}
}
