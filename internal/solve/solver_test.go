package solve

import (
	"regexp"
	"strings"
	"testing"
)

// checkFullyWrapped fails unless every non-blocked cell is wrapped.
func checkFullyWrapped(t *testing.T, lv *Level) {
	t.Helper()
	if lv.EmptyCount() != 0 {
		t.Errorf("solve finished with %d empty cells", lv.EmptyCount())
	}
	for y := 0; y < lv.Height; y++ {
		for x := 0; x < lv.Width; x++ {
			if lv.CellAt(Pt(x, y)) == CellEmpty {
				t.Errorf("cell (%d,%d) still empty after solve", x, y)
			}
		}
	}
}

// checkPathAlphabet fails on any byte outside the path command set.
func checkPathAlphabet(t *testing.T, solution string) {
	t.Helper()
	for i := 0; i < len(solution); i++ {
		switch c := solution[i]; c {
		case 'W', 'A', 'S', 'D', 'F', 'L', 'B', 'R', 'T', 'C', 'Z', '#', '(', ')', ',', '-':
		default:
			if c >= '0' && c <= '9' {
				continue
			}
			t.Fatalf("solution byte %d is %q, outside the path alphabet", i, c)
		}
	}
}

// --- Scenarios ---

func TestSolver_SingleCellLevelIsAlreadySolved(t *testing.T) {
	ts := NewTestSolve(WithGridSize(1, 1))
	sol := ts.SolveAll()
	if sol != "" {
		t.Fatalf("1x1 level is wrapped at spawn; want empty solution, got %q", sol)
	}
	if Score(sol) != 0 {
		t.Fatalf("empty solution should score 0, got %d", Score(sol))
	}
}

func TestSolver_OpenGridFullCoverage(t *testing.T) {
	ts := NewTestSolve(WithGridSize(8, 8))
	sol := ts.SolveAll()

	checkFullyWrapped(t, ts.Level)
	checkPathAlphabet(t, sol)
	if strings.Contains(sol, "#") {
		t.Fatal("single-drone solve must not emit a path separator")
	}
	if Score(sol) == 0 {
		t.Fatal("non-trivial solve should have a positive score")
	}
}

func TestSolver_WalledGridFullCoverage(t *testing.T) {
	ts := NewTestSolve(
		WithGridSize(12, 12),
		WithBlockedRect(3, 3, 5, 9),
		WithBlockedRect(7, 0, 8, 6),
		WithDroneAt(0, 0),
	)
	ts.SolveAll()
	checkFullyWrapped(t, ts.Level)
}

func TestSolver_DeterministicForSeed(t *testing.T) {
	run := func() string {
		ts := NewTestSolve(
			WithGridSize(10, 10),
			WithSeed(99),
			WithBlockedRect(4, 4, 6, 6),
			WithBonusAt(BonusWheels, 8, 1),
		)
		return ts.SolveAll()
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("identical seeds must give byte-identical solutions:\n%q\n%q", a, b)
	}
}

func TestSolver_WheelsCollectedAndBurned(t *testing.T) {
	ts := NewTestSolve(
		WithGridSize(10, 10),
		WithBonusAt(BonusWheels, 5, 5),
		WithVerboseLog(true),
	)
	sol := ts.SolveAll()

	checkFullyWrapped(t, ts.Level)
	if n := strings.Count(sol, "F"); n != 1 {
		t.Fatalf("one wheels pickup should burn exactly once, got %d F commands in %q", n, sol)
	}
	if !ts.Log.HasEntry("bonus", "collect", "wheels") {
		t.Fatalf("missing wheels collect entry; log:\n%s", ts.Log.Format())
	}
	if !ts.Log.HasEntry("effect", "wheels_on", "") {
		t.Fatalf("missing wheels activation entry; log:\n%s", ts.Log.Format())
	}
}

func TestSolver_WheelsShortenTheSolve(t *testing.T) {
	// Same room, same seed, with and without a Wheels pickup: the boosted
	// run must finish in strictly fewer scheduling turns.
	baseline := NewTestSolve(WithGridSize(10, 10))
	baseline.SolveAll()

	boosted := NewTestSolve(
		WithGridSize(10, 10),
		WithBonusAt(BonusWheels, 5, 5),
	)
	sol := boosted.SolveAll()

	checkFullyWrapped(t, boosted.Level)
	if !strings.Contains(sol, "F") {
		t.Fatalf("boosted run never burned its wheels: %q", sol)
	}
	if boosted.Solver.Turn() >= baseline.Solver.Turn() {
		t.Fatalf("wheels should shorten the solve: %d turns boosted vs %d baseline",
			boosted.Solver.Turn(), baseline.Solver.Turn())
	}
}

func TestSolver_DrillCollectedAndBurned(t *testing.T) {
	ts := NewTestSolve(
		WithGridSize(9, 9),
		WithBonusAt(BonusDrill, 4, 4),
	)
	sol := ts.SolveAll()

	checkFullyWrapped(t, ts.Level)
	if n := strings.Count(sol, "L"); n != 1 {
		t.Fatalf("one drill pickup should burn exactly once, got %d L commands in %q", n, sol)
	}
}

func TestSolver_HandExtensionGrowsReachColumn(t *testing.T) {
	ts := NewTestSolve(
		WithGridSize(8, 8),
		WithBonusAt(BonusHand, 3, 3),
	)
	sol := ts.SolveAll()

	if !strings.Contains(sol, "B(1,2)") {
		t.Fatalf("hand extension should emit B(1,2), got %q", sol)
	}
	d := ts.Solver.Drones[0]
	if len(d.Hands) != 5 || d.Hands[4] != Pt(1, 2) {
		t.Fatalf("hand column should grow to (1,2), got %v", d.Hands)
	}
}

func TestSolver_BeaconPlacement(t *testing.T) {
	ts := NewTestSolve(
		WithGridSize(8, 8),
		WithBonusAt(BonusTeleport, 4, 4),
	)
	sol := ts.SolveAll()

	if !strings.Contains(sol, "R") {
		t.Fatalf("teleport pickup should be planted as a beacon, got %q", sol)
	}
	if len(ts.Level.Beacons) != 1 {
		t.Fatalf("want 1 planted beacon, got %v", ts.Level.Beacons)
	}
}

func TestSolver_BeaconSpacingEnforced(t *testing.T) {
	// Two teleport pickups on a small grid: the second can never sit far
	// enough from the first, so only one beacon lands.
	ts := NewTestSolve(
		WithGridSize(10, 10),
		WithBonusAt(BonusTeleport, 2, 2),
		WithBonusAt(BonusTeleport, 7, 7),
	)
	ts.SolveAll()

	checkFullyWrapped(t, ts.Level)
	if len(ts.Level.Beacons) != 1 {
		t.Fatalf("beacon spacing should hold the second pickup back, got %v", ts.Level.Beacons)
	}
}

func TestSolver_TeleportJumpsBetweenDistantBeacons(t *testing.T) {
	// A long strip with two Teleport pickups 50 apart: both beacons land,
	// and the drone takes at least one jump, always onto a planted beacon.
	ts := NewTestSolve(
		WithGridSize(120, 3),
		WithBonusAt(BonusTeleport, 2, 1),
		WithBonusAt(BonusTeleport, 52, 1),
	)
	sol := ts.SolveAll()

	checkFullyWrapped(t, ts.Level)
	if len(ts.Level.Beacons) != 2 {
		t.Fatalf("want both beacons planted, got %v", ts.Level.Beacons)
	}
	spacing := DefaultTuning().BeaconSpacing
	if d := ts.Level.Beacons[0].Manhattan(ts.Level.Beacons[1]); d < spacing {
		t.Fatalf("beacons %v are %d apart, want >= %d", ts.Level.Beacons, d, spacing)
	}

	jumps := regexp.MustCompile(`T\((\d+),(\d+)\)`).FindAllStringSubmatch(sol, -1)
	if len(jumps) == 0 {
		t.Fatalf("long strip with two beacons should use a jump, got %q", sol)
	}
	for _, m := range jumps {
		p := Pt(atoi(m[1]), atoi(m[2]))
		planted := false
		for _, b := range ts.Level.Beacons {
			if b == p {
				planted = true
				break
			}
		}
		if !planted {
			t.Errorf("jump lands at %v, which is not a planted beacon (%v)", p, ts.Level.Beacons)
		}
	}
}

func TestSolver_CloneSpawnsSecondDrone(t *testing.T) {
	ts := NewTestSolve(
		WithGridSize(10, 10),
		WithSpawnAt(0, 0),
		WithBonusAt(BonusClone, 4, 0),
		WithDroneAt(0, 0),
		WithVerboseLog(true),
	)
	sol := ts.SolveAll()

	checkFullyWrapped(t, ts.Level)
	if len(ts.Solver.Drones) != 2 {
		t.Fatalf("one clone pickup at a spawn pad should yield 2 drones, got %d; log:\n%s",
			len(ts.Solver.Drones), ts.Log.Format())
	}
	if n := strings.Count(sol, "#"); n != 1 {
		t.Fatalf("two drones should emit one path separator, got %d in %q", n, sol)
	}
	if !strings.Contains(strings.Split(sol, "#")[0], "C") {
		t.Fatalf("the lead drone's path should carry the C command, got %q", sol)
	}
	if !ts.Log.HasEntry("clone", "spawn", "") {
		t.Fatalf("missing clone spawn entry; log:\n%s", ts.Log.Format())
	}
}

func TestSolver_CloneJoinsNextRound(t *testing.T) {
	// The freshly cloned drone must not take a turn inside the round it
	// was born in; its path starts strictly after the C command.
	ts := NewTestSolve(
		WithGridSize(10, 10),
		WithSpawnAt(0, 0),
		WithBonusAt(BonusClone, 3, 0),
		WithDroneAt(0, 0),
	)
	for !ts.Solver.Done() {
		before := len(ts.Solver.Drones)
		if !ts.Solver.Step() {
			break
		}
		if len(ts.Solver.Drones) > before {
			// Clone just happened; the new drone's path must be empty
			// until the next round reaches it.
			if p := ts.Solver.Drones[before].Path(); p != "" {
				t.Fatalf("new drone acted in its birth round: path %q", p)
			}
		}
	}
	checkFullyWrapped(t, ts.Level)
}

// --- Scoring ---

func TestScore_CountsLongestDronePath(t *testing.T) {
	cases := []struct {
		solution string
		want     int
	}{
		{"", 0},
		{"WWSAD", 5},
		{"WWSAD#WW", 5},
		{"WW#WWSADD", 7},
		{"WB(1,2)S", 3},
		{"T(3,7)W", 2},
		{"FZZW", 4},
	}
	for _, c := range cases {
		if got := Score(c.solution); got != c.want {
			t.Errorf("Score(%q): want %d, got %d", c.solution, c.want, got)
		}
	}
}

// --- Solve log ---

func TestSolveLog_NilSafe(t *testing.T) {
	var sl *SolveLog
	sl.Add(1, "D0", "move", "act", "x", 0)
	sl.AddVerbose(1, "D0", "move", "act", "x", 0)
	if sl.Entries() != nil || sl.Count("move", "act") != 0 {
		t.Fatal("nil log must drop everything")
	}
}

func TestSolveLog_VerboseGating(t *testing.T) {
	quiet := NewSolveLog(false)
	quiet.AddVerbose(1, "D0", "move", "act", "x", 0)
	quiet.Add(1, "D0", "bonus", "collect", "x", 0)
	if quiet.Count("move", "act") != 0 || quiet.Count("bonus", "collect") != 1 {
		t.Fatal("non-verbose log should keep only non-verbose entries")
	}

	loud := NewSolveLog(true)
	loud.AddVerbose(1, "D0", "move", "act", "x", 0)
	if loud.Count("move", "act") != 1 {
		t.Fatal("verbose log should keep verbose entries")
	}
}

func TestSolveLog_FilterAndHasEntry(t *testing.T) {
	sl := NewSolveLog(false)
	sl.Add(1, "D0", "bonus", "collect", "wheels at (3,7)", 0)
	sl.Add(2, "D0", "effect", "wheels_on", "51 turns", 51)
	sl.Add(3, "D1", "bonus", "collect", "drill at (1,1)", 0)

	if got := len(sl.Filter("bonus", "")); got != 2 {
		t.Fatalf("category filter: want 2 entries, got %d", got)
	}
	if !sl.HasEntry("effect", "wheels_on", "51") {
		t.Fatal("HasEntry should match on value substring")
	}
	if sl.HasEntry("bonus", "collect", "teleport") {
		t.Fatal("HasEntry must not match an absent value")
	}
}
