package solve

// TestSolve is a headless harness for building small levels in code and
// driving a solve over them. It mirrors what the .desc parser produces but
// supports deterministic cell-by-cell setup and structured logging.
type TestSolve struct {
	Level  *Level
	Solver *Solver
	Log    *SolveLog

	droneStart Point
	haveStart  bool
	seed       int64
	tuning     *Tuning
}

// solveOptionKind controls the pass in which an option is applied.
type solveOptionKind int

const (
	solveOptInfra solveOptionKind = iota // size, seed, tuning, verbose — applied first
	solveOptCell                         // blocked cells, bonuses, spawns — applied to the grid
	solveOptDrone                        // start position — applied after Finalize
)

// SolveOption is a builder function applied to a TestSolve during construction.
type SolveOption struct {
	kind solveOptionKind
	fn   func(*TestSolve)
}

// WithGridSize sets the level dimensions. Required first option in practice.
func WithGridSize(w, h int) SolveOption {
	return SolveOption{solveOptInfra, func(ts *TestSolve) {
		ts.Level = NewLevel(w, h)
	}}
}

// WithSeed sets the zone partitioner seed for deterministic runs.
func WithSeed(seed int64) SolveOption {
	return SolveOption{solveOptInfra, func(ts *TestSolve) {
		ts.seed = seed
	}}
}

// WithTuning overrides the default tuning.
func WithTuning(tn *Tuning) SolveOption {
	return SolveOption{solveOptInfra, func(ts *TestSolve) {
		ts.tuning = tn
	}}
}

// WithVerboseLog enables per-turn verbose logging.
func WithVerboseLog(v bool) SolveOption {
	return SolveOption{solveOptInfra, func(ts *TestSolve) {
		ts.Log = NewSolveLog(v)
	}}
}

// WithBlocked marks one cell as a wall.
func WithBlocked(x, y int) SolveOption {
	return SolveOption{solveOptCell, func(ts *TestSolve) {
		ts.Level.SetBlocked(Pt(x, y))
	}}
}

// WithBlockedRect walls out the rectangle [x0,x1)×[y0,y1).
func WithBlockedRect(x0, y0, x1, y1 int) SolveOption {
	return SolveOption{solveOptCell, func(ts *TestSolve) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				ts.Level.SetBlocked(Pt(x, y))
			}
		}
	}}
}

// WithBonusAt places a bonus pickup.
func WithBonusAt(b Bonus, x, y int) SolveOption {
	return SolveOption{solveOptCell, func(ts *TestSolve) {
		ts.Level.Bonuses[Pt(x, y)] = b
	}}
}

// WithSpawnAt marks a spawn pad.
func WithSpawnAt(x, y int) SolveOption {
	return SolveOption{solveOptCell, func(ts *TestSolve) {
		ts.Level.Spawns[Pt(x, y)] = struct{}{}
	}}
}

// WithDroneAt sets the starting drone position (default: (0,0)).
func WithDroneAt(x, y int) SolveOption {
	return SolveOption{solveOptDrone, func(ts *TestSolve) {
		ts.droneStart = Pt(x, y)
		ts.haveStart = true
	}}
}

// NewTestSolve constructs a TestSolve in three ordered passes:
//  1. Infrastructure (grid size, seed, tuning, verbose)
//  2. Cells (walls, bonuses, spawns), then Finalize (weights + zones)
//  3. The starting drone and the solver
func NewTestSolve(opts ...SolveOption) *TestSolve {
	ts := &TestSolve{
		seed: 1,
		Log:  NewSolveLog(false),
	}
	for _, o := range opts {
		if o.kind == solveOptInfra {
			o.fn(ts)
		}
	}
	if ts.Level == nil {
		ts.Level = NewLevel(10, 10)
	}
	for _, o := range opts {
		if o.kind == solveOptCell {
			o.fn(ts)
		}
	}
	ts.Level.Finalize(ts.seed)
	for _, o := range opts {
		if o.kind == solveOptDrone {
			o.fn(ts)
		}
	}
	if !ts.haveStart {
		ts.droneStart = Pt(0, 0)
	}
	ts.Solver = NewSolver(ts.Level, NewDrone(ts.droneStart), ts.tuning, ts.Log)
	return ts
}

// RunTurns advances the solve by up to n scheduling turns, stopping early
// when the level is fully wrapped. Returns the turns actually taken.
func (ts *TestSolve) RunTurns(n int) int {
	for i := 0; i < n; i++ {
		if !ts.Solver.Step() {
			return i + 1
		}
	}
	return n
}

// SolveAll runs the solve to completion and returns the solution string.
func (ts *TestSolve) SolveAll() string {
	return ts.Solver.Solve()
}
