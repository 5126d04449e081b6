// Command viewer steps a solve visually: one window, one .desc task, the
// grid filling in as the drones work. Space pauses, +/- changes speed, C
// copies the solution-so-far to the clipboard.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/novitzke/gridwrap/internal/solve"
)

const (
	windowW = 1280
	windowH = 800
	hudH    = 72
)

var (
	colEmpty   = color.RGBA{R: 200, G: 200, B: 196, A: 255}
	colBlocked = color.RGBA{R: 60, G: 58, B: 56, A: 255}
	colWrapped = color.RGBA{R: 228, G: 208, B: 86, A: 255}
	colReach   = color.RGBA{R: 235, G: 130, B: 40, A: 255}
	colMarker  = color.RGBA{R: 58, G: 110, B: 220, A: 255}
	colDrone   = color.RGBA{R: 210, G: 40, B: 40, A: 255}
	colHUD     = color.RGBA{R: 18, G: 20, B: 18, A: 255}
)

// viewer implements ebiten.Game around a stepping Solver.
type viewer struct {
	solver *solve.Solver
	task   string

	paused       bool
	stepsPerTick int
	done         bool
	copied       bool

	prevKeys map[ebiten.Key]bool
}

func newViewer(task string, tn *solve.Tuning) (*viewer, error) {
	raw, err := os.ReadFile(task)
	if err != nil {
		return nil, err
	}
	lv, drone, err := solve.ParseDesc(string(raw))
	if err != nil {
		return nil, err
	}
	lv.Finalize(tn.ZoneSeed)
	return &viewer{
		solver:       solve.NewSolver(lv, drone, tn, nil),
		task:         task,
		stepsPerTick: 1,
		prevKeys:     map[ebiten.Key]bool{},
	}, nil
}

func (v *viewer) pressed(k ebiten.Key) bool {
	now := ebiten.IsKeyPressed(k)
	was := v.prevKeys[k]
	v.prevKeys[k] = now
	return now && !was
}

func (v *viewer) Update() error {
	if v.pressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if v.pressed(ebiten.KeyEqual) && v.stepsPerTick < 256 {
		v.stepsPerTick *= 2
	}
	if v.pressed(ebiten.KeyMinus) && v.stepsPerTick > 1 {
		v.stepsPerTick /= 2
	}
	if v.pressed(ebiten.KeyC) {
		if err := clipboard.WriteAll(v.solver.Solution()); err == nil {
			v.copied = true
		}
	}

	if v.paused || v.done {
		return nil
	}
	for i := 0; i < v.stepsPerTick; i++ {
		if !v.solver.Step() {
			v.done = true
			break
		}
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})
	lv := v.solver.Level

	// Fit the whole grid under the HUD.
	cell := float32(windowW) / float32(lv.Width)
	if c := float32(windowH-hudH) / float32(lv.Height); c < cell {
		cell = c
	}
	if cell < 1 {
		cell = 1
	}
	// Grid y grows upward; the window's y grows downward.
	cellXY := func(p solve.Point) (float32, float32) {
		return float32(p.X) * cell, float32(hudH) + float32(lv.Height-1-p.Y)*cell
	}

	for y := 0; y < lv.Height; y++ {
		for x := 0; x < lv.Width; x++ {
			p := solve.Pt(x, y)
			var col color.RGBA
			switch lv.CellAt(p) {
			case solve.CellBlocked:
				col = colBlocked
			case solve.CellWrapped:
				col = colWrapped
			default:
				col = colEmpty
			}
			sx, sy := cellXY(p)
			vector.FillRect(screen, sx, sy, cell, cell, col, false)
		}
	}
	for p := range lv.Bonuses {
		sx, sy := cellXY(p)
		vector.FillRect(screen, sx, sy, cell, cell, colMarker, false)
	}
	for p := range lv.Spawns {
		sx, sy := cellXY(p)
		vector.StrokeRect(screen, sx, sy, cell, cell, 1.0, colMarker, false)
	}
	for _, p := range lv.Beacons {
		sx, sy := cellXY(p)
		vector.StrokeRect(screen, sx, sy, cell, cell, 1.0, colReach, false)
	}
	for _, d := range v.solver.Drones {
		for _, p := range solve.ReachingCells(lv, d) {
			sx, sy := cellXY(p)
			vector.FillRect(screen, sx, sy, cell, cell, colReach, false)
		}
		sx, sy := cellXY(d.Pos)
		vector.FillCircle(screen, sx+cell/2, sy+cell/2, cell/2, colDrone, false)
	}

	// HUD.
	vector.FillRect(screen, 0, 0, windowW, hudH, colHUD, false)
	title := fmt.Sprintf("%s  %dx%d", v.task, lv.Width, lv.Height)
	text.Draw(screen, title, basicfont.Face7x13, 8, 18, color.White)
	status := fmt.Sprintf("turn=%d empty=%d drones=%d speed=%dx",
		v.solver.Turn(), lv.EmptyCount(), len(v.solver.Drones), v.stepsPerTick)
	switch {
	case v.done:
		status += fmt.Sprintf("  DONE score=%d", solve.Score(v.solver.Solution()))
	case v.paused:
		status += "  PAUSED"
	}
	if v.copied {
		status += "  (copied)"
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 28)

	pool := "pool:"
	for _, b := range []solve.Bonus{solve.BonusHand, solve.BonusWheels, solve.BonusDrill, solve.BonusTeleport, solve.BonusClone} {
		if n := lv.CollectedCount(b); n > 0 {
			pool += fmt.Sprintf(" %c=%d", b.Code(), n)
		}
	}
	drones := ""
	for i, d := range v.solver.Drones {
		drones += fmt.Sprintf("D%d@%v w=%d d=%d  ", i, d.Pos, d.Wheels, d.Drill)
	}
	ebitenutil.DebugPrintAt(screen, pool+"  "+drones, 8, 42)
	ebitenutil.DebugPrintAt(screen, "space pause  +/- speed  c copy solution", 8, 56)
}

func (v *viewer) Layout(int, int) (int, int) { return windowW, windowH }

func main() {
	var tuningPath string
	var seed int64
	flag.StringVar(&tuningPath, "tuning", "", "optional YAML tuning file")
	flag.Int64Var(&seed, "seed", 1, "zone partitioner seed")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: viewer [flags] <task.desc>")
	}

	tn := solve.DefaultTuning()
	if tuningPath != "" {
		var err error
		if tn, err = solve.LoadTuning(tuningPath); err != nil {
			log.Fatalf("tuning: %v", err)
		}
	}
	tn.ZoneSeed = seed

	v, err := newViewer(flag.Arg(0), tn)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowTitle("gridwrap viewer")
	ebiten.SetWindowSize(windowW, windowH)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
