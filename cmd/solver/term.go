package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/novitzke/gridwrap/internal/solve"
)

// frameDelay paces the interactive playback.
const frameDelay = 25 * time.Millisecond

// runInteractive solves one task while rendering every turn to the terminal.
// Esc or Ctrl-C abandons the solve.
func runInteractive(task string, tn *solve.Tuning) error {
	raw, err := os.ReadFile(task)
	if err != nil {
		return err
	}
	lv, drone, err := solve.ParseDesc(string(raw))
	if err != nil {
		return err
	}
	lv.Finalize(tn.ZoneSeed)
	solver := solve.NewSolver(lv, drone, tn, nil)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	quit := make(chan struct{})
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					close(quit)
					return
				}
			case nil:
				return
			}
		}
	}()

	running := true
	for running {
		select {
		case <-quit:
			return fmt.Errorf("interrupted")
		default:
		}
		running = solver.Step()
		drawLevel(screen, solver)
		screen.Show()
		time.Sleep(frameDelay)
	}

	drawLevel(screen, solver)
	screen.Show()
	solution := solver.Solution()
	// Leave the finished grid up until Esc.
	<-quit

	if err := os.WriteFile(solPathFor(task), []byte(solution), 0o644); err != nil {
		return err
	}
	fmt.Printf("%s \tscore=%d drones=%d turns=%d\n",
		task, solve.Score(solution), len(solver.Drones), solver.Turn())
	return nil
}

var (
	styleEmpty   = tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack)
	styleBlocked = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	styleWrapped = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleMarker  = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleReach   = tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack)
)

// drawLevel renders a viewport of the grid centered near the lead drone,
// plus a status line. Grid y grows upward, screen y grows downward.
func drawLevel(screen tcell.Screen, solver *solve.Solver) {
	screen.Clear()
	sw, sh := screen.Size()
	lv := solver.Level
	lead := solver.Drones[0]

	viewH := sh - 2 - len(solver.Drones)
	if viewH < 1 {
		viewH = 1
	}
	x0 := clamp(lead.Pos.X-sw/2, 0, maxInt(0, lv.Width-sw))
	y0 := clamp(lead.Pos.Y-viewH/2, 0, maxInt(0, lv.Height-viewH))

	reach := map[solve.Point]int{}
	for i, d := range solver.Drones {
		for _, p := range solve.ReachingCells(lv, d) {
			reach[p] = i
		}
	}

	for sy := 0; sy < viewH; sy++ {
		y := y0 + viewH - 1 - sy
		if y >= lv.Height {
			continue
		}
		for sx := 0; sx < sw; sx++ {
			x := x0 + sx
			if x >= lv.Width {
				break
			}
			p := solve.Pt(x, y)
			ch, style := cellGlyph(solver, p, reach)
			screen.SetContent(sx, sy, ch, nil, style)
		}
	}

	status := fmt.Sprintf("empty=%d drones=%d turn=%d  (Esc quits)",
		lv.EmptyCount(), len(solver.Drones), solver.Turn())
	drawText(screen, 0, viewH, status, tcell.StyleDefault)
	for i, d := range solver.Drones {
		line := fmt.Sprintf("D%d zone=%d wheels=%d drill=%d at %v plan=%d",
			i, d.Zone, d.Wheels, d.Drill, d.Pos, d.PlanLen())
		drawText(screen, 0, viewH+1+i, line, tcell.StyleDefault)
	}
}

func cellGlyph(solver *solve.Solver, p solve.Point, reach map[solve.Point]int) (rune, tcell.Style) {
	lv := solver.Level
	if i, ok := reach[p]; ok {
		return rune('0' + i%10), styleReach
	}
	if b, ok := lv.Bonuses[p]; ok {
		return rune(b.Code()), styleMarker
	}
	if _, ok := lv.Spawns[p]; ok {
		return 'X', styleMarker
	}
	for i, b := range lv.Beacons {
		if b == p {
			return rune('0' + i), styleMarker
		}
	}
	switch lv.CellAt(p) {
	case solve.CellBlocked:
		return ' ', styleBlocked
	case solve.CellWrapped:
		return ' ', styleWrapped
	default:
		z := lv.ZoneAt(p)
		if z == solve.ZoneNone {
			return '-', styleEmpty
		}
		return rune('A' + int(z)%26), styleEmpty
	}
}

func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range s {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
