package solve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Level description format: four #-separated sections.
//
//	contour # start # obstacles # bonuses
//
// contour and each ;-separated obstacle are closed lattice polygons given as
// point lists; the interior of the contour minus the obstacle interiors is
// the empty area. start is the first drone's cell. bonuses are ;-separated
// codes: B hand, F wheels, L drill, R teleport, C clone, X spawn pad.

var (
	pointRe = regexp.MustCompile(`\((-?\d+),(-?\d+)\)`)
	// Anchored: a bonus list item is exactly one code and one point.
	bonusRe = regexp.MustCompile(`^([BFLRCX])\((-?\d+),(-?\d+)\)$`)
)

// vEdge is a vertical polygon edge, arranged bottom-up. Horizontal edges
// never decide interior-ness in the scanline fill and are dropped.
type vEdge struct {
	x      int
	y0, y1 int // y0 < y1
}

// ParseDesc parses a level description into an unfinalized Level and the
// starting drone. Callers run Level.Finalize before solving.
func ParseDesc(input string) (*Level, *Drone, error) {
	parts := strings.Split(strings.TrimSpace(input), "#")
	if len(parts) != 4 {
		return nil, nil, fmt.Errorf("desc: want 4 #-separated sections, got %d", len(parts))
	}
	contour, startStr, obstacles, bonuses := parts[0], parts[1], parts[2], parts[3]

	edges, err := parseContour(contour)
	if err != nil {
		return nil, nil, fmt.Errorf("desc: contour: %w", err)
	}
	if len(edges) == 0 {
		return nil, nil, fmt.Errorf("desc: empty contour")
	}
	for _, s := range splitList(obstacles) {
		obs, err := parseContour(s)
		if err != nil {
			return nil, nil, fmt.Errorf("desc: obstacle: %w", err)
		}
		edges = append(edges, obs...)
	}

	lv, err := buildGrid(edges)
	if err != nil {
		return nil, nil, err
	}

	for _, s := range splitList(bonuses) {
		m := bonusRe.FindStringSubmatch(s)
		if m == nil {
			return nil, nil, fmt.Errorf("desc: bad bonus %q", s)
		}
		p := Pt(atoi(m[2]), atoi(m[3]))
		if !lv.InBounds(p) {
			return nil, nil, fmt.Errorf("desc: bonus %q outside the level", s)
		}
		if m[1] == "X" {
			lv.Spawns[p] = struct{}{}
			continue
		}
		var b Bonus
		switch m[1] {
		case "B":
			b = BonusHand
		case "F":
			b = BonusWheels
		case "L":
			b = BonusDrill
		case "R":
			b = BonusTeleport
		case "C":
			b = BonusClone
		}
		lv.Bonuses[p] = b
	}

	start, err := parsePoint(startStr)
	if err != nil {
		return nil, nil, fmt.Errorf("desc: start: %w", err)
	}
	if !lv.Walkable(start) {
		return nil, nil, fmt.Errorf("desc: start %v is not walkable", start)
	}
	return lv, NewDrone(start), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s) // regexp already guarantees digits
	return n
}

func parsePoint(s string) (Point, error) {
	m := pointRe.FindStringSubmatch(s)
	if m == nil {
		return Point{}, fmt.Errorf("bad point %q", s)
	}
	return Pt(atoi(m[1]), atoi(m[2])), nil
}

// parseContour extracts the polygon's vertical edges.
func parseContour(s string) ([]vEdge, error) {
	ms := pointRe.FindAllStringSubmatch(s, -1)
	if len(ms) == 0 {
		return nil, nil
	}
	pts := make([]Point, len(ms))
	for i, m := range ms {
		pts[i] = Pt(atoi(m[1]), atoi(m[2]))
	}
	var edges []vEdge
	for i, p1 := range pts {
		p2 := pts[(i+1)%len(pts)]
		switch {
		case p1.X != p2.X && p1.Y != p2.Y:
			return nil, fmt.Errorf("diagonal edge %v-%v", p1, p2)
		case p1.Y == p2.Y:
			// horizontal, irrelevant to the fill
		case p1.Y < p2.Y:
			edges = append(edges, vEdge{x: p1.X, y0: p1.Y, y1: p2.Y})
		default:
			edges = append(edges, vEdge{x: p1.X, y0: p2.Y, y1: p1.Y})
		}
	}
	return edges, nil
}

// wallOnLeft reports whether a vertical edge runs along the left side of
// cell (x, y).
func wallOnLeft(x, y int, edges []vEdge) bool {
	for _, e := range edges {
		if e.x == x && e.y0 <= y && e.y1 >= y+1 {
			return true
		}
	}
	return false
}

// buildGrid rasterizes the edge set with a parity scanline: each row starts
// Blocked and toggles at every vertical edge crossed.
func buildGrid(edges []vEdge) (*Level, error) {
	width, height := 0, 0
	for _, e := range edges {
		if e.x > width {
			width = e.x
		}
		if e.y1 > height {
			height = e.y1
		}
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("desc: degenerate contour")
	}

	lv := NewLevel(width, height)
	for y := 0; y < height; y++ {
		inside := false
		for x := 0; x < width; x++ {
			if wallOnLeft(x, y, edges) {
				inside = !inside
			}
			if !inside {
				lv.SetBlocked(Pt(x, y))
			}
		}
		if wallOnLeft(width, y, edges) != inside {
			return nil, fmt.Errorf("desc: unclosed contour at row %d", y)
		}
	}
	return lv, nil
}
