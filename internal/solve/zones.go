package solve

import "math/rand"

// partitionZones labels every Empty cell with one of n zone ids by
// multi-source flood fill from n random distinct empty seeds. First come
// first served; ties break by FIFO order of the fill queue, so the result is
// fully determined by the rng.
//
// Empty pockets unreachable from any seed (walled-off rooms) are filled by
// follow-up floods, cycling through the zone ids so no zone id ever points
// at zero territory unless the map truly runs out of pockets.
func (lv *Level) partitionZones(n int, rng *rand.Rand) {
	lv.zoneEmpty = make([]int, n)

	emptyCells := make([]Point, 0, lv.empty)
	for y := 0; y < lv.Height; y++ {
		for x := 0; x < lv.Width; x++ {
			if lv.grid[y*lv.Width+x] == CellEmpty {
				emptyCells = append(emptyCells, Pt(x, y))
			}
		}
	}
	if len(emptyCells) == 0 {
		return
	}
	if n > len(emptyCells) {
		n = len(emptyCells)
		lv.zoneEmpty = lv.zoneEmpty[:n]
	}

	// Distinct random seeds, one per zone.
	seeds := make([]Point, 0, n)
	taken := map[int]struct{}{}
	for len(seeds) < n {
		i := rng.Intn(len(emptyCells))
		if _, dup := taken[i]; dup {
			continue
		}
		taken[i] = struct{}{}
		seeds = append(seeds, emptyCells[i])
	}

	queue := make([]Point, 0, len(emptyCells))
	for z, s := range seeds {
		lv.zones[lv.idx(s)] = ZoneID(z)
		queue = append(queue, s)
	}
	lv.flood(queue)

	// Sweep for walled-off pockets the main fill could not reach.
	nextZone := 0
	for _, p := range emptyCells {
		if lv.zones[lv.idx(p)] != ZoneNone {
			continue
		}
		lv.zones[lv.idx(p)] = ZoneID(nextZone)
		lv.flood([]Point{p})
		nextZone = (nextZone + 1) % n
	}

	for _, p := range emptyCells {
		lv.zoneEmpty[lv.zones[lv.idx(p)]]++
	}
}

// flood spreads each queued cell's zone to 4-connected Empty neighbours.
func (lv *Level) flood(queue []Point) {
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		z := lv.zones[lv.idx(p)]
		for _, d := range [4]Point{{-1, 0}, {1, 0}, {0, 1}, {0, -1}} {
			q := p.Add(d)
			if !lv.InBounds(q) || lv.grid[lv.idx(q)] != CellEmpty {
				continue
			}
			if lv.zones[lv.idx(q)] != ZoneNone {
				continue
			}
			lv.zones[lv.idx(q)] = z
			queue = append(queue, q)
		}
	}
}
