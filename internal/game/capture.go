package game

import (
	"math"
	"time"
)

// Local fill-grid cell states. Everything still fillUnknown once the outside
// fill finishes is enclosed.
const (
	fillUnknown uint8 = iota
	fillBarrier       // existing territory of the capturing owner
	fillTrail         // rasterized trail cell (barrier for the fill, annexed after)
	fillOutside       // reachable from the bounding box edge
)

// CaptureJob is an immutable snapshot of a closed trail awaiting flood-fill
// resolution. The point slice is copied at enqueue time so later trail
// mutation cannot affect a queued job.
type CaptureJob struct {
	Owner  int
	Points [][2]float64
	EndX   float64
	EndY   float64
}

// CaptureEngine converts closed trails into grid annexation. Jobs are
// processed FIFO under a wall-clock budget per tick; a job always runs to
// completion once started. The local fill grid is a reusable flat buffer so
// bursts of captures do not churn allocations.
type CaptureEngine struct {
	grid  *TerritoryGrid
	queue []CaptureJob

	fill []uint8
	bfs  [][2]int
}

// NewCaptureEngine creates an engine bound to grid.
func NewCaptureEngine(grid *TerritoryGrid) *CaptureEngine {
	return &CaptureEngine{grid: grid}
}

// Enqueue snapshots the trail as a job. Trails under 3 points enclose
// nothing and are silently dropped.
func (ce *CaptureEngine) Enqueue(owner int, trail *Trail, endX, endY float64) {
	if trail.Len() < 3 {
		return
	}
	pts := make([][2]float64, trail.Len())
	copy(pts, trail.Points())
	ce.queue = append(ce.queue, CaptureJob{Owner: owner, Points: pts, EndX: endX, EndY: endY})
}

// QueueLen returns the number of pending jobs.
func (ce *CaptureEngine) QueueLen() int {
	return len(ce.queue)
}

// Backlogged reports whether jobs rolled over from a previous tick.
func (ce *CaptureEngine) Backlogged() bool {
	return len(ce.queue) > 0
}

// DiscardQueue drops all pending jobs. Called on match restart; queued jobs
// are never drained against a dead grid.
func (ce *CaptureEngine) DiscardQueue() {
	ce.queue = ce.queue[:0]
}

// CaptureResult reports one completed job.
type CaptureResult struct {
	Owner int
	Tiles int
}

// Drain processes queued jobs FIFO until the queue empties or the wall-clock
// budget is spent. At least one job runs whenever the queue is non-empty, so
// a too-small budget degrades to one capture per tick rather than starvation.
func (ce *CaptureEngine) Drain(budget time.Duration) []CaptureResult {
	var done []CaptureResult
	start := time.Now()
	for len(ce.queue) > 0 {
		if len(done) > 0 && time.Since(start) >= budget {
			break
		}
		job := ce.queue[0]
		ce.queue = ce.queue[1:]
		done = append(done, CaptureResult{Owner: job.Owner, Tiles: ce.runJob(job)})
	}
	return done
}

// runJob performs one complete capture: joint bounding box over the trail and
// all of the owner's existing territory, thick trail rasterization, outside
// flood fill from the box edges, then annexation of whatever stayed enclosed.
func (ce *CaptureEngine) runJob(job CaptureJob) int {
	g := ce.grid
	if len(job.Points) < 3 {
		return 0
	}

	// Trail world points → tile coordinates, with the re-entry position
	// appended so the loop closes into the owner's territory.
	tiles := make([][2]int, 0, len(job.Points)+1)
	for _, p := range job.Points {
		tiles = append(tiles, [2]int{tileCoord(p[0]), tileCoord(p[1])})
	}
	tiles = append(tiles, [2]int{tileCoord(job.EndX), tileCoord(job.EndY)})

	minX, minY := tiles[0][0], tiles[0][1]
	maxX, maxY := minX, minY
	for _, tc := range tiles[1:] {
		minX = min(minX, tc[0])
		maxX = max(maxX, tc[0])
		minY = min(minY, tc[1])
		maxY = max(maxY, tc[1])
	}

	// Grow the box to cover every tile the owner already holds. Disjoint
	// owned blobs and the new loop have to be reasoned about jointly or the
	// fill leaves unreachable pockets between them.
	for cy := 0; cy < g.Rows; cy++ {
		for cx := 0; cx < g.Cols; cx++ {
			if g.Get(cx, cy) == job.Owner {
				minX = min(minX, cx)
				maxX = max(maxX, cx)
				minY = min(minY, cy)
				maxY = max(maxY, cy)
			}
		}
	}

	minX = max(minX-captureBoxPadding, 0)
	minY = max(minY-captureBoxPadding, 0)
	maxX = min(maxX+captureBoxPadding, g.Cols-1)
	maxY = min(maxY+captureBoxPadding, g.Rows-1)

	w := maxX - minX + 1
	h := maxY - minY + 1
	if cap(ce.fill) < w*h {
		ce.fill = make([]uint8, w*h)
	}
	fill := ce.fill[:w*h]
	for i := range fill {
		fill[i] = fillUnknown
	}

	// Existing territory is barrier: the fill cannot pass through it, which
	// is what makes "the smaller side gets captured" fall out for free.
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			if g.Get(cx, cy) == job.Owner {
				fill[(cx-minX)+(cy-minY)*w] = fillBarrier
			}
		}
	}

	// Rasterize the trail as a thick line so diagonal steps cannot leak.
	for i := 0; i+1 < len(tiles); i++ {
		rasterLine(fill, w, h, minX, minY,
			tiles[i][0], tiles[i][1], tiles[i+1][0], tiles[i+1][1])
	}

	// Flood "outside" from every still-unknown cell on the box edges.
	ce.bfs = ce.bfs[:0]
	seed := func(lx, ly int) {
		if fill[lx+ly*w] == fillUnknown {
			fill[lx+ly*w] = fillOutside
			ce.bfs = append(ce.bfs, [2]int{lx, ly})
		}
	}
	for lx := 0; lx < w; lx++ {
		seed(lx, 0)
		seed(lx, h-1)
	}
	for ly := 0; ly < h; ly++ {
		seed(0, ly)
		seed(w-1, ly)
	}
	for len(ce.bfs) > 0 {
		c := ce.bfs[0]
		ce.bfs = ce.bfs[1:]
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := c[0]+d[0], c[1]+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if fill[nx+ny*w] == fillUnknown {
				fill[nx+ny*w] = fillOutside
				ce.bfs = append(ce.bfs, [2]int{nx, ny})
			}
		}
	}

	// Annex: enclosed interior plus the loop boundary itself.
	annexed := 0
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			cx, cy := lx+minX, ly+minY
			switch fill[lx+ly*w] {
			case fillUnknown:
				if g.Get(cx, cy) != job.Owner {
					g.Set(cx, cy, job.Owner)
					annexed++
				}
			case fillTrail:
				if g.Get(cx, cy) != job.Owner {
					g.Set(cx, cy, job.Owner)
					annexed++
				}
			}
		}
	}
	return annexed
}

// rasterLine plots the integer line (x0,y0)-(x1,y1) into the fill buffer,
// stamping a (2*trailRasterHalfWidth+1)² block per step. Coordinates are
// grid-space; the buffer is offset by (minX, minY).
func rasterLine(fill []uint8, w, h, minX, minY, x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		stamp(fill, w, h, x0-minX, y0-minY)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// stamp marks a small block around (lx, ly) as trail. Existing barrier cells
// stay barrier; they are already owned.
func stamp(fill []uint8, w, h, lx, ly int) {
	for dy := -trailRasterHalfWidth; dy <= trailRasterHalfWidth; dy++ {
		for dx := -trailRasterHalfWidth; dx <= trailRasterHalfWidth; dx++ {
			nx, ny := lx+dx, ly+dy
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if fill[nx+ny*w] == fillUnknown {
				fill[nx+ny*w] = fillTrail
			}
		}
	}
}

// OrphanSweep scans the whole grid for neutral tiles whose four-connected
// neighbourhood is a single owner and/or the arena edge, and annexes them to
// that owner. Prevents unreachable neutral pockets from blocking 100%
// ownership. Returns tiles annexed.
func (ce *CaptureEngine) OrphanSweep() int {
	g := ce.grid
	annexed := 0
	for cy := 0; cy < g.Rows; cy++ {
		for cx := 0; cx < g.Cols; cx++ {
			if g.Get(cx, cy) != OwnerNeutral {
				continue
			}
			owner := OwnerNeutral
			enclosed := true
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				n := g.Get(cx+d[0], cy+d[1])
				if n == OwnerOutside {
					continue // the arena edge counts as enclosing
				}
				if n == OwnerNeutral || (owner != OwnerNeutral && n != owner) {
					enclosed = false
					break
				}
				owner = n
			}
			if enclosed && owner != OwnerNeutral {
				g.Set(cx, cy, owner)
				annexed++
			}
		}
	}
	return annexed
}

// tileCoord converts a world coordinate to a tile coordinate.
func tileCoord(v float64) int {
	return int(math.Floor(v / tileSize))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
