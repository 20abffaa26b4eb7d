package game

// Owner ids stored in the grid. 0 is neutral ground; live agents use 1..N.
const (
	OwnerNeutral = 0
	// OwnerOutside is the sentinel returned for out-of-bounds reads. The
	// capture flood fill relies on "outside the grid" being a readable,
	// non-owner answer rather than an error.
	OwnerOutside = -1
)

// debugChecks promotes invariant violations (bad owner ids, negative counts)
// to panics. Release builds clamp instead and keep the match running.
const debugChecks = false

// TerritoryGrid is the authoritative tile-ownership store. It is row-major
// and keeps an incrementally maintained per-owner tile count so ownership
// percentages never require a rescan. All mutation goes through Set or the
// bulk operations below; nothing else writes the backing array.
type TerritoryGrid struct {
	Cols int
	Rows int

	owners []uint8 // row-major: index = cy*Cols + cx
	counts []int   // counts[id] = tiles owned by id; counts[0] = neutral tiles
}

// NewTerritoryGrid creates an all-neutral grid supporting owner ids 1..maxOwners.
func NewTerritoryGrid(cols, rows, maxOwners int) *TerritoryGrid {
	g := &TerritoryGrid{
		Cols:   cols,
		Rows:   rows,
		owners: make([]uint8, cols*rows),
		counts: make([]int, maxOwners+1),
	}
	g.counts[OwnerNeutral] = cols * rows
	return g
}

// InBounds returns true if (cx, cy) is a valid tile coordinate.
func (g *TerritoryGrid) InBounds(cx, cy int) bool {
	return cx >= 0 && cx < g.Cols && cy >= 0 && cy < g.Rows
}

func (g *TerritoryGrid) validOwner(id int) bool {
	return id >= 0 && id < len(g.counts)
}

// Get returns the owner id at (cx, cy), or OwnerOutside for out-of-bounds.
func (g *TerritoryGrid) Get(cx, cy int) int {
	if !g.InBounds(cx, cy) {
		return OwnerOutside
	}
	return int(g.owners[cy*g.Cols+cx])
}

// Set assigns the tile at (cx, cy) to owner, adjusting the per-owner counts
// incrementally. Out-of-bounds coordinates and invalid owner ids are no-ops.
func (g *TerritoryGrid) Set(cx, cy, owner int) {
	if !g.InBounds(cx, cy) {
		return
	}
	if !g.validOwner(owner) {
		if debugChecks {
			panic("TerritoryGrid.Set: owner id out of range")
		}
		return
	}
	idx := cy*g.Cols + cx
	prev := int(g.owners[idx])
	if prev == owner {
		return
	}
	g.owners[idx] = uint8(owner)
	g.counts[prev]--
	g.counts[owner]++
	if debugChecks && g.counts[prev] < 0 {
		panic("TerritoryGrid: negative tile count")
	}
}

// Total returns the total number of tiles in the arena.
func (g *TerritoryGrid) Total() int {
	return g.Cols * g.Rows
}

// Count returns the cached tile count for an owner. Invalid ids count zero.
func (g *TerritoryGrid) Count(owner int) int {
	if !g.validOwner(owner) {
		return 0
	}
	return g.counts[owner]
}

// OwnershipPercentage returns the owner's share of the arena in percent.
func (g *TerritoryGrid) OwnershipPercentage(owner int) float64 {
	return float64(g.Count(owner)) / float64(g.Total()) * 100
}

// BorderTiles returns every tile owned by id that has at least one
// four-connected neighbour not owned by id. Off-grid neighbours count as
// "not owned", so tiles on the arena edge are border tiles.
func (g *TerritoryGrid) BorderTiles(id int) [][2]int {
	var out [][2]int
	if !g.validOwner(id) || id == OwnerNeutral || g.counts[id] == 0 {
		return out
	}
	for cy := 0; cy < g.Rows; cy++ {
		for cx := 0; cx < g.Cols; cx++ {
			if int(g.owners[cy*g.Cols+cx]) != id {
				continue
			}
			if g.Get(cx-1, cy) != id || g.Get(cx+1, cy) != id ||
				g.Get(cx, cy-1) != id || g.Get(cx, cy+1) != id {
				out = append(out, [2]int{cx, cy})
			}
		}
	}
	return out
}

// TransferTerritory bulk-rewrites every tile owned by from to to. The whole
// pass either runs to completion or, for invalid ids, does nothing.
func (g *TerritoryGrid) TransferTerritory(from, to int) {
	if !g.validOwner(from) || !g.validOwner(to) {
		if debugChecks {
			panic("TerritoryGrid.TransferTerritory: owner id out of range")
		}
		return
	}
	if from == to || g.counts[from] == 0 {
		return
	}
	for i := range g.owners {
		if int(g.owners[i]) == from {
			g.owners[i] = uint8(to)
		}
	}
	g.counts[to] += g.counts[from]
	g.counts[from] = 0
}

// ClearOwnerTerritory bulk-resets every tile owned by id back to neutral.
func (g *TerritoryGrid) ClearOwnerTerritory(id int) {
	g.TransferTerritory(id, OwnerNeutral)
}

// SeedDisk assigns a filled disk of radius r tiles around (cx, cy) to owner.
// Used for starting territories and respawns.
func (g *TerritoryGrid) SeedDisk(cx, cy, r, owner int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				g.Set(cx+dx, cy+dy, owner)
			}
		}
	}
}

// RescanCounts recomputes per-owner counts from the backing array. It exists
// for cache-correctness checks; the engine itself never calls it.
func (g *TerritoryGrid) RescanCounts() []int {
	counts := make([]int, len(g.counts))
	for _, o := range g.owners {
		counts[o]++
	}
	return counts
}
