package game

import "math/rand"

// ShrinkRegulator penalizes camping: sitting inside your own territory
// without drawing a trail. Each agent carries a camping timer that rises
// while idle at home and falls back at the same rate otherwise; past a
// threshold, border tiles start eroding at a fixed rate.
type ShrinkRegulator struct {
	campTime []float64 // seconds of accumulated camping, floored at zero
	accum    []float64 // fractional tiles owed while shrinking
	rng      *rand.Rand
}

// NewShrinkRegulator sizes the per-agent timers for ids 0..maxID. The rng is
// the simulation's seeded source, so tile choice reproduces under a fixed seed.
func NewShrinkRegulator(maxID int, rng *rand.Rand) *ShrinkRegulator {
	return &ShrinkRegulator{
		campTime: make([]float64, maxID+1),
		accum:    make([]float64, maxID+1),
		rng:      rng,
	}
}

// Reset zeroes all timers. Called on match restart.
func (sr *ShrinkRegulator) Reset() {
	for i := range sr.campTime {
		sr.campTime[i] = 0
		sr.accum[i] = 0
	}
}

// CampTime returns the current camping timer for an agent id.
func (sr *ShrinkRegulator) CampTime(id int) float64 {
	if id < 0 || id >= len(sr.campTime) {
		return 0
	}
	return sr.campTime[id]
}

// Update advances every agent's camping timer and removes border tiles for
// agents past the threshold. The tile under the agent itself is never taken,
// so a shrinking agent cannot be landlocked in place.
func (sr *ShrinkRegulator) Update(s *Simulation, dt float64) {
	for _, a := range s.agents {
		if a.ID >= len(sr.campTime) {
			continue
		}
		camping := a.Alive && a.Trail.Len() == 0 && s.grid.Get(a.TileX(), a.TileY()) == a.ID
		if camping {
			sr.campTime[a.ID] += dt
		} else {
			sr.campTime[a.ID] -= dt
			if sr.campTime[a.ID] < 0 {
				sr.campTime[a.ID] = 0
			}
			sr.accum[a.ID] = 0
			continue
		}
		if sr.campTime[a.ID] <= campThresholdSecs {
			continue
		}

		sr.accum[a.ID] += shrinkTilesPerSec * dt
		removed := 0
		for sr.accum[a.ID] >= 1 {
			sr.accum[a.ID]--
			if sr.removeBorderTile(s, a) {
				removed++
			}
		}
		if removed > 0 {
			s.log.Add(s.tick, a.Label, "shrink", "tiles_removed", "", float64(removed))
		}
	}
}

// removeBorderTile clears one border tile chosen uniformly at random,
// excluding the tile the agent is standing on. Returns false if no tile was
// eligible.
func (sr *ShrinkRegulator) removeBorderTile(s *Simulation, a *Agent) bool {
	border := s.grid.BorderTiles(a.ID)
	if len(border) == 0 {
		return false
	}
	ax, ay := a.TileX(), a.TileY()
	// Random start, linear probe past the agent's own tile.
	start := sr.rng.Intn(len(border))
	for i := 0; i < len(border); i++ {
		tc := border[(start+i)%len(border)]
		if tc[0] == ax && tc[1] == ay {
			continue
		}
		s.grid.Set(tc[0], tc[1], OwnerNeutral)
		return true
	}
	return false
}
