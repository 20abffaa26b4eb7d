package game

// CollisionSystem resolves self-trail, cross-agent-trail and wall collisions,
// plus the death bookkeeping they trigger. Checks run in roster order each
// tick, so simultaneous potential kills resolve first-evaluated-attacker-wins.
type CollisionSystem struct {
	inherit bool // killer inherits the victim's territory
}

// NewCollisionSystem creates a collision system with the given inheritance
// policy (MatchConfig.InheritTerritory).
func NewCollisionSystem(inherit bool) *CollisionSystem {
	return &CollisionSystem{inherit: inherit}
}

// CheckWalls kills any live agent outside the arena bounds (minus a small
// margin). Wall deaths have no killer and transfer no territory.
func (cs *CollisionSystem) CheckWalls(s *Simulation) {
	maxX := float64(s.grid.Cols)*tileSize - wallMargin
	maxY := float64(s.grid.Rows)*tileSize - wallMargin
	for _, a := range s.agents {
		if !a.Alive {
			continue
		}
		if a.X < wallMargin || a.X > maxX || a.Y < wallMargin || a.Y > maxY {
			s.log.Add(s.tick, a.Label, "collision", "wall",
				"left arena bounds", 0)
			cs.ResolveDeath(s, a, nil)
		}
	}
}

// CheckTrails runs the cross-agent and self-trail checks for every live
// agent, in roster order.
func (cs *CollisionSystem) CheckTrails(s *Simulation) {
	for _, attacker := range s.agents {
		if !attacker.Alive {
			continue
		}
		for _, victim := range s.agents {
			if victim == attacker || !victim.Alive {
				continue
			}
			if victim.BoostActive(s.now) {
				continue // boost immunity
			}
			d := victim.Trail.NearestDistSq(attacker.X, attacker.Y, crossSkipRecent)
			if d < trailHitRadius*trailHitRadius {
				s.log.Add(s.tick, attacker.Label, "collision", "trail_cut",
					"cut "+victim.Label, 0)
				cs.ResolveDeath(s, victim, attacker)
			}
		}
	}
	for _, a := range s.agents {
		if !a.Alive || a.Trail.Len() < selfMinTrailLen {
			continue
		}
		d := a.Trail.NearestDistSq(a.X, a.Y, selfSkipRecent)
		if d < trailHitRadius*trailHitRadius {
			s.log.Add(s.tick, a.Label, "collision", "self_cut",
				"crossed own trail", 0)
			cs.ResolveDeath(s, a, nil)
		}
	}
}

// ResolveDeath applies the full death protocol: kill credit and milestone
// boost for the killer, territory transfer or clear for the victim, then
// either match defeat (primary) or respawn (bot).
func (cs *CollisionSystem) ResolveDeath(s *Simulation, victim, killer *Agent) {
	if !victim.Alive {
		return
	}
	victim.Alive = false
	victim.Deaths++
	victim.Trail.Reset()
	s.reporter.RecordDeath(victim.ID)

	if killer != nil {
		killer.Kills++
		s.reporter.RecordKill(killer.ID)
		if killer.Kills%killsPerBoost == 0 {
			killer.grantBoost(s.now)
			s.log.Add(s.tick, killer.Label, "boost", "granted",
				"kill milestone", float64(killer.Kills))
		}
		if cs.inherit {
			s.grid.TransferTerritory(victim.ID, killer.ID)
		} else {
			s.grid.ClearOwnerTerritory(victim.ID)
		}
		s.log.Add(s.tick, victim.Label, "death", "killed",
			"by "+killer.Label, 0)
	} else {
		s.grid.ClearOwnerTerritory(victim.ID)
		s.log.Add(s.tick, victim.Label, "death", "no_killer", "", 0)
	}

	if victim == s.Primary() {
		s.outcome = OutcomeDefeat
		return
	}
	s.respawnAgent(victim)
}
