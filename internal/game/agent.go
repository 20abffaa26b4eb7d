package game

import "math"

// Agent is one contestant: the primary agent or a bot. Agents live in the
// simulation's roster and are referenced by index/id only; the grid stores
// the same id as tile owner.
type Agent struct {
	ID    int
	Label string // "P" for the primary, "B1".. for bots

	X, Y          float64
	Heading       float64
	TargetHeading float64
	Speed         float64
	Alive         bool

	Trail Trail

	Kills      int
	Deaths     int
	BoostUntil float64 // simulation time when the current boost expires

	IsBot bool
	bot   *botController // nil for an externally driven primary
}

// BoostActive reports whether the agent's speed/immunity boost is live.
func (a *Agent) BoostActive(now float64) bool {
	return a.Alive && now < a.BoostUntil
}

// grantBoost starts (or extends) the boost window.
func (a *Agent) grantBoost(now float64) {
	a.BoostUntil = now + boostSecs
}

// TileX returns the tile column under the agent.
func (a *Agent) TileX() int { return int(math.Floor(a.X / tileSize)) }

// TileY returns the tile row under the agent.
func (a *Agent) TileY() int { return int(math.Floor(a.Y / tileSize)) }

// integrate advances the agent one step: turn toward TargetHeading at the
// bounded turn rate, then move forward. Bots and the primary share this.
func (a *Agent) integrate(dt, now float64) {
	if !a.Alive {
		return
	}
	diff := normalizeAngle(a.TargetHeading - a.Heading)
	maxTurn := turnRate * dt
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	a.Heading = normalizeAngle(a.Heading + diff)

	speed := a.Speed
	if a.BoostActive(now) {
		speed = boostSpeed
	}
	a.X += math.Cos(a.Heading) * speed * dt
	a.Y += math.Sin(a.Heading) * speed * dt
}
