package game

import (
	"math"
	"math/rand"
)

// BotState is the high-level behaviour state of one bot.
type BotState int

const (
	BotWander  BotState = iota // drift across own territory
	BotExpand                  // leave home and loop new land
	BotHarass                  // hunt another agent's trail
	BotRetreat                 // head back to own territory
	BotFlee                    // danger high while exposed: run home fast
)

func (bs BotState) String() string {
	switch bs {
	case BotWander:
		return "wander"
	case BotExpand:
		return "expand"
	case BotHarass:
		return "harass"
	case BotRetreat:
		return "retreat"
	case BotFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// Harass target scoring weights.
const (
	harassTrailWeight     = 0.6  // per trail point
	harassProximityWeight = 30.0 // inverse-distance to the oldest segment
	harassPrimaryBonus    = 8.0  // the primary agent is the prize target
	harassTerritoryWeight = 0.4  // per ownership percent
	harassMinScore        = 10.0
	harassScoreNorm       = 60.0 // score at which harass probability saturates
)

// Danger evaluation weights.
const (
	dangerEnemyWeight = 120.0 // inverse-distance term per enemy
	dangerEdgeWeight  = 40.0  // inverse-distance term for the arena edge
	lookaheadStep     = 2 * tileSize
)

// botTuning is the per-difficulty behaviour table. Per-bot personality is
// this plus a seeded random offset, so a tier still produces varied bots
// that reproduce exactly under a fixed match seed.
type botTuning struct {
	Aggression     float64 // base harass appetite, 0..1
	TrailLimit     float64 // trail points before retreat triggers
	DangerLimit    float64 // danger level before flee triggers
	DecisionTicks  int     // ticks between state re-evaluations
	LookaheadSteps int     // probes along the heading for self-trail avoidance
	EscapeAngles   int     // candidate escape headings when a probe hits
	ExpandSamples  int     // candidate directions scored when expanding
	ExpandDist     float64 // world-space distance of an expansion leg
}

func tuningFor(tier DifficultyTier) botTuning {
	switch tier {
	case DifficultyEasy:
		return botTuning{
			Aggression:     0.15,
			TrailLimit:     22,
			DangerLimit:    9.0,
			DecisionTicks:  36,
			LookaheadSteps: 2,
			EscapeAngles:   4,
			ExpandSamples:  4,
			ExpandDist:     12 * tileSize,
		}
	case DifficultyHard:
		return botTuning{
			Aggression:     0.65,
			TrailLimit:     40,
			DangerLimit:    14.0,
			DecisionTicks:  18,
			LookaheadSteps: 5,
			EscapeAngles:   10,
			ExpandSamples:  8,
			ExpandDist:     18 * tileSize,
		}
	default:
		return botTuning{
			Aggression:     0.35,
			TrailLimit:     30,
			DangerLimit:    11.0,
			DecisionTicks:  24,
			LookaheadSteps: 3,
			EscapeAngles:   6,
			ExpandSamples:  6,
			ExpandDist:     15 * tileSize,
		}
	}
}

// botController drives one bot. It produces a movement target each decision
// interval and steers toward it every tick; it never writes a velocity.
type botController struct {
	tuning botTuning

	// Personality: tier values with a per-instance seeded offset.
	aggression float64
	trailLimit float64

	state        BotState
	nextDecision int
	targetX      float64
	targetY      float64
	harassID     int // victim agent id, -1 when not harassing
	excursion    bool

	rng *rand.Rand
}

// newBotController draws the bot's personality from the simulation's seeded
// source, then gives the bot its own derived stream for later decisions.
func newBotController(tier DifficultyTier, src *rand.Rand) *botController {
	bc := &botController{
		tuning:   tuningFor(tier),
		harassID: -1,
		rng:      rand.New(rand.NewSource(src.Int63())), // #nosec G404 -- seeded game rng
	}
	bc.aggression = clamp(bc.tuning.Aggression+(bc.rng.Float64()-0.5)*0.2, 0.05, 0.95)
	bc.trailLimit = bc.tuning.TrailLimit * (0.8 + bc.rng.Float64()*0.4)
	// Stagger first decisions so bots don't re-evaluate on the same tick.
	bc.nextDecision = bc.rng.Intn(bc.tuning.DecisionTicks)
	return bc
}

// Think runs the decision interval when due, then converts the current
// movement target into a target heading via the two safety passes. Steering
// itself happens in Agent.integrate with the shared turn-rate limit.
func (bc *botController) Think(s *Simulation, a *Agent) {
	if a.Trail.Len() > 0 {
		bc.excursion = true
	}
	if s.tick >= bc.nextDecision {
		bc.decide(s, a)
		bc.nextDecision = s.tick + bc.tuning.DecisionTicks
	}

	tx, ty := bc.avoidBoundary(s, bc.targetX, bc.targetY)
	heading := HeadingTo(a.X, a.Y, tx, ty)
	a.TargetHeading = bc.avoidOwnTrail(a, heading)
}

// decide re-evaluates the state machine in strict priority order:
// flee > retreat > harass > the wander/expand transition table.
func (bc *botController) decide(s *Simulation, a *Agent) {
	prev := bc.state
	danger := bc.dangerLevel(s, a)
	trailLen := float64(a.Trail.Len())

	switch {
	case danger > bc.tuning.DangerLimit && trailLen > 0:
		bc.state = BotFlee
	case trailLen > bc.trailLimit:
		bc.state = BotRetreat
	case bc.tryHarass(s, a):
		bc.state = BotHarass
	default:
		bc.state = bc.defaultTransition(s, a)
	}

	switch bc.state {
	case BotWander:
		bc.targetX, bc.targetY = bc.wanderTarget(s, a)
	case BotExpand:
		bc.targetX, bc.targetY = bc.expandTarget(s, a)
	case BotHarass:
		bc.targetX, bc.targetY = bc.harassPoint(s)
	case BotRetreat:
		bc.targetX, bc.targetY = bc.retreatTarget(s, a)
	case BotFlee:
		bc.targetX, bc.targetY = bc.fleeTarget(s, a)
	}

	if bc.state != prev {
		s.log.AddVerbose(s.tick, a.Label, "bot", "state_change",
			prev.String()+" → "+bc.state.String(), danger)
	}
}

// defaultTransition is the wander↔expand cycle. An excursion that ended
// (trail cleared, back inside own land) always resets to wander.
func (bc *botController) defaultTransition(s *Simulation, a *Agent) BotState {
	inside := s.grid.Get(a.TileX(), a.TileY()) == a.ID
	home := inside && a.Trail.Len() == 0

	switch bc.state {
	case BotHarass, BotFlee, BotRetreat:
		if home {
			bc.harassID = -1
			bc.excursion = false
			return BotWander
		}
		return BotRetreat
	case BotExpand:
		if home && bc.excursion {
			bc.excursion = false
			return BotWander
		}
		return BotExpand
	default: // BotWander
		if distSq(a.X, a.Y, bc.targetX, bc.targetY) < tileSize*tileSize {
			return BotExpand
		}
		return BotWander
	}
}

// dangerLevel is a weighted inverse-distance sum from live enemies to this
// bot's trail (or to the bot itself when no trail is down), plus an
// edge-proximity term.
func (bc *botController) dangerLevel(s *Simulation, a *Agent) float64 {
	danger := 0.0
	for _, e := range s.agents {
		if e == a || !e.Alive {
			continue
		}
		var dist float64
		if a.Trail.Len() > 0 {
			dist = math.Sqrt(a.Trail.NearestDistSq(e.X, e.Y, 0))
		} else {
			dist = math.Sqrt(distSq(a.X, a.Y, e.X, e.Y))
		}
		danger += dangerEnemyWeight / (dist/tileSize + 1)
	}
	w := float64(s.grid.Cols) * tileSize
	h := float64(s.grid.Rows) * tileSize
	edge := math.Min(math.Min(a.X, w-a.X), math.Min(a.Y, h-a.Y))
	danger += dangerEdgeWeight / (edge/tileSize + 1)
	return danger
}

// tryHarass searches for a victim and rolls against an aggression-weighted
// probability. Higher-scoring (more vulnerable) targets are chased more often.
func (bc *botController) tryHarass(s *Simulation, a *Agent) bool {
	id, score := bc.findHarassTarget(s, a)
	if id < 0 {
		return false
	}
	p := bc.aggression * math.Min(score/harassScoreNorm, 1)
	if bc.rng.Float64() >= p {
		return false
	}
	bc.harassID = id
	return true
}

// findHarassTarget scores every live agent with a trail down: longer trails,
// closer oldest segments, the primary agent, and bigger territories all score
// higher. Targets under the minimum score are not worth leaving home for.
func (bc *botController) findHarassTarget(s *Simulation, a *Agent) (int, float64) {
	bestID := -1
	bestScore := 0.0
	for _, v := range s.agents {
		if v == a || !v.Alive || v.Trail.Len() == 0 {
			continue
		}
		oldest, _ := v.Trail.Oldest()
		d := math.Sqrt(distSq(a.X, a.Y, oldest[0], oldest[1]))

		score := float64(v.Trail.Len()) * harassTrailWeight
		score += harassProximityWeight / (d/tileSize + 1)
		if !v.IsBot {
			score += harassPrimaryBonus
		}
		score += s.grid.OwnershipPercentage(v.ID) * harassTerritoryWeight
		if score > bestScore {
			bestID, bestScore = v.ID, score
		}
	}
	if bestScore < harassMinScore {
		return -1, 0
	}
	return bestID, bestScore
}

// wanderTarget picks a random tile inside the bot's own territory.
func (bc *botController) wanderTarget(s *Simulation, a *Agent) (float64, float64) {
	for i := 0; i < 24; i++ {
		cx := bc.rng.Intn(s.grid.Cols)
		cy := bc.rng.Intn(s.grid.Rows)
		if s.grid.Get(cx, cy) == a.ID {
			return tileCenter(cx), tileCenter(cy)
		}
	}
	return a.X, a.Y
}

// expandTarget scores several sampled directions and returns the endpoint of
// the best leg. Neutral and enemy land score above the bot's own.
func (bc *botController) expandTarget(s *Simulation, a *Agent) (float64, float64) {
	bestX, bestY := a.X, a.Y
	bestScore := math.Inf(-1)
	base := bc.rng.Float64() * 2 * math.Pi
	for i := 0; i < bc.tuning.ExpandSamples; i++ {
		ang := base + float64(i)*2*math.Pi/float64(bc.tuning.ExpandSamples)
		ex := a.X + math.Cos(ang)*bc.tuning.ExpandDist
		ey := a.Y + math.Sin(ang)*bc.tuning.ExpandDist

		score := 0.0
		steps := int(bc.tuning.ExpandDist / tileSize)
		for st := 1; st <= steps; st++ {
			px := a.X + math.Cos(ang)*float64(st)*tileSize
			py := a.Y + math.Sin(ang)*float64(st)*tileSize
			switch owner := s.grid.Get(tileCoord(px), tileCoord(py)); {
			case owner == OwnerOutside:
				score -= 3 // walking off the arena is death
			case owner == OwnerNeutral:
				score += 1
			case owner != a.ID:
				score += 1.5 // taking enemy land also hurts them
			default:
				score -= 0.5
			}
		}
		if score > bestScore {
			bestScore, bestX, bestY = score, ex, ey
		}
	}
	return bestX, bestY
}

// harassPoint aims near the victim's oldest trail segment, weighted further
// toward the victim's home territory as the trail grows (a long trail means
// the victim is far out and the cut near its base is safest).
func (bc *botController) harassPoint(s *Simulation) (float64, float64) {
	v := s.Agent(bc.harassID)
	if v == nil || !v.Alive || v.Trail.Len() == 0 {
		bc.harassID = -1
		return bc.targetX, bc.targetY
	}
	oldest, _ := v.Trail.Oldest()
	hx, hy := s.territoryCentroid(v.ID)
	w := math.Min(float64(v.Trail.Len())/50.0, 0.6)
	return oldest[0]*(1-w) + hx*w, oldest[1]*(1-w) + hy*w
}

// retreatTarget is the nearest tile of the bot's own territory.
func (bc *botController) retreatTarget(s *Simulation, a *Agent) (float64, float64) {
	border := s.grid.BorderTiles(a.ID)
	if len(border) == 0 {
		// Territory fully lost mid-excursion; head for the arena centre.
		return float64(s.grid.Cols) * tileSize / 2, float64(s.grid.Rows) * tileSize / 2
	}
	bestX, bestY := a.X, a.Y
	best := math.MaxFloat64
	for _, tc := range border {
		x, y := tileCenter(tc[0]), tileCenter(tc[1])
		if d := distSq(a.X, a.Y, x, y); d < best {
			best, bestX, bestY = d, x, y
		}
	}
	return bestX, bestY
}

// fleeTarget blends "directly away from the nearest threat" with the retreat
// vector, so a fleeing bot runs home rather than into open space.
func (bc *botController) fleeTarget(s *Simulation, a *Agent) (float64, float64) {
	var threat *Agent
	best := math.MaxFloat64
	for _, e := range s.agents {
		if e == a || !e.Alive {
			continue
		}
		if d := distSq(a.X, a.Y, e.X, e.Y); d < best {
			best, threat = d, e
		}
	}
	rx, ry := bc.retreatTarget(s, a)
	if threat == nil {
		return rx, ry
	}
	away := HeadingTo(threat.X, threat.Y, a.X, a.Y)
	ax := a.X + math.Cos(away)*8*tileSize
	ay := a.Y + math.Sin(away)*8*tileSize
	return (ax + rx) / 2, (ay + ry) / 2
}

// avoidBoundary clamps the target into the arena and redirects it inward
// when it sits too close to an edge.
func (bc *botController) avoidBoundary(s *Simulation, tx, ty float64) (float64, float64) {
	margin := 3 * tileSize
	w := float64(s.grid.Cols) * tileSize
	h := float64(s.grid.Rows) * tileSize
	return clamp(tx, margin, w-margin), clamp(ty, margin, h-margin)
}

// avoidOwnTrail projects ahead along the candidate heading; if any probe
// comes within collision range of an earlier trail point or segment, it
// evaluates escape headings and returns the one maximizing the minimum probe
// distance to the trail. Higher tiers probe further and try more angles.
func (bc *botController) avoidOwnTrail(a *Agent, heading float64) float64 {
	if a.Trail.Len() < selfMinTrailLen {
		return heading
	}
	if bc.minProbeDist(a, heading) > trailHitRadius {
		return heading
	}
	bestHeading := heading
	bestDist := 0.0
	n := bc.tuning.EscapeAngles
	for i := 0; i < n; i++ {
		// Fan of candidates spread across ±150° around the current heading.
		off := (float64(i)/float64(n-1)*2 - 1) * (math.Pi * 5 / 6)
		cand := normalizeAngle(heading + off)
		if d := bc.minProbeDist(a, cand); d > bestDist {
			bestDist, bestHeading = d, cand
		}
	}
	return bestHeading
}

// minProbeDist returns the smallest distance from any lookahead probe along
// heading to the agent's own earlier trail.
func (bc *botController) minProbeDist(a *Agent, heading float64) float64 {
	minDist := math.MaxFloat64
	for i := 1; i <= bc.tuning.LookaheadSteps; i++ {
		px := a.X + math.Cos(heading)*float64(i)*lookaheadStep
		py := a.Y + math.Sin(heading)*float64(i)*lookaheadStep
		d := math.Sqrt(a.Trail.NearestDistSq(px, py, selfSkipRecent))
		if d < minDist {
			minDist = d
		}
	}
	return minDist
}

// tileCenter returns the world-space centre of a tile coordinate.
func tileCenter(c int) float64 {
	return (float64(c) + 0.5) * tileSize
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
