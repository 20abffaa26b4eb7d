package game

import (
	"fmt"
	"math"
	"math/rand"
)

// TickRate is the fixed simulation rate; Advance is normally driven with
// dt = 1/TickRate.
const TickRate = 60

// FixedDT is the standard per-tick delta in seconds.
const FixedDT = 1.0 / TickRate

// Outcome is the match end state.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeDefeat          // the primary agent died
	OutcomeVictory         // the primary agent owns the whole arena
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ongoing"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// Intents maps agent id → desired target heading for this tick. The input
// layer supplies the primary agent's; bots compute their own, and an intent
// present here overrides a bot too (useful in tests).
type Intents map[int]float64

// Simulation owns the whole match state: grid, agent roster, capture queue,
// collision and shrink passes. It is single-threaded; Advance must not be
// called concurrently, and the fixed intra-tick order is the tie-break for
// simultaneous captures and kills.
type Simulation struct {
	cfg MatchConfig

	grid       *TerritoryGrid
	agents     []*Agent
	capture    *CaptureEngine
	collisions *CollisionSystem
	shrink     *ShrinkRegulator
	reporter   *MatchReporter
	log        *SimLog
	rng        *rand.Rand

	tick    int
	now     float64
	outcome Outcome
}

// NewSimulation validates cfg once and builds a ready match: the primary
// agent plus cfg.Bots bots, each on a seeded circular starting territory.
func NewSimulation(cfg MatchConfig) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("match config: %w", err)
	}
	s := newBareSimulation(cfg)
	s.spawnRoster()
	return s, nil
}

// newBareSimulation builds grid and engines but no agents. The test harness
// uses it to place agents at exact coordinates.
func newBareSimulation(cfg MatchConfig) *Simulation {
	grid := NewTerritoryGrid(cfg.ArenaCols, cfg.ArenaRows, maxAgents)
	rng := rand.New(rand.NewSource(cfg.Seed)) // #nosec G404 -- seeded simulation rng
	return &Simulation{
		cfg:        cfg,
		grid:       grid,
		capture:    NewCaptureEngine(grid),
		collisions: NewCollisionSystem(cfg.InheritTerritory),
		shrink:     NewShrinkRegulator(maxAgents, rng),
		reporter:   NewMatchReporter(),
		log:        NewSimLog(false),
		rng:        rng,
	}
}

// spawnRoster creates the primary agent near the arena centre and the bots
// at mutually separated random positions.
func (s *Simulation) spawnRoster() {
	w := float64(s.grid.Cols) * tileSize
	h := float64(s.grid.Rows) * tileSize
	p := s.addAgent(w/2, h/2, s.cfg.AutopilotPrimary)
	p.IsBot = false
	p.Label = "P"
	s.reporter.Register(p.ID, p.Label)

	for i := 0; i < s.cfg.Bots; i++ {
		x, y := s.spawnPosition()
		b := s.addAgent(x, y, true)
		s.reporter.Register(b.ID, b.Label)
	}
}

// addAgent appends an agent with the next owner id and seeds its starting
// disk. withBot attaches a decision controller.
func (s *Simulation) addAgent(x, y float64, withBot bool) *Agent {
	id := len(s.agents) + 1
	a := &Agent{
		ID:      id,
		Label:   fmt.Sprintf("B%d", id-1),
		X:       x,
		Y:       y,
		Heading: s.rng.Float64()*2*math.Pi - math.Pi,
		Speed:   baseSpeed,
		Alive:   true,
		IsBot:   true,
	}
	a.TargetHeading = a.Heading
	if withBot {
		a.bot = newBotController(s.cfg.Difficulty, s.rng)
	}
	s.agents = append(s.agents, a)
	s.grid.SeedDisk(a.TileX(), a.TileY(), spawnRadiusTiles, id)
	return a
}

// spawnPosition picks a random spawn tile away from the arena edge and from
// every existing agent's territory disk.
func (s *Simulation) spawnPosition() (float64, float64) {
	edge := spawnRadiusTiles + 2
	minSep := float64(16 * tileSize)
	for try := 0; try < 64; try++ {
		cx := edge + s.rng.Intn(s.grid.Cols-2*edge)
		cy := edge + s.rng.Intn(s.grid.Rows-2*edge)
		x, y := tileCenter(cx), tileCenter(cy)
		ok := true
		for _, a := range s.agents {
			if distSq(x, y, a.X, a.Y) < minSep*minSep {
				ok = false
				break
			}
		}
		if ok {
			return x, y
		}
	}
	// Crowded arena: accept overlap rather than fail.
	return tileCenter(edge + s.rng.Intn(s.grid.Cols-2*edge)),
		tileCenter(edge + s.rng.Intn(s.grid.Rows-2*edge))
}

// Accessors for collaborators (rendering, HUD, CLIs).

// Grid exposes the territory grid for read access.
func (s *Simulation) Grid() *TerritoryGrid { return s.grid }

// Agents returns the roster in evaluation order (primary first).
func (s *Simulation) Agents() []*Agent { return s.agents }

// Agent returns the agent with the given owner id, or nil.
func (s *Simulation) Agent(id int) *Agent {
	if id < 1 || id > len(s.agents) {
		return nil
	}
	return s.agents[id-1]
}

// Primary returns the primary agent.
func (s *Simulation) Primary() *Agent { return s.agents[0] }

// Tick returns the current tick number.
func (s *Simulation) Tick() int { return s.tick }

// Now returns the simulation time in seconds.
func (s *Simulation) Now() float64 { return s.now }

// Outcome returns the match end state.
func (s *Simulation) Outcome() Outcome { return s.outcome }

// Log returns the structured event log.
func (s *Simulation) Log() *SimLog { return s.log }

// Reporter returns the cumulative match statistics.
func (s *Simulation) Reporter() *MatchReporter { return s.reporter }

// Config returns the validated match configuration.
func (s *Simulation) Config() MatchConfig { return s.cfg }

// Advance runs one fixed-timestep tick. Order is load-bearing: intents →
// motion → walls → tails (captures enqueue) → trail collisions → capture
// drain under budget → periodic orphan sweep → shrink → end check.
func (s *Simulation) Advance(dt float64, intents Intents) {
	if s.outcome != OutcomeOngoing {
		return
	}
	s.tick++
	s.now += dt

	for _, a := range s.agents {
		if !a.Alive {
			continue
		}
		if a.bot != nil {
			a.bot.Think(s, a)
		}
		if h, ok := intents[a.ID]; ok {
			a.TargetHeading = h
		}
	}

	for _, a := range s.agents {
		a.integrate(dt, s.now)
	}

	s.collisions.CheckWalls(s)

	for _, a := range s.agents {
		s.updateTail(a)
	}

	s.collisions.CheckTrails(s)

	for _, res := range s.capture.Drain(captureBudget) {
		s.reporter.RecordCapture(res.Owner, res.Tiles)
		if a := s.Agent(res.Owner); a != nil {
			s.log.Add(s.tick, a.Label, "capture", "annexed",
				fmt.Sprintf("%d tiles", res.Tiles), float64(res.Tiles))
		}
	}

	interval := orphanSweepInterval
	if s.capture.Backlogged() {
		interval *= orphanBacklogFactor
	}
	if s.tick%interval == 0 {
		if n := s.capture.OrphanSweep(); n > 0 {
			s.log.Add(s.tick, "--", "capture", "orphan_sweep",
				fmt.Sprintf("%d tiles", n), float64(n))
		}
	}

	s.shrink.Update(s, dt)

	for _, a := range s.agents {
		s.reporter.ObserveOwnership(a.ID, s.grid.OwnershipPercentage(a.ID))
	}
	if s.outcome == OutcomeOngoing && s.grid.Count(s.Primary().ID) == s.grid.Total() {
		s.outcome = OutcomeVictory
		s.log.Add(s.tick, s.Primary().Label, "match", "victory", "full ownership", 100)
	}
}

// updateTail records trail points while the agent is off its own land and
// enqueues a capture job on re-entry. Trails too short to enclose anything
// are dropped silently.
func (s *Simulation) updateTail(a *Agent) {
	if !a.Alive {
		return
	}
	if s.grid.Get(a.TileX(), a.TileY()) == a.ID {
		if a.Trail.Len() >= 3 {
			s.capture.Enqueue(a.ID, &a.Trail, a.X, a.Y)
			s.log.AddVerbose(s.tick, a.Label, "capture", "enqueued",
				fmt.Sprintf("%d trail points", a.Trail.Len()), float64(a.Trail.Len()))
		}
		a.Trail.Reset()
		return
	}
	a.Trail.Append(a.X, a.Y)
}

// respawnAgent gives a dead bot a fresh start: new position, new starting
// disk, clean trail. The primary agent never respawns; its death ends the
// match in ResolveDeath.
func (s *Simulation) respawnAgent(a *Agent) {
	x, y := s.spawnPosition()
	a.X, a.Y = x, y
	a.Heading = s.rng.Float64()*2*math.Pi - math.Pi
	a.TargetHeading = a.Heading
	a.Trail.Reset()
	a.BoostUntil = 0
	a.Alive = true
	s.grid.SeedDisk(a.TileX(), a.TileY(), spawnRadiusTiles, a.ID)
	if a.bot != nil {
		a.bot.state = BotWander
		a.bot.harassID = -1
		a.bot.excursion = false
		a.bot.targetX, a.bot.targetY = x, y
	}
	s.log.Add(s.tick, a.Label, "respawn", "placed",
		fmt.Sprintf("(%.0f,%.0f)", x, y), 0)
}

// territoryCentroid returns the mean world position of an owner's tiles,
// or the arena centre if the owner holds nothing.
func (s *Simulation) territoryCentroid(id int) (float64, float64) {
	var sx, sy float64
	n := 0
	for cy := 0; cy < s.grid.Rows; cy++ {
		for cx := 0; cx < s.grid.Cols; cx++ {
			if s.grid.Get(cx, cy) == id {
				sx += tileCenter(cx)
				sy += tileCenter(cy)
				n++
			}
		}
	}
	if n == 0 {
		return float64(s.grid.Cols) * tileSize / 2, float64(s.grid.Rows) * tileSize / 2
	}
	return sx / float64(n), sy / float64(n)
}

// Restart discards the whole match state (grid, roster, queued captures,
// logs) and rebuilds from the configured seed. Queued jobs are dropped, not
// drained.
func (s *Simulation) Restart() {
	s.grid = NewTerritoryGrid(s.cfg.ArenaCols, s.cfg.ArenaRows, maxAgents)
	s.rng = rand.New(rand.NewSource(s.cfg.Seed)) // #nosec G404 -- seeded simulation rng
	s.capture.DiscardQueue()
	s.capture = NewCaptureEngine(s.grid)
	s.shrink = NewShrinkRegulator(maxAgents, s.rng)
	s.reporter.Reset()
	s.log.Reset()
	s.agents = nil
	s.tick = 0
	s.now = 0
	s.outcome = OutcomeOngoing
	s.spawnRoster()
}
