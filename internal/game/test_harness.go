package game

// TestSim is a headless match harness used exclusively by tests. It wraps a
// bare Simulation, supports exact agent placement and deterministic seeding,
// and routes simulation events into its own SimLog for assertions.
type TestSim struct {
	Sim    *Simulation
	SimLog *SimLog

	// PrimaryHeading, when set, is fed to the primary agent as its intent
	// every tick (straight-line driving for scenario tests).
	PrimaryHeading    float64
	HasPrimaryHeading bool

	cfg MatchConfig
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // arena, seed, policy, verbose: applied first
	simOptAgent                        // add agents: applied once the grid exists
	simOptTerrain                      // paint territory/trails: applied last
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithArena sets the arena size in tiles.
func WithArena(cols, rows int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.ArenaCols = cols
		ts.cfg.ArenaRows = rows
	}}
}

// WithSeed sets the simulation RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Seed = seed
	}}
}

// WithDifficulty sets the bot tuning tier.
func WithDifficulty(tier DifficultyTier) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Difficulty = tier
	}}
}

// WithInheritance sets the territory-inheritance death policy.
func WithInheritance(inherit bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.InheritTerritory = inherit
	}}
}

// WithAutopilotPrimary gives the primary agent a bot controller, for long
// unattended runs.
func WithAutopilotPrimary() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.AutopilotPrimary = true
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithPrimary places the externally driven primary agent at (x, y) with its
// starting disk.
func WithPrimary(x, y float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		a := ts.Sim.addAgent(x, y, ts.cfg.AutopilotPrimary)
		a.IsBot = false
		a.Label = "P"
		ts.Sim.reporter.Register(a.ID, a.Label)
	}}
}

// WithBot places a bot at (x, y) with its starting disk.
func WithBot(x, y float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		a := ts.Sim.addAgent(x, y, true)
		ts.Sim.reporter.Register(a.ID, a.Label)
	}}
}

// WithOwnedDisk paints a filled territory disk for an owner id. Applied
// after agents exist, so it can reshape or extend their starting land.
func WithOwnedDisk(owner, cx, cy, r int) SimOption {
	return SimOption{simOptTerrain, func(ts *TestSim) {
		ts.Sim.grid.SeedDisk(cx, cy, r, owner)
	}}
}

// WithTile assigns a single tile to an owner.
func WithTile(owner, cx, cy int) SimOption {
	return SimOption{simOptTerrain, func(ts *TestSim) {
		ts.Sim.grid.Set(cx, cy, owner)
	}}
}

// NewTestSim constructs a harness from the given options in three ordered
// passes: infrastructure, then agents, then terrain.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		cfg: MatchConfig{
			ArenaCols:        64,
			ArenaRows:        64,
			Bots:             0,
			Difficulty:       DifficultyNormal,
			InheritTerritory: true,
			Seed:             1,
		},
		SimLog: NewSimLog(false),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.Sim = newBareSimulation(ts.cfg)
	ts.Sim.log = ts.SimLog
	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptTerrain {
			o.fn(ts)
		}
	}
	return ts
}

// SetPrimaryHeading drives the primary agent's intent every tick.
func (ts *TestSim) SetPrimaryHeading(h float64) {
	ts.PrimaryHeading = h
	ts.HasPrimaryHeading = true
}

// intents builds the per-tick intent map.
func (ts *TestSim) intents() Intents {
	if !ts.HasPrimaryHeading || len(ts.Sim.agents) == 0 {
		return nil
	}
	return Intents{ts.Sim.Primary().ID: ts.PrimaryHeading}
}

// RunTicks advances the match n ticks at the fixed timestep.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Sim.Advance(FixedDT, ts.intents())
	}
}

// RunUntil advances up to maxTicks, stopping early when predicate returns
// true. Returns the tick at which it was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Sim.Advance(FixedDT, ts.intents())
		if predicate(ts) {
			return ts.Sim.tick
		}
	}
	return -1
}

// DrainCaptures processes every queued capture job immediately, bypassing
// the per-tick budget. Scenario tests use it to assert on final grid state
// without timing sensitivity.
func (ts *TestSim) DrainCaptures() []CaptureResult {
	var out []CaptureResult
	for ts.Sim.capture.QueueLen() > 0 {
		out = append(out, ts.Sim.capture.Drain(0)...)
	}
	return out
}

// OwnerAt is a shorthand grid read for assertions.
func (ts *TestSim) OwnerAt(cx, cy int) int {
	return ts.Sim.grid.Get(cx, cy)
}
