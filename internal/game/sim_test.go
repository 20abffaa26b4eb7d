package game

import (
	"math"
	"testing"
)

func TestNewSimulation_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bots = -1
	if _, err := NewSimulation(cfg); err == nil {
		t.Error("negative bot count accepted")
	}

	cfg = DefaultConfig()
	cfg.Bots = maxAgents
	if _, err := NewSimulation(cfg); err == nil {
		t.Error("bot count leaving no room for the primary accepted")
	}

	cfg = DefaultConfig()
	cfg.ArenaCols, cfg.ArenaRows = 8, 8
	if _, err := NewSimulation(cfg); err == nil {
		t.Error("undersized arena accepted")
	}
}

func TestNewSimulation_SpawnsSeparatedRoster(t *testing.T) {
	s, err := NewSimulation(DefaultConfig())
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	if got := len(s.Agents()); got != 6 {
		t.Fatalf("roster size = %d, want 6", got)
	}
	p := s.Primary()
	if p.IsBot || p.Label != "P" {
		t.Fatalf("primary misconfigured: IsBot=%v label=%q", p.IsBot, p.Label)
	}
	// Disks must not overlap at spawn, so every agent holds a full disk.
	diskTiles := s.Grid().Count(p.ID)
	for _, a := range s.Agents() {
		if got := s.Grid().Count(a.ID); got != diskTiles {
			t.Errorf("agent %s starts with %d tiles, want %d", a.Label, got, diskTiles)
		}
	}
}

func TestSim_TrailGrowsOffOwnTerritory(t *testing.T) {
	ts := NewTestSim(WithSeed(5), WithPrimary(320, 320))
	p := ts.Sim.Primary()
	p.Heading = 0
	p.TargetHeading = 0
	ts.SetPrimaryHeading(0)

	ts.RunTicks(90)

	if ts.OwnerAt(p.TileX(), p.TileY()) == p.ID {
		t.Fatal("primary should have left its territory heading east")
	}
	if p.Trail.Len() == 0 {
		t.Fatal("no trail recorded outside own territory")
	}
}

func TestSim_ReentryEnqueuesCaptureAndClearsTrail(t *testing.T) {
	ts := NewTestSim(WithSeed(5), WithPrimary(320, 320))
	p := ts.Sim.Primary()
	p.Trail.Append(400, 320)
	p.Trail.Append(400, 400)
	p.Trail.Append(320, 400)

	ts.Sim.updateTail(p) // agent is standing on its own land

	if got := ts.Sim.capture.QueueLen(); got != 1 {
		t.Fatalf("queue length = %d, want 1", got)
	}
	if p.Trail.Len() != 0 {
		t.Fatal("trail not cleared on re-entry")
	}
}

func TestSim_ShortTrailDroppedOnReentry(t *testing.T) {
	ts := NewTestSim(WithSeed(5), WithPrimary(320, 320))
	p := ts.Sim.Primary()
	p.Trail.Append(400, 320)
	p.Trail.Append(400, 400)

	ts.Sim.updateTail(p)

	if got := ts.Sim.capture.QueueLen(); got != 0 {
		t.Fatalf("queue length = %d, two points cannot enclose anything", got)
	}
	if p.Trail.Len() != 0 {
		t.Fatal("trail not cleared on re-entry")
	}
}

// Drives the primary agent out in a wide rectangle and back home, then checks
// that the enclosed land was annexed.
func TestSim_LoopRunGrowsTerritory(t *testing.T) {
	ts := NewTestSim(WithSeed(5), WithPrimary(320, 320))
	p := ts.Sim.Primary()
	p.Heading = 0
	p.TargetHeading = 0
	before := ts.Sim.Grid().Count(p.ID)

	for _, h := range []float64{0, math.Pi / 2, math.Pi} {
		ts.SetPrimaryHeading(h)
		ts.RunTicks(150)
	}
	// Final leg homes on the starting disk until the loop closes.
	for i := 0; i < 900; i++ {
		ts.SetPrimaryHeading(HeadingTo(p.X, p.Y, 320, 320))
		ts.RunTicks(1)
		if ts.Sim.Grid().Count(p.ID) > before {
			break
		}
	}
	ts.DrainCaptures()

	if got := ts.Sim.Grid().Count(p.ID); got <= before {
		t.Fatalf("count = %d after a closed loop, want more than %d", got, before)
	}
	if p.Trail.Len() != 0 {
		t.Fatal("trail should be cleared after the capture")
	}
	if !p.Alive || ts.Sim.Outcome() != OutcomeOngoing {
		t.Fatalf("loop run killed the primary: alive=%v outcome=%v", p.Alive, ts.Sim.Outcome())
	}
	stats := ts.Sim.Reporter().Stats()
	if len(stats) == 0 || stats[0].Captures == 0 {
		t.Fatal("reporter recorded no capture")
	}
}

func TestSim_VictoryAtFullOwnership(t *testing.T) {
	ts := NewTestSim(WithSeed(5), WithPrimary(320, 320))
	g := ts.Sim.Grid()
	for cy := 0; cy < g.Rows; cy++ {
		for cx := 0; cx < g.Cols; cx++ {
			g.Set(cx, cy, 1)
		}
	}

	ts.RunTicks(1)

	if got := ts.Sim.Outcome(); got != OutcomeVictory {
		t.Fatalf("outcome = %v, want victory at full ownership", got)
	}
}

func TestSim_EndedMatchFreezes(t *testing.T) {
	ts := NewTestSim(WithSeed(5), WithPrimary(320, 320))
	ts.Sim.outcome = OutcomeDefeat
	tick := ts.Sim.Tick()

	ts.RunTicks(10)

	if got := ts.Sim.Tick(); got != tick {
		t.Fatalf("tick advanced from %d to %d after the match ended", tick, got)
	}
}

func TestSim_RestartRebuildsFromSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bots = 2
	cfg.Seed = 5
	s, err := NewSimulation(cfg)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	for i := 0; i < 120; i++ {
		s.Advance(FixedDT, nil)
	}

	s.Restart()

	fresh, err := NewSimulation(cfg)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	if s.Tick() != 0 || s.Now() != 0 || s.Outcome() != OutcomeOngoing {
		t.Fatalf("restart left state behind: tick=%d now=%v outcome=%v",
			s.Tick(), s.Now(), s.Outcome())
	}
	if len(s.Log().Entries()) != 0 {
		t.Fatal("restart did not clear the log")
	}
	for i, a := range s.Agents() {
		f := fresh.Agents()[i]
		if a.X != f.X || a.Y != f.Y || a.Heading != f.Heading {
			t.Fatalf("agent %s differs from a fresh match: (%v,%v,%v) vs (%v,%v,%v)",
				a.Label, a.X, a.Y, a.Heading, f.X, f.Y, f.Heading)
		}
		if s.Grid().Count(a.ID) != fresh.Grid().Count(a.ID) {
			t.Fatalf("agent %s territory differs from a fresh match", a.Label)
		}
	}
}

func TestSim_DeterministicUnderFixedSeed(t *testing.T) {
	run := func() *Simulation {
		cfg := DefaultConfig()
		cfg.Bots = 3
		cfg.Seed = 11
		cfg.AutopilotPrimary = true
		s, err := NewSimulation(cfg)
		if err != nil {
			t.Fatalf("NewSimulation: %v", err)
		}
		for i := 0; i < 240; i++ {
			s.Advance(FixedDT, nil)
		}
		return s
	}
	a, b := run(), run()

	for i := range a.Agents() {
		x, y := a.Agents()[i], b.Agents()[i]
		if x.X != y.X || x.Y != y.Y || x.Heading != y.Heading || x.Alive != y.Alive {
			t.Fatalf("agent %s diverged between identical runs", x.Label)
		}
		if a.Grid().Count(x.ID) != b.Grid().Count(x.ID) {
			t.Fatalf("agent %s territory diverged between identical runs", x.Label)
		}
	}
	if a.Tick() != b.Tick() {
		t.Fatalf("tick counters diverged: %d vs %d", a.Tick(), b.Tick())
	}
}
