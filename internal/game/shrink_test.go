package game

import "testing"

func TestShrink_NoErosionBeforeThreshold(t *testing.T) {
	ts := NewTestSim(WithSeed(3), WithPrimary(320, 320))
	before := ts.Sim.Grid().Count(1)

	ts.Sim.shrink.Update(ts.Sim, 4.0) // under the camping threshold

	if got := ts.Sim.Grid().Count(1); got != before {
		t.Fatalf("territory shrank below threshold: %d → %d", before, got)
	}
	if ts.Sim.shrink.CampTime(1) != 4.0 {
		t.Fatalf("camp timer = %.1f, want 4.0", ts.Sim.shrink.CampTime(1))
	}
}

func TestShrink_ErodesBorderPastThreshold(t *testing.T) {
	ts := NewTestSim(WithSeed(3), WithPrimary(320, 320))
	before := ts.Sim.Grid().Count(1)

	ts.Sim.shrink.Update(ts.Sim, 4.0)
	ts.Sim.shrink.Update(ts.Sim, 4.0) // timer now 8s, over the 5s threshold

	// Second update accrues 4s * 2 tiles/s = 8 tiles of erosion.
	if got := ts.Sim.Grid().Count(1); got != before-8 {
		t.Fatalf("count = %d, want %d", got, before-8)
	}
	// The tile under the agent survives.
	p := ts.Sim.Primary()
	if ts.OwnerAt(p.TileX(), p.TileY()) != p.ID {
		t.Fatal("shrink must never take the tile under the agent")
	}
}

func TestShrink_TimerRecoversWhenActive(t *testing.T) {
	ts := NewTestSim(WithSeed(3), WithPrimary(320, 320))
	ts.Sim.shrink.Update(ts.Sim, 4.0)

	// A trail point means the agent is out working, not camping.
	ts.Sim.Primary().Trail.Append(500, 500)
	ts.Sim.shrink.Update(ts.Sim, 1.0)

	if got := ts.Sim.shrink.CampTime(1); got != 3.0 {
		t.Fatalf("camp timer = %.1f, want 3.0", got)
	}
}

func TestShrink_TimerFlooredAtZero(t *testing.T) {
	ts := NewTestSim(WithSeed(3), WithPrimary(320, 320))
	ts.Sim.Primary().Trail.Append(500, 500)

	ts.Sim.shrink.Update(ts.Sim, 10.0)

	if got := ts.Sim.shrink.CampTime(1); got != 0 {
		t.Fatalf("camp timer = %.1f, want floor 0", got)
	}
}

func TestShrink_LastTileUnderAgentNotTaken(t *testing.T) {
	ts := NewTestSim(WithSeed(3), WithPrimary(320, 320))
	p := ts.Sim.Primary()
	ts.Sim.Grid().ClearOwnerTerritory(p.ID)
	ts.Sim.Grid().Set(p.TileX(), p.TileY(), p.ID)

	// Deep into camping, far more erosion owed than tiles available.
	ts.Sim.shrink.Update(ts.Sim, 10.0)
	ts.Sim.shrink.Update(ts.Sim, 10.0)

	if got := ts.Sim.Grid().Count(p.ID); got != 1 {
		t.Fatalf("count = %d, the agent's own tile must survive", got)
	}
}
