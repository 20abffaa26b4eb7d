package game

import "testing"

// plantTrail fabricates a victim trail without running the sim loop.
func plantTrail(a *Agent, pts ...[2]float64) {
	for _, p := range pts {
		a.Trail.Append(p[0], p[1])
	}
}

func TestCollision_CrossKillTransfersTerritory(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithPrimary(320, 320),
		WithBot(100, 100),
	)
	p := ts.Sim.Primary()
	v := ts.Sim.Agent(2)
	plantTrail(v, [2]float64{312, 320}, [2]float64{316, 320}, [2]float64{320, 320}, [2]float64{324, 320})

	ts.Sim.collisions.CheckTrails(ts.Sim)

	if p.Kills != 1 {
		t.Fatalf("attacker kills = %d, want 1", p.Kills)
	}
	if v.Deaths != 1 {
		t.Fatalf("victim deaths = %d, want 1", v.Deaths)
	}
	if !v.Alive {
		t.Fatal("bot victim must respawn")
	}
	if v.Trail.Len() != 0 {
		t.Fatal("victim trail must be cleared on death")
	}
	// Victim's starting disk (around tile 10,10) now belongs to the killer.
	if got := ts.OwnerAt(10, 10); got != p.ID {
		t.Fatalf("tile (10,10) = %d, want inherited by %d", got, p.ID)
	}
}

func TestCollision_CrossKillNoInheritanceClears(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithInheritance(false),
		WithPrimary(320, 320),
		WithBot(100, 100),
	)
	v := ts.Sim.Agent(2)
	plantTrail(v, [2]float64{312, 320}, [2]float64{316, 320}, [2]float64{320, 320}, [2]float64{324, 320})

	ts.Sim.collisions.CheckTrails(ts.Sim)

	if got := ts.OwnerAt(10, 10); got != OwnerNeutral {
		t.Fatalf("tile (10,10) = %d, want cleared to neutral", got)
	}
}

func TestCollision_BoostImmunityExempts(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithPrimary(320, 320),
		WithBot(100, 100),
	)
	p := ts.Sim.Primary()
	v := ts.Sim.Agent(2)
	v.BoostUntil = 1000 // immune for the whole test
	plantTrail(v, [2]float64{312, 320}, [2]float64{316, 320}, [2]float64{320, 320}, [2]float64{324, 320})

	ts.Sim.collisions.CheckTrails(ts.Sim)

	if p.Kills != 0 || v.Deaths != 0 {
		t.Fatalf("immune victim was killed: kills=%d deaths=%d", p.Kills, v.Deaths)
	}
}

func TestCollision_HeadRegionExcluded(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithPrimary(408, 400),
		WithBot(100, 100),
	)
	v := ts.Sim.Agent(2)
	// Only the two most recent points are near the attacker; those are head
	// region and must not trigger a kill.
	plantTrail(v, [2]float64{400, 400}, [2]float64{404, 400}, [2]float64{408, 400})

	ts.Sim.collisions.CheckTrails(ts.Sim)

	if ts.Sim.Primary().Kills != 0 {
		t.Fatal("head-region contact must not count as a cut")
	}
}

func TestCollision_ThirdKillGrantsBoost(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithPrimary(320, 320),
		WithBot(100, 100),
	)
	p := ts.Sim.Primary()
	p.Kills = 2 // next kill is the milestone
	v := ts.Sim.Agent(2)
	plantTrail(v, [2]float64{312, 320}, [2]float64{316, 320}, [2]float64{320, 320}, [2]float64{324, 320})

	ts.Sim.collisions.CheckTrails(ts.Sim)

	if p.Kills != 3 {
		t.Fatalf("kills = %d, want 3", p.Kills)
	}
	if !p.BoostActive(ts.Sim.Now()) {
		t.Fatal("third kill must grant the boost")
	}
}

func TestCollision_SelfCutEndsMatchForPrimary(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithPrimary(320, 320),
	)
	p := ts.Sim.Primary()
	// Long trail whose oldest point sits under the agent.
	for i := 0; i < 13; i++ {
		p.Trail.Append(320+float64(i)*4, 320)
	}

	ts.Sim.collisions.CheckTrails(ts.Sim)

	if p.Alive {
		t.Fatal("self cut must kill the agent")
	}
	if ts.Sim.Outcome() != OutcomeDefeat {
		t.Fatalf("outcome = %s, want defeat", ts.Sim.Outcome())
	}
	if ts.Sim.Grid().Count(p.ID) != 0 {
		t.Fatal("self death must clear territory, no killer to inherit")
	}
}

func TestCollision_ShortTrailNoSelfCut(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithPrimary(320, 320),
	)
	p := ts.Sim.Primary()
	// Below the gate length: even with a point right under the agent, no cut.
	for i := 0; i < selfMinTrailLen-1; i++ {
		p.Trail.Append(320+float64(i)*4, 320)
	}

	ts.Sim.collisions.CheckTrails(ts.Sim)

	if !p.Alive {
		t.Fatal("trail under the minimum length must not self-cut")
	}
}

func TestCollision_WallDeathPrimaryDefeat(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithPrimary(320, 320),
	)
	p := ts.Sim.Primary()
	p.X = 1 // inside the wall margin

	ts.Sim.collisions.CheckWalls(ts.Sim)

	if ts.Sim.Outcome() != OutcomeDefeat {
		t.Fatalf("outcome = %s, want defeat", ts.Sim.Outcome())
	}
	if ts.Sim.Grid().Count(p.ID) != 0 {
		t.Fatal("wall death clears territory")
	}
}

func TestCollision_WallDeathBotRespawns(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithPrimary(320, 320),
		WithBot(100, 100),
	)
	v := ts.Sim.Agent(2)
	diskCount := ts.Sim.Grid().Count(v.ID)
	v.X = 1

	ts.Sim.collisions.CheckWalls(ts.Sim)

	if !v.Alive || v.Deaths != 1 {
		t.Fatalf("bot should respawn after wall death: alive=%v deaths=%d", v.Alive, v.Deaths)
	}
	if got := ts.OwnerAt(10, 10); got != OwnerNeutral {
		t.Fatalf("old territory tile = %d, want neutral", got)
	}
	if got := ts.Sim.Grid().Count(v.ID); got != diskCount {
		t.Fatalf("respawn disk count = %d, want %d", got, diskCount)
	}
	if ts.Sim.Outcome() != OutcomeOngoing {
		t.Fatal("bot death must not end the match")
	}
}

func TestCollision_FirstEvaluatedAttackerWins(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithPrimary(318, 320),
		WithBot(322, 320),
		WithBot(100, 100),
	)
	p := ts.Sim.Primary()
	rival := ts.Sim.Agent(2)
	victim := ts.Sim.Agent(3)
	// Both the primary and the rival bot sit within cutting range of the
	// victim's trail; roster order decides who gets the kill.
	plantTrail(victim, [2]float64{320, 320}, [2]float64{324, 320}, [2]float64{328, 320}, [2]float64{332, 320})

	ts.Sim.collisions.CheckTrails(ts.Sim)

	if p.Kills != 1 {
		t.Fatalf("primary (evaluated first) kills = %d, want 1", p.Kills)
	}
	if rival.Kills != 0 {
		t.Fatalf("rival kills = %d, want 0 since the trail was already cleared", rival.Kills)
	}
	if victim.Deaths != 1 {
		t.Fatalf("victim deaths = %d, want exactly 1", victim.Deaths)
	}
}
