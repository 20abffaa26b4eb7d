package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tkallio/Turf-Rush/internal/game"
)

// runStats summarizes one headless match.
type runStats struct {
	runIndex int
	seed     int64

	ticksRun int
	outcome  game.Outcome

	topLabel string
	topPct   float64

	totalKills    int
	totalCaptures int
	tilesCaptured int
	primaryPeak   float64
}

func main() {
	var runs int
	var ticks int
	var bots int
	var seedBase int64
	var seedStep int64
	var difficulty string
	var noInherit bool

	flag.IntVar(&runs, "runs", 5, "number of headless match runs")
	flag.IntVar(&ticks, "ticks", 7200, "max ticks per run (2 min at 60 TPS)")
	flag.IntVar(&bots, "bots", 5, "bot count per match")
	flag.Int64Var(&seedBase, "seed-base", 42, "RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&difficulty, "difficulty", "normal", "bot difficulty: easy|normal|hard")
	flag.BoolVar(&noInherit, "no-inherit", false, "clear a victim's territory instead of transferring it")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(1)
	}
	tier, err := game.ParseDifficulty(difficulty)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	cfg := game.DefaultConfig()
	cfg.Bots = bots
	cfg.Difficulty = tier
	cfg.InheritTerritory = !noInherit
	cfg.AutopilotPrimary = true

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		cfg.Seed = seedBase + int64(i)*seedStep
		rs, err := runMatch(i+1, cfg, ticks)
		if err != nil {
			fmt.Printf("run %d: %v\n", i+1, err)
			os.Exit(1)
		}
		all = append(all, rs)
		fmt.Printf("run %2d  seed=%-6d  ticks=%-6d  outcome=%-8s  top=%s %.1f%%  kills=%d  captures=%d\n",
			rs.runIndex, rs.seed, rs.ticksRun, rs.outcome, rs.topLabel, rs.topPct,
			rs.totalKills, rs.totalCaptures)
	}

	fmt.Println()
	fmt.Print(aggregateSummary(all))
}

// runMatch drives one full-bot match to its end condition or the tick cap.
func runMatch(index int, cfg game.MatchConfig, maxTicks int) (runStats, error) {
	sim, err := game.NewSimulation(cfg)
	if err != nil {
		return runStats{}, err
	}
	for t := 0; t < maxTicks && sim.Outcome() == game.OutcomeOngoing; t++ {
		sim.Advance(game.FixedDT, nil)
	}

	rs := runStats{
		runIndex: index,
		seed:     cfg.Seed,
		ticksRun: sim.Tick(),
		outcome:  sim.Outcome(),
	}
	for _, st := range sim.Reporter().Stats() {
		rs.totalKills += st.Kills
		rs.totalCaptures += st.Captures
		rs.tilesCaptured += st.TilesCaptured
	}
	rs.primaryPeak = peakFor(sim.Reporter().Stats(), "P")
	rs.topLabel, rs.topPct = topOwner(sim)
	return rs, nil
}

// topOwner returns the label and current ownership of the leading agent.
func topOwner(sim *game.Simulation) (string, float64) {
	label := "--"
	best := 0.0
	for _, a := range sim.Agents() {
		pct := sim.Grid().OwnershipPercentage(a.ID)
		if pct > best {
			best = pct
			label = a.Label
		}
	}
	return label, best
}

// peakFor returns the recorded peak ownership for a label, or 0.
func peakFor(stats []game.AgentStats, label string) float64 {
	for _, st := range stats {
		if st.Label == label {
			return st.PeakPct
		}
	}
	return 0
}

// aggregateSummary formats totals and averages across all runs.
func aggregateSummary(all []runStats) string {
	if len(all) == 0 {
		return "no runs\n"
	}
	var kills, captures, tiles, ticks int
	var primaryPeak, topPct float64
	defeats, victories, timeouts := 0, 0, 0
	for _, rs := range all {
		kills += rs.totalKills
		captures += rs.totalCaptures
		tiles += rs.tilesCaptured
		ticks += rs.ticksRun
		primaryPeak += rs.primaryPeak
		topPct += rs.topPct
		switch rs.outcome {
		case game.OutcomeDefeat:
			defeats++
		case game.OutcomeVictory:
			victories++
		default:
			timeouts++
		}
	}
	n := float64(len(all))
	var sb []byte
	sb = fmt.Appendf(sb, "--- Aggregate over %d runs ---\n", len(all))
	sb = fmt.Appendf(sb, "outcomes: victory=%d defeat=%d timeout=%d\n", victories, defeats, timeouts)
	sb = fmt.Appendf(sb, "avg ticks=%.0f  avg kills=%.1f  avg captures=%.1f  avg tiles=%.0f\n",
		float64(ticks)/n, float64(kills)/n, float64(captures)/n, float64(tiles)/n)
	sb = fmt.Appendf(sb, "avg primary peak=%.1f%%  avg top owner=%.1f%%\n", primaryPeak/n, topPct/n)
	return string(sb)
}
