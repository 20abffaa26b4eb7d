package game

import (
	"fmt"
	"sort"
	"strings"
)

// AgentStats is one agent's cumulative match record.
type AgentStats struct {
	ID            int
	Label         string
	Kills         int
	Deaths        int
	Captures      int     // completed capture jobs
	TilesCaptured int     // tiles annexed across all captures
	PeakPct       float64 // highest ownership percentage observed
}

// MatchReporter accumulates per-agent statistics over a match. The headless
// report CLI and the in-game end screen both read from it.
type MatchReporter struct {
	stats map[int]*AgentStats
}

// NewMatchReporter creates an empty reporter.
func NewMatchReporter() *MatchReporter {
	return &MatchReporter{stats: make(map[int]*AgentStats)}
}

// Reset drops all stats. Called on match restart.
func (mr *MatchReporter) Reset() {
	mr.stats = make(map[int]*AgentStats)
}

func (mr *MatchReporter) agent(id int) *AgentStats {
	st, ok := mr.stats[id]
	if !ok {
		st = &AgentStats{ID: id}
		mr.stats[id] = st
	}
	return st
}

// Register names an agent so reports carry labels rather than bare ids.
func (mr *MatchReporter) Register(id int, label string) {
	mr.agent(id).Label = label
}

// RecordKill credits one kill to the agent.
func (mr *MatchReporter) RecordKill(id int) {
	mr.agent(id).Kills++
}

// RecordDeath records one death for the agent.
func (mr *MatchReporter) RecordDeath(id int) {
	mr.agent(id).Deaths++
}

// RecordCapture records one completed capture and the tiles it annexed.
func (mr *MatchReporter) RecordCapture(id, tiles int) {
	st := mr.agent(id)
	st.Captures++
	st.TilesCaptured += tiles
}

// ObserveOwnership updates the agent's peak ownership percentage.
func (mr *MatchReporter) ObserveOwnership(id int, pct float64) {
	st := mr.agent(id)
	if pct > st.PeakPct {
		st.PeakPct = pct
	}
}

// Stats returns all agent records ordered by id.
func (mr *MatchReporter) Stats() []AgentStats {
	out := make([]AgentStats, 0, len(mr.stats))
	for _, st := range mr.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Summary formats a fixed-width per-agent table plus the match outcome.
func (mr *MatchReporter) Summary(tick int, outcome Outcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Match report at T=%d (%s) ---\n", tick, outcome)
	fmt.Fprintf(&sb, "%-5s %6s %7s %9s %7s %9s\n",
		"agent", "kills", "deaths", "captures", "tiles", "peak%")
	for _, st := range mr.Stats() {
		fmt.Fprintf(&sb, "%-5s %6d %7d %9d %7d %8.1f%%\n",
			st.Label, st.Kills, st.Deaths, st.Captures, st.TilesCaptured, st.PeakPct)
	}
	return sb.String()
}
