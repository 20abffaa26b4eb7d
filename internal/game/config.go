package game

import (
	"fmt"
	"time"
)

// World geometry. Positions are continuous; tiles are tileSize world units.
const (
	tileSize    = 10.0
	agentRadius = 4.0
	wallMargin  = 2.0 // agents die this far past the arena edge

	baseSpeed     = 60.0 // world units per second
	turnRate      = 3.2  // radians per second
	boostSpeed    = 90.0
	boostSecs     = 3.0
	killsPerBoost = 3

	spawnRadiusTiles = 4
)

// Collision tuning.
const (
	trailHitRadius  = 5.0 // world units, point/segment hit distance
	selfSkipRecent  = 10  // head points excluded from self-collision
	selfMinTrailLen = 12  // self-collision check gated below this length
	crossSkipRecent = 2   // victim head points excluded from cross checks
)

// CaptureEngine tuning.
const (
	captureBudget        = 3 * time.Millisecond
	orphanSweepInterval  = 120 // ticks between sweeps
	orphanBacklogFactor  = 2   // interval multiplier while the queue is backlogged
	trailRasterHalfWidth = 1   // stamp radius → rasterized trail is ≥3 tiles wide
	captureBoxPadding    = 2
)

// ShrinkRegulator tuning.
const (
	campThresholdSecs = 5.0 // camping time before shrink engages
	shrinkTilesPerSec = 2.0
)

// DifficultyTier selects the bot tuning table.
type DifficultyTier int

const (
	DifficultyEasy DifficultyTier = iota
	DifficultyNormal
	DifficultyHard
)

func (d DifficultyTier) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty maps a CLI string to a tier.
func ParseDifficulty(s string) (DifficultyTier, error) {
	switch s {
	case "easy":
		return DifficultyEasy, nil
	case "normal":
		return DifficultyNormal, nil
	case "hard":
		return DifficultyHard, nil
	}
	return DifficultyNormal, fmt.Errorf("unknown difficulty %q", s)
}

// MatchConfig is validated once at setup; a running match never sees an
// invalid configuration.
type MatchConfig struct {
	ArenaCols  int
	ArenaRows  int
	Bots       int
	Difficulty DifficultyTier

	// InheritTerritory controls death resolution with a killer present:
	// true → the victim's whole territory transfers to the killer,
	// false → it is cleared to neutral instead.
	InheritTerritory bool

	// AutopilotPrimary gives the primary agent a bot controller. Used by
	// headless batch runs; the windowed game leaves it off.
	AutopilotPrimary bool

	Seed int64
}

// DefaultConfig returns the standard match setup.
func DefaultConfig() MatchConfig {
	return MatchConfig{
		ArenaCols:        160,
		ArenaRows:        90,
		Bots:             5,
		Difficulty:       DifficultyNormal,
		InheritTerritory: true,
		Seed:             1,
	}
}

// maxAgents bounds the owner-id space; grid owners are stored in a byte.
const maxAgents = 32

// Validate rejects impossible configurations before any state is built.
func (c MatchConfig) Validate() error {
	if c.ArenaCols < 16 || c.ArenaRows < 16 {
		return fmt.Errorf("arena %dx%d too small: both sides must be >= 16 tiles", c.ArenaCols, c.ArenaRows)
	}
	if c.Bots < 0 || c.Bots > maxAgents-1 {
		return fmt.Errorf("bot count %d out of range [0, %d]", c.Bots, maxAgents-1)
	}
	if c.Difficulty < DifficultyEasy || c.Difficulty > DifficultyHard {
		return fmt.Errorf("invalid difficulty tier %d", c.Difficulty)
	}
	return nil
}
