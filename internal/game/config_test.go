package game

import "testing"

func TestMatchConfig_ValidateBounds(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	cfg := DefaultConfig()
	cfg.ArenaCols = 15
	if err := cfg.Validate(); err == nil {
		t.Error("15-column arena accepted")
	}

	cfg = DefaultConfig()
	cfg.Bots = maxAgents - 1
	if err := cfg.Validate(); err != nil {
		t.Errorf("maximum bot count rejected: %v", err)
	}
	cfg.Bots = maxAgents
	if err := cfg.Validate(); err == nil {
		t.Error("bot count with no room for the primary accepted")
	}

	cfg = DefaultConfig()
	cfg.Difficulty = DifficultyTier(7)
	if err := cfg.Validate(); err == nil {
		t.Error("out-of-range difficulty accepted")
	}
}

func TestParseDifficulty_RoundTrip(t *testing.T) {
	for _, tier := range []DifficultyTier{DifficultyEasy, DifficultyNormal, DifficultyHard} {
		got, err := ParseDifficulty(tier.String())
		if err != nil {
			t.Fatalf("ParseDifficulty(%q): %v", tier.String(), err)
		}
		if got != tier {
			t.Errorf("ParseDifficulty(%q) = %v", tier.String(), got)
		}
	}
	if _, err := ParseDifficulty("nightmare"); err == nil {
		t.Error("unknown difficulty string accepted")
	}
}
