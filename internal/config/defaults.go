package config

import (
	_ "embed"
)

//go:embed defaults/memory.yaml
var defaultMemoryYAML []byte

// DefaultMemoryConfig returns the default Memory Match configuration.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Board: MemoryBoard{
			GridSize: 4,
		},
		Timing: MemoryTiming{
			RoundSeconds:       60,
			TickMillis:         1000,
			ResolveDelayMillis: 500,
			HintMillis:         1000,
		},
		Scores: MemoryScores{
			Backend: BackendSQLite,
			Path:    "~/.memory/scores.db",
		},
		Audio: MemoryAudio{
			Enabled: true,
		},
	}
}
