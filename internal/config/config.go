// Package config provides YAML-based game configuration loading and
// difficulty presets for the memory game.
package config

import (
	"fmt"
	"strings"
	"time"
)

// MemoryConfig contains all configuration for the Memory Match game.
type MemoryConfig struct {
	Board  MemoryBoard  `yaml:"board" envPrefix:"BOARD_"`
	Timing MemoryTiming `yaml:"timing" envPrefix:"TIMING_"`
	Scores MemoryScores `yaml:"scores" envPrefix:"SCORES_"`
	Audio  MemoryAudio  `yaml:"audio" envPrefix:"AUDIO_"`
}

// MemoryBoard defines the grid layout.
type MemoryBoard struct {
	GridSize int `yaml:"grid_size" env:"GRID_SIZE"`
}

// MemoryTiming defines round length and the delays inside a turn.
type MemoryTiming struct {
	RoundSeconds       int `yaml:"round_seconds" env:"ROUND_SECONDS"`
	TickMillis         int `yaml:"tick_millis" env:"TICK_MILLIS"`
	ResolveDelayMillis int `yaml:"resolve_delay_millis" env:"RESOLVE_DELAY_MILLIS"`
	HintMillis         int `yaml:"hint_millis" env:"HINT_MILLIS"`
}

// MemoryScores selects where completed games are recorded.
type MemoryScores struct {
	Backend string `yaml:"backend" env:"BACKEND"` // "sqlite" or "file"
	Path    string `yaml:"path" env:"PATH"`
}

// MemoryAudio toggles audio cues.
type MemoryAudio struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

// Score backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// RoundDuration returns the round length.
func (t MemoryTiming) RoundDuration() time.Duration {
	return time.Duration(t.RoundSeconds) * time.Second
}

// TickInterval returns the countdown step.
func (t MemoryTiming) TickInterval() time.Duration {
	return time.Duration(t.TickMillis) * time.Millisecond
}

// ResolveDelay returns how long both faces stay up before comparison.
func (t MemoryTiming) ResolveDelay() time.Duration {
	return time.Duration(t.ResolveDelayMillis) * time.Millisecond
}

// HintDuration returns how long the hint overlay stays up.
func (t MemoryTiming) HintDuration() time.Duration {
	return time.Duration(t.HintMillis) * time.Millisecond
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficultyPreset converts a flag value to a preset.
// Empty input selects normal.
func ParseDifficultyPreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyMemoryPreset adjusts grid size and round length for a preset.
// Normal keeps whatever the loaded config says.
func ApplyMemoryPreset(cfg *MemoryConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Board.GridSize = 4
		cfg.Timing.RoundSeconds = 90
		cfg.Timing.HintMillis = 2000
	case DifficultyHard:
		cfg.Board.GridSize = 6
		cfg.Timing.RoundSeconds = 120
		cfg.Timing.HintMillis = 500
	}
}
