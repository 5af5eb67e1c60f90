package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-memory/internal/config"
	"github.com/vovakirdan/tui-memory/internal/core"
	"github.com/vovakirdan/tui-memory/internal/games/memory"
	"github.com/vovakirdan/tui-memory/internal/platform/audio"
	"github.com/vovakirdan/tui-memory/internal/platform/tui"
	"github.com/vovakirdan/tui-memory/internal/storage"
)

// loadConfig resolves the game config: YAML file, then difficulty preset,
// then MEMORY_* environment variables, then the --grid flag.
func loadConfig(difficulty string, grid int) (config.MemoryConfig, error) {
	cfg, err := config.LoadMemory(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParseDifficultyPreset(difficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyMemoryPreset(&cfg, preset)

	if err := config.ApplyEnv(&cfg, nil); err != nil {
		return cfg, err
	}

	if grid > 0 {
		cfg.Board.GridSize = grid
	}
	if flagDBPath != "" {
		cfg.Scores.Path = flagDBPath
	}
	return cfg, nil
}

// scoreBackend bundles the opened store with its optional ranking view.
type scoreBackend struct {
	store memory.ScoreStore
	board tui.Leaderboard
	db    *storage.Store
	close func() error
}

// openScores opens the configured score backend.
func openScores(cfg config.MemoryScores) (scoreBackend, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendSQLite, "":
		db, err := storage.Open(cfg.Path)
		if err != nil {
			return scoreBackend{}, err
		}
		return scoreBackend{store: db, board: db, db: db, close: db.Close}, nil

	case config.BackendFile:
		lineLog, err := storage.OpenLineLog(cfg.Path)
		if err != nil {
			return scoreBackend{}, err
		}
		return scoreBackend{store: lineLog, close: func() error { return nil }}, nil
	}

	return scoreBackend{}, fmt.Errorf("unknown score backend %q (want %s or %s)",
		cfg.Backend, config.BackendSQLite, config.BackendFile)
}

// newLogger opens the log file. The TUI owns the terminal, so logs never go
// to stdout or stderr while a game is running.
func newLogger(path string, verbose bool) (*log.Logger, func() error) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	var w io.Writer = io.Discard
	closeFn := func() error { return nil }

	if path != "" {
		if path[0] == '~' {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, path[1:])
			}
		}
		//nolint:errcheck // Best-effort directory creation
		os.MkdirAll(filepath.Dir(path), 0o755)
		if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			w = f
			closeFn = f.Close
		} else {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "memory",
		Level:           level,
	})
	return logger, closeFn
}

// runtimeConfig builds the platform config from the terminal size and flags.
func runtimeConfig(player string) core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Player:   player,
	}
}

// newGame wires a game to the loaded config and collaborators.
// A non-nil layout replaces the shuffled deal.
func newGame(cfg config.MemoryConfig, scores memory.ScoreStore, logger *log.Logger, layout []int) *memory.Game {
	return memory.New(memory.Options{
		Config: cfg,
		Store:  scores,
		Audio:  audio.New(cfg.Audio.Enabled, os.Stderr),
		Logger: logger,
		Layout: layout,
	})
}

// checkSettings validates everything a session needs before the TUI starts.
func checkSettings(cfg config.MemoryConfig, player string) error {
	return memory.SettingsFromConfig(cfg, player, 0).Validate()
}
