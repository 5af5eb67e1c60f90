package tui

import "github.com/vovakirdan/tui-memory/internal/core"

// Game is what the model drives. Games contain pure logic with no Bubble Tea
// dependency; the model handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a stable identifier, used for screenshots.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a new round. Called once at start and on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// Resizer is implemented by games that adapt to a new terminal size in place.
// Games without it are reset on resize.
type Resizer interface {
	Resize(w, h int)
}
