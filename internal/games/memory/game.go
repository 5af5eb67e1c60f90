package memory

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-memory/internal/config"
	"github.com/vovakirdan/tui-memory/internal/core"
)

// Game identity used by the platform and score storage.
const (
	GameID    = "memory"
	GameTitle = "Memory Match"
)

// Options wires a Game to its configuration and collaborators.
type Options struct {
	Config config.MemoryConfig
	Store  ScoreStore
	Audio  Audio
	Logger *log.Logger

	// Layout, when set, replaces the shuffled deal on every Reset.
	Layout []int
}

// Game adapts a Session to the platform's fixed-tick loop: it turns input
// frames into cursor moves and selections and advances session time by one
// frame per Step.
type Game struct {
	opts    Options
	session *Session
	view    *boardView
	cursor  Pos
	frame   time.Duration
	tick    uint64
	err     error

	// tracks score writes of sessions replaced by Reset
	retired sync.WaitGroup

	screenW  int
	screenH  int
	tooSmall bool
}

// New creates a game that starts a fresh session on every Reset.
func New(opts Options) *Game {
	return &Game{opts: opts}
}

// SettingsFromConfig converts loaded configuration into session settings.
func SettingsFromConfig(cfg config.MemoryConfig, player string, seed int64) Settings {
	return Settings{
		Player:        player,
		GridSize:      cfg.Board.GridSize,
		RoundDuration: cfg.Timing.RoundDuration(),
		TickInterval:  cfg.Timing.TickInterval(),
		ResolveDelay:  cfg.Timing.ResolveDelay(),
		HintDuration:  cfg.Timing.HintDuration(),
		Seed:          seed,
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return GameTitle
}

// Reset starts a new session. A configuration error leaves the game over
// with the error shown in place of the board.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.tick = 0
	g.cursor = Pos{}
	if prev := g.session; prev != nil {
		g.retired.Add(1)
		go func() {
			defer g.retired.Done()
			prev.Wait()
		}()
	}
	g.session = nil
	g.err = nil

	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	g.frame = time.Second / time.Duration(tickRate)

	settings := SettingsFromConfig(g.opts.Config, cfg.Player, cfg.Seed)
	g.view = newBoardView(settings.GridSize, cfg.Player)

	var board *Board
	if g.opts.Layout != nil {
		b, err := NewBoard(settings.GridSize, g.opts.Layout)
		if err != nil {
			g.err = err
			return
		}
		board = b
	}

	session, err := StartSession(settings, Collaborators{
		Surface: g.view,
		Store:   g.opts.Store,
		Audio:   g.opts.Audio,
		Logger:  g.opts.Logger,
		Board:   board,
	})
	if err != nil {
		g.err = err
		return
	}
	g.session = session
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize records new screen dimensions without restarting the session.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.view != nil {
		minW, minH := g.view.minSize()
		g.tooSmall = w < minW || h < minH
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.session == nil || g.session.Outcome().Terminal() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionQuit) {
		g.session.Quit()
		return core.StepResult{State: g.State()}
	}

	// Hold the clock while the board cannot be seen
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	size := g.session.Settings().GridSize
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row = core.Clamp(g.cursor.Row-1, 0, size-1)
	case in.Has(core.ActionDown):
		g.cursor.Row = core.Clamp(g.cursor.Row+1, 0, size-1)
	case in.Has(core.ActionLeft):
		g.cursor.Col = core.Clamp(g.cursor.Col-1, 0, size-1)
	case in.Has(core.ActionRight):
		g.cursor.Col = core.Clamp(g.cursor.Col+1, 0, size-1)
	}

	if in.Has(core.ActionHint) {
		//nolint:errcheck // Only fails after the session ended
		g.session.Hint()
	}
	if in.Has(core.ActionSelect) {
		//nolint:errcheck // Rejected picks are ignored input
		g.session.Select(g.cursor)
	}

	g.session.Advance(g.frame)
	return core.StepResult{State: g.State()}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{GameOver: true}
	}
	return core.GameState{
		Score:    g.session.PairsFound(),
		GameOver: g.session.Outcome().Terminal(),
		Paused:   g.tooSmall,
	}
}

// Session returns the running session, or nil if Reset failed.
func (g *Game) Session() *Session {
	return g.session
}

// Err returns the error that prevented the last Reset from starting a session.
func (g *Game) Err() error {
	return g.err
}

// Cursor returns the highlighted cell.
func (g *Game) Cursor() Pos {
	return g.cursor
}

// Wait blocks until the score writes of every session this game ran have
// finished.
func (g *Game) Wait() {
	g.retired.Wait()
	if g.session != nil {
		g.session.Wait()
	}
}
