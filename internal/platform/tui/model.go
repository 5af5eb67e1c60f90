package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-memory/internal/core"
)

// Exit tells the caller where to go after the game screen closes.
type Exit int

const (
	// ExitQuit leaves the program.
	ExitQuit Exit = iota
	// ExitMenu returns to the username menu.
	ExitMenu
)

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       Game
	screen     *core.Screen
	config     core.RuntimeConfig
	keys       *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	exit       Exit
	done       bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game Game, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, hardQuit := m.keys.MapKey(msg)
	over := m.game.State().GameOver

	switch {
	case hardQuit:
		m.abandon()
		return m.finish(ExitQuit)

	case action == core.ActionQuit && over:
		return m.finish(ExitQuit)

	case action == core.ActionQuit, action == core.ActionBack:
		// Leaving mid-round records a quit outcome before returning to the menu
		m.abandon()
		return m.finish(ExitMenu)

	case action == core.ActionRestart:
		if over {
			m.inputFrame.Set(core.ActionRestart)
		}
		return m, nil
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// abandon ends a running round immediately.
func (m *Model) abandon() {
	if m.game.State().GameOver {
		return
	}
	quit := core.NewInputFrame()
	quit.Set(core.ActionQuit)
	m.gameState = m.game.Step(quit).State
}

func (m Model) finish(exit Exit) (tea.Model, tea.Cmd) {
	m.exit = exit
	m.done = true
	return m, tea.Quit
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(Resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.game.State().GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".memory", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.done {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Exit returns where the player asked to go.
func (m Model) Exit() Exit {
	return m.exit
}

// Config returns the runtime config, including the latest screen size.
func (m Model) Config() core.RuntimeConfig {
	return m.config
}

// Run starts the Bubble Tea program for one game and reports how it ended
// along with the runtime config as last seen (screen size may have changed).
func Run(game Game, cfg core.RuntimeConfig) (Exit, core.RuntimeConfig, error) {
	p := tea.NewProgram(
		NewModel(game, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return ExitQuit, cfg, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return ExitQuit, cfg, nil
	}
	return m.Exit(), m.Config(), nil
}
