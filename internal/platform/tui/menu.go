package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-memory/internal/core"
	"github.com/vovakirdan/tui-memory/internal/games/memory"
)

const (
	maxNameLength  = 24
	scoreLoadLimit = 2 * time.Second
)

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	menuErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	menuDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the main menu: a username prompt
// above the list of previous score lines.
type MenuModel struct {
	input          textinput.Model
	scores         []string
	scoresErr      bool
	offset         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	errMsg         string
	quitting       bool
	started        bool
	openScoreboard bool
}

// NewMenuModel creates a new menu model. The name field is prefilled with
// cfg.Player and the score list is read from store once.
func NewMenuModel(store memory.ScoreStore, cfg core.RuntimeConfig) MenuModel {
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = maxNameLength
	ti.Width = maxNameLength
	ti.SetValue(cfg.Player)
	ti.Focus()

	m := MenuModel{
		input:     ti,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	m.loadScores(store)
	return m
}

func (m *MenuModel) loadScores(store memory.ScoreStore) {
	if store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), scoreLoadLimit)
	defer cancel()

	lines, err := store.ReadAll(ctx)
	if err != nil {
		m.scoresErr = true
		return
	}
	m.scores = lines
	// Newest lines are at the bottom; start scrolled there
	m.offset = core.Max(len(m.scores)-m.listHeight(), 0)
}

// listHeight is how many score lines fit under the prompt.
func (m MenuModel) listHeight() int {
	return core.Max(m.height-14, 3)
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.offset = core.Clamp(m.offset, 0, core.Max(len(m.scores)-m.listHeight(), 0))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input for the menu.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.offset > 0 {
			m.offset--
		}
		return m, nil

	case MenuActionDown:
		if m.offset < len(m.scores)-m.listHeight() {
			m.offset++
		}
		return m, nil

	case MenuActionSelect:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.errMsg = "Please enter a username"
			return m, nil
		}
		m.config.Player = name
		m.started = true
		return m, tea.Quit

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	m.errMsg = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  M E M O R Y   M A T C H  "), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(menuLabelStyle.Render("Enter your username:"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.input.View(), m.width))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(centerText(menuErrorStyle.Render(m.errMsg), m.width))
	}
	b.WriteString("\n\n")

	b.WriteString(centerText(menuLabelStyle.Render("Previous scores"), m.width))
	b.WriteString("\n")
	switch {
	case m.scoresErr:
		b.WriteString(centerText(menuErrorStyle.Render("Scores unavailable"), m.width))
		b.WriteString("\n")
	case len(m.scores) == 0:
		b.WriteString(centerText(menuDimStyle.Render("No games won yet"), m.width))
		b.WriteString("\n")
	default:
		end := core.Min(m.offset+m.listHeight(), len(m.scores))
		for _, line := range m.scores[m.offset:end] {
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	controls := "Enter: Start  |  Up/Down: Scroll  |  Tab: Best times  |  Esc: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Player returns the trimmed username typed so far.
func (m MenuModel) Player() string {
	return strings.TrimSpace(m.input.Value())
}

// Started returns true if the player submitted a name.
func (m MenuModel) Started() bool {
	return m.started
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Player          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store memory.ScoreStore, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config(), Player: m.Player()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Started():
		result.Config.Player = m.Player()
	default:
		result.Quit = true
	}
	return result, nil
}
