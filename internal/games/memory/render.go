package memory

import (
	"fmt"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-memory/internal/core"
)

// Card geometry in screen cells.
const (
	cardW = 6
	cardH = 3
)

type face uint8

const (
	faceDown face = iota
	faceUp
	faceLocked
)

type cardView struct {
	symbol int
	face   face
}

// boardView is what the player currently sees. It is driven only through the
// Surface methods, so hint overlays never leak into board state.
type boardView struct {
	size      int
	player    string
	cards     []cardView
	remaining int
	outcome   Outcome
	elapsed   time.Duration
}

var _ Surface = (*boardView)(nil)

func newBoardView(size int, player string) *boardView {
	n := 0
	if size > 0 {
		n = size * size
	}
	return &boardView{size: size, player: player, cards: make([]cardView, n)}
}

func (v *boardView) card(p Pos) *cardView {
	if p.Row < 0 || p.Row >= v.size || p.Col < 0 || p.Col >= v.size {
		return nil
	}
	return &v.cards[p.Row*v.size+p.Col]
}

func (v *boardView) ShowSymbol(p Pos, symbol int) {
	if c := v.card(p); c != nil {
		c.symbol = symbol
		if c.face != faceLocked {
			c.face = faceUp
		}
	}
}

func (v *boardView) ClearCell(p Pos) {
	if c := v.card(p); c != nil && c.face != faceLocked {
		c.face = faceDown
	}
}

func (v *boardView) DisableCell(p Pos) {
	if c := v.card(p); c != nil {
		c.face = faceLocked
	}
}

func (v *boardView) ShowRemaining(seconds int) {
	v.remaining = seconds
}

func (v *boardView) ShowOutcome(o Outcome, elapsed time.Duration) {
	v.outcome = o
	v.elapsed = elapsed
}

// minSize returns the smallest screen that fits the board and HUD.
func (v *boardView) minSize() (int, int) {
	return core.Max(v.size*cardW+2, 40), v.size*cardH + 7
}

// Render draws the current game state into the provided screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		dst.DrawTextCentered(dst.Height()/2-1, "Cannot start game", core.ColorRed)
		dst.DrawTextCentered(dst.Height()/2+1, g.err.Error(), core.ColorWhite)
		dst.DrawTextCentered(dst.Height()/2+3, "B: Menu  Q: Quit", core.ColorGray)
		return
	}
	if g.session == nil || g.view == nil {
		return
	}
	if g.tooSmall {
		minW, minH := g.view.minSize()
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("Window too small (need %dx%d)", minW, minH), core.ColorYellow)
		return
	}

	v := g.view
	boardW := v.size * cardW
	boardH := v.size * cardH
	originX := (dst.Width() - boardW) / 2
	originY := core.Max((dst.Height()-boardH-5)/2, 1)

	header := fmt.Sprintf("%s - Player: %s   Pairs: %d/%d", GameTitle, v.player, g.session.PairsFound(), g.session.board.Pairs())
	dst.DrawTextCentered(originY-1, header, core.ColorBrightCyan)

	for row := 0; row < v.size; row++ {
		for col := 0; col < v.size; col++ {
			p := Pos{Row: row, Col: col}
			x := originX + col*cardW
			y := originY + row*cardH
			g.drawCard(dst, x, y, v.cards[row*v.size+col], p == g.cursor && !v.outcome.Terminal())
		}
	}

	hudY := originY + boardH + 1
	timeColor := core.ColorWhite
	if v.remaining <= 10 {
		timeColor = core.ColorRed
	}
	dst.DrawTextCentered(hudY, fmt.Sprintf("Time left: %d seconds", v.remaining), timeColor)
	if g.session.HintActive() {
		dst.DrawTextCentered(hudY+1, "Hint!", core.ColorBrightYellow)
	}

	switch v.outcome {
	case OutcomeWon:
		msg := fmt.Sprintf("Congratulations, %s! You won! Time taken: %d seconds", v.player, int(v.elapsed/time.Second))
		dst.DrawTextCentered(hudY+2, msg, core.ColorBrightGreen)
		dst.DrawTextCentered(hudY+3, "R: Play again  B: Menu  Q: Quit", core.ColorGray)
	case OutcomeLost:
		dst.DrawTextCentered(hudY+2, "Time's up! You lost.", core.ColorRed)
		dst.DrawTextCentered(hudY+3, "R: Play again  B: Menu  Q: Quit", core.ColorGray)
	case OutcomeQuit:
		dst.DrawTextCentered(hudY+2, "Game abandoned.", core.ColorYellow)
		dst.DrawTextCentered(hudY+3, "R: Play again  B: Menu  Q: Quit", core.ColorGray)
	default:
		dst.DrawTextCentered(hudY+3, "Arrows: Move  Space: Flip  ?: Hint  Q: Quit", core.ColorGray)
	}
}

func (g *Game) drawCard(dst *core.Screen, x, y int, c cardView, selected bool) {
	boxColor := core.ColorGray
	label := "░░"
	labelColor := core.ColorGray

	switch c.face {
	case faceUp:
		boxColor = core.ColorCyan
		label = strconv.Itoa(c.symbol)
		labelColor = core.ColorBrightCyan
	case faceLocked:
		boxColor = core.ColorGreen
		label = strconv.Itoa(c.symbol)
		labelColor = core.ColorBrightGreen
	}
	if selected {
		boxColor = core.ColorBrightYellow
	}

	dst.DrawBox(core.NewRect(x, y, cardW, cardH), boxColor)
	lx := x + (cardW-len([]rune(label)))/2
	dst.DrawTextColored(lx, y+1, label, labelColor)
}
