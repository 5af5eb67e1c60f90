package memory

import "fmt"

// Phase is the match engine's position within a turn.
type Phase uint8

const (
	PhaseAwaitingFirst Phase = iota
	PhaseAwaitingSecond
	PhaseResolving
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingFirst:
		return "awaiting_first"
	case PhaseAwaitingSecond:
		return "awaiting_second"
	case PhaseResolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// Resolution is the result of comparing the two selected cells.
type Resolution struct {
	First   Pos
	Second  Pos
	Matched bool
	Symbol  int  // Symbol of the pair when Matched
	Won     bool // Set when this match completed the board
	Pairs   int  // Pairs found after this resolution
}

// Engine sequences turns: first pick, second pick, compare.
// It mutates the board it was built with and nothing else.
type Engine struct {
	board      *Board
	phase      Phase
	selection  [2]Pos
	pairsFound int
}

// NewEngine creates an engine for the given board, awaiting the first pick.
func NewEngine(b *Board) *Engine {
	return &Engine{
		board:      b,
		phase:      PhaseAwaitingFirst,
		pairsFound: b.MatchedPairs(),
	}
}

// Phase returns the current turn phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// PairsFound returns the number of pairs matched so far.
func (e *Engine) PairsFound() int {
	return e.pairsFound
}

// Selection returns the cells picked in the current turn.
func (e *Engine) Selection() []Pos {
	switch e.phase {
	case PhaseAwaitingSecond:
		return []Pos{e.selection[0]}
	case PhaseResolving:
		return []Pos{e.selection[0], e.selection[1]}
	default:
		return nil
	}
}

// Select handles a cell pick and returns the revealed symbol.
// Picks that do not advance the turn return an error and leave every piece
// of state unchanged: ErrTurnInProgress while resolving, ErrAlreadyRevealed
// for face-up, matched, or repeated cells, ErrOutOfBounds off the grid.
func (e *Engine) Select(p Pos) (int, error) {
	switch e.phase {
	case PhaseResolving:
		return 0, ErrTurnInProgress

	case PhaseAwaitingFirst:
		sym, err := e.board.Reveal(p)
		if err != nil {
			return 0, err
		}
		e.selection[0] = p
		e.phase = PhaseAwaitingSecond
		return sym, nil

	case PhaseAwaitingSecond:
		if p == e.selection[0] {
			return 0, fmt.Errorf("%w: %s already picked this turn", ErrAlreadyRevealed, p)
		}
		sym, err := e.board.Reveal(p)
		if err != nil {
			return 0, err
		}
		e.selection[1] = p
		e.phase = PhaseResolving
		return sym, nil
	}

	return 0, fmt.Errorf("%w: unknown phase %d", ErrInvariantViolation, e.phase)
}

// Resolve compares the two picked cells, locks or hides them, and starts the
// next turn. It must only be called while resolving.
func (e *Engine) Resolve() (Resolution, error) {
	if e.phase != PhaseResolving {
		return Resolution{}, fmt.Errorf("%w: resolve called in phase %s", ErrInvariantViolation, e.phase)
	}

	a, b := e.selection[0], e.selection[1]
	ca, err := e.board.At(a)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	cb, err := e.board.At(b)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	res := Resolution{First: a, Second: b}
	if ca.Symbol == cb.Symbol {
		if err := e.board.LockMatched(a, b); err != nil {
			return Resolution{}, err
		}
		e.pairsFound++
		res.Matched = true
		res.Symbol = ca.Symbol
		res.Won = e.pairsFound == e.board.Pairs()
	} else {
		e.board.Hide(a)
		e.board.Hide(b)
	}
	res.Pairs = e.pairsFound

	e.phase = PhaseAwaitingFirst
	e.selection = [2]Pos{}
	return res, nil
}
