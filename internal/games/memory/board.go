// Package memory implements the Memory Match game: a grid of hidden symbol
// pairs revealed two at a time against a countdown.
package memory

import "fmt"

// Status is the visibility state of a single cell.
type Status uint8

const (
	StatusHidden Status = iota
	StatusRevealed
	StatusMatched
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusHidden:
		return "hidden"
	case StatusRevealed:
		return "revealed"
	case StatusMatched:
		return "matched"
	default:
		return "unknown"
	}
}

// Pos is a grid coordinate.
type Pos struct {
	Row int
	Col int
}

// String formats the position as "(row,col)".
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Cell is one grid position. Symbol never changes after the board is built.
type Cell struct {
	Pos    Pos
	Symbol int
	Status Status
}

// Board is an N×N row-major grid where every symbol appears on exactly two cells.
type Board struct {
	size  int
	cells []Cell
}

// NewBoard builds a board from a row-major symbol layout.
// The layout must hold size*size symbols with every value appearing exactly twice.
func NewBoard(size int, symbols []int) (*Board, error) {
	if size <= 0 || size%2 != 0 {
		return nil, fmt.Errorf("%w: grid size %d must be positive and even", ErrInvalidConfiguration, size)
	}
	if len(symbols) != size*size {
		return nil, fmt.Errorf("%w: layout has %d symbols, want %d", ErrInvalidConfiguration, len(symbols), size*size)
	}

	counts := make(map[int]int, len(symbols)/2)
	for _, s := range symbols {
		counts[s]++
	}
	for sym, n := range counts {
		if n != 2 {
			return nil, fmt.Errorf("%w: symbol %d appears %d times", ErrInvalidConfiguration, sym, n)
		}
	}

	b := &Board{size: size, cells: make([]Cell, len(symbols))}
	for i, sym := range symbols {
		b.cells[i] = Cell{
			Pos:    Pos{Row: i / size, Col: i % size},
			Symbol: sym,
			Status: StatusHidden,
		}
	}
	return b, nil
}

// Size returns the grid edge length.
func (b *Board) Size() int {
	return b.size
}

// Pairs returns the number of pairs on the board.
func (b *Board) Pairs() int {
	return len(b.cells) / 2
}

// Contains reports whether p lies inside the grid.
func (b *Board) Contains(p Pos) bool {
	return p.Row >= 0 && p.Row < b.size && p.Col >= 0 && p.Col < b.size
}

// At returns the cell at p.
func (b *Board) At(p Pos) (Cell, error) {
	c, err := b.cell(p)
	if err != nil {
		return Cell{}, err
	}
	return *c, nil
}

// Cells returns a row-major copy of every cell.
func (b *Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

func (b *Board) cell(p Pos) (*Cell, error) {
	if !b.Contains(p) {
		return nil, fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, p, b.size, b.size)
	}
	return &b.cells[p.Row*b.size+p.Col], nil
}

// Reveal turns a hidden cell face up and returns its symbol.
func (b *Board) Reveal(p Pos) (int, error) {
	c, err := b.cell(p)
	if err != nil {
		return 0, err
	}
	if c.Status != StatusHidden {
		return 0, fmt.Errorf("%w: %s is %s", ErrAlreadyRevealed, p, c.Status)
	}
	c.Status = StatusRevealed
	return c.Symbol, nil
}

// Hide turns a revealed cell face down again.
// Matched and hidden cells are left untouched; the result reports whether
// anything changed.
func (b *Board) Hide(p Pos) bool {
	c, err := b.cell(p)
	if err != nil || c.Status != StatusRevealed {
		return false
	}
	c.Status = StatusHidden
	return true
}

// LockMatched marks two revealed cells holding the same symbol as matched.
func (b *Board) LockMatched(a, other Pos) error {
	if a == other {
		return fmt.Errorf("%w: cannot pair %s with itself", ErrInvariantViolation, a)
	}
	ca, err := b.cell(a)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	cb, err := b.cell(other)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	if ca.Status != StatusRevealed || cb.Status != StatusRevealed {
		return fmt.Errorf("%w: lock %s (%s) and %s (%s) requires both revealed",
			ErrInvariantViolation, a, ca.Status, other, cb.Status)
	}
	if ca.Symbol != cb.Symbol {
		return fmt.Errorf("%w: lock %s and %s with symbols %d != %d",
			ErrInvariantViolation, a, other, ca.Symbol, cb.Symbol)
	}
	ca.Status = StatusMatched
	cb.Status = StatusMatched
	return nil
}

// AllMatched reports whether every cell is matched.
func (b *Board) AllMatched() bool {
	for _, c := range b.cells {
		if c.Status != StatusMatched {
			return false
		}
	}
	return true
}

// MatchedPairs counts pairs already locked.
func (b *Board) MatchedPairs() int {
	n := 0
	for _, c := range b.cells {
		if c.Status == StatusMatched {
			n++
		}
	}
	return n / 2
}
