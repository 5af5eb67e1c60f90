// Package audio provides Memory Match sound cues for the terminal.
package audio

import (
	"io"
	"sync"

	"github.com/vovakirdan/tui-memory/internal/games/memory"
)

// Bell rings the terminal bell for cues. Terminals have a single sound, so
// the match cue rings once and the end-of-game cues ring twice.
type Bell struct {
	mu    sync.Mutex
	w     io.Writer
	rings map[memory.Cue]int
}

var _ memory.Audio = (*Bell)(nil)

// NewBell creates a bell writing to w, typically os.Stderr so it does not
// interleave with the rendered frame.
func NewBell(w io.Writer) *Bell {
	return &Bell{
		w: w,
		rings: map[memory.Cue]int{
			memory.CueMatch: 1,
			memory.CueWin:   2,
			memory.CueLose:  2,
		},
	}
}

// Play rings the bell for cue. Write errors are ignored.
func (b *Bell) Play(cue memory.Cue) {
	n := b.rings[cue]
	if n == 0 || b.w == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		//nolint:errcheck // Cues are fire-and-forget
		io.WriteString(b.w, "\a")
	}
}

// Nop discards every cue.
type Nop struct{}

// Play does nothing.
func (Nop) Play(memory.Cue) {}

// New returns a bell on w when enabled, otherwise a silent player.
func New(enabled bool, w io.Writer) memory.Audio {
	if !enabled || w == nil {
		return Nop{}
	}
	return NewBell(w)
}
