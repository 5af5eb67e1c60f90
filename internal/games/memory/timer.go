package memory

import "fmt"

// RoundTimer counts down whole ticks and expires exactly once.
type RoundTimer struct {
	remaining int
	running   bool
	expired   bool
}

// NewRoundTimer creates a running countdown of the given number of ticks.
func NewRoundTimer(ticks int) (*RoundTimer, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: round must last at least one tick, got %d", ErrInvalidConfiguration, ticks)
	}
	return &RoundTimer{remaining: ticks, running: true}, nil
}

// Tick advances the countdown by one step. It reports expired=true only on
// the tick that reaches zero; later ticks and ticks after Stop do nothing.
func (t *RoundTimer) Tick() (remaining int, expired bool) {
	if !t.running {
		return t.remaining, false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.running = false
		t.expired = true
		return 0, true
	}
	return t.remaining, false
}

// Stop halts the countdown without expiring it.
func (t *RoundTimer) Stop() {
	t.running = false
}

// Remaining returns the ticks left.
func (t *RoundTimer) Remaining() int {
	return t.remaining
}

// Running reports whether the countdown is still active.
func (t *RoundTimer) Running() bool {
	return t.running
}

// Expired reports whether the countdown reached zero.
func (t *RoundTimer) Expired() bool {
	return t.expired
}
