package memory

import (
	"context"
	"fmt"
	"time"
)

// Surface receives display updates. Implementations draw; they never
// decide game rules.
type Surface interface {
	ShowSymbol(p Pos, symbol int)
	ClearCell(p Pos)
	DisableCell(p Pos)
	ShowRemaining(seconds int)
	ShowOutcome(o Outcome, elapsed time.Duration)
}

// ScoreStore is the append-only log of completed sessions.
type ScoreStore interface {
	Append(ctx context.Context, rec ScoreRecord) error
	// ReadAll returns every stored line in append order.
	ReadAll(ctx context.Context) ([]string, error)
}

// Cue names a sound effect.
type Cue string

const (
	CueMatch Cue = "match"
	CueWrong Cue = "wrong"
	CueWin   Cue = "win"
	CueLose  Cue = "lose"
)

// Audio plays cues fire-and-forget.
type Audio interface {
	Play(cue Cue)
}

// ScoreRecord is written once for every won session.
type ScoreRecord struct {
	SessionID  string
	Player     string
	Pairs      int
	Seconds    int
	GridSize   int
	FinishedAt time.Time
}

// Line formats the record as a score log line.
func (r ScoreRecord) Line() string {
	return fmt.Sprintf("%s: %d pairs, Time Taken: %d seconds", r.Player, r.Pairs, r.Seconds)
}

type nopSurface struct{}

func (nopSurface) ShowSymbol(Pos, int)                {}
func (nopSurface) ClearCell(Pos)                      {}
func (nopSurface) DisableCell(Pos)                    {}
func (nopSurface) ShowRemaining(int)                  {}
func (nopSurface) ShowOutcome(Outcome, time.Duration) {}

type nopAudio struct{}

func (nopAudio) Play(Cue) {}
