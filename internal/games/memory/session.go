package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Outcome is the session's terminal state, or InProgress.
type Outcome uint8

const (
	OutcomeInProgress Outcome = iota
	OutcomeWon
	OutcomeLost
	OutcomeQuit
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	case OutcomeQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Terminal reports whether the outcome ends the session.
func (o Outcome) Terminal() bool {
	return o != OutcomeInProgress
}

// storeTimeout bounds a single score append.
const storeTimeout = 5 * time.Second

// Settings configures one session.
type Settings struct {
	Player        string
	GridSize      int
	RoundDuration time.Duration
	TickInterval  time.Duration
	ResolveDelay  time.Duration
	HintDuration  time.Duration
	Seed          int64
}

// DefaultSettings returns the classic 4×4, 60 second game.
func DefaultSettings(player string) Settings {
	return Settings{
		Player:        player,
		GridSize:      4,
		RoundDuration: 60 * time.Second,
		TickInterval:  time.Second,
		ResolveDelay:  500 * time.Millisecond,
		HintDuration:  time.Second,
	}
}

// Validate checks the settings before a session is created.
func (s Settings) Validate() error {
	var problems []string
	if strings.TrimSpace(s.Player) == "" {
		problems = append(problems, "player name is empty")
	}
	if s.GridSize <= 0 || s.GridSize%2 != 0 {
		problems = append(problems, fmt.Sprintf("grid size %d must be positive and even", s.GridSize))
	}
	if s.RoundDuration <= 0 {
		problems = append(problems, fmt.Sprintf("round duration %s must be positive", s.RoundDuration))
	}
	if s.TickInterval <= 0 {
		problems = append(problems, fmt.Sprintf("tick interval %s must be positive", s.TickInterval))
	}
	if s.ResolveDelay < 0 {
		problems = append(problems, fmt.Sprintf("resolve delay %s is negative", s.ResolveDelay))
	}
	if s.HintDuration < 0 {
		problems = append(problems, fmt.Sprintf("hint duration %s is negative", s.HintDuration))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// RoundTicks returns the countdown length in ticks, rounding up.
func (s Settings) RoundTicks() int {
	if s.TickInterval <= 0 {
		return 0
	}
	return int((s.RoundDuration + s.TickInterval - 1) / s.TickInterval)
}

// Collaborators are the outside parties a session talks to. Every field is
// optional.
type Collaborators struct {
	Surface  Surface
	Store    ScoreStore
	Audio    Audio
	Logger   *log.Logger
	Observer func(Event)

	// Board replaces the generated layout. Its size must equal GridSize.
	Board *Board

	// Clock stamps score records. Defaults to time.Now.
	Clock func() time.Time
}

// Session ties the board, match engine, and round timer to one player's game.
// All methods must be called from a single goroutine; Advance drives every
// delayed effect.
type Session struct {
	id       string
	settings Settings

	board  *Board
	engine *Engine
	timer  *RoundTimer
	sched  *Scheduler

	surface  Surface
	store    ScoreStore
	audio    Audio
	logger   *log.Logger
	observer func(Event)
	clock    func() time.Time

	outcome    Outcome
	endedAt    time.Duration
	resolveID  TimerID
	tickID     TimerID
	hintID     TimerID
	hintActive bool

	persisting sync.WaitGroup
}

// StartSession validates the settings, deals a board, and starts the countdown.
func StartSession(settings Settings, c Collaborators) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	board := c.Board
	if board == nil {
		var err error
		board, err = Generate(settings.GridSize, rand.New(rand.NewSource(settings.Seed)))
		if err != nil {
			return nil, err
		}
	} else if board.Size() != settings.GridSize {
		return nil, fmt.Errorf("%w: preset board is %dx%d, settings ask for %d",
			ErrInvalidConfiguration, board.Size(), board.Size(), settings.GridSize)
	}

	timer, err := NewRoundTimer(settings.RoundTicks())
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:       uuid.NewString(),
		settings: settings,
		board:    board,
		engine:   NewEngine(board),
		timer:    timer,
		sched:    NewScheduler(),
		surface:  c.Surface,
		store:    c.Store,
		audio:    c.Audio,
		logger:   c.Logger,
		observer: c.Observer,
		clock:    c.Clock,
		outcome:  OutcomeInProgress,
	}
	if s.surface == nil {
		s.surface = nopSurface{}
	}
	if s.audio == nil {
		s.audio = nopAudio{}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.clock == nil {
		s.clock = time.Now
	}

	s.tickID = s.sched.Every(settings.TickInterval, s.onTick)
	s.surface.ShowRemaining(s.remainingSeconds())

	s.logger.Info("session started",
		"session", s.id,
		"player", settings.Player,
		"grid", settings.GridSize,
		"round", settings.RoundDuration,
		"seed", settings.Seed,
	)
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Settings returns the settings the session was started with.
func (s *Session) Settings() Settings {
	return s.settings
}

// Outcome returns the current outcome.
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// Phase returns the match engine's turn phase.
func (s *Session) Phase() Phase {
	return s.engine.Phase()
}

// PairsFound returns the number of pairs matched.
func (s *Session) PairsFound() int {
	return s.engine.PairsFound()
}

// Remaining returns the ticks left on the round timer.
func (s *Session) Remaining() int {
	return s.timer.Remaining()
}

// HintActive reports whether the hint overlay is showing.
func (s *Session) HintActive() bool {
	return s.hintActive
}

// Elapsed returns the play time, frozen once the session ends.
func (s *Session) Elapsed() time.Duration {
	if s.outcome.Terminal() {
		return s.endedAt
	}
	return s.sched.Now()
}

// Cells returns a copy of the board state.
func (s *Session) Cells() []Cell {
	return s.board.Cells()
}

// Advance moves session time forward, firing due resolutions, hint
// expiry, and timer ticks in order.
func (s *Session) Advance(d time.Duration) {
	s.sched.Advance(d)
}

// Select forwards a cell pick to the match engine. Rejected picks return an
// error and change nothing; callers treat them as ignored input.
func (s *Session) Select(p Pos) error {
	if s.outcome.Terminal() {
		return ErrSessionOver
	}

	sym, err := s.engine.Select(p)
	if err != nil {
		s.logger.Debug("selection ignored", "session", s.id, "pos", p, "reason", err)
		return err
	}

	s.surface.ShowSymbol(p, sym)
	s.emit(Event{Kind: EventCardRevealed, Cells: []Pos{p}, Symbol: sym})

	if s.engine.Phase() == PhaseResolving {
		s.resolveID = s.sched.After(s.settings.ResolveDelay, s.resolve)
	}
	return nil
}

func (s *Session) resolve() {
	s.resolveID = 0
	if s.outcome.Terminal() {
		return
	}

	res, err := s.engine.Resolve()
	if err != nil {
		s.logger.Error("resolution aborted", "session", s.id, "error", err)
		return
	}
	cells := []Pos{res.First, res.Second}

	if !res.Matched {
		if !s.hintActive {
			s.surface.ClearCell(res.First)
			s.surface.ClearCell(res.Second)
		}
		s.audio.Play(CueWrong)
		s.logger.Debug("mismatch", "session", s.id, "cells", cells)
		s.emit(Event{Kind: EventMismatch, Cells: cells, Pairs: res.Pairs})
		return
	}

	s.surface.DisableCell(res.First)
	s.surface.DisableCell(res.Second)
	s.audio.Play(CueMatch)
	s.logger.Debug("pair matched", "session", s.id, "cells", cells, "pairs", res.Pairs)
	s.emit(Event{Kind: EventPairMatched, Cells: cells, Symbol: res.Symbol, Pairs: res.Pairs})

	if res.Won {
		s.win()
	}
}

func (s *Session) onTick() {
	if s.outcome.Terminal() {
		return
	}
	remaining, expired := s.timer.Tick()
	s.surface.ShowRemaining(s.remainingSeconds())
	s.emit(Event{Kind: EventTimeTick, Remaining: remaining})
	if expired {
		s.lose()
	}
}

func (s *Session) remainingSeconds() int {
	return int(time.Duration(s.timer.Remaining()) * s.settings.TickInterval / time.Second)
}

// Hint shows every face for the hint duration. Board state and the current
// turn are untouched; when the window closes only hidden cells are cleared.
func (s *Session) Hint() error {
	if s.outcome.Terminal() {
		return ErrSessionOver
	}
	if s.hintActive {
		s.sched.Cancel(s.hintID)
	}
	s.hintActive = true
	for _, c := range s.board.Cells() {
		s.surface.ShowSymbol(c.Pos, c.Symbol)
	}
	s.hintID = s.sched.After(s.settings.HintDuration, s.endHint)
	s.emit(Event{Kind: EventHintShown})
	return nil
}

func (s *Session) endHint() {
	s.hintID = 0
	s.hintActive = false
	if s.outcome.Terminal() {
		return
	}
	for _, c := range s.board.Cells() {
		if c.Status == StatusHidden {
			s.surface.ClearCell(c.Pos)
		}
	}
	s.emit(Event{Kind: EventHintHidden})
}

// Quit ends the session immediately without recording a score.
func (s *Session) Quit() {
	if s.outcome.Terminal() {
		return
	}
	s.finish(OutcomeQuit)
	s.logger.Info("session quit", "session", s.id, "player", s.settings.Player, "pairs", s.PairsFound())
	s.surface.ShowOutcome(OutcomeQuit, s.endedAt)
	s.emit(Event{Kind: EventQuit, Pairs: s.PairsFound(), Elapsed: s.endedAt})
}

func (s *Session) win() {
	s.finish(OutcomeWon)
	s.audio.Play(CueWin)

	rec := ScoreRecord{
		SessionID:  s.id,
		Player:     s.settings.Player,
		Pairs:      s.PairsFound(),
		Seconds:    int(s.endedAt / time.Second),
		GridSize:   s.settings.GridSize,
		FinishedAt: s.clock(),
	}
	s.persist(rec)

	s.logger.Info("session won", "session", s.id, "player", rec.Player, "pairs", rec.Pairs, "seconds", rec.Seconds)
	s.surface.ShowOutcome(OutcomeWon, s.endedAt)
	s.emit(Event{Kind: EventGameWon, Pairs: rec.Pairs, Elapsed: s.endedAt})
}

func (s *Session) lose() {
	s.finish(OutcomeLost)
	s.audio.Play(CueLose)
	s.logger.Info("session lost", "session", s.id, "player", s.settings.Player, "pairs", s.PairsFound())
	s.surface.ShowOutcome(OutcomeLost, s.endedAt)
	s.emit(Event{Kind: EventTimeExpired, Pairs: s.PairsFound(), Elapsed: s.endedAt})
}

// finish records the terminal outcome and drops every pending callback.
func (s *Session) finish(o Outcome) {
	s.outcome = o
	s.endedAt = s.sched.Now()
	s.timer.Stop()
	s.sched.CancelAll()
	s.resolveID, s.tickID, s.hintID = 0, 0, 0
	s.hintActive = false
}

// persist appends the record in the background. Failures are logged only.
func (s *Session) persist(rec ScoreRecord) {
	if s.store == nil {
		s.logger.Warn("no score store configured, score not saved", "session", s.id)
		return
	}
	store, logger := s.store, s.logger

	s.persisting.Add(1)
	go func() {
		defer s.persisting.Done()
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := store.Append(ctx, rec); err != nil {
			if !errors.Is(err, ErrStoreUnavailable) {
				err = fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
			logger.Error("score not saved", "session", rec.SessionID, "error", err)
		}
	}()
}

// Wait blocks until background score writes have finished.
func (s *Session) Wait() {
	s.persisting.Wait()
}

func (s *Session) emit(e Event) {
	if s.observer != nil {
		s.observer(e)
	}
}
