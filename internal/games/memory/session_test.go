package memory

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type fakeSurface struct {
	visible   map[Pos]int
	disabled  map[Pos]bool
	remaining []int
	outcome   Outcome
	elapsed   time.Duration
	outcomes  int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{visible: make(map[Pos]int), disabled: make(map[Pos]bool)}
}

func (f *fakeSurface) ShowSymbol(p Pos, symbol int) { f.visible[p] = symbol }
func (f *fakeSurface) ClearCell(p Pos)              { delete(f.visible, p) }
func (f *fakeSurface) DisableCell(p Pos)            { f.disabled[p] = true }
func (f *fakeSurface) ShowRemaining(seconds int)    { f.remaining = append(f.remaining, seconds) }
func (f *fakeSurface) ShowOutcome(o Outcome, elapsed time.Duration) {
	f.outcome = o
	f.elapsed = elapsed
	f.outcomes++
}

type memStore struct {
	mu      sync.Mutex
	records []ScoreRecord
	fail    error
}

func (m *memStore) Append(_ context.Context, rec ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memStore) ReadAll(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, len(m.records))
	for i, r := range m.records {
		lines[i] = r.Line()
	}
	return lines, nil
}

type cueRecorder struct{ cues []Cue }

func (c *cueRecorder) Play(cue Cue) { c.cues = append(c.cues, cue) }

type harness struct {
	session *Session
	surface *fakeSurface
	store   *memStore
	audio   *cueRecorder
	events  []Event
}

func (h *harness) count(kind EventKind) int {
	n := 0
	for _, e := range h.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func startScenario(t *testing.T, mutate func(*Settings)) *harness {
	t.Helper()
	settings := DefaultSettings("alice")
	if mutate != nil {
		mutate(&settings)
	}

	h := &harness{surface: newFakeSurface(), store: &memStore{}, audio: &cueRecorder{}}
	s, err := StartSession(settings, Collaborators{
		Surface:  h.surface,
		Store:    h.store,
		Audio:    h.audio,
		Observer: func(e Event) { h.events = append(h.events, e) },
		Board:    newScenarioBoard(t),
	})
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	h.session = s
	return h
}

func mustSelect(t *testing.T, s *Session, p Pos) {
	t.Helper()
	if err := s.Select(p); err != nil {
		t.Fatalf("Select(%s) failed: %v", p, err)
	}
}

func TestStartSessionRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"odd grid", func(s *Settings) { s.GridSize = 3 }},
		{"zero grid", func(s *Settings) { s.GridSize = 0 }},
		{"zero round", func(s *Settings) { s.RoundDuration = 0 }},
		{"negative round", func(s *Settings) { s.RoundDuration = -time.Second }},
		{"zero tick", func(s *Settings) { s.TickInterval = 0 }},
		{"negative hint", func(s *Settings) { s.HintDuration = -1 }},
		{"empty player", func(s *Settings) { s.Player = "  " }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings := DefaultSettings("alice")
			tc.mutate(&settings)
			s, err := StartSession(settings, Collaborators{})
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("StartSession() error = %v, want ErrInvalidConfiguration", err)
			}
			if s != nil {
				t.Error("no session should be created")
			}
		})
	}
}

func TestStartSessionPresetBoardSizeMismatch(t *testing.T) {
	settings := DefaultSettings("alice")
	settings.GridSize = 6
	_, err := StartSession(settings, Collaborators{Board: newScenarioBoard(t)})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("StartSession() error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestStartSessionGeneratesBoard(t *testing.T) {
	settings := DefaultSettings("alice")
	settings.Seed = 5
	s, err := StartSession(settings, Collaborators{})
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	snap := s.Snapshot()
	if snap.Outcome != OutcomeInProgress || snap.Phase != PhaseAwaitingFirst {
		t.Errorf("fresh session: outcome=%s phase=%s", snap.Outcome, snap.Phase)
	}
	if snap.TotalPairs != 8 || snap.Remaining != 60 || len(snap.Cells) != 16 {
		t.Errorf("fresh session snapshot = %+v", snap)
	}
	if s.ID() == "" {
		t.Error("session should have an id")
	}
}

// Scenario A: two cells holding 3 are matched after the observation delay.
func TestSessionPairMatched(t *testing.T) {
	h := startScenario(t, nil)
	s := h.session

	mustSelect(t, s, Pos{0, 0})
	mustSelect(t, s, Pos{0, 1})
	if s.Phase() != PhaseResolving {
		t.Fatalf("phase = %s, want resolving", s.Phase())
	}
	if h.surface.visible[Pos{0, 0}] != 3 || h.surface.visible[Pos{0, 1}] != 3 {
		t.Error("both faces should be displayed during the delay")
	}

	s.Advance(499 * time.Millisecond)
	if h.count(EventPairMatched) != 0 {
		t.Fatal("pair resolved before the delay elapsed")
	}

	s.Advance(time.Millisecond)
	if h.count(EventPairMatched) != 1 {
		t.Fatalf("PairMatched emitted %d times, want 1", h.count(EventPairMatched))
	}
	if s.PairsFound() != 1 {
		t.Errorf("PairsFound() = %d, want 1", s.PairsFound())
	}
	snap := s.Snapshot()
	if snap.Status(Pos{0, 0}) != StatusMatched || snap.Status(Pos{0, 1}) != StatusMatched {
		t.Error("both cells should be matched")
	}
	if snap.Phase != PhaseAwaitingFirst || snap.PendingResolution {
		t.Errorf("engine should await a new turn, got %s pending=%v", snap.Phase, snap.PendingResolution)
	}
	if !h.surface.disabled[Pos{0, 0}] || !h.surface.disabled[Pos{0, 1}] {
		t.Error("matched cells should be disabled on the surface")
	}
	if len(h.audio.cues) != 1 || h.audio.cues[0] != CueMatch {
		t.Errorf("cues = %v, want [match]", h.audio.cues)
	}
}

// Scenario B: different symbols flip back and nothing is scored.
func TestSessionMismatch(t *testing.T) {
	h := startScenario(t, nil)
	s := h.session

	mustSelect(t, s, Pos{0, 0})
	mustSelect(t, s, Pos{0, 2})
	s.Advance(500 * time.Millisecond)

	if h.count(EventMismatch) != 1 {
		t.Fatalf("Mismatch emitted %d times, want 1", h.count(EventMismatch))
	}
	if s.PairsFound() != 0 {
		t.Errorf("PairsFound() = %d, want 0", s.PairsFound())
	}
	snap := s.Snapshot()
	if snap.Status(Pos{0, 0}) != StatusHidden || snap.Status(Pos{0, 2}) != StatusHidden {
		t.Error("both cells should be hidden again")
	}
	if _, ok := h.surface.visible[Pos{0, 0}]; ok {
		t.Error("surface should clear mismatched cells")
	}
	if len(h.audio.cues) != 1 || h.audio.cues[0] != CueWrong {
		t.Errorf("cues = %v, want [wrong]", h.audio.cues)
	}
}

func TestSessionIgnoresInputWhileResolving(t *testing.T) {
	h := startScenario(t, nil)
	s := h.session

	mustSelect(t, s, Pos{0, 0})
	mustSelect(t, s, Pos{0, 2})
	if err := s.Select(Pos{3, 3}); !errors.Is(err, ErrTurnInProgress) {
		t.Errorf("Select() error = %v, want ErrTurnInProgress", err)
	}
	if s.Snapshot().Status(Pos{3, 3}) != StatusHidden {
		t.Error("input during resolution must not reveal anything")
	}
}

// Scenario C: matching all eight pairs wins exactly once and records a score.
func TestSessionWin(t *testing.T) {
	h := startScenario(t, nil)
	s := h.session

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col += 2 {
			mustSelect(t, s, Pos{row, col})
			mustSelect(t, s, Pos{row, col + 1})
			s.Advance(500 * time.Millisecond)
		}
	}
	s.Advance(10 * time.Second)
	s.Wait()

	if h.count(EventGameWon) != 1 {
		t.Fatalf("GameWon emitted %d times, want 1", h.count(EventGameWon))
	}
	if s.Outcome() != OutcomeWon {
		t.Errorf("Outcome() = %s, want won", s.Outcome())
	}
	if s.Elapsed() != 4*time.Second {
		t.Errorf("Elapsed() = %s, want 4s frozen at the win", s.Elapsed())
	}
	if len(h.store.records) != 1 {
		t.Fatalf("store has %d records, want 1", len(h.store.records))
	}

	rec := h.store.records[0]
	if rec.Player != "alice" || rec.Pairs != 8 || rec.Seconds != 4 || rec.GridSize != 4 {
		t.Errorf("record = %+v", rec)
	}
	if rec.SessionID != s.ID() {
		t.Errorf("record session = %q, want %q", rec.SessionID, s.ID())
	}
	if rec.Line() != "alice: 8 pairs, Time Taken: 4 seconds" {
		t.Errorf("Line() = %q", rec.Line())
	}
	if h.surface.outcome != OutcomeWon || h.surface.outcomes != 1 {
		t.Errorf("surface outcome = %s shown %d times", h.surface.outcome, h.surface.outcomes)
	}
	if h.audio.cues[len(h.audio.cues)-1] != CueWin {
		t.Errorf("last cue = %s, want win", h.audio.cues[len(h.audio.cues)-1])
	}
	if err := s.Select(Pos{0, 0}); !errors.Is(err, ErrSessionOver) {
		t.Errorf("Select() after win error = %v, want ErrSessionOver", err)
	}
}

func TestSessionTimeExpired(t *testing.T) {
	h := startScenario(t, func(s *Settings) { s.RoundDuration = 2 * time.Second })
	s := h.session

	s.Advance(time.Second)
	if h.count(EventTimeExpired) != 0 {
		t.Fatal("expired after one tick")
	}
	s.Advance(time.Second)

	if h.count(EventTimeExpired) != 1 {
		t.Fatalf("TimeExpired emitted %d times, want 1", h.count(EventTimeExpired))
	}
	if s.Outcome() != OutcomeLost {
		t.Errorf("Outcome() = %s, want lost", s.Outcome())
	}

	s.Advance(5 * time.Second)
	if n := h.count(EventTimeTick); n != 2 {
		t.Errorf("processed %d ticks, want 2", n)
	}
	if h.count(EventTimeExpired) != 1 {
		t.Error("TimeExpired must fire exactly once")
	}
	s.Wait()
	if len(h.store.records) != 0 {
		t.Error("a lost session must not record a score")
	}
	if got := h.surface.remaining; len(got) != 3 || got[0] != 2 || got[2] != 0 {
		t.Errorf("remaining shown = %v, want [2 1 0]", got)
	}
	if h.surface.outcome != OutcomeLost {
		t.Errorf("surface outcome = %s, want lost", h.surface.outcome)
	}
}

func TestSessionExpiryPreemptsResolution(t *testing.T) {
	h := startScenario(t, func(s *Settings) { s.RoundDuration = time.Second })
	s := h.session

	s.Advance(800 * time.Millisecond)
	mustSelect(t, s, Pos{0, 0})
	mustSelect(t, s, Pos{0, 1})
	s.Advance(time.Second)

	if s.Outcome() != OutcomeLost {
		t.Fatalf("Outcome() = %s, want lost", s.Outcome())
	}
	if h.count(EventPairMatched) != 0 {
		t.Error("pending comparison must not resolve after the round ended")
	}
	if s.PairsFound() != 0 {
		t.Errorf("PairsFound() = %d, want 0", s.PairsFound())
	}
}

func TestSessionExpiryWinsTieWithLateResolution(t *testing.T) {
	board, err := NewBoard(2, []int{1, 1, 2, 2})
	if err != nil {
		t.Fatalf("NewBoard() failed: %v", err)
	}
	settings := DefaultSettings("alice")
	settings.GridSize = 2
	settings.RoundDuration = 3 * time.Second
	settings.ResolveDelay = 1500 * time.Millisecond

	store := &memStore{}
	var events []Event
	s, err := StartSession(settings, Collaborators{
		Store:    store,
		Board:    board,
		Observer: func(e Event) { events = append(events, e) },
	})
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	mustSelect(t, s, Pos{0, 0})
	mustSelect(t, s, Pos{0, 1})
	s.Advance(1500 * time.Millisecond)
	mustSelect(t, s, Pos{1, 0})
	mustSelect(t, s, Pos{1, 1})
	s.Advance(1500 * time.Millisecond)
	s.Wait()

	if s.Outcome() != OutcomeLost {
		t.Fatalf("Outcome() = %s, want lost; events = %v", s.Outcome(), events)
	}
	if s.PairsFound() != 1 {
		t.Errorf("PairsFound() = %d, want 1", s.PairsFound())
	}
	if len(store.records) != 0 {
		t.Errorf("store has %d records, want none", len(store.records))
	}
}

func TestSessionQuitCancelsPendingWork(t *testing.T) {
	h := startScenario(t, nil)
	s := h.session

	mustSelect(t, s, Pos{0, 0})
	mustSelect(t, s, Pos{0, 1})
	s.Quit()
	eventsAtQuit := len(h.events)

	s.Advance(time.Minute)
	s.Wait()

	if s.Outcome() != OutcomeQuit {
		t.Errorf("Outcome() = %s, want quit", s.Outcome())
	}
	if len(h.events) != eventsAtQuit {
		t.Errorf("events after quit: %v", h.events[eventsAtQuit:])
	}
	if len(h.store.records) != 0 {
		t.Error("quit must not record a score")
	}
	if err := s.Hint(); !errors.Is(err, ErrSessionOver) {
		t.Errorf("Hint() after quit error = %v, want ErrSessionOver", err)
	}

	// A second quit is a no-op
	s.Quit()
	if h.count(EventQuit) != 1 {
		t.Errorf("Quit emitted %d times, want 1", h.count(EventQuit))
	}
}

func TestSessionHint(t *testing.T) {
	h := startScenario(t, nil)
	s := h.session

	mustSelect(t, s, Pos{0, 0})
	mustSelect(t, s, Pos{0, 1})
	s.Advance(500 * time.Millisecond)
	mustSelect(t, s, Pos{1, 0})

	before := s.Snapshot()
	if err := s.Hint(); err != nil {
		t.Fatalf("Hint() failed: %v", err)
	}
	if len(h.surface.visible) != 16 {
		t.Errorf("hint shows %d cells, want 16", len(h.surface.visible))
	}
	during := s.Snapshot()
	for i := range before.Cells {
		if before.Cells[i] != during.Cells[i] {
			t.Fatalf("hint changed board state at %s", before.Cells[i].Pos)
		}
	}
	if during.Phase != PhaseAwaitingSecond {
		t.Errorf("hint changed the turn phase to %s", during.Phase)
	}

	s.Advance(time.Second)

	if s.HintActive() {
		t.Error("hint should be over")
	}
	for _, c := range s.Cells() {
		_, shown := h.surface.visible[c.Pos]
		switch c.Status {
		case StatusHidden:
			if shown {
				t.Errorf("hidden cell %s still shown after hint", c.Pos)
			}
		default:
			if !shown {
				t.Errorf("%s cell %s should stay shown", c.Status, c.Pos)
			}
		}
	}
	if h.count(EventHintShown) != 1 || h.count(EventHintHidden) != 1 {
		t.Errorf("hint events: shown=%d hidden=%d", h.count(EventHintShown), h.count(EventHintHidden))
	}
}

func TestSessionSelectionDuringHint(t *testing.T) {
	h := startScenario(t, nil)
	s := h.session

	if err := s.Hint(); err != nil {
		t.Fatal(err)
	}
	mustSelect(t, s, Pos{0, 0})
	mustSelect(t, s, Pos{2, 2})
	s.Advance(500 * time.Millisecond)

	// Mismatch resolved under the overlay; faces stay up until the hint ends
	if h.count(EventMismatch) != 1 {
		t.Fatalf("Mismatch emitted %d times, want 1", h.count(EventMismatch))
	}
	if _, ok := h.surface.visible[Pos{0, 0}]; !ok {
		t.Error("overlay should still show the cell")
	}

	s.Advance(500 * time.Millisecond)
	if _, ok := h.surface.visible[Pos{0, 0}]; ok {
		t.Error("cell should be hidden once the hint ends")
	}
}

func TestSessionHintRestartsWindow(t *testing.T) {
	h := startScenario(t, nil)
	s := h.session

	s.Hint()
	s.Advance(800 * time.Millisecond)
	s.Hint()
	s.Advance(800 * time.Millisecond)
	if !s.HintActive() {
		t.Error("second hint should extend the overlay")
	}
	s.Advance(200 * time.Millisecond)
	if s.HintActive() {
		t.Error("overlay should close one hint duration after the last request")
	}
	if h.count(EventHintHidden) != 1 {
		t.Errorf("HintHidden emitted %d times, want 1", h.count(EventHintHidden))
	}
}

func TestSessionStoreFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	store := &memStore{fail: errors.New("disk full")}

	settings := DefaultSettings("bob")
	settings.GridSize = 2
	board, _ := NewBoard(2, []int{1, 1, 2, 2})
	s, err := StartSession(settings, Collaborators{Store: store, Logger: logger, Board: board})
	if err != nil {
		t.Fatal(err)
	}

	mustSelect(t, s, Pos{0, 0})
	mustSelect(t, s, Pos{0, 1})
	s.Advance(500 * time.Millisecond)
	mustSelect(t, s, Pos{1, 0})
	mustSelect(t, s, Pos{1, 1})
	s.Advance(500 * time.Millisecond)
	s.Wait()

	if s.Outcome() != OutcomeWon {
		t.Fatalf("Outcome() = %s, want won despite the store failure", s.Outcome())
	}
	out := buf.String()
	if !strings.Contains(out, "score not saved") || !strings.Contains(out, "disk full") {
		t.Errorf("store failure not logged: %q", out)
	}
}
