package memory

import "time"

// EventKind identifies what happened in a session.
type EventKind uint8

const (
	EventCardRevealed EventKind = iota + 1
	EventPairMatched
	EventMismatch
	EventGameWon
	EventTimeTick
	EventTimeExpired
	EventHintShown
	EventHintHidden
	EventQuit
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventCardRevealed:
		return "card_revealed"
	case EventPairMatched:
		return "pair_matched"
	case EventMismatch:
		return "mismatch"
	case EventGameWon:
		return "game_won"
	case EventTimeTick:
		return "time_tick"
	case EventTimeExpired:
		return "time_expired"
	case EventHintShown:
		return "hint_shown"
	case EventHintHidden:
		return "hint_hidden"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Event is delivered to the session observer. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind      EventKind
	Cells     []Pos
	Symbol    int
	Pairs     int
	Remaining int
	Elapsed   time.Duration
}
