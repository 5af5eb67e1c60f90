package memory

import "time"

// Snapshot captures the complete session state for determinism testing.
type Snapshot struct {
	Outcome           Outcome
	Phase             Phase
	Pairs             int
	TotalPairs        int
	Remaining         int
	Elapsed           time.Duration
	HintActive        bool
	PendingResolution bool
	Cells             []Cell
}

// Snapshot returns the current session snapshot.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Outcome:           s.outcome,
		Phase:             s.engine.Phase(),
		Pairs:             s.engine.PairsFound(),
		TotalPairs:        s.board.Pairs(),
		Remaining:         s.timer.Remaining(),
		Elapsed:           s.Elapsed(),
		HintActive:        s.hintActive,
		PendingResolution: s.resolveID != 0,
		Cells:             s.board.Cells(),
	}
}

// Status returns the status of the cell at p, or StatusHidden off the grid.
func (sn Snapshot) Status(p Pos) Status {
	for _, c := range sn.Cells {
		if c.Pos == p {
			return c.Status
		}
	}
	return StatusHidden
}
