package memory

import (
	"sort"
	"time"
)

// TimerID identifies a scheduled callback.
type TimerID uint64

type scheduled struct {
	id    TimerID
	due   time.Duration
	seq   uint64
	every time.Duration
	fn    func()
}

// Scheduler is a single-threaded callback queue over a virtual clock.
// Nothing runs on its own: the owner calls Advance from its event loop and
// due callbacks run inline, in due-time order and then in scheduling order.
// A recurring callback keeps the order of its original Every call, so it
// runs before any callback scheduled later that falls due at the same time.
type Scheduler struct {
	now     time.Duration
	nextID  TimerID
	seq     uint64
	pending []*scheduled
}

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual time elapsed since creation.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Len returns the number of pending callbacks.
func (s *Scheduler) Len() int {
	return len(s.pending)
}

// After runs fn once, d after the current time.
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	return s.add(d, 0, fn)
}

// Every runs fn each interval until cancelled. Non-positive intervals are
// rejected with a zero ID.
func (s *Scheduler) Every(interval time.Duration, fn func()) TimerID {
	if interval <= 0 {
		return 0
	}
	return s.add(interval, interval, fn)
}

func (s *Scheduler) add(d, every time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	s.nextID++
	s.push(&scheduled{id: s.nextID, due: s.now + d, every: every, fn: fn})
	return s.nextID
}

func (s *Scheduler) push(item *scheduled) {
	s.seq++
	item.seq = s.seq
	s.pending = append(s.pending, item)
}

// Cancel removes a pending callback. It reports whether one was removed.
func (s *Scheduler) Cancel(id TimerID) bool {
	for i, item := range s.pending {
		if item.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll drops every pending callback.
func (s *Scheduler) CancelAll() {
	s.pending = nil
}

// Advance moves the clock forward by d, running each callback that falls due.
// The clock reads the callback's due time while it runs.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := s.now + d
	for {
		next := s.popDue(target)
		if next == nil {
			break
		}
		s.now = next.due
		if next.every > 0 {
			s.pending = append(s.pending, &scheduled{
				id:    next.id,
				due:   next.due + next.every,
				seq:   next.seq,
				every: next.every,
				fn:    next.fn,
			})
		}
		next.fn()
	}
	s.now = target
}

func (s *Scheduler) popDue(target time.Duration) *scheduled {
	if len(s.pending) == 0 {
		return nil
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].due != s.pending[j].due {
			return s.pending[i].due < s.pending[j].due
		}
		return s.pending[i].seq < s.pending[j].seq
	})
	head := s.pending[0]
	if head.due > target {
		return nil
	}
	s.pending = s.pending[1:]
	return head
}
