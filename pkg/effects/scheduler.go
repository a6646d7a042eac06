// Package effects drives the greeting's cosmetic layer: timers owned by a
// screen, floating hearts, confetti and the canvas they are drawn on.
//
// Nothing in here touches screen or decline state. Effects only produce
// Bubble Tea commands and pixels-in-cells.
package effects

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Timer identifies one scheduled delivery.
type Timer struct {
	owner string
	epoch uint64
	id    uint64
}

// Fired is the message delivered when a timer elapses. Pass it to the owning
// scheduler's Accept before acting on Payload.
type Fired struct {
	Timer
	Payload any
	At      time.Time
}

// Scheduler hands out tea.Tick timers and can cancel all of them at once.
//
// Bubble Tea cannot stop a tick that is already in flight, so cancellation
// works by epoch: CancelAll moves to a new epoch and every delivery from the
// old one is rejected by Accept. A recurring effect re-arms itself only after
// Accept succeeds, so it dies with its epoch.
//
// The zero value is not usable; call NewScheduler.
type Scheduler struct {
	owner string
	epoch uint64
	seq   uint64
	live  map[uint64]struct{}
}

// NewScheduler returns a scheduler whose timers carry owner, so several
// schedulers can share one Update loop.
func NewScheduler(owner string) Scheduler {
	return Scheduler{owner: owner, live: make(map[uint64]struct{})}
}

// Owner returns the scheduler's owner tag.
func (s *Scheduler) Owner() string {
	return s.owner
}

// After schedules payload to be delivered once, d from now.
func (s *Scheduler) After(d time.Duration, payload any) tea.Cmd {
	_, cmd := s.Schedule(d, payload)
	return cmd
}

// Schedule is After that also returns the timer, for a later Cancel.
func (s *Scheduler) Schedule(d time.Duration, payload any) (Timer, tea.Cmd) {
	if s.live == nil {
		s.live = make(map[uint64]struct{})
	}
	s.seq++
	t := Timer{owner: s.owner, epoch: s.epoch, id: s.seq}
	s.live[t.id] = struct{}{}
	return t, tea.Tick(d, func(at time.Time) tea.Msg {
		return Fired{Timer: t, Payload: payload, At: at}
	})
}

// Owns reports whether f was issued by this scheduler, live or not.
func (s *Scheduler) Owns(f Fired) bool {
	return f.owner == s.owner
}

// Accept reports whether f is still live and, if so, retires it. Deliveries
// from another owner, a cancelled epoch or an already accepted timer return
// false.
func (s *Scheduler) Accept(f Fired) bool {
	if f.owner != s.owner || f.epoch != s.epoch {
		return false
	}
	if _, ok := s.live[f.id]; !ok {
		return false
	}
	delete(s.live, f.id)
	return true
}

// Cancel drops a single timer.
func (s *Scheduler) Cancel(t Timer) {
	if t.owner != s.owner || t.epoch != s.epoch {
		return
	}
	delete(s.live, t.id)
}

// CancelAll invalidates every outstanding timer.
func (s *Scheduler) CancelAll() {
	s.epoch++
	s.live = make(map[uint64]struct{})
}

// Pending returns the number of live timers.
func (s *Scheduler) Pending() int {
	return len(s.live)
}
