// Package viz implements the visualization sink and control panel
// state from spec.md section 6: a mutex-guarded current snapshot plus
// a non-blocking update channel a TUI can drain, grounded on the
// teacher's channel-of-state-updates pattern for UI consumers.
package viz

import "sync"

// OpponentView is the display-facing projection of another agent: its
// id, human-readable nickname (supplemented feature, see DESIGN.md),
// coordinate and facing.
type OpponentView struct {
	ID       string
	Nickname string
	X, Y     int
	Facing   string
}

// Snapshot is a point-in-time copy of everything the control panel
// displays: the current target, the planned path, the pause flag, and
// the visible opponents.
type Snapshot struct {
	HasTarget   bool
	TargetX     int
	TargetY     int
	TargetLabel string
	Path        [][2]int
	Paused      bool
	Opponents   []OpponentView
}

// Sink implements the decision coordinator's VizSink interface
// (SetTarget/ClearTarget/SetPlannedPath) by structural typing; no
// import of internal/decision is needed here.
type Sink struct {
	mu      sync.Mutex
	cur     Snapshot
	updates chan Snapshot
}

// NewSink returns an empty sink with a small buffered update channel.
// Sends to a full channel are dropped rather than blocking the driver
// thread, matching the teacher's "avoid blocking shutdown if the UI
// loop stops consuming" rule.
func NewSink() *Sink {
	return &Sink{updates: make(chan Snapshot, 8)}
}

// SetTarget records the current planner target.
func (s *Sink) SetTarget(x, y int, label string) {
	s.mu.Lock()
	s.cur.HasTarget = true
	s.cur.TargetX = x
	s.cur.TargetY = y
	s.cur.TargetLabel = label
	snap := s.cur
	s.mu.Unlock()
	s.publish(snap)
}

// ClearTarget resets the target fields to their zero values. Combined
// with SetTarget, this is the round-trip invariant from spec.md
// section 8: set then clear yields an empty sink state.
func (s *Sink) ClearTarget() {
	s.mu.Lock()
	s.cur.HasTarget = false
	s.cur.TargetX = 0
	s.cur.TargetY = 0
	s.cur.TargetLabel = ""
	snap := s.cur
	s.mu.Unlock()
	s.publish(snap)
}

// SetPlannedPath records the current planned path. A nil or empty
// path clears it.
func (s *Sink) SetPlannedPath(path [][2]int) {
	s.mu.Lock()
	s.cur.Path = path
	snap := s.cur
	s.mu.Unlock()
	s.publish(snap)
}

// SetOpponents records the currently visible opponents, including
// their nicknames, for display. The nickname passthrough originates at
// protocol decode and ends here: agent registry -> visualization sink.
func (s *Sink) SetOpponents(opponents []OpponentView) {
	s.mu.Lock()
	s.cur.Opponents = opponents
	snap := s.cur
	s.mu.Unlock()
	s.publish(snap)
}

// SetPaused records the pause flag for display.
func (s *Sink) SetPaused(paused bool) {
	s.mu.Lock()
	s.cur.Paused = paused
	snap := s.cur
	s.mu.Unlock()
	s.publish(snap)
}

// Snapshot returns a copy of the current state.
func (s *Sink) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Updates returns the channel a TUI drains for push updates. Multiple
// readers are not supported; the control panel is the sole consumer.
func (s *Sink) Updates() <-chan Snapshot {
	return s.updates
}

func (s *Sink) publish(snap Snapshot) {
	select {
	case s.updates <- snap:
	default:
	}
}

// PauseToggler is the narrow surface the control panel's pause button
// needs from the decision coordinator; satisfied structurally by
// *decision.Coordinator without an import cycle.
type PauseToggler interface {
	SetPaused(paused bool)
	Paused() bool
}

// ControlPanel wires the pause button to both the coordinator (whose
// state actually gates decisions) and the sink (whose state the TUI
// renders), per spec.md section 6's "paused: bool and a button
// toggling it".
type ControlPanel struct {
	toggler PauseToggler
	sink    *Sink
}

// NewControlPanel returns a control panel bound to toggler and sink.
func NewControlPanel(toggler PauseToggler, sink *Sink) *ControlPanel {
	return &ControlPanel{toggler: toggler, sink: sink}
}

// TogglePause flips the pause flag and reports the new value.
func (c *ControlPanel) TogglePause() bool {
	next := !c.toggler.Paused()
	c.toggler.SetPaused(next)
	c.sink.SetPaused(next)
	return next
}

// Paused reports the current pause flag as seen by the coordinator.
func (c *ControlPanel) Paused() bool {
	return c.toggler.Paused()
}
