// Package stabilizer implements commit-window hysteresis over the
// planner's chosen target, so the bot doesn't flicker between two
// near-equal baits every tick.
package stabilizer

// DefaultWindowTicks is the commit window length, per spec.md section
// 4.7 (W_c ~= 20 ticks).
const DefaultWindowTicks = 20

// DefaultSwitchMargin is the minimum relative utility improvement
// required to switch commitment before the window expires (alpha in
// [0.2, 0.25]).
const DefaultSwitchMargin = 0.22

// Key identifies a committed target by its bait coordinate.
type Key struct {
	X, Y int
}

// Stabilizer holds the single piece of process state the commit
// mechanism needs: which key is committed, until which tick, and at
// what utility it was last accepted.
type Stabilizer struct {
	committed    Key
	hasCommit    bool
	commitUntil  uint64
	commitUtil   float64
	windowTicks  uint64
	switchMargin float64
}

// New returns a Stabilizer with the given window length (ticks) and
// switch margin (e.g. 0.22 for 22%). Zero values fall back to the
// spec defaults.
func New(windowTicks uint64, switchMargin float64) *Stabilizer {
	if windowTicks == 0 {
		windowTicks = DefaultWindowTicks
	}
	if switchMargin == 0 {
		switchMargin = DefaultSwitchMargin
	}
	return &Stabilizer{windowTicks: windowTicks, switchMargin: switchMargin}
}

// Drop clears any committed target immediately, e.g. because the
// committed bait vanished mid-decision (spec.md scenario S6).
func (s *Stabilizer) Drop() {
	s.hasCommit = false
	s.commitUtil = 0
	s.commitUntil = 0
}

// Committed returns the currently committed key, if any.
func (s *Stabilizer) Committed() (Key, bool) {
	return s.committed, s.hasCommit
}

// Evaluate decides whether to keep the committed target or switch to
// the newly planned one, per spec.md section 4.7:
//
//   - no valid committed plan -> switch
//   - new utility >= u_prev * (1+alpha) -> switch
//   - the commit window has expired -> switch
//
// newKey/newUtility describe the plan just computed this tick; tick is
// the current tick counter. reevaluateCommitted computes u_prev, the
// utility of a hypothetical plan still targeting the committed key
// (cheap distance-based estimate, not a full replan, to stay inside the
// per-tick budget); ok=false means the committed bait no longer exists,
// which drops the commit immediately regardless of margin or window.
//
// Evaluate returns the key that should be reported as the stabilized
// target this tick, and records the commit if it changed.
func (s *Stabilizer) Evaluate(tick uint64, newKey Key, newUtility float64, reevaluateCommitted func(Key) (utility float64, ok bool)) Key {
	if s.hasCommit && newKey == s.committed {
		s.commitUtil = newUtility
		s.commitUntil = tick + s.windowTicks
		return newKey
	}
	if !s.hasCommit {
		s.commit(tick, newKey, newUtility)
		return newKey
	}

	uPrev, ok := reevaluateCommitted(s.committed)
	if !ok {
		s.commit(tick, newKey, newUtility)
		return newKey
	}
	switch {
	case newUtility >= uPrev*(1+s.switchMargin):
		s.commit(tick, newKey, newUtility)
		return newKey
	case tick >= s.commitUntil:
		s.commit(tick, newKey, newUtility)
		return newKey
	default:
		return s.committed
	}
}

func (s *Stabilizer) commit(tick uint64, key Key, utility float64) {
	s.committed = key
	s.hasCommit = true
	s.commitUtil = utility
	s.commitUntil = tick + s.windowTicks
}
