// Package decision implements the per-tick decision coordinator: the
// state machine that turns planner output into one of the four legal
// actions, with last-mile collision avoidance and a guaranteed-move
// fallback policy.
package decision

import (
	"mazebot.ai/internal/search"
	"mazebot.ai/internal/stabilizer"
)

// Action is one of the four actions the engine accepts each tick.
type Action int

const (
	DoNothing Action = iota
	TurnLeft
	TurnRight
	Step
)

func (a Action) String() string {
	switch a {
	case TurnLeft:
		return "TURN_LEFT"
	case TurnRight:
		return "TURN_RIGHT"
	case Step:
		return "STEP"
	default:
		return "DO_NOTHING"
	}
}

// fromSearchAction maps a search.Action (no DoNothing member) to the
// coordinator's Action type.
func fromSearchAction(a search.Action) Action {
	switch a {
	case search.ActionTurnLeft:
		return TurnLeft
	case search.ActionTurnRight:
		return TurnRight
	case search.ActionStep:
		return Step
	default:
		return DoNothing
	}
}

// State names the branch of the coordinator state machine that
// produced a decision, purely for diagnostics/trace logging.
type State int

const (
	StateIdle State = iota
	StatePaused
	StateExecuting
	StateFallback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePaused:
		return "PAUSED"
	case StateExecuting:
		return "EXECUTING"
	case StateFallback:
		return "FALLBACK"
	default:
		return "UNKNOWN"
	}
}

// VizSink is the narrow visualization surface the coordinator writes
// to. internal/viz provides a concrete implementation; the coordinator
// only depends on this interface (composition over inheritance, per
// spec.md section 9's design notes).
type VizSink interface {
	SetTarget(x, y int, label string)
	ClearTarget()
	SetPlannedPath(path [][2]int)
}

// Decision is the full per-tick outcome, used both as the NextMove
// return value and as the shape fed to the decision trace log.
type Decision struct {
	Action    Action
	State     State
	Phase     int // planner phase that produced this decision, 0 if none
	Target    stabilizer.Key
	HasTarget bool
	Utility   float64
}
