// Package search implements the two BFS flavors the planner builds on:
// an oriented (x, y, facing) shortest-action search, and a cheap
// plain-grid step-only distance used as a pre-filter. Both reuse their
// working arrays across calls, matching the driver-thread-owned, reset-
// by-fill style the teacher's per-tick movement logic follows.
package search

import "mazebot.ai/internal/agents"

// Action is one of the three edge kinds in the oriented state graph.
type Action int

const (
	// ActionNone marks the root state, which has no first action.
	ActionNone Action = iota
	ActionTurnLeft
	ActionTurnRight
	ActionStep
)

func (a Action) String() string {
	switch a {
	case ActionTurnLeft:
		return "TURN_LEFT"
	case ActionTurnRight:
		return "TURN_RIGHT"
	case ActionStep:
		return "STEP"
	default:
		return "NONE"
	}
}

// Unreachable is the sentinel distance for a state/cell no search path
// reaches.
const Unreachable = int(^uint(0) >> 1) // max int

// Admissible reports whether (x,y) may be entered. Implementations
// compose in-bounds, walkable and an overlay (traps, occupancy, danger
// memory); see NewAdmissible.
type Admissible func(x, y int) bool

// InBounds is satisfied by *gridmodel.Snapshot.
type InBounds interface {
	InBounds(x, y int) bool
	Walkable(x, y int) bool
}

// NewAdmissible composes the grid's walkability with a blocked overlay,
// per spec.md section 4.4. The overlay is never allowed to evict the
// origin cell: (originX, originY) is always admissible regardless of
// what blocked reports for it, since the searching agent already
// occupies it.
func NewAdmissible(grid InBounds, blocked func(x, y int) bool, originX, originY int) Admissible {
	return func(x, y int) bool {
		if !grid.InBounds(x, y) {
			return false
		}
		if x == originX && y == originY {
			return true
		}
		if !grid.Walkable(x, y) {
			return false
		}
		if blocked != nil && blocked(x, y) {
			return false
		}
		return true
	}
}

// Oriented runs unweighted BFS over states (x, y, facing). Arrays are
// sized width*height*4 and reused across Run calls.
type Oriented struct {
	width, height int

	dist        []int
	prevState   []int
	firstAction []Action

	queue []int // scratch, reused
}

// NewOriented returns a ready-to-use Oriented search with no grid bound
// yet; the first Run call sizes its arrays.
func NewOriented() *Oriented {
	return &Oriented{}
}

func stateIndex(width, x, y int, facing agents.Facing) int {
	return (y*width+x)*4 + int(facing)
}

func (o *Oriented) ensureSize(width, height int) {
	n := width * height * 4
	if o.width == width && o.height == height && len(o.dist) == n {
		return
	}
	o.width, o.height = width, height
	o.dist = make([]int, n)
	o.prevState = make([]int, n)
	o.firstAction = make([]Action, n)
	o.queue = make([]int, 0, n)
}

// Run performs the BFS from (startX, startY, startFacing) under the
// given admissibility predicate. Results are queried via DistanceTo,
// FirstActionTo and PathTo until the next Run call.
func (o *Oriented) Run(width, height, startX, startY int, startFacing agents.Facing, admissible Admissible) {
	o.ensureSize(width, height)
	for i := range o.dist {
		o.dist[i] = Unreachable
		o.prevState[i] = -1
		o.firstAction[i] = ActionNone
	}

	origin := stateIndex(width, startX, startY, startFacing)
	o.dist[origin] = 0
	o.queue = o.queue[:0]
	o.queue = append(o.queue, origin)

	for head := 0; head < len(o.queue); head++ {
		cur := o.queue[head]
		x, y, facing := decodeState(width, cur)

		o.relax(stateIndex(width, x, y, facing.Left()), cur, origin, ActionTurnLeft)
		o.relax(stateIndex(width, x, y, facing.Right()), cur, origin, ActionTurnRight)

		dx, dy := facing.Delta()
		nx, ny := x+dx, y+dy
		if admissible(nx, ny) {
			o.relax(stateIndex(width, nx, ny, facing), cur, origin, ActionStep)
		}
	}
}

func decodeState(width, idx int) (x, y int, facing agents.Facing) {
	facing = agents.Facing(idx % 4)
	cell := idx / 4
	return cell % width, cell / width, facing
}

// relax records next's distance/predecessor/first-action the first time
// it is discovered (BFS visits every state at most once).
func (o *Oriented) relax(next, cur, origin int, action Action) {
	if o.dist[next] != Unreachable {
		return
	}
	o.dist[next] = o.dist[cur] + 1
	o.prevState[next] = cur
	if cur == origin {
		o.firstAction[next] = action
	} else {
		o.firstAction[next] = o.firstAction[cur]
	}
	o.queue = append(o.queue, next)
}

// bestFacing returns the facing with the smallest dist at (x,y), with
// ties broken toward the lowest facing index (0..3 are already visited
// in ascending order, so the first strictly-smaller value wins).
func (o *Oriented) bestFacing(x, y int) (facing agents.Facing, state int, dist int, ok bool) {
	best := Unreachable
	bestState := -1
	for f := 0; f < 4; f++ {
		s := stateIndex(o.width, x, y, agents.Facing(f))
		if o.dist[s] < best {
			best = o.dist[s]
			bestState = s
		}
	}
	if bestState < 0 {
		return 0, 0, Unreachable, false
	}
	return agents.Facing(bestState % 4), bestState, best, true
}

// DistanceTo returns the minimum number of actions to bring (x,y) into
// alignment under any facing, or Unreachable.
func (o *Oriented) DistanceTo(x, y int) int {
	if !o.inGrid(x, y) {
		return Unreachable
	}
	_, _, dist, ok := o.bestFacing(x, y)
	if !ok {
		return Unreachable
	}
	return dist
}

// FirstActionTo returns the first action of the shortest path to (x,y),
// and false if unreachable.
func (o *Oriented) FirstActionTo(x, y int) (Action, bool) {
	if !o.inGrid(x, y) {
		return ActionNone, false
	}
	_, state, dist, ok := o.bestFacing(x, y)
	if !ok || dist == Unreachable {
		return ActionNone, false
	}
	if dist == 0 {
		return ActionNone, true
	}
	return o.firstAction[state], true
}

// PathTo walks predecessor links from the best state at (x,y) back to
// the search origin, de-duplicating consecutive repeats of the same
// cell (rotations contribute no new cell), and returns cells in
// start-to-target order.
func (o *Oriented) PathTo(x, y int) ([][2]int, bool) {
	if !o.inGrid(x, y) {
		return nil, false
	}
	_, state, dist, ok := o.bestFacing(x, y)
	if !ok || dist == Unreachable {
		return nil, false
	}

	var cells [][2]int
	for s := state; ; {
		cx, cy, _ := decodeState(o.width, s)
		if len(cells) == 0 || cells[len(cells)-1][0] != cx || cells[len(cells)-1][1] != cy {
			cells = append(cells, [2]int{cx, cy})
		}
		prev := o.prevState[s]
		if prev < 0 {
			break
		}
		s = prev
	}
	// reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells, true
}

func (o *Oriented) inGrid(x, y int) bool {
	return x >= 0 && y >= 0 && x < o.width && y < o.height
}
