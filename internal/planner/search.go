package planner

import (
	"container/heap"
	"time"

	"mazebot.ai/internal/agents"
	"mazebot.ai/internal/search"
)

// epsilon is the closed-set improvement tolerance, per spec.md section
// 4.6 ("inserted only when its U strictly improves... ε tolerance").
const epsilon = 1e-9

// nodeRec is one arena-allocated planner node, addressed by its index
// in Planner.arena. parent=-1 marks the root (self's current state).
type nodeRec struct {
	x, y        int
	facing      agents.Facing
	moves       int
	reward      float64
	trapSteps   int
	mask        uint64
	firstAction search.Action
	parent      int
	utility     float64
}

func utility(n *nodeRec, cfg Config) float64 {
	return n.reward - cfg.MoveCost*float64(n.moves) - cfg.TrapStepPenalty*float64(n.trapSteps)
}

type closedKey struct {
	x, y   int
	facing agents.Facing
	mask   uint64
}

// stepRank orders action kinds so open-set ties prefer step expansions
// over turn expansions, keeping plans progressing instead of spinning.
func stepRank(a search.Action) int {
	if a == search.ActionStep {
		return 0
	}
	return 1
}

type openEntry struct {
	priority float64
	rank     int
	seq      int
	node     int
}

type openHeap []openEntry

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	if h[i].rank != h[j].rank {
		return h[i].rank < h[j].rank
	}
	return h[i].seq < h[j].seq
}
func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)   { *h = append(*h, x.(openEntry)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// runPhase runs one bounded best-first search, forbidding trap
// traversal when forbidTraps is set. It returns the arena index of the
// best accepted node (strictly positive reward, non-empty first action,
// maximum utility), or ok=false if none was found.
func (p *Planner) runPhase(in Input, cands []candidate, trapSet map[[2]int]bool, bound optimisticBound, forbidTraps bool) (idx int, ok bool, expansions int, budgetExceeded bool) {
	p.arena = p.arena[:0]

	candIndexAt := make(map[[2]int]int, len(cands))
	for _, c := range cands {
		candIndexAt[[2]int{c.x, c.y}] = c.bit
	}

	root := nodeRec{x: in.SelfX, y: in.SelfY, facing: in.SelfFacing, parent: -1, firstAction: search.ActionNone}
	applyCandidateEffect(&root, candIndexAt, cands)
	root.utility = utility(&root, in.Cfg)
	p.arena = append(p.arena, root)
	rootIdx := 0

	open := &openHeap{}
	heap.Init(open)
	seq := 0
	push := func(idx int, via search.Action) {
		n := &p.arena[idx]
		remaining := in.Cfg.MaxDepth - n.moves
		priority := n.utility + bound.remaining(n.mask, remaining)
		seq++
		heap.Push(open, openEntry{priority: priority, rank: stepRank(via), seq: seq, node: idx})
	}
	push(rootIdx, search.ActionNone)

	closed := make(map[closedKey]float64)
	closed[closedKeyOf(&root)] = root.utility

	bestIdx := -1
	bestU := 0.0
	deadline := time.Now().Add(in.Cfg.WallClockBudget)

	for open.Len() > 0 {
		if expansions >= in.Cfg.MaxExpansions {
			break
		}
		if in.Cfg.WallClockBudget > 0 && time.Now().After(deadline) {
			budgetExceeded = true
			break
		}
		entry := heap.Pop(open).(openEntry)
		expansions++
		idx := entry.node
		n := &p.arena[idx]

		if n.reward > 0 && n.firstAction != search.ActionNone {
			if bestIdx == -1 || n.utility > bestU {
				bestIdx = idx
				bestU = n.utility
			}
		}

		if n.moves >= in.Cfg.MaxDepth {
			continue
		}

		for _, action := range [3]search.Action{search.ActionTurnLeft, search.ActionTurnRight, search.ActionStep} {
			childIdx, ok := p.makeChild(in, idx, action, candIndexAt, cands, trapSet, forbidTraps)
			if !ok {
				continue
			}
			child := &p.arena[childIdx]
			ck := closedKeyOf(child)
			if prev, exists := closed[ck]; exists && child.utility <= prev+epsilon {
				p.arena = p.arena[:len(p.arena)-1]
				continue
			}
			closed[ck] = child.utility
			push(childIdx, action)
		}
	}

	return bestIdx, bestIdx >= 0, expansions, budgetExceeded
}

func closedKeyOf(n *nodeRec) closedKey {
	return closedKey{x: n.x, y: n.y, facing: n.facing, mask: n.mask}
}

func (p *Planner) makeChild(in Input, parentIdx int, action search.Action, candIndexAt map[[2]int]int, cands []candidate, trapSet map[[2]int]bool, forbidTraps bool) (int, bool) {
	parent := &p.arena[parentIdx]
	child := nodeRec{
		facing:      parent.facing,
		x:           parent.x,
		y:           parent.y,
		moves:       parent.moves + 1,
		reward:      parent.reward,
		trapSteps:   parent.trapSteps,
		mask:        parent.mask,
		parent:      parentIdx,
	}

	switch action {
	case search.ActionTurnLeft:
		child.facing = parent.facing.Left()
	case search.ActionTurnRight:
		child.facing = parent.facing.Right()
	case search.ActionStep:
		dx, dy := parent.facing.Delta()
		nx, ny := parent.x+dx, parent.y+dy
		if !in.Grid.InBounds(nx, ny) || !in.Grid.Walkable(nx, ny) {
			return 0, false
		}
		if in.Occupied != nil && in.Occupied(nx, ny) {
			return 0, false
		}
		isTrap := trapSet[[2]int{nx, ny}]
		if isTrap && forbidTraps {
			return 0, false
		}
		child.x, child.y = nx, ny
		if isTrap {
			child.reward += float64(trapScoreConstant)
			child.trapSteps++
		}
		applyCandidateEffect(&child, candIndexAt, cands)
	}

	if parentIdx == 0 {
		child.firstAction = action
	} else {
		child.firstAction = parent.firstAction
	}
	child.utility = utility(&child, in.Cfg)

	p.arena = append(p.arena, child)
	return len(p.arena) - 1, true
}

// trapScoreConstant is the canonical Trap bait score, applied to reward
// each time a trap cell is entered (spec.md section 4.6), independent
// of the separate per-trap-cell trap_step_penalty charged in phase two.
const trapScoreConstant = -128

func applyCandidateEffect(n *nodeRec, candIndexAt map[[2]int]int, cands []candidate) {
	bit, ok := candIndexAt[[2]int{n.x, n.y}]
	if !ok {
		return
	}
	mbit := uint64(1) << uint(bit)
	if n.mask&mbit != 0 {
		return
	}
	n.mask |= mbit
	for _, c := range cands {
		if c.bit == bit {
			n.reward += float64(c.score)
			break
		}
	}
}
