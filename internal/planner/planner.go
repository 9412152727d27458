// Package planner implements the bounded branch-and-bound best-first
// search that picks a near-term action sequence: candidate selection,
// a two-phase (trap-forbidden then trap-permitted) reward search, and
// output construction (first action, path, target).
package planner

import (
	"errors"
	"time"

	"mazebot.ai/internal/agents"
	"mazebot.ai/internal/baits"
	"mazebot.ai/internal/contest"
	"mazebot.ai/internal/gridmodel"
	"mazebot.ai/internal/search"
)

// ErrNoPlan mirrors the protocol package's E_NO_PLAN code: the search
// found no node with strictly positive reward and a non-empty first
// action, in either phase.
var ErrNoPlan = errors.New("planner: no positive-reward plan found")

// Config carries the §6 planner tuning knobs.
type Config struct {
	MaxDepth        int
	MaxExpansions   int
	CandidateCap    int // K, capped at 64 regardless of configured value
	MoveCost        float64
	TrapStepPenalty float64
	WallClockBudget time.Duration
}

// candidateCap clamps cfg.CandidateCap to the hard mask-width limit.
func (c Config) candidateCap() int {
	if c.CandidateCap <= 0 || c.CandidateCap > 64 {
		return 64
	}
	return c.CandidateCap
}

// Input bundles everything one Plan call needs.
type Input struct {
	Grid       *gridmodel.Snapshot
	Baits      []baits.Bait
	SelfX      int
	SelfY      int
	SelfFacing agents.Facing
	Occupied   func(x, y int) bool // other agents' current cells
	Predictor  *contest.Predictor  // nil disables contested-bait pruning
	Cfg        Config
}

// Result is the plan's output: the first action to take this tick, the
// accepted node's utility, the planned path (start to the accepted
// node's cell, cells only, de-duplicated) and, if the path passes
// through a candidate, the reported target: the first candidate cell
// on the path.
type Result struct {
	FirstAction search.Action
	Utility     float64
	Path        [][2]int
	HasTarget   bool
	TargetX     int
	TargetY     int
	TargetLabel string
	Phase       int // 1 = trap-forbidden, 2 = trap-permitted

	// Expansions and BudgetExceeded are diagnostics for the decision
	// trace, not part of the planning contract: per spec.md section 7,
	// a wall-clock timeout is treated as success with the best-so-far
	// node, never as an error.
	Expansions     int
	BudgetExceeded bool
}

// Planner owns the reusable working state (plain-grid filter, self
// distance field, node arena) so repeated per-tick calls avoid
// reallocating.
type Planner struct {
	plain *search.PlainGrid
	self  *search.Oriented
	arena []nodeRec
}

// New returns a ready-to-use Planner.
func New() *Planner {
	return &Planner{
		plain: search.NewPlainGrid(),
		self:  search.NewOriented(),
	}
}

// Plan runs candidate selection and the two-phase reward search.
func (p *Planner) Plan(in Input) (Result, error) {
	if in.Grid == nil || in.Grid.Width == 0 || in.Grid.Height == 0 {
		return Result{}, ErrNoPlan
	}

	cands, trapSet := p.selectCandidates(in)
	if len(cands) == 0 {
		return Result{}, ErrNoPlan
	}

	bound := newOptimisticBound(cands)

	phase1Idx, ok1, exp1, exceeded1 := p.runPhase(in, cands, trapSet, bound, true)
	if ok1 && p.arena[phase1Idx].utility > 0 {
		return p.buildResult(phase1Idx, cands, 1, exp1, exceeded1), nil
	}

	phase2Idx, ok2, exp2, exceeded2 := p.runPhase(in, cands, trapSet, bound, false)
	if ok2 && p.arena[phase2Idx].utility > 0 {
		return p.buildResult(phase2Idx, cands, 2, exp2, exceeded2), nil
	}

	return Result{}, ErrNoPlan
}

func (p *Planner) buildResult(idx int, cands []candidate, phase, expansions int, budgetExceeded bool) Result {
	n := &p.arena[idx]
	path := p.walkPath(idx)
	res := Result{
		FirstAction:    n.firstAction,
		Utility:        n.utility,
		Path:           path,
		Phase:          phase,
		Expansions:     expansions,
		BudgetExceeded: budgetExceeded,
	}
	for _, c := range path {
		for _, cand := range cands {
			if c[0] == cand.x && c[1] == cand.y {
				res.HasTarget = true
				res.TargetX, res.TargetY = cand.x, cand.y
				res.TargetLabel = cand.label
				return res
			}
		}
	}
	return res
}

func (p *Planner) walkPath(idx int) [][2]int {
	var cells [][2]int
	for i := idx; i >= 0; i = p.arena[i].parent {
		node := &p.arena[i]
		if len(cells) == 0 || cells[len(cells)-1][0] != node.x || cells[len(cells)-1][1] != node.y {
			cells = append(cells, [2]int{node.x, node.y})
		}
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
