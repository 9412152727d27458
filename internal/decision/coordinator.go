package decision

import (
	"mazebot.ai/internal/agents"
	"mazebot.ai/internal/baits"
	"mazebot.ai/internal/contest"
	"mazebot.ai/internal/gridmodel"
	"mazebot.ai/internal/planner"
	"mazebot.ai/internal/search"
	"mazebot.ai/internal/stabilizer"
)

// Coordinator is the per-tick orchestrator of spec.md section 4.9: it
// reads the registries' point-in-time snapshots, runs the contest
// predictor and reward planner, stabilizes the chosen target, applies
// last-mile collision avoidance, and reports the outcome to the
// visualization sink. It owns every piece of state the state machine
// needs across ticks: the stabilizer's commit, the danger memory, and
// the pause flag.
type Coordinator struct {
	cfg       planner.Config
	plan      *planner.Planner
	predictor *contest.Predictor
	stable    *stabilizer.Stabilizer
	danger    *dangerMemory
	viz       VizSink

	// reeval reuses one oriented search instance to cheaply re-evaluate
	// the stabilizer's committed key and to navigate toward it directly
	// when the stabilizer elects to keep it over this tick's plan.
	reeval *search.Oriented

	paused bool
}

// New returns a ready-to-use Coordinator. dangerTicks of 0 falls back
// to DefaultDangerTicks; a nil viz is a valid no-op sink.
func New(cfg planner.Config, windowTicks uint64, switchMargin float64, dangerTicks uint64, viz VizSink) *Coordinator {
	if viz == nil {
		viz = noopSink{}
	}
	return &Coordinator{
		cfg:       cfg,
		plan:      planner.New(),
		predictor: contest.New(),
		stable:    stabilizer.New(windowTicks, switchMargin),
		danger:    newDangerMemory(dangerTicks),
		viz:       viz,
		reeval:    search.NewOriented(),
	}
}

// SetPaused toggles the external pause flag (control panel button).
func (c *Coordinator) SetPaused(paused bool) {
	c.paused = paused
}

// Paused reports the current pause flag.
func (c *Coordinator) Paused() bool { return c.paused }

// MarkDanger records (x,y) as dangerous from tick onward, e.g. because
// self was just destroyed or blocked there. Called from event-thread
// callbacks, not the decision tick itself.
func (c *Coordinator) MarkDanger(x, y int, tick uint64) {
	c.danger.Mark(x, y, tick)
}

// Decide runs one full tick of the state machine and returns the
// action to report plus diagnostics for the trace log.
func (c *Coordinator) Decide(tick uint64, grid *gridmodel.Snapshot, self agents.Snapshot, haveSelf bool, others []agents.Snapshot, liveBaits []baits.Bait) Decision {
	if !haveSelf || grid == nil || grid.Width == 0 || grid.Height == 0 {
		c.viz.ClearTarget()
		c.viz.SetPlannedPath(nil)
		return Decision{Action: DoNothing, State: StateIdle}
	}
	if c.paused {
		return Decision{Action: DoNothing, State: StatePaused}
	}

	blocked := c.blockedOverlay(others, tick)

	c.predictor.Run(grid, others, self.X, self.Y)

	res, err := c.plan.Plan(planner.Input{
		Grid:       grid,
		Baits:      liveBaits,
		SelfX:      self.X,
		SelfY:      self.Y,
		SelfFacing: self.Facing,
		Occupied:   blocked,
		Predictor:  c.predictor,
		Cfg:        c.cfg,
	})
	if err != nil {
		return c.fallback(grid, self, blocked)
	}

	action, target, hasTarget, phase, utility, path := c.stabilize(tick, grid, self, blocked, liveBaits, res)

	action = avoidCollision(action, grid, self.X, self.Y, self.Facing, blocked, others)

	if hasTarget {
		c.viz.SetTarget(target.X, target.Y, res.TargetLabel)
	} else {
		c.viz.ClearTarget()
	}
	c.viz.SetPlannedPath(toCells(path))

	return Decision{
		Action:    action,
		State:     StateExecuting,
		Phase:     phase,
		Target:    target,
		HasTarget: hasTarget,
		Utility:   utility,
	}
}

// stabilize applies the target stabilizer on top of the planner's
// result. When the stabilizer keeps the previously committed target
// instead of switching to this tick's plan, the reported action comes
// from a fresh, cheap oriented search straight to the committed cell
// rather than from the discarded plan.
func (c *Coordinator) stabilize(tick uint64, grid *gridmodel.Snapshot, self agents.Snapshot, blocked func(x, y int) bool, liveBaits []baits.Bait, res planner.Result) (action Action, target stabilizer.Key, hasTarget bool, phase int, utility float64, path [][2]int) {
	if !res.HasTarget {
		return fromSearchAction(res.FirstAction), stabilizer.Key{}, false, res.Phase, res.Utility, res.Path
	}

	newKey := stabilizer.Key{X: res.TargetX, Y: res.TargetY}
	stableKey := c.stable.Evaluate(tick, newKey, res.Utility, func(k stabilizer.Key) (float64, bool) {
		return c.reevaluateCommitted(grid, self, blocked, liveBaits, k)
	})

	if stableKey == newKey {
		return fromSearchAction(res.FirstAction), newKey, true, res.Phase, res.Utility, res.Path
	}

	adm := search.NewAdmissible(grid, blocked, self.X, self.Y)
	c.reeval.Run(grid.Width, grid.Height, self.X, self.Y, self.Facing, adm)
	first, ok := c.reeval.FirstActionTo(stableKey.X, stableKey.Y)
	if !ok {
		// Committed cell is no longer reachable under current
		// conditions; fall back to this tick's own plan rather than
		// stall on a dead commitment.
		return fromSearchAction(res.FirstAction), newKey, true, res.Phase, res.Utility, res.Path
	}
	reevalPath, _ := c.reeval.PathTo(stableKey.X, stableKey.Y)
	return fromSearchAction(first), stableKey, true, res.Phase, res.Utility, reevalPath
}

// reevaluateCommitted computes u_prev, the utility of a hypothetical
// plan still targeting the committed key: a cheap move_cost-discounted
// distance estimate, not a full replan. ok=false means the committed
// bait no longer exists or is unreachable from self.
func (c *Coordinator) reevaluateCommitted(grid *gridmodel.Snapshot, self agents.Snapshot, blocked func(x, y int) bool, liveBaits []baits.Bait, key stabilizer.Key) (float64, bool) {
	score, found := findBaitScore(liveBaits, key.X, key.Y)
	if !found {
		return 0, false
	}
	adm := search.NewAdmissible(grid, blocked, self.X, self.Y)
	c.reeval.Run(grid.Width, grid.Height, self.X, self.Y, self.Facing, adm)
	dist := c.reeval.DistanceTo(key.X, key.Y)
	if dist == search.Unreachable {
		return 0, false
	}
	return float64(score) - c.cfg.MoveCost*float64(dist), true
}

func findBaitScore(liveBaits []baits.Bait, x, y int) (int, bool) {
	for _, b := range liveBaits {
		if b.X == x && b.Y == y {
			return b.Score, true
		}
	}
	return 0, false
}

// fallback implements spec.md section 4.9's Fallback state: Step if
// the forward cell is admissible, else TurnLeft. Always returns a
// legal action, never DoNothing, so the engine never observes the
// zero-action outcome while the maze and self are known.
func (c *Coordinator) fallback(grid *gridmodel.Snapshot, self agents.Snapshot, blocked func(x, y int) bool) Decision {
	c.viz.ClearTarget()
	c.viz.SetPlannedPath(nil)
	action := TurnLeft
	if forwardAdmissible(grid, self.X, self.Y, self.Facing, blocked) {
		action = Step
	}
	return Decision{Action: action, State: StateFallback}
}

// blockedOverlay composes current opponent occupancy with danger
// memory into the single boolean overlay the planner and collision
// check both use. Traps are handled separately by the planner's
// two-phase search, not folded in here.
func (c *Coordinator) blockedOverlay(others []agents.Snapshot, tick uint64) func(x, y int) bool {
	occupied := make(map[[2]int]bool, len(others))
	for _, o := range others {
		occupied[[2]int{o.X, o.Y}] = true
	}
	return func(x, y int) bool {
		if occupied[[2]int{x, y}] {
			return true
		}
		return c.danger.Blocked(x, y, tick)
	}
}

func toCells(path [][2]int) [][2]int {
	if len(path) == 0 {
		return nil
	}
	return path
}

type noopSink struct{}

func (noopSink) SetTarget(x, y int, label string) {}
func (noopSink) ClearTarget()                     {}
func (noopSink) SetPlannedPath(path [][2]int)     {}
