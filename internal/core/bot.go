// Package core wires every registry and the decision coordinator into
// one composition root: the event callbacks a transport adapter drives
// on inbound messages, and NextMove, the single output the engine pulls
// each tick. Grounded on the teacher's cmd/bot/main.go single-struct-
// plus-handlers shape and internal/sim/world's composition-of-
// subsystems root.
package core

import (
	"mazebot.ai/internal/agents"
	"mazebot.ai/internal/baits"
	"mazebot.ai/internal/decision"
	"mazebot.ai/internal/gridmodel"
	"mazebot.ai/internal/tracelog"
	"mazebot.ai/internal/tuning"
	"mazebot.ai/internal/viz"
)

// Bot is the decision core: every registry it mirrors, the coordinator
// that turns them into an action, and the diagnostic/visualization
// outputs. A transport adapter owns exactly one Bot per connection.
type Bot struct {
	grid   *gridmodel.Grid
	baits  *baits.Registry
	agents *agents.Registry
	coord  *decision.Coordinator
	sink   *viz.Sink
	panel  *viz.ControlPanel
	trace  *tracelog.DecisionLogger

	tick uint64
}

// New returns a ready-to-use Bot. traceDir, if non-empty, enables the
// per-tick zstd/JSONL decision trace under that directory; an empty
// traceDir leaves tracing as a no-op.
func New(t tuning.Tuning, traceDir string) *Bot {
	sink := viz.NewSink()
	window, margin := t.StabilizerWindowAndMargin()
	coord := decision.New(t.PlannerConfig(), window, margin, uint64(t.DangerMemoryTicks), sink)

	var trace *tracelog.DecisionLogger
	if traceDir != "" {
		trace = tracelog.NewDecisionLogger(traceDir)
	}

	return &Bot{
		grid:   gridmodel.New(),
		baits:  baits.New(),
		agents: agents.New(),
		coord:  coord,
		sink:   sink,
		panel:  viz.NewControlPanel(coord, sink),
		trace:  trace,
	}
}

// Sink exposes the visualization state for a control panel to consume.
func (b *Bot) Sink() *viz.Sink { return b.sink }

// ControlPanel exposes the pause toggle for a control panel UI.
func (b *Bot) ControlPanel() *viz.ControlPanel { return b.panel }

// Close flushes and closes the decision trace, if tracing is enabled.
func (b *Bot) Close() error { return b.trace.Close() }

// Tick reports the tick counter as of the most recent NextMove call,
// for a transport adapter to stamp into its outgoing ACT message.
func (b *Bot) Tick() uint64 { return b.tick }

// OnMaze handles a full grid snapshot. Malformed dimensions are
// silently dropped by gridmodel.Grid.Update, per the boundary's
// InvalidInput policy; core never sees or propagates an error for it.
func (b *Bot) OnMaze(width, height int, rows []string) {
	b.grid.Update(width, height, rows, false)
}

// OnBaitAppeared records a newly visible bait. kind selects the
// canonical score when recognized; an unrecognized kind keeps the
// score the server reported.
func (b *Bot) OnBaitAppeared(x, y, score int, kind string) {
	k := baits.Kind(kind)
	if canon, ok := baits.CanonicalScore(k); ok {
		score = canon
	}
	b.baits.Insert(baits.Bait{X: x, Y: y, Score: score, Kind: k})
}

// OnBaitVanished removes the bait at (x,y), if any.
func (b *Bot) OnBaitVanished(x, y int) {
	b.baits.RemoveAt(x, y)
}

// OnSelfLogin latches id as this process's own agent and records its
// initial snapshot, including its nickname, in the agent registry. Only
// other agents' nicknames are passed on to the visualization sink.
func (b *Bot) OnSelfLogin(id string, x, y int, facing agents.Facing, nickname string) {
	b.agents.SetSelf(id)
	b.agents.Update(agents.Snapshot{ID: id, X: x, Y: y, Facing: facing, Nickname: nickname})
}

// OnSelfUpdate records a new snapshot for the latched self id.
func (b *Bot) OnSelfUpdate(id string, x, y int, facing agents.Facing, nickname string) {
	b.agents.Update(agents.Snapshot{ID: id, X: x, Y: y, Facing: facing, Nickname: nickname})
}

// OnSelfVanish removes the latched self agent; self becomes unknown
// until the next login, per spec.md section 3's invalidate-on-vanish
// rule.
func (b *Bot) OnSelfVanish(id string) {
	b.agents.Remove(id)
}

// AgentEventKind mirrors the wire event_kind enum for OnAgent.
type AgentEventKind string

const (
	AgentAppear   AgentEventKind = "APPEAR"
	AgentVanish   AgentEventKind = "VANISH"
	AgentStep     AgentEventKind = "STEP"
	AgentTurn     AgentEventKind = "TURN"
	AgentTeleport AgentEventKind = "TELEPORT"
)

// OnAgent handles an appear/vanish/step/turn/teleport event for another
// agent. A teleport carrying a teleportKind (the server's reason code,
// e.g. a hazard) marks its old cell as dangerous, feeding the
// supplemented danger memory; causeAgentID is otherwise diagnostic only.
func (b *Bot) OnAgent(kind AgentEventKind, oldX, oldY int, snap agents.Snapshot, teleportKind, causeAgentID string) {
	switch kind {
	case AgentVanish:
		b.agents.Remove(snap.ID)
	default:
		b.agents.Update(snap)
	}
	if kind == AgentTeleport && teleportKind != "" {
		b.coord.MarkDanger(oldX, oldY, b.tick)
	}
}

// OnPauseToggle applies an externally driven pause flag change (server
// message or control panel button) to the coordinator.
func (b *Bot) OnPauseToggle(paused bool) {
	b.coord.SetPaused(paused)
	b.sink.SetPaused(paused)
}

// NextMove runs one tick of the decision coordinator against the
// current registry snapshots, advances the tick counter, writes a
// trace entry, and returns the action to report upstream.
func (b *Bot) NextMove() decision.Action {
	b.tick++

	grid := b.grid.Current()
	self, haveSelf := b.agents.Self()
	others := b.agents.Others()
	liveBaits := b.baits.Snapshot()

	d := b.coord.Decide(b.tick, grid, self, haveSelf, others, liveBaits)

	b.sink.SetOpponents(opponentViews(others))

	if haveSelf {
		_ = b.trace.WriteEntry(tracelog.Entry{
			Tick:        b.tick,
			State:       d.State.String(),
			Action:      d.Action.String(),
			SelfX:       self.X,
			SelfY:       self.Y,
			SelfFacing:  self.Facing.String(),
			HasTarget:   d.HasTarget,
			TargetX:     d.Target.X,
			TargetY:     d.Target.Y,
			Utility:     d.Utility,
			Phase:       d.Phase,
		})
	}

	return d.Action
}

func opponentViews(others []agents.Snapshot) []viz.OpponentView {
	if len(others) == 0 {
		return nil
	}
	out := make([]viz.OpponentView, len(others))
	for i, o := range others {
		out[i] = viz.OpponentView{ID: o.ID, Nickname: o.Nickname, X: o.X, Y: o.Y, Facing: o.Facing.String()}
	}
	return out
}
