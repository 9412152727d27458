package planner

import (
	"testing"
	"time"

	"mazebot.ai/internal/agents"
	"mazebot.ai/internal/baits"
	"mazebot.ai/internal/contest"
	"mazebot.ai/internal/gridmodel"
	"mazebot.ai/internal/search"
)

func defaultConfig() Config {
	return Config{
		MaxDepth:        40,
		MaxExpansions:   6000,
		CandidateCap:    24,
		MoveCost:        6.0,
		TrapStepPenalty: 250.0,
		WallClockBudget: 50 * time.Millisecond,
	}
}

func buildGrid(t *testing.T, w, h int, rows []string) *gridmodel.Snapshot {
	t.Helper()
	g := gridmodel.New()
	if !g.Update(w, h, rows, false) {
		t.Fatal("failed to build grid")
	}
	return g.Current()
}

// S1: 5x1 corridor, self at (0,0) facing E, Gem at (4,0), no other
// agents. Expected: four STEPs in a row.
func TestPlan_S1_CorridorStraightLine(t *testing.T) {
	grid := buildGrid(t, 5, 1, []string{"....."})
	p := New()
	in := Input{
		Grid:       grid,
		Baits:      []baits.Bait{{X: 4, Y: 0, Score: baits.ScoreGem, Kind: baits.KindGem}},
		SelfX:      0,
		SelfY:      0,
		SelfFacing: agents.East,
		Cfg:        defaultConfig(),
	}
	res, err := p.Plan(in)
	if err != nil {
		t.Fatalf("expected a plan, got error: %v", err)
	}
	if res.FirstAction != search.ActionStep {
		t.Fatalf("expected first action STEP, got %v", res.FirstAction)
	}
	if !res.HasTarget || res.TargetX != 4 || res.TargetY != 0 {
		t.Fatalf("expected target at gem cell, got %+v", res)
	}
	if res.TargetLabel != "GEM" {
		t.Fatalf("expected label GEM, got %s", res.TargetLabel)
	}
}

// S2: 3x3 open room, self at (1,1) facing N, Coffee at (1,2).
func TestPlan_S2_OpenRoomNeedsRotationFirst(t *testing.T) {
	grid := buildGrid(t, 3, 3, []string{"...", "...", "..."})
	p := New()
	in := Input{
		Grid:       grid,
		Baits:      []baits.Bait{{X: 1, Y: 2, Score: baits.ScoreCoffee, Kind: baits.KindCoffee}},
		SelfX:      1,
		SelfY:      1,
		SelfFacing: agents.North,
		Cfg:        defaultConfig(),
	}
	res, err := p.Plan(in)
	if err != nil {
		t.Fatalf("expected a plan, got error: %v", err)
	}
	if res.FirstAction != search.ActionTurnLeft && res.FirstAction != search.ActionTurnRight {
		t.Fatalf("expected a turn as first action, got %v", res.FirstAction)
	}
	if len(res.Path) == 0 || res.Path[len(res.Path)-1] != [2]int{1, 2} {
		t.Fatalf("expected path to end at coffee cell, got %v", res.Path)
	}
}

// S3: 5x5 open room, self at (2,2) facing E, Gem at (4,2), Trap at
// (3,2). Phase-1 must route around the trap.
func TestPlan_S3_RoutesAroundTrap(t *testing.T) {
	grid := buildGrid(t, 5, 5, []string{
		".....",
		".....",
		".....",
		".....",
		".....",
	})
	p := New()
	in := Input{
		Grid: grid,
		Baits: []baits.Bait{
			{X: 4, Y: 2, Score: baits.ScoreGem, Kind: baits.KindGem},
			{X: 3, Y: 2, Score: baits.ScoreTrap, Kind: baits.KindTrap},
		},
		SelfX:      2,
		SelfY:      2,
		SelfFacing: agents.East,
		Cfg:        defaultConfig(),
	}
	res, err := p.Plan(in)
	if err != nil {
		t.Fatalf("expected a plan, got error: %v", err)
	}
	if res.Phase != 1 {
		t.Fatalf("expected phase-1 (trap-forbidden) to succeed, got phase %d", res.Phase)
	}
	for _, c := range res.Path {
		if c[0] == 3 && c[1] == 2 {
			t.Fatal("path must not step onto the trap cell")
		}
	}
}

// S4: contest pruning. 7x1 corridor, opponent one step from the gem
// while self is six steps away; the candidate must be pruned, leaving
// no plan (coordinator falls back).
func TestPlan_S4_ContestedBaitPruned(t *testing.T) {
	grid := buildGrid(t, 7, 1, []string{"......."})
	pr := contest.New()
	pr.Run(grid, []agents.Snapshot{{ID: "OPP", X: 5, Y: 0, Facing: agents.West}}, 0, 0)

	p := New()
	in := Input{
		Grid:       grid,
		Baits:      []baits.Bait{{X: 6, Y: 0, Score: baits.ScoreGem, Kind: baits.KindGem}},
		SelfX:      0,
		SelfY:      0,
		SelfFacing: agents.East,
		Predictor:  pr,
		Cfg:        defaultConfig(),
	}
	_, err := p.Plan(in)
	if err != ErrNoPlan {
		t.Fatalf("expected ErrNoPlan after contest pruning, got %v", err)
	}
}

func TestPlan_NoBaitsYieldsNoPlan(t *testing.T) {
	grid := buildGrid(t, 3, 3, []string{"...", "...", "..."})
	p := New()
	in := Input{Grid: grid, SelfX: 1, SelfY: 1, SelfFacing: agents.North, Cfg: defaultConfig()}
	if _, err := p.Plan(in); err != ErrNoPlan {
		t.Fatalf("expected ErrNoPlan with no baits, got %v", err)
	}
}

func TestPlan_OnlyTrapsYieldsNoPlan(t *testing.T) {
	grid := buildGrid(t, 3, 3, []string{"...", "...", "..."})
	p := New()
	in := Input{
		Grid:       grid,
		Baits:      []baits.Bait{{X: 1, Y: 2, Score: baits.ScoreTrap, Kind: baits.KindTrap}},
		SelfX:      1,
		SelfY:      1,
		SelfFacing: agents.North,
		Cfg:        defaultConfig(),
	}
	if _, err := p.Plan(in); err != ErrNoPlan {
		t.Fatalf("expected ErrNoPlan with only traps present, got %v", err)
	}
}

func TestPlan_BaitOnSelfCellCollectedImmediately(t *testing.T) {
	grid := buildGrid(t, 3, 1, []string{"..."})
	p := New()
	in := Input{
		Grid:       grid,
		Baits:      []baits.Bait{{X: 0, Y: 0, Score: baits.ScoreCoffee, Kind: baits.KindCoffee}, {X: 2, Y: 0, Score: baits.ScoreGem, Kind: baits.KindGem}},
		SelfX:      0,
		SelfY:      0,
		SelfFacing: agents.East,
		Cfg:        defaultConfig(),
	}
	res, err := p.Plan(in)
	if err != nil {
		t.Fatalf("expected a plan, got error: %v", err)
	}
	// The coffee under self is already collected; the plan should still
	// head for the gem.
	if res.FirstAction != search.ActionStep {
		t.Fatalf("expected STEP toward the gem, got %v", res.FirstAction)
	}
}

func TestPlan_RerunIsDeterministic(t *testing.T) {
	grid := buildGrid(t, 5, 5, []string{
		".....",
		".....",
		".....",
		".....",
		".....",
	})
	in := Input{
		Grid: grid,
		Baits: []baits.Bait{
			{X: 4, Y: 4, Score: baits.ScoreGem, Kind: baits.KindGem},
			{X: 1, Y: 3, Score: baits.ScoreFood, Kind: baits.KindFood},
		},
		SelfX:      0,
		SelfY:      0,
		SelfFacing: agents.East,
		Cfg:        defaultConfig(),
	}
	p1, p2 := New(), New()
	r1, err1 := p1.Plan(in)
	r2, err2 := p2.Plan(in)
	if err1 != err2 {
		t.Fatalf("nondeterministic errors: %v vs %v", err1, err2)
	}
	if r1.FirstAction != r2.FirstAction || r1.TargetX != r2.TargetX || r1.TargetY != r2.TargetY {
		t.Fatalf("nondeterministic results: %+v vs %+v", r1, r2)
	}
}

func TestPlan_PathCoherence(t *testing.T) {
	grid := buildGrid(t, 5, 5, []string{
		".....",
		".....",
		".....",
		".....",
		".....",
	})
	p := New()
	in := Input{
		Grid:       grid,
		Baits:      []baits.Bait{{X: 4, Y: 3, Score: baits.ScoreGem, Kind: baits.KindGem}},
		SelfX:      0,
		SelfY:      0,
		SelfFacing: agents.East,
		Cfg:        defaultConfig(),
	}
	res, err := p.Plan(in)
	if err != nil {
		t.Fatalf("expected a plan: %v", err)
	}
	if res.Path[0] != [2]int{0, 0} {
		t.Fatalf("path must start at self's cell, got %v", res.Path[0])
	}
	for i := 1; i < len(res.Path); i++ {
		dx := res.Path[i][0] - res.Path[i-1][0]
		dy := res.Path[i][1] - res.Path[i-1][1]
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dx+dy != 1 {
			t.Fatalf("adjacent path cells must differ by exactly one axis: %v -> %v", res.Path[i-1], res.Path[i])
		}
	}
}
