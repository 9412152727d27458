// Package tuning loads the planner/stabilizer configuration knobs
// enumerated in spec.md section 6 from a YAML file, with CLI flag
// overrides layered on top, mirroring the teacher's internal/sim/tuning
// package.
package tuning

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"mazebot.ai/internal/planner"
	"mazebot.ai/internal/stabilizer"
)

// Planner carries the reward planner's §6 knobs.
type Planner struct {
	MaxDepth          int     `yaml:"max_depth"`
	MaxExpansions     int     `yaml:"max_expansions"`
	CandidateBaits    int     `yaml:"candidate_baits"`
	MoveCost          float64 `yaml:"move_cost"`
	TrapStepPenalty   float64 `yaml:"trap_step_penalty"`
	WallClockBudgetMs int     `yaml:"planner_wall_clock_budget_ms"`
}

// Stabilizer carries the target stabilizer's §6 knobs.
type Stabilizer struct {
	CommitWindowTicks   int     `yaml:"commit_window_ticks"`
	SwitchMarginPercent float64 `yaml:"switch_margin_percent"`
}

// Tuning is the full configuration document.
type Tuning struct {
	Planner    Planner    `yaml:"planner"`
	Stabilizer Stabilizer `yaml:"stabilizer"`

	// DangerMemoryTicks is the supplemented danger-memory TTL (see
	// DESIGN.md), not named in spec.md section 6 itself.
	DangerMemoryTicks int `yaml:"danger_memory_ticks"`
}

// Defaults returns the spec.md section 6 default values.
func Defaults() Tuning {
	return Tuning{
		Planner: Planner{
			MaxDepth:          40,
			MaxExpansions:     6000,
			CandidateBaits:    24,
			MoveCost:          6.0,
			TrapStepPenalty:   250.0,
			WallClockBudgetMs: 8,
		},
		Stabilizer: Stabilizer{
			CommitWindowTicks:   20,
			SwitchMarginPercent: 22,
		},
		DangerMemoryTicks: 120,
	}
}

// Load reads and parses a tuning YAML file, starting from Defaults so
// an omitted field keeps its default rather than zeroing out.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// RegisterFlags binds command-line flags that override t's fields when
// parsed, so a deployment can tweak one knob without editing the YAML
// file. Call after Load and before fs.Parse.
func RegisterFlags(fs *flag.FlagSet, t *Tuning) {
	fs.IntVar(&t.Planner.MaxDepth, "max_depth", t.Planner.MaxDepth, "planner lookahead depth")
	fs.IntVar(&t.Planner.MaxExpansions, "max_expansions", t.Planner.MaxExpansions, "planner node expansion budget")
	fs.IntVar(&t.Planner.CandidateBaits, "candidate_baits", t.Planner.CandidateBaits, "candidate bait cap K (<=64)")
	fs.Float64Var(&t.Planner.MoveCost, "move_cost", t.Planner.MoveCost, "utility cost per action")
	fs.Float64Var(&t.Planner.TrapStepPenalty, "trap_step_penalty", t.Planner.TrapStepPenalty, "phase-2 utility cost per trap cell entered")
	fs.IntVar(&t.Planner.WallClockBudgetMs, "planner_wall_clock_budget_ms", t.Planner.WallClockBudgetMs, "planner wall-clock budget in milliseconds")
	fs.IntVar(&t.Stabilizer.CommitWindowTicks, "commit_window_ticks", t.Stabilizer.CommitWindowTicks, "target stabilizer commit window length in ticks")
	fs.Float64Var(&t.Stabilizer.SwitchMarginPercent, "switch_margin_percent", t.Stabilizer.SwitchMarginPercent, "target stabilizer switch margin, percent")
	fs.IntVar(&t.DangerMemoryTicks, "danger_memory_ticks", t.DangerMemoryTicks, "danger memory TTL in ticks")
}

// PlannerConfig converts the YAML knobs into planner.Config.
func (t Tuning) PlannerConfig() planner.Config {
	return planner.Config{
		MaxDepth:        t.Planner.MaxDepth,
		MaxExpansions:   t.Planner.MaxExpansions,
		CandidateCap:    t.Planner.CandidateBaits,
		MoveCost:        t.Planner.MoveCost,
		TrapStepPenalty: t.Planner.TrapStepPenalty,
		WallClockBudget: time.Duration(t.Planner.WallClockBudgetMs) * time.Millisecond,
	}
}

// StabilizerWindowAndMargin converts the YAML knobs into the
// (window ticks, switch margin fraction) pair stabilizer.New expects.
func (t Tuning) StabilizerWindowAndMargin() (uint64, float64) {
	return uint64(t.Stabilizer.CommitWindowTicks), t.Stabilizer.SwitchMarginPercent / 100
}

// NewStabilizer is a convenience constructor straight from tuning.
func (t Tuning) NewStabilizer() *stabilizer.Stabilizer {
	window, margin := t.StabilizerWindowAndMargin()
	return stabilizer.New(window, margin)
}
