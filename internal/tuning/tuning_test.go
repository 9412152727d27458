package tuning

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults_MatchSpecValues(t *testing.T) {
	d := Defaults()
	if d.Planner.MaxDepth != 40 || d.Planner.MaxExpansions != 6000 || d.Planner.CandidateBaits != 24 {
		t.Fatalf("unexpected planner defaults: %+v", d.Planner)
	}
	if d.Planner.MoveCost != 6.0 || d.Planner.TrapStepPenalty != 250.0 || d.Planner.WallClockBudgetMs != 8 {
		t.Fatalf("unexpected planner cost defaults: %+v", d.Planner)
	}
	if d.Stabilizer.CommitWindowTicks != 20 || d.Stabilizer.SwitchMarginPercent != 22 {
		t.Fatalf("unexpected stabilizer defaults: %+v", d.Stabilizer)
	}
	if d.DangerMemoryTicks != 120 {
		t.Fatalf("unexpected danger memory default: %d", d.DangerMemoryTicks)
	}
}

func TestLoad_OverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("planner:\n  move_cost: 9.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Planner.MoveCost != 9.5 {
		t.Fatalf("expected overridden move_cost, got %v", got.Planner.MoveCost)
	}
	if got.Planner.MaxDepth != 40 {
		t.Fatalf("expected default max_depth preserved, got %v", got.Planner.MaxDepth)
	}
}

func TestLoad_MissingFilePropagatesError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing tuning file")
	}
}

func TestRegisterFlags_OverridesTuning(t *testing.T) {
	tu := Defaults()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs, &tu)
	if err := fs.Parse([]string{"-max_depth=99", "-switch_margin_percent=30"}); err != nil {
		t.Fatal(err)
	}
	if tu.Planner.MaxDepth != 99 {
		t.Fatalf("expected flag override, got %d", tu.Planner.MaxDepth)
	}
	if tu.Stabilizer.SwitchMarginPercent != 30 {
		t.Fatalf("expected flag override, got %v", tu.Stabilizer.SwitchMarginPercent)
	}
}

func TestPlannerConfig_ConvertsMillisecondsToDuration(t *testing.T) {
	tu := Defaults()
	cfg := tu.PlannerConfig()
	if cfg.WallClockBudget != 8*time.Millisecond {
		t.Fatalf("expected 8ms budget, got %v", cfg.WallClockBudget)
	}
	if cfg.CandidateCap != 24 || cfg.MoveCost != 6.0 {
		t.Fatalf("unexpected converted config: %+v", cfg)
	}
}

func TestStabilizerWindowAndMargin_ConvertsPercentToFraction(t *testing.T) {
	tu := Defaults()
	window, margin := tu.StabilizerWindowAndMargin()
	if window != 20 {
		t.Fatalf("expected window 20, got %d", window)
	}
	if margin < 0.219 || margin > 0.221 {
		t.Fatalf("expected margin ~0.22, got %v", margin)
	}
}
