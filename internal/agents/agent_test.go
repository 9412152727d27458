package agents

import "testing"

func TestFacing_RotationAndDelta(t *testing.T) {
	if North.Left() != West || North.Right() != East {
		t.Fatal("unexpected rotation from North")
	}
	if East.Left() != North || East.Right() != South {
		t.Fatal("unexpected rotation from East")
	}
	if dx, dy := North.Delta(); dx != 0 || dy != -1 {
		t.Fatalf("North delta = (%d,%d)", dx, dy)
	}
	if dx, dy := South.Delta(); dx != 0 || dy != 1 {
		t.Fatalf("South delta = (%d,%d)", dx, dy)
	}
	if dx, dy := East.Delta(); dx != 1 || dy != 0 {
		t.Fatalf("East delta = (%d,%d)", dx, dy)
	}
	if dx, dy := West.Delta(); dx != -1 || dy != 0 {
		t.Fatalf("West delta = (%d,%d)", dx, dy)
	}
}

func TestParseFacing(t *testing.T) {
	cases := map[string]Facing{"N": North, "E": East, "S": South, "W": West, "?": North}
	for s, want := range cases {
		if got := ParseFacing(s); got != want {
			t.Fatalf("ParseFacing(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestRegistry_SelfNeverAlsoInOthers(t *testing.T) {
	r := New()
	r.SetSelf("A1")
	r.Update(Snapshot{ID: "A1", X: 0, Y: 0, Facing: North})
	r.Update(Snapshot{ID: "A2", X: 1, Y: 0, Facing: East})

	self, ok := r.Self()
	if !ok || self.ID != "A1" {
		t.Fatalf("expected self A1, got %+v ok=%v", self, ok)
	}
	for _, o := range r.Others() {
		if o.ID == "A1" {
			t.Fatal("self id leaked into Others()")
		}
	}
}

func TestRegistry_RemoveSelfInvalidates(t *testing.T) {
	r := New()
	r.SetSelf("A1")
	r.Update(Snapshot{ID: "A1"})
	r.Remove("A1")
	if _, ok := r.Self(); ok {
		t.Fatal("expected self invalidated after remove")
	}
}

func TestRegistry_OthersPreservesInsertionOrder(t *testing.T) {
	r := New()
	r.SetSelf("SELF")
	r.Update(Snapshot{ID: "A3"})
	r.Update(Snapshot{ID: "A1"})
	r.Update(Snapshot{ID: "A2"})
	got := r.Others()
	if len(got) != 3 || got[0].ID != "A3" || got[1].ID != "A1" || got[2].ID != "A2" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestRegistry_SelfUnknownByDefault(t *testing.T) {
	r := New()
	if _, ok := r.Self(); ok {
		t.Fatal("expected self unknown before SetSelf")
	}
}
