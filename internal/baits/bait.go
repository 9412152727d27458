// Package baits holds the live bait registry: a coordinate-keyed map of
// bait descriptors, mutated by appear/vanish events and snapshotted by
// the planner at tick start.
package baits

import "sync"

// Kind is a closed-ish tag identifying a bait's category. Gem, Coffee,
// Food and Trap carry the canonical scores; any other positive-score
// kind is labeled Other.
type Kind string

const (
	KindGem    Kind = "GEM"
	KindCoffee Kind = "COFFEE"
	KindFood   Kind = "FOOD"
	KindTrap   Kind = "TRAP"
	KindOther  Kind = "OTHER"
)

// Canonical scores, bit-stable per spec.md section 6.
const (
	ScoreGem    = 314
	ScoreCoffee = 42
	ScoreFood   = 13
	ScoreTrap   = -128
)

// CanonicalScore returns the bit-stable score for the four named kinds,
// and ok=false for anything else (caller keeps the score it was given).
func CanonicalScore(kind Kind) (score int, ok bool) {
	switch kind {
	case KindGem:
		return ScoreGem, true
	case KindCoffee:
		return ScoreCoffee, true
	case KindFood:
		return ScoreFood, true
	case KindTrap:
		return ScoreTrap, true
	default:
		return 0, false
	}
}

// Label returns the uppercase identifier for a bait of the given score,
// independent of the wire-reported kind, per spec.md section 6 ("labels
// returned verbatim as uppercase identifiers").
func Label(score int) string {
	switch {
	case score == ScoreGem:
		return "GEM"
	case score == ScoreCoffee:
		return "COFFEE"
	case score == ScoreFood:
		return "FOOD"
	case score < 0:
		return "TRAP"
	default:
		return "OTHER"
	}
}

// Bait is an immutable bait descriptor. Two baits cannot share a
// coordinate; a bait's identity is its coordinate.
type Bait struct {
	X, Y  int
	Score int
	Kind  Kind
}

// IsTrap reports whether this bait is a trap (negative score).
func (b Bait) IsTrap() bool { return b.Score < 0 }

func key(x, y int) uint64 {
	return uint64(uint32(x))<<32 | uint64(uint32(y))
}

// Registry is a concurrency-safe coordinate-keyed map of live baits.
type Registry struct {
	mu    sync.Mutex
	byKey map[uint64]Bait
}

// New returns an empty bait registry.
func New() *Registry {
	return &Registry{byKey: make(map[uint64]Bait)}
}

// Insert adds or overwrites the bait at its coordinate.
func (r *Registry) Insert(b Bait) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[key(b.X, b.Y)] = b
}

// RemoveAt removes any bait at (x,y). No-op if none present.
func (r *Registry) RemoveAt(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byKey, key(x, y))
}

// Get returns the bait at (x,y), if any.
func (r *Registry) Get(x, y int) (Bait, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byKey[key(x, y)]
	return b, ok
}

// Len returns the number of live baits.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

// Snapshot returns a copy of all live baits, stable under concurrent
// inserts/removals issued after this call returns.
func (r *Registry) Snapshot() []Bait {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Bait, 0, len(r.byKey))
	for _, b := range r.byKey {
		out = append(out, b)
	}
	return out
}
