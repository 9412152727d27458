package planner

import (
	"sort"

	"mazebot.ai/internal/baits"
	"mazebot.ai/internal/search"
)

// candidate is a bait selected for this tick's plan, with its bit
// position in the collected-bait mask.
type candidate struct {
	x, y  int
	score int
	label string
	bit   int
}

// selectCandidates ranks positive-score baits reachable via plain-grid
// distance by score/(distance+2) descending, keeps the top K, discards
// any the contest predictor says an opponent reaches first, and returns
// the separate trap-cell set (never a candidate itself).
func (p *Planner) selectCandidates(in Input) ([]candidate, map[[2]int]bool) {
	trapSet := make(map[[2]int]bool)
	var positives []baits.Bait
	for _, b := range in.Baits {
		if b.IsTrap() {
			trapSet[[2]int{b.X, b.Y}] = true
			continue
		}
		if b.Score > 0 {
			positives = append(positives, b)
		}
	}
	if len(positives) == 0 {
		return nil, trapSet
	}

	plainAdm := search.NewAdmissible(in.Grid, nil, in.SelfX, in.SelfY)
	p.plain.Run(in.Grid.Width, in.Grid.Height, in.SelfX, in.SelfY, plainAdm)

	type ranked struct {
		b     baits.Bait
		dist  int
		score float64
	}
	var reachable []ranked
	for _, b := range positives {
		d := p.plain.DistanceTo(b.X, b.Y)
		if d == search.Unreachable {
			continue
		}
		reachable = append(reachable, ranked{b: b, dist: d, score: float64(b.Score) / float64(d+2)})
	}
	sort.Slice(reachable, func(i, j int) bool {
		if reachable[i].score != reachable[j].score {
			return reachable[i].score > reachable[j].score
		}
		// Deterministic tie-break: lower (x,y) wins.
		if reachable[i].b.Y != reachable[j].b.Y {
			return reachable[i].b.Y < reachable[j].b.Y
		}
		return reachable[i].b.X < reachable[j].b.X
	})

	capK := in.Cfg.candidateCap()
	if len(reachable) > capK {
		reachable = reachable[:capK]
	}

	// Contest pruning: drop any candidate an opponent is predicted to
	// reach strictly before self (per spec.md scenario S4).
	selfAdm := search.NewAdmissible(in.Grid, in.Occupied, in.SelfX, in.SelfY)
	p.self.Run(in.Grid.Width, in.Grid.Height, in.SelfX, in.SelfY, in.SelfFacing, selfAdm)

	cands := make([]candidate, 0, len(reachable))
	for _, r := range reachable {
		if in.Predictor != nil {
			selfTicks := p.self.DistanceTo(r.b.X, r.b.Y)
			oppTicks := in.Predictor.MinOpponentTicksTo(r.b.X, r.b.Y)
			if oppTicks < selfTicks {
				continue
			}
		}
		cands = append(cands, candidate{
			x:     r.b.X,
			y:     r.b.Y,
			score: r.b.Score,
			label: baits.Label(r.b.Score),
			bit:   0, // assigned below
		})
	}
	for i := range cands {
		cands[i].bit = i
	}
	return cands, trapSet
}

// optimisticBound precomputes the descending-score order of candidates
// once, so the planner can cheaply sum the top N un-collected scores as
// an upper bound on remaining reward.
type optimisticBound struct {
	sortedDesc []candidate
}

func newOptimisticBound(cands []candidate) optimisticBound {
	sorted := make([]candidate, len(cands))
	copy(sorted, cands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].score > sorted[j].score })
	return optimisticBound{sortedDesc: sorted}
}

// remaining sums the top min(remainingMoves, available) un-collected
// candidate scores, per spec.md section 4.6.
func (b optimisticBound) remaining(mask uint64, remainingMoves int) float64 {
	if remainingMoves <= 0 {
		return 0
	}
	sum := 0.0
	taken := 0
	for _, c := range b.sortedDesc {
		if taken >= remainingMoves {
			break
		}
		if mask&(uint64(1)<<uint(c.bit)) != 0 {
			continue
		}
		sum += float64(c.score)
		taken++
	}
	return sum
}
