package search

// PlainGrid runs a cheap step-only BFS over cells (ignoring facing),
// used by the planner as a reachability pre-filter before the more
// expensive oriented search.
type PlainGrid struct {
	width, height int
	dist          []int
	queue         []int
}

// NewPlainGrid returns a ready-to-use plain-grid search.
func NewPlainGrid() *PlainGrid {
	return &PlainGrid{}
}

var plainDeltas = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} // N, E, S, W

func (p *PlainGrid) ensureSize(width, height int) {
	n := width * height
	if p.width == width && p.height == height && len(p.dist) == n {
		return
	}
	p.width, p.height = width, height
	p.dist = make([]int, n)
	p.queue = make([]int, 0, n)
}

// Run performs BFS from (startX, startY) under the given admissibility
// predicate (walkability plus any overlay the caller composed).
func (p *PlainGrid) Run(width, height, startX, startY int, admissible Admissible) {
	p.ensureSize(width, height)
	for i := range p.dist {
		p.dist[i] = Unreachable
	}
	origin := startY*width + startX
	p.dist[origin] = 0
	p.queue = p.queue[:0]
	p.queue = append(p.queue, origin)

	for head := 0; head < len(p.queue); head++ {
		cur := p.queue[head]
		cx, cy := cur%width, cur/width
		curDist := p.dist[cur]
		for _, d := range plainDeltas {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if !admissible(nx, ny) {
				continue
			}
			next := ny*width + nx
			if p.dist[next] != Unreachable {
				continue
			}
			p.dist[next] = curDist + 1
			p.queue = append(p.queue, next)
		}
	}
}

// DistanceTo returns the minimum step count to (x,y), or Unreachable.
func (p *PlainGrid) DistanceTo(x, y int) int {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return Unreachable
	}
	return p.dist[y*p.width+x]
}
