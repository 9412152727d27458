package decision

import (
	"mazebot.ai/internal/agents"
	"mazebot.ai/internal/gridmodel"
)

// avoidCollision implements spec.md section 4.8, the last-mile check
// applied only to a planned Step: verify the forward cell is still
// admissible, and that no opponent's predicted forward cell coincides
// with ours for the next tick. On failure, substitute the rotation
// whose resulting forward cell is admissible (left preferred when both
// are); if neither rotation helps, fall through to the planned Step
// and let the engine handle the collision.
func avoidCollision(action Action, grid *gridmodel.Snapshot, selfX, selfY int, selfFacing agents.Facing, blocked func(x, y int) bool, others []agents.Snapshot) Action {
	if action != Step {
		return action
	}

	fx, fy := forwardCell(selfX, selfY, selfFacing)
	if forwardAdmissible(grid, selfX, selfY, selfFacing, blocked) && !opponentWillOccupy(others, fx, fy) {
		return Step
	}

	if forwardAdmissible(grid, selfX, selfY, selfFacing.Left(), blocked) {
		return TurnLeft
	}
	if forwardAdmissible(grid, selfX, selfY, selfFacing.Right(), blocked) {
		return TurnRight
	}
	return Step
}

func forwardCell(x, y int, facing agents.Facing) (int, int) {
	dx, dy := facing.Delta()
	return x + dx, y + dy
}

func forwardAdmissible(grid *gridmodel.Snapshot, x, y int, facing agents.Facing, blocked func(x, y int) bool) bool {
	fx, fy := forwardCell(x, y, facing)
	if !grid.Walkable(fx, fy) {
		return false
	}
	if blocked != nil && blocked(fx, fy) {
		return false
	}
	return true
}

// opponentWillOccupy reports whether any opponent's own forward cell
// (assuming they step forward this tick too) coincides with (fx,fy).
func opponentWillOccupy(others []agents.Snapshot, fx, fy int) bool {
	for _, o := range others {
		ox, oy := forwardCell(o.X, o.Y, o.Facing)
		if ox == fx && oy == fy {
			return true
		}
	}
	return false
}
