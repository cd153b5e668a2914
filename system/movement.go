package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/common"
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/ecs"
)

// MoveTargets steps every target toward anchor by speed*dt along the
// current direction, stopping on the anchor instead of passing it.
func (w *World) MoveTargets(anchor cp.Vector, speed, dt float64) {
	if w == nil || speed <= 0 || dt <= 0 || !common.IsFinite(anchor) {
		return
	}
	step := speed * dt
	w.targets.Each(func(_ ecs.Entity, t *component.Target) {
		t.Pos = stepToward(t.Pos, anchor, step)
	})
}

func stepToward(pos, anchor cp.Vector, step float64) cp.Vector {
	dir, ok := common.Direction(pos, anchor)
	if !ok {
		return pos
	}
	if pos.Distance(anchor) <= step {
		return anchor
	}
	next := pos.Add(dir.Mult(step))
	if !common.IsFinite(next) {
		return pos
	}
	return next
}

// MovePlayer applies the input direction to the player and keeps it inside
// the world rectangle.
func (w *World) MovePlayer(move cp.Vector, dt float64) {
	p := w.player
	if !p.Alive() {
		return
	}
	if c := w.input.Cursor; c != nil {
		p.FacingLeft = c.X < p.Pos.X
	}
	dir, ok := common.Normalize(move)
	if !ok {
		p.SetState(component.PlayerIdle)
		return
	}
	p.SetState(component.PlayerMoving)
	half := cp.Vector{X: w.spec.World.HalfWidth, Y: w.spec.World.HalfHeight}
	p.Pos = common.Clamp(p.Pos.Add(dir.Mult(w.spec.Player.Speed*dt)), half.Neg(), half)
}
