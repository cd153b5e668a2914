package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/common"
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/ecs"
	"github.com/milk9111/survivors/spatial"
)

func (w *World) weaponPhase(dt float64) {
	if !w.player.Alive() {
		return
	}
	spec := w.spec.Weapon
	wp := &w.weapon

	if aim, ok := w.aimPoint(); ok {
		if d := aim.Sub(w.player.Pos); d.LengthSq() > 0 {
			wp.Angle = math.Atan2(d.Y, d.X)
			wp.FlipY = aim.X < w.player.Pos.X
		}
	}
	wp.Pos = w.player.Pos.Add(cp.ForAngle(wp.Angle).Mult(spec.Offset))

	wp.Cooldown += dt
	if !w.input.Fire || wp.Cooldown < spec.FireInterval {
		return
	}
	wp.Cooldown = 0
	w.fireBurst()
}

// aimPoint picks the cursor, or the nearest target when auto-aim is on.
func (w *World) aimPoint() (cp.Vector, bool) {
	if w.input.Cursor != nil {
		return *w.input.Cursor, true
	}
	if !w.spec.Weapon.AutoAim {
		return cp.Vector{}, false
	}
	if tree, ok := w.index.(*spatial.KDTree); ok && w.rebuilt {
		if p, ok := tree.Nearest(w.player.Pos); ok {
			return p.Pos, true
		}
		return cp.Vector{}, false
	}
	best, found := math.Inf(1), false
	var aim cp.Vector
	w.targets.Each(func(_ ecs.Entity, t *component.Target) {
		if d := t.Pos.DistanceSq(w.player.Pos); d < best {
			best, aim, found = d, t.Pos, true
		}
	})
	return aim, found
}

func (w *World) fireBurst() {
	spec := w.spec.Weapon
	base := w.weapon.Direction()
	for i := 0; i < spec.Burst; i++ {
		jitter := cp.Vector{
			X: (w.rng.Float64()*2 - 1) * spec.Spread,
			Y: (w.rng.Float64()*2 - 1) * spec.Spread,
		}
		dir, ok := common.Normalize(base.Add(jitter))
		if !ok {
			continue
		}
		e := w.registry.Create()
		w.projectiles.Set(e, component.Projectile{
			Entity: e,
			Pos:    w.weapon.Pos,
			Dir:    dir,
			Speed:  spec.ProjectileSpeed,
			TTL:    spec.TTL,
		})
	}
}

// SpawnProjectile fires a single projectile. Used by tests and scripted
// setups.
func (w *World) SpawnProjectile(pos, dir cp.Vector) ecs.Entity {
	unit, ok := common.Normalize(dir)
	if !ok {
		unit = cp.Vector{}
	}
	e := w.registry.Create()
	w.projectiles.Set(e, component.Projectile{
		Entity: e,
		Pos:    pos,
		Dir:    unit,
		Speed:  w.spec.Weapon.ProjectileSpeed,
		TTL:    w.spec.Weapon.TTL,
	})
	return e
}

func (w *World) projectilePhase(dt float64) {
	var expired []ecs.Entity
	w.projectiles.Each(func(e ecs.Entity, p *component.Projectile) {
		p.Pos = p.Pos.Add(p.Dir.Mult(p.Speed * dt))
		p.Age += dt
		if p.Expired() {
			expired = append(expired, e)
		}
	})
	for _, e := range expired {
		w.removeProjectile(e)
	}
}

func (w *World) removeProjectile(e ecs.Entity) {
	if w.projectiles.Remove(e) {
		w.registry.Destroy(e)
	}
}
