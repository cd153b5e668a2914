package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/ecs"
	"github.com/milk9111/survivors/prefabs"
)

func (w *World) damagePhase(float64) {
	w.ResolveDamage()
}

// ResolveDamage applies one hit per projectile/target pair within the hit
// radius. In index mode membership is decided by the last snapshot; ids that
// were removed since are skipped. Returns the number of hits.
func (w *World) ResolveDamage() int {
	if w == nil || w.projectiles.Len() == 0 || w.targets.Len() == 0 {
		return 0
	}
	spec := w.spec.Weapon
	useIndex := w.spec.World.Resolver == prefabs.ResolverIndex
	if useIndex && !w.rebuilt {
		w.RebuildIndex()
	}

	hits := 0
	var consumed []ecs.Entity
	w.projectiles.Each(func(pe ecs.Entity, p *component.Projectile) {
		landed := 0
		hit := func(te ecs.Entity, t *component.Target) {
			t.ApplyDamage(spec.Damage)
			landed++
			w.emit(component.CombatEvent{
				Type:     component.EventHit,
				Attacker: pe,
				Target:   te,
				Damage:   spec.Damage,
				Pos:      t.Pos,
			})
		}
		if useIndex {
			for _, te := range w.index.QueryRadius(p.Pos, spec.HitRadius) {
				if t := w.targets.Get(te); t != nil {
					hit(te, t)
				}
			}
		} else {
			w.targets.Each(func(te ecs.Entity, t *component.Target) {
				if within(t.Pos, p.Pos, spec.HitRadius) {
					hit(te, t)
				}
			})
		}
		hits += landed
		if spec.ConsumeOnHit && landed > 0 {
			consumed = append(consumed, pe)
		}
	})
	for _, e := range consumed {
		w.removeProjectile(e)
	}
	return hits
}

func (w *World) contactPhase(dt float64) {
	p := w.player
	if !p.Alive() || dt <= 0 || w.spec.Enemy.ContactDPS <= 0 {
		return
	}
	radius := w.spec.Player.ContactRadius
	amount := w.spec.Enemy.ContactDPS * dt

	touch := func(te ecs.Entity, t *component.Target) {
		if !t.Alive() {
			return
		}
		p.ApplyDamage(amount)
		w.emit(component.CombatEvent{
			Type:     component.EventContact,
			Attacker: te,
			Damage:   amount,
			Pos:      p.Pos,
		})
	}
	if w.spec.World.Resolver == prefabs.ResolverIndex && w.rebuilt {
		for _, te := range w.index.QueryRadius(p.Pos, radius) {
			if t := w.targets.Get(te); t != nil {
				touch(te, t)
			}
		}
		return
	}
	w.targets.Each(func(te ecs.Entity, t *component.Target) {
		if within(t.Pos, p.Pos, radius) {
			touch(te, t)
		}
	})
}

func within(a, b cp.Vector, radius float64) bool {
	return a.DistanceSq(b) <= radius*radius
}
