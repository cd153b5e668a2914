package system

import (
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/ecs"
)

func (w *World) removePhase(float64) {
	w.RemoveDead()
}

// RemoveDead destroys every target with health <= 0. Each target is counted
// and reported exactly once.
func (w *World) RemoveDead() int {
	if w == nil || w.targets.Len() == 0 {
		return 0
	}
	var dead []ecs.Entity
	w.targets.Each(func(e ecs.Entity, t *component.Target) {
		if !t.Alive() {
			dead = append(dead, e)
		}
	})
	removed := 0
	for _, e := range dead {
		t := w.targets.Get(e)
		pos := t.Pos
		w.targets.Remove(e)
		if !w.registry.Destroy(e) {
			continue
		}
		removed++
		w.stats.Kills++
		w.removals.Push(component.RemovalEvent{Entity: e, Pos: pos})
		w.emit(component.CombatEvent{Type: component.EventDeath, Target: e, Pos: pos})
	}
	return removed
}
