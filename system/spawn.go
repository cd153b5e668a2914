package system

import (
	"context"
	"log"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/common"
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/prefabs"
)

const scriptTimeout = 50 * time.Millisecond

// SpawnCount is how many targets one wave adds: the population deficit,
// limited by the batch size. Never negative.
func SpawnCount(population, capacity, batchLimit int) int {
	if population >= capacity || batchLimit <= 0 {
		return 0
	}
	return min(capacity-population, batchLimit)
}

// SpawnWave adds one wave of targets and returns how many were created.
// Nothing spawns without a live anchor.
func (w *World) SpawnWave() int {
	if w == nil || !w.player.Alive() {
		return 0
	}
	wave := w.spec.Wave
	pop := w.targets.Len()
	batch := w.batchLimit(pop)
	n := SpawnCount(pop, wave.Cap, batch)
	if n == 0 {
		return 0
	}

	anchor := w.player.Pos
	half := cp.Vector{X: w.spec.World.HalfWidth, Y: w.spec.World.HalfHeight}
	for i := 0; i < n; i++ {
		var pos cp.Vector
		switch wave.Placement {
		case prefabs.PlacementAnnulus:
			pos = common.RandomInAnnulus(w.rng, anchor, wave.MinRadius, wave.MaxRadius)
		default:
			pos = common.RandomInRect(w.rng, half.Neg(), half)
		}
		e := w.registry.Create()
		t := component.NewTarget(e, pos, w.spec.Enemy.Health)
		t.Anim.Interval = w.spec.Enemy.AnimInterval
		w.targets.Set(e, t)
	}
	w.stats.Wave++
	w.stats.Spawned += n
	return n
}

func (w *World) batchLimit(population int) int {
	limit := w.spec.Wave.BatchLimit
	if w.script == nil {
		return limit
	}
	ctx, cancel := context.WithTimeout(context.Background(), scriptTimeout)
	defer cancel()
	got, err := w.script.BatchLimit(ctx, WaveInputs{
		Wave:       w.stats.Wave + 1,
		Population: population,
		Cap:        w.spec.Wave.Cap,
		Elapsed:    w.stats.Elapsed,
		BatchLimit: limit,
	})
	if err != nil {
		log.Printf("[Spawner] wave script %s: %v", w.script.Name(), err)
		return limit
	}
	return got
}

// Population is the number of stored targets.
func (w *World) Population() int {
	if w == nil {
		return 0
	}
	return w.targets.Len()
}

// SpawnTarget places a single target. It ignores the cap and is meant for
// scripted setups and tests.
func (w *World) SpawnTarget(pos cp.Vector) Target {
	e := w.registry.Create()
	t := component.NewTarget(e, pos, w.spec.Enemy.Health)
	t.Anim.Interval = w.spec.Enemy.AnimInterval
	w.targets.Set(e, t)
	return Target{ID: e, Pos: pos, Health: t.Health.Current}
}
