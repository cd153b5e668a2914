package system

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/common"
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/prefabs"
)

func testSpec() prefabs.GameSpec {
	spec := prefabs.DefaultGameSpec()
	spec.World.Seed = 1
	spec.World.Decorations = 0
	spec.World.RebuildInterval = 0
	return spec
}

func newTestWorld(t *testing.T, mutate func(*prefabs.GameSpec)) *World {
	t.Helper()
	spec := testSpec()
	if mutate != nil {
		mutate(&spec)
	}
	w, err := NewWorld(spec)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestSpawnCount(t *testing.T) {
	cases := []struct {
		name                 string
		pop, capacity, batch int
		want                 int
	}{
		{"empty", 0, 500, 10, 10},
		{"near_cap", 495, 500, 10, 5},
		{"at_cap", 500, 500, 10, 0},
		{"over_cap", 600, 500, 10, 0},
		{"no_batch", 0, 500, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SpawnCount(c.pop, c.capacity, c.batch); got != c.want {
				t.Fatalf("SpawnCount(%d, %d, %d) = %d, want %d", c.pop, c.capacity, c.batch, got, c.want)
			}
		})
	}
}

func TestSpawnWaveFillsDeficit(t *testing.T) {
	w := newTestWorld(t, nil)
	if n := w.SpawnWave(); n != 0 {
		t.Fatalf("spawned %d targets without an anchor", n)
	}

	w.SetAnchor(cp.Vector{})
	for i := 0; i < 495; i++ {
		w.SpawnTarget(cp.Vector{X: float64(i)})
	}
	if n := w.SpawnWave(); n != 5 {
		t.Fatalf("expected 5 spawned at 495/500, got %d", n)
	}
	if w.Population() != 500 {
		t.Fatalf("population = %d, want 500", w.Population())
	}
	if n := w.SpawnWave(); n != 0 {
		t.Fatalf("expected nothing at cap, got %d", n)
	}
	if w.Stats().Wave != 1 {
		t.Fatalf("wave counter = %d, want 1", w.Stats().Wave)
	}
}

func TestSpawnPlacement(t *testing.T) {
	t.Run("rect", func(t *testing.T) {
		w := newTestWorld(t, func(s *prefabs.GameSpec) { s.Wave.BatchLimit = 200; s.World.HalfWidth = 100; s.World.HalfHeight = 50 })
		w.SetAnchor(cp.Vector{X: 1000, Y: 1000})
		w.SpawnWave()
		for _, tg := range w.Targets() {
			if tg.Pos.X < -100 || tg.Pos.X >= 100 || tg.Pos.Y < -50 || tg.Pos.Y >= 50 {
				t.Fatalf("target %v outside the world rect", tg.Pos)
			}
			if tg.Health != 100 {
				t.Fatalf("new target health = %v", tg.Health)
			}
		}
	})
	t.Run("annulus", func(t *testing.T) {
		w := newTestWorld(t, func(s *prefabs.GameSpec) {
			s.Wave.BatchLimit = 200
			s.Wave.Placement = prefabs.PlacementAnnulus
			s.Wave.MinRadius = 300
			s.Wave.MaxRadius = 400
		})
		anchor := cp.Vector{X: 50, Y: -20}
		w.SetAnchor(anchor)
		w.SpawnWave()
		if w.Population() != 200 {
			t.Fatalf("population = %d", w.Population())
		}
		for _, tg := range w.Targets() {
			d := tg.Pos.Distance(anchor)
			if d < 300-1e-9 || d > 400+1e-9 {
				t.Fatalf("target at distance %v outside [300, 400]", d)
			}
		}
	})
}

func TestPopulationNeverExceedsCap(t *testing.T) {
	w := newTestWorld(t, func(s *prefabs.GameSpec) {
		s.Wave.Cap = 25
		s.Wave.Interval = 0.5
		s.Enemy.ContactDPS = 0
	})
	w.Bootstrap()
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 400; i++ {
		w.Tick(Input{Fire: true, Move: cp.Vector{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}}, 0.05+rng.Float64()*0.1)
		if pop := w.Population(); pop > 25 {
			t.Fatalf("tick %d: population %d exceeds cap", i, pop)
		}
	}
}

func TestTwoHitsKillAndRemoveOnce(t *testing.T) {
	for _, resolver := range []string{prefabs.ResolverIndex, prefabs.ResolverDirect} {
		t.Run(resolver, func(t *testing.T) {
			w := newTestWorld(t, func(s *prefabs.GameSpec) {
				s.World.Resolver = resolver
				s.Weapon.HitRadius = 50
				s.Weapon.Damage = 50
				s.Enemy.Health = 100
			})
			target := w.SpawnTarget(cp.Vector{X: 100})
			w.SpawnProjectile(cp.Vector{X: 100, Y: 10}, cp.Vector{X: 1})
			w.SpawnProjectile(cp.Vector{X: 60}, cp.Vector{X: 1})
			w.SpawnProjectile(cp.Vector{X: 300}, cp.Vector{X: 1})

			if hits := w.ResolveDamage(); hits != 2 {
				t.Fatalf("hits = %d, want 2", hits)
			}
			got, _ := w.Target(target.ID)
			if got.Health != 0 {
				t.Fatalf("health = %v, want 0", got.Health)
			}
			if n := w.RemoveDead(); n != 1 {
				t.Fatalf("removed %d, want 1", n)
			}
			if w.IsAlive(target.ID) {
				t.Fatalf("target still alive after removal pass")
			}
			if n := w.RemoveDead(); n != 0 {
				t.Fatalf("second removal pass removed %d", n)
			}
			removals := w.DrainRemovals()
			if len(removals) != 1 || removals[0].Entity != target.ID {
				t.Fatalf("unexpected removals %v", removals)
			}
			if w.Stats().Kills != 1 {
				t.Fatalf("kills = %d", w.Stats().Kills)
			}
		})
	}
}

func TestDamageAccumulatesUnclamped(t *testing.T) {
	w := newTestWorld(t, func(s *prefabs.GameSpec) { s.Weapon.Damage = 30; s.World.Resolver = prefabs.ResolverDirect })
	target := w.SpawnTarget(cp.Vector{})
	w.SpawnProjectile(cp.Vector{}, cp.Vector{X: 1})

	want := []float64{70, 40, 10, -20}
	for i, hp := range want {
		w.ResolveDamage()
		got, _ := w.Target(target.ID)
		if got.Health != hp {
			t.Fatalf("after %d hits health = %v, want %v", i+1, got.Health, hp)
		}
	}
}

func TestIndexResolverUsesSnapshot(t *testing.T) {
	w := newTestWorld(t, nil)
	target := w.SpawnTarget(cp.Vector{})
	w.RebuildIndex()

	w.targets.Get(target.ID).Pos = cp.Vector{X: 1000}
	w.SpawnProjectile(cp.Vector{X: 1000}, cp.Vector{X: 1})
	if hits := w.ResolveDamage(); hits != 0 {
		t.Fatalf("index mode hit a target at its live position")
	}

	w.RebuildIndex()
	if hits := w.ResolveDamage(); hits != 1 {
		t.Fatalf("expected a hit after rebuild, got %d", hits)
	}
}

func TestIndexResolverSkipsRemovedIDs(t *testing.T) {
	w := newTestWorld(t, nil)
	target := w.SpawnTarget(cp.Vector{})
	w.RebuildIndex()
	w.targets.Get(target.ID).Health.Current = 0
	w.RemoveDead()

	w.SpawnProjectile(cp.Vector{}, cp.Vector{X: 1})
	if hits := w.ResolveDamage(); hits != 0 {
		t.Fatalf("removed id was hit")
	}
}

func TestConsumeOnHit(t *testing.T) {
	for _, consume := range []bool{false, true} {
		w := newTestWorld(t, func(s *prefabs.GameSpec) { s.Weapon.ConsumeOnHit = consume })
		w.SpawnTarget(cp.Vector{})
		w.SpawnTarget(cp.Vector{X: 5})
		w.SpawnProjectile(cp.Vector{}, cp.Vector{X: 1})
		if hits := w.ResolveDamage(); hits != 2 {
			t.Fatalf("consume=%v: one projectile should hit both targets, got %d", consume, hits)
		}
		left := len(w.Projectiles())
		if consume && left != 0 || !consume && left != 1 {
			t.Fatalf("consume=%v: %d projectiles left", consume, left)
		}
	}
}

func TestMoveTargets(t *testing.T) {
	cases := []struct {
		name         string
		from, anchor cp.Vector
		speed, dt    float64
		want         cp.Vector
	}{
		{"step", cp.Vector{X: 100}, cp.Vector{}, 10, 1, cp.Vector{X: 90}},
		{"no_overshoot", cp.Vector{X: 10}, cp.Vector{}, 100, 1, cp.Vector{}},
		{"coincident", cp.Vector{X: 5, Y: 5}, cp.Vector{X: 5, Y: 5}, 100, 1, cp.Vector{X: 5, Y: 5}},
		{"diagonal", cp.Vector{X: 30, Y: 40}, cp.Vector{}, 5, 1, cp.Vector{X: 27, Y: 36}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t, nil)
			tg := w.SpawnTarget(c.from)
			w.MoveTargets(c.anchor, c.speed, c.dt)
			got, _ := w.Target(tg.ID)
			if got.Pos.Distance(c.want) > 1e-9 {
				t.Fatalf("pos = %v, want %v", got.Pos, c.want)
			}
		})
	}
}

func TestMovementNeverProducesNaN(t *testing.T) {
	w := newTestWorld(t, nil)
	rng := rand.New(rand.NewSource(11))
	anchor := cp.Vector{X: 3, Y: 4}
	w.SpawnTarget(anchor)
	for i := 0; i < 100; i++ {
		w.SpawnTarget(common.RandomInRect(rng, cp.Vector{X: -50, Y: -50}, cp.Vector{X: 50, Y: 50}))
	}
	for i := 0; i < 200; i++ {
		w.MoveTargets(anchor, 60, 0.016)
	}
	for _, tg := range w.Targets() {
		if !common.IsFinite(tg.Pos) {
			t.Fatalf("target %v has non-finite position %v", tg.ID, tg.Pos)
		}
	}
}

func TestMovePlayer(t *testing.T) {
	w := newTestWorld(t, func(s *prefabs.GameSpec) { s.World.HalfWidth = 100 })
	w.SetAnchor(cp.Vector{X: 95})

	w.MovePlayer(cp.Vector{}, 1)
	p, _ := w.Player()
	if p.State != component.PlayerIdle || p.Pos.X != 95 {
		t.Fatalf("zero input should idle in place, got %+v", p)
	}

	w.MovePlayer(cp.Vector{X: 3}, 1)
	p, _ = w.Player()
	if p.State != component.PlayerMoving || p.Pos.X != 100 {
		t.Fatalf("player should move and clamp to the world edge, got %v", p.Pos)
	}
}

func TestTickPhaseOrder(t *testing.T) {
	w := newTestWorld(t, nil)
	want := []string{"input", "weapon", "spawn", "move", "projectiles", "damage", "contact", "rebuild", "remove", "death"}
	if got := w.Phases(); !slices.Equal(got, want) {
		t.Fatalf("phases = %v, want %v", got, want)
	}
}

func TestTickRejectsInvalidDt(t *testing.T) {
	for _, dt := range []float64{math.NaN(), math.Inf(-1), -0.5} {
		t.Run(fmt.Sprint(dt), func(t *testing.T) {
			w := newTestWorld(t, nil)
			w.Bootstrap()
			w.Tick(Input{Move: cp.Vector{X: 1}}, dt)

			p, _ := w.Player()
			s := w.Stats()
			if p.Pos != (cp.Vector{}) || s.Tick != 0 || s.Elapsed != 0 {
				t.Fatalf("bad dt advanced the world: pos %v stats %+v", p.Pos, s)
			}

			// A poisoned spawn timer would fire on every following tick.
			w.Tick(Input{}, 0.016)
			s = w.Stats()
			if s.Wave != 0 || s.Elapsed != 0.016 {
				t.Fatalf("after a valid tick: %+v", s)
			}
		})
	}
}

func TestWeaponFiresBurstTowardCursor(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Bootstrap()
	cursor := cp.Vector{X: 500}
	w.Tick(Input{Cursor: &cursor, Fire: true}, 0.1)

	shots := w.Projectiles()
	if len(shots) != 3 {
		t.Fatalf("expected a burst of 3, got %d", len(shots))
	}
	for _, s := range shots {
		if s.Dir.X <= 0 || s.Dir.Length() < 0.999 || s.Dir.Length() > 1.001 {
			t.Fatalf("bad projectile direction %v", s.Dir)
		}
	}
	if wp := w.Weapon(); wp.FlipY || wp.Pos.Distance(cp.Vector{X: 20}) > 1e-9 {
		t.Fatalf("weapon should sit at the offset toward the cursor, got %+v", wp)
	}

	w.Tick(Input{Cursor: &cursor}, 0.31)
	if n := len(w.Projectiles()); n != 0 {
		t.Fatalf("expired projectiles left: %d", n)
	}
}

func TestContactDamageEndsRun(t *testing.T) {
	w := newTestWorld(t, func(s *prefabs.GameSpec) { s.Wave.BatchLimit = 0 })
	w.Bootstrap()
	w.SpawnTarget(cp.Vector{X: 10})

	w.Tick(Input{}, 0.5)
	if hp := w.Stats().PlayerHealth; hp != 70 {
		t.Fatalf("player health = %v, want 70", hp)
	}
	contacts := 0
	for _, evt := range w.DrainCombat() {
		if evt.Type == component.EventContact {
			contacts++
		}
	}
	if contacts != 1 {
		t.Fatalf("contact events = %d", contacts)
	}

	for i := 0; i < 10 && !w.Over(); i++ {
		w.Tick(Input{}, 0.5)
	}
	if !w.Over() {
		t.Fatalf("run should be over")
	}
	ticks := w.Stats().Tick
	w.Tick(Input{}, 0.5)
	if w.Stats().Tick != ticks {
		t.Fatalf("a finished world should not tick")
	}
}

func TestPlayerDeathHookEmitsOnce(t *testing.T) {
	w := newTestWorld(t, func(s *prefabs.GameSpec) { s.Wave.BatchLimit = 0 })
	w.Bootstrap()
	w.SpawnTarget(cp.Vector{X: 10})

	var deaths []component.CombatEvent
	w.Emitter.Subscribe(func(evt component.CombatEvent) {
		if evt.Type == component.EventPlayerDeath {
			deaths = append(deaths, evt)
		}
	})
	var lastTick []component.CombatEvent
	for i := 0; i < 10 && !w.Over(); i++ {
		w.Tick(Input{}, 0.5)
		lastTick = w.DrainCombat()
	}
	if !w.Over() {
		t.Fatalf("run should be over")
	}
	if len(deaths) != 1 || deaths[0].Pos != (cp.Vector{}) {
		t.Fatalf("player death events = %+v, want one at the origin", deaths)
	}
	if !slices.ContainsFunc(lastTick, func(e component.CombatEvent) bool { return e.Type == component.EventPlayerDeath }) {
		t.Fatalf("final tick should carry the player death, got %+v", lastTick)
	}

	// Damage past zero must not fire the hook again.
	p, _ := w.Player()
	p.ApplyDamage(10)
	if len(deaths) != 1 {
		t.Fatalf("hook fired %d times", len(deaths))
	}
}

func TestAutoAimPicksNearestTarget(t *testing.T) {
	w := newTestWorld(t, func(s *prefabs.GameSpec) { s.Weapon.AutoAim = true; s.Wave.BatchLimit = 0 })
	w.Bootstrap()
	w.SpawnTarget(cp.Vector{X: -300})
	w.SpawnTarget(cp.Vector{Y: -200})
	w.Tick(Input{}, 0.016)
	w.Tick(Input{}, 0.016)

	wp := w.Weapon()
	if d := wp.Direction().Distance(cp.Vector{Y: -1}); d > 0.05 {
		t.Fatalf("weapon should point at the nearest target, dir %v", wp.Direction())
	}
}

func TestApplySpecSwapsIndex(t *testing.T) {
	w := newTestWorld(t, nil)
	tg := w.SpawnTarget(cp.Vector{})
	spec := w.Spec()
	spec.World.Index = prefabs.IndexGrid
	spec.Enemy.Speed = 1
	if err := w.ApplySpec(spec); err != nil {
		t.Fatalf("ApplySpec: %v", err)
	}
	if !w.IsAlive(tg.ID) {
		t.Fatalf("ApplySpec dropped entities")
	}
	spec.Wave.Placement = "spiral"
	if err := w.ApplySpec(spec); err == nil {
		t.Fatalf("expected validation error")
	}
	if w.Spec().Wave.Placement != prefabs.PlacementRect {
		t.Fatalf("invalid spec was applied")
	}
}

func TestTimer(t *testing.T) {
	tm := NewTimer(1)
	fired := []bool{tm.Tick(0.4), tm.Tick(0.4), tm.Tick(0.4), tm.Tick(5)}
	if !slices.Equal(fired, []bool{false, false, true, true}) {
		t.Fatalf("fired = %v", fired)
	}
	every := NewTimer(0)
	if !every.Tick(0) {
		t.Fatalf("zero interval should fire every tick")
	}
}
