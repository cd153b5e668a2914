package system

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/common"
	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/ecs"
	"github.com/milk9111/survivors/prefabs"
	"github.com/milk9111/survivors/spatial"
)

// Input is what the front-end feeds the simulation each tick.
type Input struct {
	Move   cp.Vector
	Cursor *cp.Vector
	Fire   bool
}

// Target is a read-only view of one alive target.
type Target struct {
	ID     ecs.Entity
	Pos    cp.Vector
	Health float64
	Frame  int
}

// Stats summarizes a run.
type Stats struct {
	Tick         uint64
	Elapsed      float64
	Population   int
	Wave         int
	Spawned      int
	Kills        int
	PlayerHealth float64
	Rebuilds     int
}

// World owns every entity of a run and advances them in a fixed phase order.
type World struct {
	spec prefabs.GameSpec
	rng  *rand.Rand

	registry    *ecs.Registry
	targets     ecs.SparseSet[component.Target]
	projectiles ecs.SparseSet[component.Projectile]
	decorations []component.Decoration
	player      *component.Player
	weapon      component.Weapon

	index   spatial.Index
	rebuilt bool

	spawnTimer   Timer
	rebuildTimer Timer
	script       *WaveScript

	removals ecs.EventQueue[component.RemovalEvent]
	combat   ecs.EventQueue[component.CombatEvent]
	Emitter  component.CombatEventEmitter

	scheduler *ecs.Scheduler
	input     Input
	stats     Stats
	over      bool
}

// NewWorld builds an empty world. Call Bootstrap to place the player.
func NewWorld(spec prefabs.GameSpec) (*World, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	index, err := spatial.New(spec.World.Index, spec.World.CellSize)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	seed := spec.World.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := &World{
		spec:         spec,
		rng:          rand.New(rand.NewSource(seed)),
		registry:     ecs.NewRegistry(),
		index:        index,
		spawnTimer:   NewTimer(spec.Wave.Interval),
		rebuildTimer: NewTimer(spec.World.RebuildInterval),
	}
	if spec.Wave.Script != "" {
		script, err := LoadWaveScript(spec.Wave.Script)
		if err != nil {
			return nil, err
		}
		w.script = script
	}
	w.scheduler = ecs.NewScheduler(
		ecs.Phase{Name: "input", Run: w.inputPhase},
		ecs.Phase{Name: "weapon", Run: w.weaponPhase},
		ecs.Phase{Name: "spawn", Run: w.spawnPhase},
		ecs.Phase{Name: "move", Run: w.movePhase},
		ecs.Phase{Name: "projectiles", Run: w.projectilePhase},
		ecs.Phase{Name: "damage", Run: w.damagePhase},
		ecs.Phase{Name: "contact", Run: w.contactPhase},
		ecs.Phase{Name: "rebuild", Run: w.rebuildPhase},
		ecs.Phase{Name: "remove", Run: w.removePhase},
		ecs.Phase{Name: "death", Run: w.deathPhase},
	)
	return w, nil
}

// Bootstrap places the player and weapon at the origin and scatters the
// decorations.
func (w *World) Bootstrap() {
	if w == nil {
		return
	}
	w.SetAnchor(cp.Vector{})
	w.weapon = component.Weapon{Pos: w.player.Pos}

	half := cp.Vector{X: w.spec.World.HalfWidth, Y: w.spec.World.HalfHeight}
	w.decorations = make([]component.Decoration, 0, w.spec.World.Decorations)
	for i := 0; i < w.spec.World.Decorations; i++ {
		w.decorations = append(w.decorations, component.Decoration{
			Pos:     common.RandomInRect(w.rng, half.Neg(), half),
			Variant: w.rng.Intn(2),
		})
	}
	log.Printf("[World] bootstrapped: %d decorations, index=%s resolver=%s", len(w.decorations), w.spec.World.Index, w.spec.World.Resolver)
}

// SetAnchor places the player at pos, creating it when absent.
func (w *World) SetAnchor(pos cp.Vector) {
	if w.player == nil {
		p := component.NewPlayer(pos, w.spec.Player.Health)
		p.Anim.Interval = w.spec.Player.AnimInterval
		p.Health.OnDeath = w.playerDied
		w.player = &p
		return
	}
	w.player.Pos = pos
}

// ClearAnchor removes the player. Spawning stops until SetAnchor.
func (w *World) ClearAnchor() {
	w.player = nil
}

// Tick advances the simulation by dt seconds.
func (w *World) Tick(in Input, dt float64) {
	// !(dt >= 0) also rejects NaN.
	if w == nil || w.over || !(dt >= 0) {
		return
	}
	w.input = in
	w.combat.Clear()
	w.scheduler.Run(dt)
	w.stats.Tick++
	w.stats.Elapsed += dt
}

// Phases reports the tick order.
func (w *World) Phases() []string {
	return w.scheduler.Names()
}

func (w *World) inputPhase(dt float64) {
	w.MovePlayer(w.input.Move, dt)
	w.animate(dt)
}

func (w *World) spawnPhase(dt float64) {
	if !w.spawnTimer.Tick(dt) {
		return
	}
	if n := w.SpawnWave(); n > 0 {
		log.Printf("[Spawner] wave %d: +%d targets (population %d)", w.stats.Wave, n, w.targets.Len())
	}
}

func (w *World) movePhase(dt float64) {
	if !w.player.Alive() {
		return
	}
	w.MoveTargets(w.player.Pos, w.spec.Enemy.Speed, dt)
}

func (w *World) rebuildPhase(dt float64) {
	fire := w.rebuildTimer.Tick(dt)
	if w.rebuilt && !fire {
		return
	}
	w.RebuildIndex()
}

// RebuildIndex snapshots the positions of every alive target.
func (w *World) RebuildIndex() {
	points := make([]spatial.Point, 0, w.targets.Len())
	w.targets.Each(func(e ecs.Entity, t *component.Target) {
		if t.Alive() {
			points = append(points, spatial.Point{ID: e, Pos: t.Pos})
		}
	})
	w.index.Rebuild(points)
	w.rebuilt = true
	w.stats.Rebuilds++
}

// playerDied is the player's OnDeath hook. The run ends in the death phase so
// the rest of the tick still resolves.
func (w *World) playerDied(*component.Health) {
	log.Printf("[World] player died after %.1fs with %d kills", w.stats.Elapsed, w.stats.Kills)
	w.emit(component.CombatEvent{Type: component.EventPlayerDeath, Pos: w.player.Pos})
}

func (w *World) deathPhase(float64) {
	if w.player == nil || w.player.Alive() || w.over {
		return
	}
	w.over = true
}

func (w *World) animate(dt float64) {
	if w.player != nil {
		w.player.Anim.Tick(dt)
	}
	w.targets.Each(func(_ ecs.Entity, t *component.Target) {
		t.Anim.Tick(dt)
	})
}

// ApplySpec swaps tunables in place. Entities are kept; the index is
// recreated when its kind or cell size changes.
func (w *World) ApplySpec(spec prefabs.GameSpec) error {
	if w == nil {
		return nil
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	if spec.World.Index != w.spec.World.Index || spec.World.CellSize != w.spec.World.CellSize {
		index, err := spatial.New(spec.World.Index, spec.World.CellSize)
		if err != nil {
			return fmt.Errorf("world: %w", err)
		}
		w.index = index
		w.rebuilt = false
	}
	// Scripts are reloaded on every apply so edits to the .tengo file land.
	var script *WaveScript
	if spec.Wave.Script != "" {
		s, err := LoadWaveScript(spec.Wave.Script)
		if err != nil {
			return err
		}
		script = s
	}
	w.script = script
	w.spawnTimer.Interval = spec.Wave.Interval
	w.rebuildTimer.Interval = spec.World.RebuildInterval
	w.spec = spec
	return nil
}

func (w *World) Spec() prefabs.GameSpec {
	return w.spec
}

// Over reports whether the player has died.
func (w *World) Over() bool {
	return w != nil && w.over
}

// IsAlive reports whether e is a target that has not been removed.
func (w *World) IsAlive(e ecs.Entity) bool {
	return w != nil && w.registry.IsAlive(e) && w.targets.Has(e)
}

// Targets returns a view of every stored target.
func (w *World) Targets() []Target {
	out := make([]Target, 0, w.targets.Len())
	w.targets.Each(func(e ecs.Entity, t *component.Target) {
		out = append(out, Target{ID: e, Pos: t.Pos, Health: t.Health.Current, Frame: t.Anim.Frame()})
	})
	return out
}

// Target returns the view of a single target.
func (w *World) Target(e ecs.Entity) (Target, bool) {
	t := w.targets.Get(e)
	if t == nil {
		return Target{}, false
	}
	return Target{ID: e, Pos: t.Pos, Health: t.Health.Current, Frame: t.Anim.Frame()}, true
}

func (w *World) Projectiles() []component.Projectile {
	return append([]component.Projectile(nil), w.projectiles.Values()...)
}

// Player returns a copy of the player, false when absent.
func (w *World) Player() (component.Player, bool) {
	if w == nil || w.player == nil {
		return component.Player{}, false
	}
	return *w.player, true
}

func (w *World) Weapon() component.Weapon {
	return w.weapon
}

func (w *World) Decorations() []component.Decoration {
	return w.decorations
}

func (w *World) Stats() Stats {
	s := w.stats
	s.Population = w.targets.Len()
	if w.player != nil {
		s.PlayerHealth = w.player.Health.Current
	}
	return s
}

// DrainRemovals returns the targets removed since the last call.
func (w *World) DrainRemovals() []component.RemovalEvent {
	return w.removals.Drain()
}

// DrainCombat returns the combat events of the latest tick. Undrained events
// are dropped when the next tick starts.
func (w *World) DrainCombat() []component.CombatEvent {
	return w.combat.Drain()
}

func (w *World) emit(evt component.CombatEvent) {
	w.combat.Push(evt)
	w.Emitter.Emit(evt)
}

// Reset drops every entity of the run.
func (w *World) Reset() {
	if w == nil {
		return
	}
	w.registry.Reset()
	w.targets.Clear()
	w.projectiles.Clear()
	w.decorations = nil
	w.player = nil
	w.weapon = component.Weapon{}
	w.index.Rebuild(nil)
	w.rebuilt = false
	w.removals.Clear()
	w.combat.Clear()
	w.spawnTimer.Reset()
	w.rebuildTimer.Reset()
	w.stats = Stats{}
	w.over = false
}
