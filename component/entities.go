package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/ecs"
)

const (
	EnemyFrame      = 12
	ProjectileFrame = 16

	PlayerIdleBase   = 0
	PlayerMovingBase = 4
	PlayerFrames     = 4
)

// Target is one enemy.
type Target struct {
	Entity ecs.Entity
	Pos    cp.Vector
	Health Health
	Anim   Animator
}

// NewTarget creates a target at full health.
func NewTarget(e ecs.Entity, pos cp.Vector, health float64) Target {
	return Target{
		Entity: e,
		Pos:    pos,
		Health: NewHealth(health),
		Anim:   NewAnimator(0.08, EnemyFrame, 1),
	}
}

func (t *Target) Alive() bool {
	return t != nil && t.Health.Alive()
}

func (t *Target) ApplyDamage(amount float64) bool {
	if t == nil {
		return false
	}
	return t.Health.ApplyDamage(amount)
}

// Projectile moves in a straight line until it outlives its TTL.
type Projectile struct {
	Entity ecs.Entity
	Pos    cp.Vector
	Dir    cp.Vector
	Speed  float64
	Age    float64
	TTL    float64
}

// Expired reports whether the projectile has lived past its TTL.
func (p *Projectile) Expired() bool {
	return p.Age > p.TTL
}

type PlayerState int

const (
	PlayerIdle PlayerState = iota
	PlayerMoving
)

func (s PlayerState) String() string {
	if s == PlayerMoving {
		return "moving"
	}
	return "idle"
}

// Player is the anchor every enemy chases.
type Player struct {
	Pos        cp.Vector
	Health     Health
	State      PlayerState
	FacingLeft bool
	Anim       Animator
}

func NewPlayer(pos cp.Vector, health float64) Player {
	return Player{
		Pos:    pos,
		Health: NewHealth(health),
		Anim:   NewAnimator(0.15, PlayerIdleBase, PlayerFrames),
	}
}

func (p *Player) Alive() bool {
	return p != nil && p.Health.Alive()
}

func (p *Player) ApplyDamage(amount float64) bool {
	if p == nil {
		return false
	}
	return p.Health.ApplyDamage(amount)
}

// SetState updates the state and the animation row that goes with it.
func (p *Player) SetState(s PlayerState) {
	p.State = s
	if s == PlayerMoving {
		p.Anim.SetBase(PlayerMovingBase)
	} else {
		p.Anim.SetBase(PlayerIdleBase)
	}
}

// Weapon orbits the player and fires bursts.
type Weapon struct {
	Pos      cp.Vector
	Angle    float64
	FlipY    bool
	Cooldown float64
}

// Direction is the unit vector the weapon points along.
func (w *Weapon) Direction() cp.Vector {
	return cp.ForAngle(w.Angle)
}

// Decoration is static scenery.
type Decoration struct {
	Pos     cp.Vector
	Variant int
}
