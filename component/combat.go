package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/survivors/ecs"
)

// CombatEventType defines the kind of combat event.
type CombatEventType string

const (
	EventHit     CombatEventType = "hit"
	EventDeath   CombatEventType = "death"
	EventContact CombatEventType = "contact"
	// EventPlayerDeath fires once, on the hit that drops the player to zero.
	EventPlayerDeath CombatEventType = "player_death"
)

// CombatEvent is emitted during combat resolution. Attacker is zero for
// contact damage dealt to the player and Target is zero when the player is
// the one hurt.
type CombatEvent struct {
	Type     CombatEventType
	Attacker ecs.Entity
	Target   ecs.Entity
	Damage   float64
	Pos      cp.Vector
}

// CombatEventHandler handles combat events.
type CombatEventHandler func(evt CombatEvent)

// CombatEventEmitter fans combat events out to handlers.
type CombatEventEmitter struct {
	Handlers []CombatEventHandler
}

// Subscribe registers a handler.
func (e *CombatEventEmitter) Subscribe(h CombatEventHandler) {
	if e == nil || h == nil {
		return
	}
	e.Handlers = append(e.Handlers, h)
}

// Emit sends a combat event to all handlers.
func (e *CombatEventEmitter) Emit(evt CombatEvent) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}

// RemovalEvent tells the presentation layer a target is gone.
type RemovalEvent struct {
	Entity ecs.Entity
	Pos    cp.Vector
}
