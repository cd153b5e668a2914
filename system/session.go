package system

import (
	"log"

	"github.com/milk9111/survivors/component"
	"github.com/milk9111/survivors/prefabs"
)

// Session drives the game states around a World: a run is bootstrapped from
// the menu, ticked while playing and torn down when the player dies.
type Session struct {
	spec   prefabs.GameSpec
	world  *World
	states *StateMachine
	last   Stats
	// removals of a torn-down world not yet drained
	pending []component.RemovalEvent

	// AutoStart skips the menu.
	AutoStart bool
	// OnRunStart is called with the fresh world before its first tick.
	OnRunStart func(w *World)
	// OnRunEnd receives the final stats of a finished run.
	OnRunEnd func(s Stats)
}

func NewSession(spec prefabs.GameSpec) *Session {
	s := &Session{spec: spec, states: NewStateMachine(StateLoading)}
	s.states.On(StateBootstrapping, StateHooks{OnEnter: s.bootstrap})
	s.states.On(StatePlaying, StateHooks{OnExit: s.teardown})
	return s
}

func (s *Session) bootstrap() {
	w, err := NewWorld(s.spec)
	if err != nil {
		log.Printf("[Session] failed to build world: %v", err)
		s.states.Set(StateMenu)
		return
	}
	w.Bootstrap()
	s.world = w
	if s.OnRunStart != nil {
		s.OnRunStart(w)
	}
	s.states.Set(StatePlaying)
}

func (s *Session) teardown() {
	if s.world == nil {
		return
	}
	s.last = s.world.Stats()
	s.pending = append(s.pending, s.world.DrainRemovals()...)
	if s.OnRunEnd != nil {
		s.OnRunEnd(s.last)
	}
	s.world.Reset()
	s.world = nil
}

// Update advances the current state by dt and applies any transition it
// requested.
func (s *Session) Update(in Input, dt float64) {
	switch s.states.Current() {
	case StateLoading:
		s.states.Set(StateMenu)
	case StateMenu:
		if s.AutoStart {
			s.states.Set(StateBootstrapping)
		}
	case StatePlaying:
		if s.world != nil {
			s.world.Tick(in, dt)
			if s.world.Over() {
				s.states.Set(StateMenu)
			}
		}
	}
	s.states.Apply()
}

// Start leaves the menu for a new run.
func (s *Session) Start() {
	if s.states.Current() == StateMenu {
		s.states.Set(StateBootstrapping)
	}
}

// Quit abandons the current run.
func (s *Session) Quit() {
	if s.states.Current() == StatePlaying {
		s.states.Set(StateMenu)
	}
}

// ApplySpec swaps the tuning for future runs and the live world.
func (s *Session) ApplySpec(spec prefabs.GameSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if s.world != nil {
		if err := s.world.ApplySpec(spec); err != nil {
			return err
		}
	}
	s.spec = spec
	return nil
}

// Spec is the tuning the next run starts with.
func (s *Session) Spec() prefabs.GameSpec {
	return s.spec
}

func (s *Session) State() GameState {
	return s.states.Current()
}

// World is nil outside of a run.
func (s *Session) World() *World {
	return s.world
}

// DrainRemovals returns the targets removed since the last call, including
// those of the final tick of a run that has already been torn down.
func (s *Session) DrainRemovals() []component.RemovalEvent {
	out := s.pending
	s.pending = nil
	if s.world != nil {
		out = append(out, s.world.DrainRemovals()...)
	}
	return out
}

// LastRun returns the stats of the most recently finished run.
func (s *Session) LastRun() Stats {
	return s.last
}
