package system

import (
	"log"
)

// GameState is the top-level mode of the game.
type GameState int

const (
	StateLoading GameState = iota
	StateMenu
	StateBootstrapping
	StatePlaying
)

func (s GameState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateMenu:
		return "menu"
	case StateBootstrapping:
		return "bootstrapping"
	case StatePlaying:
		return "playing"
	}
	return "unknown"
}

// StateHooks run when a state is entered or left.
type StateHooks struct {
	OnEnter func()
	OnExit  func()
}

// StateMachine applies requested transitions at a well-defined point so a
// state change never happens in the middle of an update.
type StateMachine struct {
	current GameState
	next    GameState
	pending bool
	hooks   map[GameState]StateHooks
}

func NewStateMachine(initial GameState) *StateMachine {
	return &StateMachine{current: initial, hooks: map[GameState]StateHooks{}}
}

func (m *StateMachine) On(s GameState, hooks StateHooks) {
	m.hooks[s] = hooks
}

func (m *StateMachine) Current() GameState {
	return m.current
}

// Set requests a transition applied by the next Apply.
func (m *StateMachine) Set(s GameState) {
	m.next = s
	m.pending = true
}

// Apply performs the pending transition, if any, running the exit hook of
// the old state and the enter hook of the new one.
func (m *StateMachine) Apply() bool {
	if !m.pending {
		return false
	}
	m.pending = false
	prev := m.current
	if prev == m.next {
		return false
	}
	if h := m.hooks[prev]; h.OnExit != nil {
		h.OnExit()
	}
	m.current = m.next
	log.Printf("[State] %s -> %s", prev, m.current)
	if h := m.hooks[m.current]; h.OnEnter != nil {
		h.OnEnter()
	}
	return true
}
